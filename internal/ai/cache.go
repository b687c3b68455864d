package ai

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

type embedCache struct {
	base  Embedder
	cache *lru.Cache[string, []float32]
}

// NewEmbedCache wraps base with a per-text vector cache holding up to
// capacity entries. If capacity <= 0 or base is nil, base is returned as is.
func NewEmbedCache(base Embedder, capacity int) Embedder {
	if capacity <= 0 || base == nil {
		return base
	}
	cache, err := lru.New[string, []float32](capacity)
	if err != nil {
		return base
	}
	return &embedCache{base: base, cache: cache}
}

func (c *embedCache) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	missIdx := make([]int, 0, len(texts))
	missTexts := make([]string, 0, len(texts))

	for i, text := range texts {
		if vec, ok := c.cache.Get(text); ok {
			out[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := c.base.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("embed %d texts: got %d vectors: %w", len(missTexts), len(vecs), ErrCountMismatch)
	}

	for j, idx := range missIdx {
		out[idx] = vecs[j]
		c.cache.Add(missTexts[j], vecs[j])
	}

	return out, nil
}
