package ai

import (
	"context"

	"golang.org/x/time/rate"
)

func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

type rateLimitedEmbedder struct {
	base    Embedder
	limiter *rate.Limiter
}

// NewRateLimitedEmbedder allows at most rps calls per second to base. A
// non-positive rps disables limiting.
func NewRateLimitedEmbedder(base Embedder, rps float64, burst int) Embedder {
	limiter := newLimiter(rps, burst)
	if limiter == nil || base == nil {
		return base
	}
	return &rateLimitedEmbedder{base: base, limiter: limiter}
}

func (r *rateLimitedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.base.Embed(ctx, texts)
}

type rateLimitedTranslator struct {
	base    Translator
	limiter *rate.Limiter
}

// NewRateLimitedTranslator allows at most rps calls per second to base. A
// non-positive rps disables limiting.
func NewRateLimitedTranslator(base Translator, rps float64, burst int) Translator {
	limiter := newLimiter(rps, burst)
	if limiter == nil || base == nil {
		return base
	}
	return &rateLimitedTranslator{base: base, limiter: limiter}
}

func (r *rateLimitedTranslator) Translate(ctx context.Context, terms []string) ([]string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.base.Translate(ctx, terms)
}
