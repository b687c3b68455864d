package similarity

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/jobfit/internal/ai"
)

func TestJaccard(t *testing.T) {
	t.Parallel()

	res := Jaccard([]string{"python", "sql"}, []string{"python", "java", "sql"})
	assert.InDelta(t, 2.0/3.0, res.Score, 1e-9)
	assert.Equal(t, []string{"java"}, res.Missing)
	assert.Equal(t, []string{"python", "sql"}, res.Matched)
	assert.Equal(t, []string{"java", "python", "sql"}, res.Union)
}

func TestJaccardIsSymmetricAndOrderIndependent(t *testing.T) {
	t.Parallel()

	sets := [][]string{
		{},
		{"go"},
		{"Go", "docker", "SQL"},
		{"sql", "kubernetes", "go", "docker"},
		{"rust", "c++"},
	}

	for _, a := range sets {
		for _, b := range sets {
			assert.Equal(t, Jaccard(a, b).Score, Jaccard(b, a).Score, "%v vs %v", a, b)
		}
	}

	forward := Jaccard([]string{"a", "b", "c"}, []string{"c", "d"})
	backward := Jaccard([]string{"c", "b", "a"}, []string{"d", "c"})
	assert.Equal(t, forward, backward)
}

func TestJaccardEmptyUnion(t *testing.T) {
	t.Parallel()

	res := Jaccard(nil, nil)
	assert.Zero(t, res.Score)
	assert.Empty(t, res.Missing)
}

func TestCacheIsSymmetricAndBounded(t *testing.T) {
	t.Parallel()

	c := NewCache(2)
	c.Put("Go", "Golang", 0.9)

	v, ok := c.Get("golang", "GO")
	require.True(t, ok)
	assert.Equal(t, 0.9, v)
	assert.Equal(t, 1, c.Len())

	c.Put("golang", "go", 0.8)
	assert.Equal(t, 1, c.Len())

	c.Put("a", "b", 0.1)
	c.Put("c", "d", 0.2)
	assert.Equal(t, 2, c.Len())
	_, ok = c.Get("go", "golang")
	assert.False(t, ok)
}

func TestHeuristic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b   string
		expect float64
	}{
		{a: "Python", b: "python", expect: 1.0},
		{a: "react", b: "react native", expect: 0.9},
		{a: "js", b: "javascript", expect: 0.95},
		{a: "mysql", b: "mongodb", expect: 0.95},
		{a: "scrum", b: "project management", expect: 0.95},
		{a: "kubernetes", b: "kubernets", expect: 0.9 * 0.6},
		{a: "golang", b: "java", expect: 0},
		{a: "", b: "java", expect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.expect, Heuristic(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.expect, Heuristic(tt.b, tt.a), 1e-9)
		})
	}
}

func TestCosine(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, Cosine([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.Zero(t, Cosine([]float32{1, 0}, []float32{-1, 0}))
	assert.Zero(t, Cosine([]float32{1}, []float32{1, 2}))
	assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 2}))
}

type vectorEmbedder struct {
	vectors map[string][]float32
	calls   atomic.Int32
}

func (v *vectorEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	v.calls.Add(1)
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, ok := v.vectors[text]
		if !ok {
			return nil, errors.New("unknown text " + text)
		}
		out[i] = vec
	}
	return out, nil
}

func TestSemanticMatchGreedy(t *testing.T) {
	t.Parallel()

	embedder := &vectorEmbedder{vectors: map[string][]float32{
		"go":         {1, 0},
		"golang":     {1, 0},
		"rust":       {0, 1},
		"kubernetes": {0.8, 0.6},
		"docker":     {0.6, 0.8},
	}}
	s := NewSemantic(SemanticOptions{Embedder: embedder})

	res := s.Match(context.Background(), []string{"go", "docker"}, []string{"golang", "rust", "kubernetes"})

	require.Len(t, res.Matched, 2)
	assert.Equal(t, Pair{CandidateSkill: "go", JobSkill: "golang", Similarity: 1}, res.Matched[0])
	assert.Equal(t, "kubernetes", res.Matched[1].JobSkill)
	assert.InDelta(t, 0.96, res.Matched[1].Similarity, 1e-6)
	assert.Equal(t, []string{"rust"}, res.Missing)
	assert.InDelta(t, 2.0/3.0, res.Coverage, 1e-9)
	assert.InDelta(t, 0.7*(2.0/3.0)+0.3*0.98, res.Score, 1e-6)

	calls := embedder.calls.Load()
	s.Match(context.Background(), []string{"go", "docker"}, []string{"golang", "rust", "kubernetes"})
	assert.Equal(t, calls, embedder.calls.Load(), "second run must be served from the cache")
}

func TestSemanticMatchTieKeepsFirstJobSkill(t *testing.T) {
	t.Parallel()

	embedder := &vectorEmbedder{vectors: map[string][]float32{
		"x": {1, 1},
		"a": {1, 0.9},
		"b": {1, 0.9},
	}}
	s := NewSemantic(SemanticOptions{Embedder: embedder})

	res := s.Match(context.Background(), []string{"x"}, []string{"a", "b"})
	require.Len(t, res.Matched, 1)
	assert.Equal(t, "a", res.Matched[0].JobSkill)
	assert.Equal(t, []string{"b"}, res.Missing)
}

func TestSemanticMatchFallsBackToHeuristic(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	failing := ai.EmbedderFunc(func(context.Context, []string) ([][]float32, error) {
		return nil, errors.New("provider unavailable")
	})
	cache := NewCache(16)
	s := NewSemantic(SemanticOptions{Embedder: failing, Cache: cache, Logger: zap.New(core)})

	first := s.Match(context.Background(), []string{"js"}, []string{"javascript"})
	second := s.Match(context.Background(), []string{"js"}, []string{"javascript"})

	require.Len(t, first.Matched, 1)
	assert.InDelta(t, 0.95, first.Matched[0].Similarity, 1e-9)
	assert.InDelta(t, 0.7+0.3*0.95, first.Score, 1e-9)
	assert.Equal(t, first, second)
	assert.Zero(t, cache.Len())
	assert.Equal(t, 2, logs.Len())
}

func TestSemanticMatchEmptySides(t *testing.T) {
	t.Parallel()

	s := NewSemantic(SemanticOptions{})

	res := s.Match(context.Background(), nil, []string{"go", "sql"})
	assert.Zero(t, res.Score)
	assert.Equal(t, []string{"go", "sql"}, res.Missing)
	assert.Empty(t, res.Matched)

	res = s.Match(context.Background(), []string{"go"}, nil)
	assert.Zero(t, res.Score)
	assert.Zero(t, res.Coverage)
	assert.Empty(t, res.Missing)
}

func TestSemanticConfigurableParameters(t *testing.T) {
	t.Parallel()

	s := NewSemantic(SemanticOptions{Threshold: 0.92, CoverageWeight: 0.5})
	assert.Equal(t, 0.92, s.Threshold())
	assert.Equal(t, 0.5, s.CoverageWeight())

	res := s.Match(context.Background(), []string{"react", "js"}, []string{"react native", "javascript"})
	require.Len(t, res.Matched, 1)
	assert.Equal(t, "javascript", res.Matched[0].JobSkill)
	assert.InDelta(t, 0.5*0.5+0.5*0.95, res.Score, 1e-9)

	defaults := NewSemantic(SemanticOptions{Threshold: -1, CoverageWeight: 2})
	assert.Equal(t, DefaultThreshold, defaults.Threshold())
	assert.Equal(t, DefaultCoverageWeight, defaults.CoverageWeight())
}

func TestSemanticHonoursCallTimeout(t *testing.T) {
	t.Parallel()

	slow := ai.EmbedderFunc(func(ctx context.Context, _ []string) ([][]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	s := NewSemantic(SemanticOptions{Embedder: slow, CallTimeout: 10 * time.Millisecond})

	start := time.Now()
	assert.InDelta(t, 0.95, s.Similarity(context.Background(), "ts", "typescript"), 1e-9)
	assert.Less(t, time.Since(start), 2*time.Second)
}
