package similarity

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/ai"
	"github.com/spigell/jobfit/internal/metrics"
)

const (
	DefaultThreshold      = 0.5
	DefaultCoverageWeight = 0.7
)

// Pair is one accepted candidate-to-job skill assignment.
type Pair struct {
	CandidateSkill string  `json:"candidate_skill" yaml:"candidate_skill"`
	JobSkill       string  `json:"job_skill" yaml:"job_skill"`
	Similarity     float64 `json:"similarity" yaml:"similarity"`
}

// SemanticResult is the outcome of a greedy semantic match.
type SemanticResult struct {
	Score    float64
	Matched  []Pair
	Missing  []string
	Coverage float64
}

// SemanticOptions configure Semantic. Zero values select defaults; a nil
// Embedder makes every pair use the string heuristic.
type SemanticOptions struct {
	Embedder ai.Embedder
	Cache    *Cache
	// Threshold is the similarity a pair must exceed to be accepted.
	Threshold float64
	// CoverageWeight is the share of the score taken by coverage; the rest
	// comes from the mean similarity of accepted pairs.
	CoverageWeight float64
	CallTimeout    time.Duration
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
}

// Semantic scores skill lists by pairwise embedding similarity. It is safe
// for concurrent use as long as the embedder is.
type Semantic struct {
	embedder       ai.Embedder
	cache          *Cache
	threshold      float64
	coverageWeight float64
	callTimeout    time.Duration
	logger         *zap.Logger
	metrics        *metrics.Metrics
}

func NewSemantic(opts SemanticOptions) *Semantic {
	s := &Semantic{
		embedder:       opts.Embedder,
		cache:          opts.Cache,
		threshold:      opts.Threshold,
		coverageWeight: opts.CoverageWeight,
		callTimeout:    opts.CallTimeout,
		logger:         opts.Logger,
		metrics:        opts.Metrics,
	}

	if s.cache == nil {
		s.cache = NewCache(DefaultCacheSize)
	}
	if s.threshold <= 0 || s.threshold >= 1 {
		s.threshold = DefaultThreshold
	}
	if s.coverageWeight <= 0 || s.coverageWeight > 1 {
		s.coverageWeight = DefaultCoverageWeight
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	return s
}

func (s *Semantic) Threshold() float64      { return s.threshold }
func (s *Semantic) CoverageWeight() float64 { return s.coverageWeight }

// Match assigns each candidate skill, in order, to its most similar job skill
// not yet taken, provided the similarity exceeds the threshold. Ties keep the
// first job skill seen.
func (s *Semantic) Match(ctx context.Context, candidate, job []string) SemanticResult {
	if len(candidate) == 0 || len(job) == 0 {
		missing := append([]string{}, job...)
		return SemanticResult{Matched: []Pair{}, Missing: missing}
	}

	taken := make([]bool, len(job))
	matched := make([]Pair, 0, len(job))
	var total float64

	for _, cs := range candidate {
		best, bestScore := -1, 0.0
		for j, js := range job {
			if taken[j] {
				continue
			}
			sim := s.Similarity(ctx, cs, js)
			if sim > bestScore && sim > s.threshold {
				best, bestScore = j, sim
			}
		}
		if best < 0 {
			continue
		}

		taken[best] = true
		matched = append(matched, Pair{CandidateSkill: cs, JobSkill: job[best], Similarity: bestScore})
		total += bestScore
	}

	missing := make([]string, 0, len(job)-len(matched))
	for j, js := range job {
		if !taken[j] {
			missing = append(missing, js)
		}
	}

	coverage := float64(len(matched)) / float64(len(job))
	var mean float64
	if len(matched) > 0 {
		mean = total / float64(len(matched))
	}

	return SemanticResult{
		Score:    clamp01(s.coverageWeight*coverage + (1-s.coverageWeight)*mean),
		Matched:  matched,
		Missing:  missing,
		Coverage: coverage,
	}
}

// Similarity returns a value in [0,1]. Provider failures fall back to the
// string heuristic and are never returned; only embedding results are cached.
func (s *Semantic) Similarity(ctx context.Context, s1, s2 string) float64 {
	if v, ok := s.cache.Get(s1, s2); ok {
		s.metrics.CacheLookup(true)
		return v
	}
	s.metrics.CacheLookup(false)

	if s.embedder == nil {
		return Heuristic(s1, s2)
	}

	v, err := s.embed(ctx, s1, s2)
	if err != nil {
		s.metrics.ProviderCall("embed", metrics.OutcomeFallback)
		s.logger.Warn("embedding failed, using string heuristic",
			zap.String("a", s1),
			zap.String("b", s2),
			zap.Error(err),
		)
		return Heuristic(s1, s2)
	}

	s.metrics.ProviderCall("embed", metrics.OutcomeOK)
	s.cache.Put(s1, s2, v)
	return v
}

func (s *Semantic) embed(ctx context.Context, s1, s2 string) (float64, error) {
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	vecs, err := s.embedder.Embed(ctx, []string{s1, s2})
	if err != nil {
		return 0, err
	}
	if len(vecs) != 2 {
		return 0, fmt.Errorf("embed pair: got %d vectors: %w", len(vecs), ai.ErrCountMismatch)
	}
	if len(vecs[0]) == 0 || len(vecs[0]) != len(vecs[1]) {
		return 0, fmt.Errorf("embed pair: vector sizes %d and %d: %w", len(vecs[0]), len(vecs[1]), ai.ErrEmptyResponse)
	}

	return Cosine(vecs[0], vecs[1]), nil
}
