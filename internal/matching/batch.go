package matching

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/jobfit/internal/metrics"
	"github.com/spigell/jobfit/internal/profile"
)

const DefaultConcurrency = 4

// BatchOptions configure a Batch. Zero values select defaults.
type BatchOptions struct {
	Concurrency int
	// FallbackScore is assigned to jobs that could not be scored. It is
	// clamped to [0,100].
	FallbackScore int
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
}

// Batch scores one candidate against many jobs.
type Batch struct {
	matcher       *Matcher
	concurrency   int
	fallbackScore int
	logger        *zap.Logger
	metrics       *metrics.Metrics
}

func NewBatch(matcher *Matcher, opts BatchOptions) *Batch {
	b := &Batch{
		matcher:       matcher,
		concurrency:   opts.Concurrency,
		fallbackScore: opts.FallbackScore,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
	}

	if b.concurrency <= 0 {
		b.concurrency = DefaultConcurrency
	}
	switch {
	case b.fallbackScore < 0:
		b.fallbackScore = 0
	case b.fallbackScore > 100:
		b.fallbackScore = 100
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}

	return b
}

// MatchAll returns one RankedJob per job, sorted by score descending with
// ties in input order. A job that fails validation or panics while being
// scored is kept with Fallback set. Cancelling ctx returns ctx.Err() and no
// results.
func (b *Batch) MatchAll(ctx context.Context, jobs []profile.JobRequirement, candidate profile.CandidateProfile) ([]RankedJob, error) {
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger.With(zap.String("run", uuid.NewString()), zap.String("mode", string(b.matcher.Mode())))
	started := time.Now()

	prepared := b.matcher.prepare(ctx, candidate)
	results := make([]RankedJob, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.rank(gctx, jobs[i], prepared, logger)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(a, c int) bool {
		return results[a].Score > results[c].Score
	})

	fallbacks := 0
	for _, r := range results {
		if r.Fallback {
			fallbacks++
		}
	}
	logger.Info("batch matched",
		zap.Int("jobs", len(jobs)),
		zap.Int("fallbacks", fallbacks),
		zap.Duration("took", time.Since(started)),
	)

	return results, nil
}

func (b *Batch) rank(ctx context.Context, job profile.JobRequirement, c preparedCandidate, logger *zap.Logger) (ranked RankedJob) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("job scoring panicked", zap.String("job", job.ID), zap.ByteString("stack", debug.Stack()))
			ranked = b.fallback(job, fmt.Errorf("scoring panicked: %v", r), logger)
		}
	}()

	if err := job.Validate(); err != nil {
		return b.fallback(job, err, logger)
	}

	result := b.matcher.score(ctx, job, c)
	b.metrics.JobMatched(string(result.Mode), result.TotalScore)

	return RankedJob{Job: job, Match: &result, Score: result.TotalScore}
}

func (b *Batch) fallback(job profile.JobRequirement, err error, logger *zap.Logger) RankedJob {
	logger.Warn("job could not be scored, using fallback score",
		zap.String("job", job.ID),
		zap.Int("score", b.fallbackScore),
		zap.Error(err),
	)
	b.metrics.JobFallback()

	return RankedJob{
		Job:      job,
		Score:    b.fallbackScore,
		Fallback: true,
		Error:    err.Error(),
	}
}
