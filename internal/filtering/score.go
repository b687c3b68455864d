package filtering

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spigell/jobfit/internal/matching"
)

const MinScoreFilterName = "min_score"

// minScore drops jobs whose total score is below the threshold.
type minScore struct {
	toggle
	threshold int
}

func NewMinScore(threshold int) Filter {
	f := &minScore{threshold: threshold}
	if threshold <= 0 {
		f.Disable(notConfigured)
	}
	return f
}

func (f *minScore) Name() string { return MinScoreFilterName }

func (f *minScore) Validate() error {
	if f.threshold < 0 || f.threshold > 100 {
		return fmt.Errorf("minimum score must be within 0..100, got %d", f.threshold)
	}
	return nil
}

func (f *minScore) Apply(_ context.Context, r *Results) (*Results, Step, error) {
	initial := r.Len()
	dropped := r.Keep(func(item matching.RankedJob) bool {
		return item.Score >= f.threshold
	})
	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *minScore) Status() Status {
	return f.status(f.Name(), map[string]string{"threshold": strconv.Itoa(f.threshold)})
}

const ExcludeFallbackFilterName = "exclude_fallback"

// excludeFallback drops jobs that could not be scored.
type excludeFallback struct {
	toggle
}

func NewExcludeFallback(enabled bool) Filter {
	f := &excludeFallback{}
	if !enabled {
		f.Disable(notConfigured)
	}
	return f
}

func (f *excludeFallback) Name() string { return ExcludeFallbackFilterName }

func (f *excludeFallback) Validate() error { return nil }

func (f *excludeFallback) Apply(_ context.Context, r *Results) (*Results, Step, error) {
	initial := r.Len()
	dropped := r.Keep(func(item matching.RankedJob) bool {
		return !item.Fallback
	})
	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *excludeFallback) Status() Status {
	return f.status(f.Name(), nil)
}
