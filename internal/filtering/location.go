package filtering

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/spigell/jobfit/internal/matching"
)

const (
	LocationsFilterName = "locations"
	WorkModesFilterName = "work_modes"
)

// Work modes accepted by the work_modes filter.
const (
	WorkModeRemote = "remote"
	WorkModeHybrid = "hybrid"
	WorkModeOnsite = "onsite"
)

// locations keeps jobs whose city contains one of the configured names.
type locations struct {
	toggle
	names []string
}

func NewLocations(names []string) Filter {
	names = cleanList(names)
	folded := make([]string, 0, len(names))
	for _, n := range names {
		folded = append(folded, fold(n))
	}

	f := &locations{names: folded}
	if len(folded) == 0 {
		f.Disable(notConfigured)
	}
	return f
}

func (f *locations) Name() string { return LocationsFilterName }

func (f *locations) Validate() error { return nil }

func (f *locations) Apply(_ context.Context, r *Results) (*Results, Step, error) {
	initial := r.Len()
	dropped := r.Keep(func(item matching.RankedJob) bool {
		city := fold(item.Job.CityName())
		if city == "" {
			return false
		}
		for _, name := range f.names {
			if strings.Contains(city, name) {
				return true
			}
		}
		return false
	})
	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *locations) Status() Status {
	return f.status(f.Name(), map[string]string{"locations": strings.Join(f.names, ",")})
}

// workModes keeps jobs offering at least one of the configured modes. A job
// that allows neither remote nor hybrid work is onsite.
type workModes struct {
	toggle
	modes []string
}

func NewWorkModes(modes []string) Filter {
	modes = cleanList(modes)
	for i := range modes {
		modes[i] = strings.ToLower(modes[i])
	}

	f := &workModes{modes: modes}
	if len(modes) == 0 {
		f.Disable(notConfigured)
	}
	return f
}

func (f *workModes) Name() string { return WorkModesFilterName }

func (f *workModes) Validate() error {
	for _, m := range f.modes {
		switch m {
		case WorkModeRemote, WorkModeHybrid, WorkModeOnsite:
		default:
			return fmt.Errorf("unknown work mode %q", m)
		}
	}
	return nil
}

func (f *workModes) Apply(_ context.Context, r *Results) (*Results, Step, error) {
	initial := r.Len()
	dropped := r.Keep(func(item matching.RankedJob) bool {
		for _, m := range f.modes {
			switch m {
			case WorkModeRemote:
				if item.Job.RemoteAllowed {
					return true
				}
			case WorkModeHybrid:
				if item.Job.HybridAllowed {
					return true
				}
			case WorkModeOnsite:
				if !item.Job.RemoteAllowed && !item.Job.HybridAllowed {
					return true
				}
			}
		}
		return false
	})
	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *workModes) Status() Status {
	return f.status(f.Name(), map[string]string{"modes": strings.Join(f.modes, ",")})
}

func fold(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}
