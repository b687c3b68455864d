package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/jobfit/internal/matching"
)

const (
	ExcludeFileFilterName       = "exclude_file"
	ExcludedCompaniesFilterName = "excluded_companies"
)

// excludeFile drops jobs whose id is listed in the exclude file. The file is
// read on Validate so that entries appended from the menu in a previous run
// take effect.
type excludeFile struct {
	toggle
	path string
	ids  map[string]bool
}

func NewExcludeFile(path string) Filter {
	f := &excludeFile{path: strings.TrimSpace(path)}
	if f.path == "" {
		f.Disable(notConfigured)
	}
	return f
}

func (f *excludeFile) Name() string { return ExcludeFileFilterName }

func (f *excludeFile) Validate() error {
	excluded, err := LoadExcludedJobs(f.path)
	if err != nil {
		return fmt.Errorf("load exclude file: %w", err)
	}

	f.ids = make(map[string]bool, len(excluded.Items))
	for _, id := range excluded.IDs() {
		f.ids[id] = true
	}
	return nil
}

func (f *excludeFile) Apply(_ context.Context, r *Results) (*Results, Step, error) {
	initial := r.Len()
	dropped := r.Keep(func(item matching.RankedJob) bool {
		return !f.ids[item.Job.ID]
	})
	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *excludeFile) Status() Status {
	return f.status(f.Name(), map[string]string{
		"path":    f.path,
		"entries": strconv.Itoa(len(f.ids)),
	})
}

// excludedCompanies drops jobs from the listed companies, case-insensitively.
type excludedCompanies struct {
	toggle
	companies map[string]bool
}

func NewExcludedCompanies(companies []string) Filter {
	companies = cleanList(companies)
	f := &excludedCompanies{companies: make(map[string]bool, len(companies))}
	for _, c := range companies {
		f.companies[fold(c)] = true
	}
	if len(f.companies) == 0 {
		f.Disable(notConfigured)
	}
	return f
}

func (f *excludedCompanies) Name() string { return ExcludedCompaniesFilterName }

func (f *excludedCompanies) Validate() error { return nil }

func (f *excludedCompanies) Apply(_ context.Context, r *Results) (*Results, Step, error) {
	initial := r.Len()
	dropped := r.Keep(func(item matching.RankedJob) bool {
		return !f.companies[fold(item.Job.Company)]
	})
	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *excludedCompanies) Status() Status {
	return f.status(f.Name(), map[string]string{"companies": strconv.Itoa(len(f.companies))})
}
