package filtering

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spigell/jobfit/internal/matching"
)

// Results is the ranked list the filters operate on.
type Results struct {
	Items []matching.RankedJob `json:"items"`
}

// ExcludedJobs is the on-disk list of job ids the user does not want to see again.
type ExcludedJobs struct {
	Items []*ExcludedJob `json:"items"`
}

type ExcludedJob struct {
	ID         string    `json:"id"`
	Title      string    `json:"title,omitempty"`
	Company    string    `json:"company,omitempty"`
	ExcludedAt time.Time `json:"excluded_at"`
}

func NewResults(items []matching.RankedJob) *Results {
	return &Results{Items: items}
}

func (r *Results) Len() int {
	return len(r.Items)
}

func (r *Results) FindByID(id string) *matching.RankedJob {
	for i := range r.Items {
		if r.Items[i].Job.ID == id {
			return &r.Items[i]
		}
	}
	return nil
}

// Keep retains the jobs for which keep returns true and returns the ids of
// the dropped ones. Order is preserved.
func (r *Results) Keep(keep func(matching.RankedJob) bool) []string {
	var dropped []string
	kept := r.Items[:0]
	for _, item := range r.Items {
		if keep(item) {
			kept = append(kept, item)
			continue
		}
		dropped = append(dropped, item.Job.ID)
	}
	r.Items = kept
	return dropped
}

func (r *Results) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobfit_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByCompany groups jobs by company for the interactive menu.
func (r *Results) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range r.Items {
		key := item.Job.Company
		if key == "" {
			key = "(unknown company)"
		}
		entry := map[string]string{
			"id":    item.Job.ID,
			"title": item.Job.Title,
			"city":  item.Job.CityName(),
			"score": fmt.Sprintf("%d", item.Score),
		}
		if item.Fallback {
			entry["error"] = item.Error
		}
		report[key] = append(report[key], entry)
	}
	return report
}

func (r *Results) ToExcluded() *ExcludedJobs {
	excluded := &ExcludedJobs{}
	for _, item := range r.Items {
		excluded.Items = append(excluded.Items, &ExcludedJob{
			ID:         item.Job.ID,
			Title:      item.Job.Title,
			Company:    item.Job.Company,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

// LoadExcludedJobs reads an exclude file. A missing or empty file yields an
// empty list.
func LoadExcludedJobs(path string) (*ExcludedJobs, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedJobs{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Size() == 0 {
		return &ExcludedJobs{}, nil
	}

	var excluded ExcludedJobs
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, fmt.Errorf("decode exclude file %q: %w", path, err)
	}
	return &excluded, nil
}

// Append adds entries whose id is not already present.
func (e *ExcludedJobs) Append(other *ExcludedJobs) {
	seen := make(map[string]bool, len(e.Items))
	for _, item := range e.Items {
		seen[item.ID] = true
	}
	for _, item := range other.Items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		e.Items = append(e.Items, item)
	}
}

func (e *ExcludedJobs) IDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func (e *ExcludedJobs) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
