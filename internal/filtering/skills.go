package filtering

import (
	"context"
	"errors"
	"strings"

	"github.com/spigell/jobfit/internal/matching"
	"github.com/spigell/jobfit/internal/normalize"
)

const MustHaveSkillsFilterName = "must_have_skills"

// mustHaveSkills keeps jobs where every listed skill was matched.
// Skills are compared in canonical form, so "Golang" matches "go".
type mustHaveSkills struct {
	toggle
	skills []string
}

func NewMustHaveSkills(skills []string) Filter {
	skills = cleanList(skills)
	canonical := make([]string, 0, len(skills))
	for _, s := range skills {
		canonical = append(canonical, normalize.Canonicalize(s)...)
	}

	f := &mustHaveSkills{skills: canonical}
	if len(skills) == 0 {
		f.Disable(notConfigured)
	}
	return f
}

func (f *mustHaveSkills) Name() string { return MustHaveSkillsFilterName }

func (f *mustHaveSkills) Validate() error {
	if len(f.skills) == 0 {
		return errors.New("no usable skills after normalization")
	}
	return nil
}

func (f *mustHaveSkills) Apply(_ context.Context, r *Results) (*Results, Step, error) {
	initial := r.Len()
	dropped := r.Keep(func(item matching.RankedJob) bool {
		matched := make(map[string]bool)
		for _, token := range item.MatchedTokens() {
			matched[strings.ToLower(token)] = true
		}
		for _, skill := range f.skills {
			if !matched[skill] {
				return false
			}
		}
		return true
	})
	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *mustHaveSkills) Status() Status {
	return f.status(f.Name(), map[string]string{"skills": strings.Join(f.skills, ",")})
}
