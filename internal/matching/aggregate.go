package matching

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidWeights = errors.New("invalid weights")

const weightTolerance = 1e-9

// Weights are the shares of each component in the total score.
type Weights struct {
	Skills   float64 `json:"skills" yaml:"skills" mapstructure:"skills"`
	Tools    float64 `json:"tools" yaml:"tools" mapstructure:"tools"`
	Language float64 `json:"language" yaml:"language" mapstructure:"language"`
	Location float64 `json:"location" yaml:"location" mapstructure:"location"`
}

var (
	LexicalWeights  = Weights{Skills: 0.55, Tools: 0.20, Language: 0.15, Location: 0.10}
	SemanticWeights = Weights{Skills: 0.60, Tools: 0.15, Language: 0.15, Location: 0.10}
)

// DefaultWeights returns the preset for mode.
func DefaultWeights(mode Mode) Weights {
	if mode == ModeSemantic {
		return SemanticWeights
	}
	return LexicalWeights
}

func (w Weights) Sum() float64 {
	return w.Skills + w.Tools + w.Language + w.Location
}

func (w Weights) IsZero() bool {
	return w == Weights{}
}

// Validate requires non-negative weights summing to 1.
func (w Weights) Validate() error {
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"skills", w.Skills},
		{"tools", w.Tools},
		{"language", w.Language},
		{"location", w.Location},
	} {
		if c.value < 0 || math.IsNaN(c.value) {
			return fmt.Errorf("%w: %s weight is %v", ErrInvalidWeights, c.name, c.value)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %v, want 1", ErrInvalidWeights, sum)
	}
	return nil
}

// Aggregate combines the component scores into a MatchResult with an integer
// total in [0,100].
func Aggregate(skills, tools, language, location ComponentScore, w Weights) MatchResult {
	weighted := skills.Score*w.Skills +
		tools.Score*w.Tools +
		language.Score*w.Language +
		location.Score*w.Location

	total := int(math.Round(100 * weighted))
	switch {
	case total < 0:
		total = 0
	case total > 100:
		total = 100
	}

	return MatchResult{
		Skills:     skills,
		Tools:      tools,
		Language:   language,
		Location:   location,
		TotalScore: total,
		Weights:    w,
	}
}
