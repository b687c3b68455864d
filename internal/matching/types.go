// Package matching scores a candidate against jobs: skills and tools through
// a pluggable similarity engine, plus language and location fit, combined by
// fixed weights into a 0..100 total.
package matching

import (
	"fmt"
	"strings"

	"github.com/spigell/jobfit/internal/profile"
	"github.com/spigell/jobfit/internal/similarity"
)

// Mode selects the similarity engine.
type Mode string

const (
	ModeLexical  Mode = "lexical"
	ModeSemantic Mode = "semantic"
)

// ParseMode accepts "lexical" and "semantic" case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLexical, "":
		return ModeLexical, nil
	case ModeSemantic:
		return ModeSemantic, nil
	default:
		return "", fmt.Errorf("unknown matching mode %q", s)
	}
}

// ComponentScore is the result for one criterion.
type ComponentScore struct {
	Score       float64           `json:"score" yaml:"score"`
	Matched     []string          `json:"matched" yaml:"matched"`
	Missing     []string          `json:"missing" yaml:"missing"`
	Explanation string            `json:"explanation" yaml:"explanation"`
	Pairs       []similarity.Pair `json:"pairs,omitempty" yaml:"pairs,omitempty"`
}

// MatchResult is the full breakdown for one candidate/job pair.
type MatchResult struct {
	Skills     ComponentScore `json:"skills" yaml:"skills"`
	Tools      ComponentScore `json:"tools" yaml:"tools"`
	Language   ComponentScore `json:"language" yaml:"language"`
	Location   ComponentScore `json:"location" yaml:"location"`
	TotalScore int            `json:"total_score" yaml:"total_score"`
	Weights    Weights        `json:"weights" yaml:"weights"`
	Mode       Mode           `json:"mode" yaml:"mode"`
}

// RankedJob is a job together with its match. Match is nil when the job
// could not be scored; Fallback is set and Score holds the fallback score.
type RankedJob struct {
	Job      profile.JobRequirement `json:"job" yaml:"job"`
	Match    *MatchResult           `json:"match" yaml:"match"`
	Score    int                    `json:"score" yaml:"score"`
	Fallback bool                   `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	Error    string                 `json:"error,omitempty" yaml:"error,omitempty"`
}

// MatchedTokens returns the candidate-visible matched skill and tool tokens.
func (r RankedJob) MatchedTokens() []string {
	if r.Match == nil {
		return nil
	}
	out := make([]string, 0, len(r.Match.Skills.Matched)+len(r.Match.Tools.Matched))
	out = append(out, r.Match.Skills.Matched...)
	out = append(out, r.Match.Tools.Matched...)
	return out
}
