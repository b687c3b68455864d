package matching

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/normalize"
	"github.com/spigell/jobfit/internal/profile"
	"github.com/spigell/jobfit/internal/similarity"
)

// SimilarityEngine compares canonical candidate tokens with canonical job
// tokens.
type SimilarityEngine interface {
	Compare(ctx context.Context, candidate, job []string) ComponentScore
	Mode() Mode
}

// LexicalEngine scores token sets by Jaccard similarity.
type LexicalEngine struct{}

func (LexicalEngine) Mode() Mode { return ModeLexical }

func (LexicalEngine) Compare(_ context.Context, candidate, job []string) ComponentScore {
	r := similarity.Jaccard(candidate, job)
	return ComponentScore{
		Score:       r.Score,
		Matched:     r.Matched,
		Missing:     r.Missing,
		Explanation: fmt.Sprintf("%d of %d matched, %d of %d combined", len(r.Matched), len(r.Matched)+len(r.Missing), len(r.Intersection), len(r.Union)),
	}
}

// SemanticEngine scores token lists by greedy embedding similarity.
type SemanticEngine struct {
	semantic *similarity.Semantic
}

func NewSemanticEngine(s *similarity.Semantic) *SemanticEngine {
	if s == nil {
		s = similarity.NewSemantic(similarity.SemanticOptions{})
	}
	return &SemanticEngine{semantic: s}
}

func (e *SemanticEngine) Mode() Mode { return ModeSemantic }

// Compare reports the consumed job tokens as Matched, so Matched and Missing
// partition the job tokens. The accepted pairs are kept in Pairs.
func (e *SemanticEngine) Compare(ctx context.Context, candidate, job []string) ComponentScore {
	r := e.semantic.Match(ctx, candidate, job)

	matched := make([]string, 0, len(r.Matched))
	for _, p := range r.Matched {
		matched = append(matched, p.JobSkill)
	}
	sort.Strings(matched)

	return ComponentScore{
		Score:       r.Score,
		Matched:     matched,
		Missing:     r.Missing,
		Pairs:       r.Matched,
		Explanation: fmt.Sprintf("%d of %d covered (%.0f%%)", len(r.Matched), len(job), r.Coverage*100),
	}
}

// Options configure a Matcher. Zero values select defaults.
type Options struct {
	Mode Mode
	// Weights override the preset of Mode.
	Weights    Weights
	Normalizer *normalize.Normalizer
	// Semantic is used in semantic mode.
	Semantic *similarity.Semantic
	Logger   *zap.Logger
}

// Matcher scores one candidate against one job.
type Matcher struct {
	mode       Mode
	engine     SimilarityEngine
	normalizer *normalize.Normalizer
	weights    Weights
	logger     *zap.Logger
}

// New rejects unknown modes and invalid weights.
func New(opts Options) (*Matcher, error) {
	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}

	weights := opts.Weights
	if weights.IsZero() {
		weights = DefaultWeights(mode)
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	m := &Matcher{
		mode:       mode,
		normalizer: opts.Normalizer,
		weights:    weights,
		logger:     opts.Logger,
	}

	if m.normalizer == nil {
		m.normalizer = normalize.New(normalize.Options{Logger: opts.Logger})
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}

	switch mode {
	case ModeSemantic:
		m.engine = NewSemanticEngine(opts.Semantic)
	default:
		m.engine = LexicalEngine{}
	}

	return m, nil
}

func (m *Matcher) Mode() Mode       { return m.mode }
func (m *Matcher) Weights() Weights { return m.weights }

// Match validates the job and scores the candidate against it.
func (m *Matcher) Match(ctx context.Context, job profile.JobRequirement, candidate profile.CandidateProfile) (MatchResult, error) {
	if err := job.Validate(); err != nil {
		return MatchResult{}, err
	}
	if err := candidate.Validate(); err != nil {
		return MatchResult{}, err
	}
	return m.score(ctx, job, m.prepare(ctx, candidate)), nil
}

// preparedCandidate holds the candidate with its tokens normalized once.
type preparedCandidate struct {
	profile profile.CandidateProfile
	skills  []string
	tools   []string
}

func (m *Matcher) prepare(ctx context.Context, candidate profile.CandidateProfile) preparedCandidate {
	return preparedCandidate{
		profile: candidate,
		skills:  m.normalizer.Normalize(ctx, candidate.Skills, profile.ContentEN),
		tools:   m.normalizer.Normalize(ctx, candidate.Tools, profile.ContentEN),
	}
}

func (m *Matcher) score(ctx context.Context, job profile.JobRequirement, c preparedCandidate) MatchResult {
	jobSkills := m.normalizer.Normalize(ctx, job.Skills, job.ContentLanguage)
	jobTools := m.normalizer.Normalize(ctx, job.Tools, job.ContentLanguage)

	skills := m.engine.Compare(ctx, c.skills, jobSkills)
	tools := m.engine.Compare(ctx, c.tools, jobTools)
	language := LanguageFit(job.LanguageRequired, c.profile.Languages)
	location := LocationFit(LocationInput{
		JobCity:       job.CityName(),
		RemoteAllowed: job.RemoteAllowed,
		HybridAllowed: job.HybridAllowed,
		CandidateCity: c.profile.LocationName(),
		WillingRemote: c.profile.WillingRemote,
		WillingHybrid: c.profile.WillingHybrid,
	})

	result := Aggregate(skills, tools, language, location, m.weights)
	result.Mode = m.mode

	m.logger.Debug("job scored",
		zap.String("job", job.ID),
		zap.Strings("job_skills", jobSkills),
		zap.Strings("candidate_languages", describeLanguages(c.profile.Languages)),
		zap.Float64("skills", skills.Score),
		zap.Float64("tools", tools.Score),
		zap.Float64("language", language.Score),
		zap.Float64("location", location.Score),
		zap.Int("total", result.TotalScore),
	)

	return result
}
