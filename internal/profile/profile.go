// Package profile holds the job and candidate structures consumed by the
// matching engine, along with decoding and validation at the input boundary.
package profile

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidJob       = errors.New("invalid job")
	ErrInvalidCandidate = errors.New("invalid candidate")
)

// RequiredLanguage is the language a job demands from the candidate.
type RequiredLanguage string

const (
	RequireDE      RequiredLanguage = "DE"
	RequireEN      RequiredLanguage = "EN"
	RequireBoth    RequiredLanguage = "BOTH"
	RequireUnknown RequiredLanguage = "UNKNOWN"
)

// ParseRequiredLanguage is case-insensitive; anything unrecognized is UNKNOWN.
func ParseRequiredLanguage(s string) RequiredLanguage {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DE", "GERMAN", "DEUTSCH":
		return RequireDE
	case "EN", "ENGLISH", "ENGLISCH":
		return RequireEN
	case "BOTH", "DE+EN", "EN+DE":
		return RequireBoth
	default:
		return RequireUnknown
	}
}

// ContentLanguage is the language a job posting is written in.
type ContentLanguage string

const (
	ContentDE      ContentLanguage = "DE"
	ContentEN      ContentLanguage = "EN"
	ContentUnknown ContentLanguage = "UNKNOWN"
)

func ParseContentLanguage(s string) ContentLanguage {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DE", "GERMAN", "DEUTSCH":
		return ContentDE
	case "EN", "ENGLISH":
		return ContentEN
	default:
		return ContentUnknown
	}
}

// JobRequirement is an already-parsed job posting. The engine never mutates it.
type JobRequirement struct {
	ID               string           `json:"id" yaml:"id" mapstructure:"id"`
	Title            string           `json:"title,omitempty" yaml:"title,omitempty" mapstructure:"title"`
	Company          string           `json:"company,omitempty" yaml:"company,omitempty" mapstructure:"company"`
	Skills           []string         `json:"skills" yaml:"skills" mapstructure:"skills" validate:"required"`
	Tools            []string         `json:"tools,omitempty" yaml:"tools,omitempty" mapstructure:"tools"`
	LanguageRequired RequiredLanguage `json:"language_required" yaml:"language_required" mapstructure:"language_required" validate:"omitempty,oneof=DE EN BOTH UNKNOWN"`
	City             *string          `json:"city,omitempty" yaml:"city,omitempty" mapstructure:"city"`
	RemoteAllowed    bool             `json:"remote_allowed" yaml:"remote_allowed" mapstructure:"remote_allowed"`
	HybridAllowed    bool             `json:"hybrid_allowed" yaml:"hybrid_allowed" mapstructure:"hybrid_allowed"`
	ContentLanguage  ContentLanguage  `json:"content_language" yaml:"content_language" mapstructure:"content_language" validate:"omitempty,oneof=DE EN UNKNOWN"`
}

// CityName returns the job city or an empty string.
func (j JobRequirement) CityName() string {
	if j.City == nil {
		return ""
	}
	return strings.TrimSpace(*j.City)
}

// Label is used in logs and menus.
func (j JobRequirement) Label() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{j.Title, j.Company, j.CityName()} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return j.ID
	}
	return fmt.Sprintf("%s %s", j.ID, strings.Join(parts, " / "))
}

// CandidateProfile is an already-parsed candidate.
type CandidateProfile struct {
	Name          string          `json:"name,omitempty" yaml:"name,omitempty"`
	Skills        []string        `json:"skills" yaml:"skills"`
	Tools         []string        `json:"tools" yaml:"tools"`
	Languages     []LanguageSkill `json:"languages" yaml:"languages" validate:"dive"`
	Location      *string         `json:"location,omitempty" yaml:"location,omitempty"`
	WillingRemote bool            `json:"willing_remote" yaml:"willing_remote"`
	WillingHybrid bool            `json:"willing_hybrid" yaml:"willing_hybrid"`
}

// LocationName returns the candidate location or an empty string.
func (c CandidateProfile) LocationName() string {
	if c.Location == nil {
		return ""
	}
	return strings.TrimSpace(*c.Location)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate reports whether the job is usable by the engine.
func (j JobRequirement) Validate() error {
	if err := validatorInstance().Struct(j); err != nil {
		return fmt.Errorf("%w %q: %s", ErrInvalidJob, j.ID, describe(err))
	}
	return nil
}

// Validate reports whether the candidate is usable by the engine.
func (c CandidateProfile) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidCandidate, describe(err))
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
