package profile

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Input is the content of a matching input file: one candidate and the jobs
// to score against it.
type Input struct {
	Candidate CandidateProfile
	Jobs      []JobRequirement
	// Problems lists jobs that could not be decoded. They are still present
	// in Jobs without skills so the batch reports them as fallbacks.
	Problems []error
}

// toolCategories are skill categories that hold tools rather than skills.
var toolCategories = map[string]bool{
	"tools":  true,
	"design": true,
}

type rawCandidate struct {
	Name          string  `mapstructure:"name"`
	Skills        any     `mapstructure:"skills"`
	Tools         any     `mapstructure:"tools"`
	Languages     any     `mapstructure:"languages"`
	Location      *string `mapstructure:"location"`
	City          *string `mapstructure:"city"`
	WillingRemote *bool   `mapstructure:"willing_remote"`
	WillingHybrid *bool   `mapstructure:"willing_hybrid"`
}

// LoadFile reads a YAML or JSON input file.
func LoadFile(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input %q: %w", path, err)
	}

	var doc struct {
		Candidate any   `yaml:"candidate"`
		Jobs      []any `yaml:"jobs"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse input %q: %w", path, err)
	}

	candidate, err := DecodeCandidate(doc.Candidate)
	if err != nil {
		return nil, err
	}

	in := &Input{Candidate: candidate, Jobs: make([]JobRequirement, 0, len(doc.Jobs))}
	for i, raw := range doc.Jobs {
		job, err := DecodeJob(raw)
		if err != nil {
			in.Problems = append(in.Problems, fmt.Errorf("job #%d: %w", i+1, err))
		}
		in.Jobs = append(in.Jobs, job)
	}

	return in, nil
}

// DecodeJob converts a loosely typed job (as read from YAML/JSON) into a
// JobRequirement. On failure the returned job keeps its id and has no skills.
func DecodeJob(raw any) (JobRequirement, error) {
	var job JobRequirement

	m, ok := raw.(map[string]any)
	if !ok {
		job.ID = uuid.NewString()
		return job, fmt.Errorf("%w: expected an object, got %T", ErrInvalidJob, raw)
	}

	cfg := &mapstructure.DecoderConfig{
		DecodeHook:       enumHook,
		WeaklyTypedInput: true,
		Result:           &job,
		TagName:          "mapstructure",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return job, err
	}

	if err := decoder.Decode(m); err != nil {
		id := fmt.Sprintf("%v", m["id"])
		if m["id"] == nil {
			id = uuid.NewString()
		}
		return JobRequirement{ID: id}, fmt.Errorf("%w %q: %s", ErrInvalidJob, id, err)
	}

	if strings.TrimSpace(job.ID) == "" {
		job.ID = uuid.NewString()
	}
	if job.LanguageRequired == "" {
		job.LanguageRequired = RequireUnknown
	}
	if job.ContentLanguage == "" {
		job.ContentLanguage = ContentUnknown
	}

	return job, nil
}

// DecodeCandidate converts a loosely typed candidate into a CandidateProfile.
// Skills may be a flat list or a map of category to list; the "tools" and
// "design" categories count as tools. Remote and hybrid willingness default
// to true when absent.
func DecodeCandidate(raw any) (CandidateProfile, error) {
	var rc rawCandidate
	if err := mapstructure.Decode(raw, &rc); err != nil {
		return CandidateProfile{}, fmt.Errorf("%w: %s", ErrInvalidCandidate, err)
	}

	c := CandidateProfile{
		Name:          rc.Name,
		Languages:     DecodeLanguages(rc.Languages),
		Location:      rc.Location,
		WillingRemote: true,
		WillingHybrid: true,
	}
	if c.Location == nil {
		c.Location = rc.City
	}
	if rc.WillingRemote != nil {
		c.WillingRemote = *rc.WillingRemote
	}
	if rc.WillingHybrid != nil {
		c.WillingHybrid = *rc.WillingHybrid
	}

	switch skills := rc.Skills.(type) {
	case map[string]any:
		for category, list := range skills {
			if toolCategories[strings.ToLower(category)] {
				c.Tools = append(c.Tools, stringList(list)...)
				continue
			}
			c.Skills = append(c.Skills, stringList(list)...)
		}
	default:
		c.Skills = stringList(skills)
	}
	c.Tools = append(c.Tools, stringList(rc.Tools)...)

	if err := c.Validate(); err != nil {
		return CandidateProfile{}, err
	}
	return c, nil
}

func stringList(raw any) []string {
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func enumHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}

	switch to {
	case reflect.TypeOf(RequiredLanguage("")):
		return ParseRequiredLanguage(data.(string)), nil
	case reflect.TypeOf(ContentLanguage("")):
		return ParseContentLanguage(data.(string)), nil
	}
	return data, nil
}
