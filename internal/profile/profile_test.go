package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequiredLanguage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RequireDE, ParseRequiredLanguage("de"))
	assert.Equal(t, RequireEN, ParseRequiredLanguage(" English "))
	assert.Equal(t, RequireBoth, ParseRequiredLanguage("both"))
	assert.Equal(t, RequireUnknown, ParseRequiredLanguage(""))
	assert.Equal(t, RequireUnknown, ParseRequiredLanguage("klingon"))
	assert.Equal(t, ContentDE, ParseContentLanguage("DE"))
	assert.Equal(t, ContentUnknown, ParseContentLanguage("fr"))
}

func TestJobValidate(t *testing.T) {
	t.Parallel()

	valid := JobRequirement{ID: "1", Skills: []string{}}
	require.NoError(t, valid.Validate())

	missing := JobRequirement{ID: "2"}
	err := missing.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidJob))

	badEnum := JobRequirement{ID: "3", Skills: []string{"go"}, LanguageRequired: "FR"}
	assert.ErrorIs(t, badEnum.Validate(), ErrInvalidJob)
}

func TestCandidateValidate(t *testing.T) {
	t.Parallel()

	c := CandidateProfile{Languages: []LanguageSkill{{Language: "", Level: LevelB2}}}
	assert.ErrorIs(t, c.Validate(), ErrInvalidCandidate)

	c.Languages[0].Language = "english"
	assert.NoError(t, c.Validate())
}

func TestDecodeJob(t *testing.T) {
	t.Parallel()

	t.Run("full job", func(t *testing.T) {
		t.Parallel()
		job, err := DecodeJob(map[string]any{
			"id":                "42",
			"title":             "Backend Engineer",
			"skills":            []any{"Go", "PostgreSQL"},
			"tools":             []any{"Docker"},
			"language_required": "de",
			"city":              "Berlin",
			"remote_allowed":    true,
			"content_language":  "german",
		})
		require.NoError(t, err)
		assert.Equal(t, "42", job.ID)
		assert.Equal(t, []string{"Go", "PostgreSQL"}, job.Skills)
		assert.Equal(t, RequireDE, job.LanguageRequired)
		assert.Equal(t, ContentDE, job.ContentLanguage)
		assert.Equal(t, "Berlin", job.CityName())
		assert.True(t, job.RemoteAllowed)
		assert.False(t, job.HybridAllowed)
		assert.NoError(t, job.Validate())
	})

	t.Run("numeric id and defaults", func(t *testing.T) {
		t.Parallel()
		job, err := DecodeJob(map[string]any{"id": 7, "skills": []any{}})
		require.NoError(t, err)
		assert.Equal(t, "7", job.ID)
		assert.Equal(t, RequireUnknown, job.LanguageRequired)
		assert.Equal(t, ContentUnknown, job.ContentLanguage)
		assert.Nil(t, job.City)
		assert.NotNil(t, job.Skills)
	})

	t.Run("missing id gets one", func(t *testing.T) {
		t.Parallel()
		job, err := DecodeJob(map[string]any{"skills": []any{"go"}})
		require.NoError(t, err)
		assert.NotEmpty(t, job.ID)
	})

	t.Run("null skills is malformed at validation", func(t *testing.T) {
		t.Parallel()
		job, err := DecodeJob(map[string]any{"id": "x", "skills": nil})
		require.NoError(t, err)
		assert.ErrorIs(t, job.Validate(), ErrInvalidJob)
	})

	t.Run("not an object", func(t *testing.T) {
		t.Parallel()
		job, err := DecodeJob("oops")
		assert.ErrorIs(t, err, ErrInvalidJob)
		assert.NotEmpty(t, job.ID)
		assert.Nil(t, job.Skills)
	})
}

func TestDecodeCandidate(t *testing.T) {
	t.Parallel()

	c, err := DecodeCandidate(map[string]any{
		"name": "Alex",
		"skills": map[string]any{
			"technical": []any{"Go", "Kubernetes"},
			"design":    []any{"Figma"},
		},
		"tools":          []any{"Jira"},
		"languages":      []any{"English (C1)", "German B1"},
		"city":           "München",
		"willing_hybrid": false,
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Go", "Kubernetes"}, c.Skills)
	assert.ElementsMatch(t, []string{"Figma", "Jira"}, c.Tools)
	assert.Equal(t, "München", c.LocationName())
	assert.True(t, c.WillingRemote)
	assert.False(t, c.WillingHybrid)
	assert.Len(t, c.Languages, 2)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "input.yaml")
	content := `candidate:
  skills: [go, python]
  languages: ["English C1"]
  location: Berlin
jobs:
  - id: a
    skills: [go]
    city: Berlin
  - id: b
    skills: 12
  - id: c
    skills: null
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	in, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, in.Jobs, 3)
	assert.Equal(t, []string{"go", "python"}, in.Candidate.Skills)
	assert.Equal(t, "a", in.Jobs[0].ID)
	assert.NoError(t, in.Jobs[0].Validate())
	assert.Error(t, in.Jobs[2].Validate())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
