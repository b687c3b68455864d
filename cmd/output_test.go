package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/spigell/jobfit/internal/matching"
	"github.com/spigell/jobfit/internal/profile"
)

func results() []matching.RankedJob {
	munich := "Munich"
	return []matching.RankedJob{
		{
			Job:   profile.JobRequirement{ID: "j1", Title: "Backend Engineer", Company: "Acme", City: &munich},
			Score: 82,
			Match: &matching.MatchResult{
				Skills:     matching.ComponentScore{Score: 0.8, Matched: []string{"go"}},
				Language:   matching.ComponentScore{Score: 1, Explanation: "English required, candidate has C1"},
				TotalScore: 82,
				Mode:       matching.ModeLexical,
			},
		},
		{
			Job:      profile.JobRequirement{ID: "j2"},
			Fallback: true,
			Error:    "invalid job",
		},
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{formatTable, formatJSON, formatYAML} {
		assert.NoError(t, validateFormat(f))
	}
	assert.Error(t, validateFormat("csv"))
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResults(&buf, "", formatTable, results()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	assert.Contains(t, lines[1], "Backend Engineer")
	assert.Contains(t, lines[1], "English required, candidate has C1")
	assert.Contains(t, lines[2], "fallback: invalid job")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResults(&buf, "", formatJSON, results()))

	var decoded []matching.RankedJob
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, 82, decoded[0].Match.TotalScore)
	assert.Nil(t, decoded[1].Match)
}

func TestWriteYAMLToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.yaml")

	var buf bytes.Buffer
	require.NoError(t, writeResults(&buf, path, formatYAML, results()))
	assert.Empty(t, buf.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, 82, decoded[0]["score"])
	assert.Equal(t, true, decoded[1]["fallback"])
}

func TestBreakdown(t *testing.T) {
	out, err := breakdown(results()[0])
	require.NoError(t, err)
	assert.Contains(t, out, "total_score: 82")
	assert.Contains(t, out, "mode: lexical")
}

func TestRedacted(t *testing.T) {
	cfg := &Config{AI: &AIConfig{Gemini: &GeminiConfig{APIKey: "secret", Model: "m"}}}

	safe := redacted(cfg)
	assert.Equal(t, "***", safe.AI.Gemini.APIKey)
	assert.Equal(t, "m", safe.AI.Gemini.Model)
	assert.Equal(t, "secret", cfg.AI.Gemini.APIKey)
}
