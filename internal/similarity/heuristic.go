package similarity

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	exactScore       = 1.0
	containmentScore = 0.9
	synonymScore     = 0.95

	// editAcceptance is the normalized edit similarity a pair must exceed to
	// count at all; accepted values are scaled by editScale.
	editAcceptance = 0.7
	editScale      = 0.6
)

// synonymGroups maps a canonical term to the spellings considered the same
// skill by the heuristic.
var synonymGroups = map[string][]string{
	"javascript":         {"js", "ecmascript", "node.js", "nodejs"},
	"typescript":         {"ts"},
	"python":             {"py"},
	"react":              {"reactjs", "react.js"},
	"vue":                {"vuejs", "vue.js"},
	"machine learning":   {"ml", "artificial intelligence", "ai"},
	"database":           {"db", "sql", "mysql", "postgresql", "mongodb"},
	"user interface":     {"ui", "frontend"},
	"user experience":    {"ux"},
	"project management": {"pm", "scrum", "agile"},
}

// groupOf maps every spelling to the set of canonical groups it belongs to.
var groupOf = func() map[string][]string {
	out := make(map[string][]string)
	for canonical, spellings := range synonymGroups {
		out[canonical] = append(out[canonical], canonical)
		for _, s := range spellings {
			out[s] = append(out[s], canonical)
		}
	}
	return out
}()

// Heuristic is the deterministic string similarity used when no embedding is
// available: exact 1.0, containment 0.9, shared synonym group 0.95, otherwise
// an edit-distance similarity counted only above 0.7 and scaled by 0.6.
func Heuristic(s1, s2 string) float64 {
	a := strings.ToLower(strings.TrimSpace(s1))
	b := strings.ToLower(strings.TrimSpace(s2))

	if a == b {
		return exactScore
	}
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return containmentScore
	}
	if sameGroup(a, b) {
		return synonymScore
	}

	sim := editSimilarity(a, b)
	if sim > editAcceptance {
		return sim * editScale
	}
	return 0
}

func sameGroup(a, b string) bool {
	for _, ga := range groupOf[a] {
		for _, gb := range groupOf[b] {
			if ga == gb {
				return true
			}
		}
	}
	return false
}

func editSimilarity(a, b string) float64 {
	maxLen := math.Max(float64(utf8.RuneCountInString(a)), float64(utf8.RuneCountInString(b)))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/maxLen
}

// Cosine returns the cosine similarity of two vectors clamped to [0,1].
// Vectors of different length or zero magnitude score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return clamp01(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
