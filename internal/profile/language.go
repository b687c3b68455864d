package profile

import (
	"fmt"
	"regexp"
	"strings"
)

// ProficiencyLevel is a CEFR-like level. The zero value is LevelUnknown and
// sorts below A1.
type ProficiencyLevel int

const (
	LevelUnknown ProficiencyLevel = iota
	LevelA1
	LevelA2
	LevelB1
	LevelB2
	LevelC1
	LevelC2
	LevelNative
)

// DefaultLevel is assumed when a language is listed without a level.
const DefaultLevel = LevelB2

var levelNames = map[ProficiencyLevel]string{
	LevelUnknown: "unknown",
	LevelA1:      "A1",
	LevelA2:      "A2",
	LevelB1:      "B1",
	LevelB2:      "B2",
	LevelC1:      "C1",
	LevelC2:      "C2",
	LevelNative:  "NATIVE",
}

func (l ProficiencyLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// AtLeast reports whether l meets the minimum level.
func (l ProficiencyLevel) AtLeast(minimum ProficiencyLevel) bool {
	return l != LevelUnknown && l >= minimum
}

func (l ProficiencyLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *ProficiencyLevel) UnmarshalText(text []byte) error {
	level, ok := ParseLevel(string(text))
	if !ok {
		return fmt.Errorf("unknown proficiency level %q", string(text))
	}
	*l = level
	return nil
}

// ParseLevel parses CEFR codes and the textual levels used in resumes.
// "native" and "fluent" map to C2, "advanced" to C1, "intermediate" to B2
// and "basic" to B1.
func ParseLevel(s string) (ProficiencyLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a1":
		return LevelA1, true
	case "a2":
		return LevelA2, true
	case "b1", "basic":
		return LevelB1, true
	case "b2", "intermediate":
		return LevelB2, true
	case "c1", "advanced":
		return LevelC1, true
	case "c2", "native", "fluent":
		return LevelC2, true
	default:
		return LevelUnknown, false
	}
}

// LanguageSkill is a language the candidate speaks at a given level.
type LanguageSkill struct {
	Language string           `json:"language" yaml:"language" validate:"required"`
	Level    ProficiencyLevel `json:"level" yaml:"level"`
}

func (s LanguageSkill) String() string {
	return fmt.Sprintf("%s %s", s.Language, s.Level)
}

var languageLevelRe = regexp.MustCompile(`(?i)^(.+?)[\s\-(]*([a-c][12]|native|fluent|advanced|intermediate|basic)[\s)]*$`)

var languageAliases = map[string]string{
	"de":           "german",
	"deutsch":      "german",
	"german":       "german",
	"en":           "english",
	"englisch":     "english",
	"english":      "english",
	"französisch":  "french",
	"franzoesisch": "french",
	"french":       "french",
	"spanisch":     "spanish",
	"spanish":      "spanish",
	"italienisch":  "italian",
	"italian":      "italian",
	"chinesisch":   "chinese",
	"chinese":      "chinese",
	"japanisch":    "japanese",
	"japanese":     "japanese",
}

// CanonicalLanguage folds language names and codes to an English lowercase
// name, e.g. "Deutsch" and "DE" both become "german".
func CanonicalLanguage(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := languageAliases[n]; ok {
		return canonical
	}
	return n
}

// ParseLanguage parses strings like "English (C1)", "German - Native",
// "English C1" or a plain "English". A missing level becomes DefaultLevel.
func ParseLanguage(s string) (LanguageSkill, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LanguageSkill{}, false
	}

	if m := languageLevelRe.FindStringSubmatch(s); m != nil {
		name := strings.TrimSpace(m[1])
		if level, ok := ParseLevel(m[2]); ok && name != "" {
			return LanguageSkill{Language: CanonicalLanguage(name), Level: level}, true
		}
	}

	name := strings.TrimSpace(strings.Trim(s, "()-"))
	if name == "" {
		return LanguageSkill{}, false
	}
	return LanguageSkill{Language: CanonicalLanguage(name), Level: DefaultLevel}, true
}

// DecodeLanguages converts the raw shapes found in profiles into language
// skills: a string, an object with language and level (or proficiency), a
// list of either, or a map of language to level. Unusable entries are
// skipped.
func DecodeLanguages(raw any) []LanguageSkill {
	var out []LanguageSkill

	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if skill, ok := ParseLanguage(v); ok {
			out = append(out, skill)
		}
	case LanguageSkill:
		out = append(out, v)
	case []LanguageSkill:
		out = append(out, v...)
	case []string:
		for _, item := range v {
			out = append(out, DecodeLanguages(item)...)
		}
	case []any:
		for _, item := range v {
			out = append(out, DecodeLanguages(item)...)
		}
	case map[string]any:
		if skill, ok := languageFromObject(v); ok {
			return []LanguageSkill{skill}
		}
		for name, level := range v {
			out = append(out, languageFromPair(name, level))
		}
	case map[string]string:
		for name, level := range v {
			out = append(out, languageFromPair(name, level))
		}
	}

	return out
}

func languageFromObject(obj map[string]any) (LanguageSkill, bool) {
	name, ok := obj["language"].(string)
	if !ok {
		name, ok = obj["name"].(string)
	}
	if !ok || strings.TrimSpace(name) == "" {
		return LanguageSkill{}, false
	}

	skill := LanguageSkill{Language: CanonicalLanguage(name), Level: DefaultLevel}
	for _, key := range []string{"level", "proficiency"} {
		if raw, ok := obj[key].(string); ok {
			if level, ok := ParseLevel(raw); ok {
				skill.Level = level
				break
			}
		}
	}
	return skill, true
}

func languageFromPair(name string, level any) LanguageSkill {
	skill := LanguageSkill{Language: CanonicalLanguage(name), Level: DefaultLevel}
	if s, ok := level.(string); ok {
		if parsed, ok := ParseLevel(s); ok {
			skill.Level = parsed
		}
	}
	return skill
}
