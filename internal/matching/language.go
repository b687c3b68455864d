package matching

import (
	"fmt"

	"github.com/spigell/jobfit/internal/profile"
)

// MinimumLanguageLevel is the level a required language must reach.
const MinimumLanguageLevel = profile.LevelB2

// LanguageFit scores the candidate's languages against the job requirement.
// UNKNOWN, and anything unrecognized, is not a requirement and scores 1.
func LanguageFit(required profile.RequiredLanguage, languages []profile.LanguageSkill) ComponentScore {
	german := meets(languages, "german")
	english := meets(languages, "english")

	res := ComponentScore{Matched: []string{}, Missing: []string{}}
	collect := func(name string, ok bool) {
		if ok {
			res.Matched = append(res.Matched, name)
		} else {
			res.Missing = append(res.Missing, name)
		}
	}

	switch required {
	case profile.RequireDE:
		collect("german", german)
		if german {
			res.Score = 1
			res.Explanation = "German requirement met (B2+ level)"
		} else {
			res.Explanation = "German B2+ required but not available"
		}
	case profile.RequireEN:
		collect("english", english)
		if english {
			res.Score = 1
			res.Explanation = "English requirement met (B2+ level)"
		} else {
			res.Explanation = "English B2+ required but not available"
		}
	case profile.RequireBoth:
		collect("german", german)
		collect("english", english)
		switch {
		case german && english:
			res.Score = 1
			res.Explanation = "Both German and English requirements met (B2+ level)"
		case german:
			res.Score = 0.5
			res.Explanation = "German met, English missing"
		case english:
			res.Score = 0.5
			res.Explanation = "English met, German missing"
		default:
			res.Explanation = "Both German and English B2+ required but not available"
		}
	default:
		res.Score = 1
		res.Explanation = "No specific language requirement"
	}

	return res
}

func meets(languages []profile.LanguageSkill, language string) bool {
	for _, skill := range languages {
		if profile.CanonicalLanguage(skill.Language) == language && skill.Level.AtLeast(MinimumLanguageLevel) {
			return true
		}
	}
	return false
}

// describeLanguages is used in debug logs.
func describeLanguages(languages []profile.LanguageSkill) []string {
	out := make([]string, 0, len(languages))
	for _, l := range languages {
		out = append(out, fmt.Sprintf("%s %s", profile.CanonicalLanguage(l.Language), l.Level))
	}
	return out
}
