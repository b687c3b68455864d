package filtering

import "strings"

const notConfigured = "not configured"

// Config contains configuration settings consumed by the filters.
type Config struct {
	MinScore         int      `mapstructure:"min-score"`
	MustHaveSkills   []string `mapstructure:"must-have-skills"`
	Locations        []string `mapstructure:"locations"`
	WorkModes        []string `mapstructure:"work-modes"`
	ExcludeFallback  bool     `mapstructure:"exclude-fallback"`
	ExcludeCompanies []string `mapstructure:"exclude-companies"`
	ExcludeFile      string   `mapstructure:"exclude-file"`
}

// FromConfig builds the standard filter chain. Filters without configuration
// stay in the chain disabled so Describe can report them.
func FromConfig(cfg *Config) []Filter {
	if cfg == nil {
		cfg = &Config{}
	}

	steps := []Filter{
		NewExcludeFallback(cfg.ExcludeFallback),
		NewExcludeFile(cfg.ExcludeFile),
		NewExcludedCompanies(cfg.ExcludeCompanies),
		NewMinScore(cfg.MinScore),
		NewMustHaveSkills(cfg.MustHaveSkills),
		NewLocations(cfg.Locations),
		NewWorkModes(cfg.WorkModes),
	}

	return steps
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
