package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/spigell/jobfit/internal/matching"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want %s, %s or %s)", format, formatTable, formatJSON, formatYAML)
	}
}

// writeResults renders ranked jobs to path, or to w when path is empty.
func writeResults(w io.Writer, path, format string, results []matching.RankedJob) error {
	if path = strings.TrimSpace(path); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()
		w = file
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeTable(w, results)
	}
}

func writeTable(w io.Writer, results []matching.RankedJob) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSCORE\tID\tTITLE\tCOMPANY\tCITY\tMATCHED\tNOTE")

	for i, r := range results {
		note := ""
		if r.Fallback {
			note = "fallback: " + r.Error
		} else if r.Match != nil {
			note = r.Match.Language.Explanation
		}

		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			r.Score,
			r.Job.ID,
			dash(r.Job.Title),
			dash(r.Job.Company),
			dash(r.Job.CityName()),
			dash(strings.Join(r.MatchedTokens(), ", ")),
			note,
		)
	}

	return tw.Flush()
}

// breakdown renders a single result with every component for the menu.
func breakdown(r matching.RankedJob) (string, error) {
	out, err := yaml.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
