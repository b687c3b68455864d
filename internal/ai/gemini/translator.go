package gemini

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/ai"
	"github.com/spigell/jobfit/internal/logger"
)

//go:embed prompt.md
var promptTemplate string

// Translate asks the model for one English translation per term.
func (c *Client) Translate(ctx context.Context, terms []string) ([]string, error) {
	if len(terms) == 0 {
		return []string{}, nil
	}

	prompt := buildPrompt(terms)

	c.logger.Debug("gemini generate content request",
		zap.Int("terms", len(terms)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, c.maxLogLen)),
	)

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, c.maxLogLen)),
	)

	translations := parseLines(raw)
	if len(translations) != len(terms) {
		return nil, fmt.Errorf("%w: asked for %d translations, got %d", ai.ErrCountMismatch, len(terms), len(translations))
	}

	return translations, nil
}

func buildPrompt(terms []string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Translate each term to English, one per line:\n{{TERMS}}"
	}

	prompt := strings.ReplaceAll(template, "{{COUNT}}", strconv.Itoa(len(terms)))
	prompt = strings.ReplaceAll(prompt, "{{TERMS}}", strings.Join(terms, "\n"))
	return prompt
}

var listMarkerRe = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s+`)

// parseLines splits a model answer into translations, dropping code fences,
// list markers and surrounding quotes.
func parseLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		line = listMarkerRe.ReplaceAllString(line, "")
		line = strings.Trim(line, "\"'`")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
