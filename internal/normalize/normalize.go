// Package normalize turns free-form skill and tool lists, possibly written in
// German, into canonical lowercase English tokens.
package normalize

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/spigell/jobfit/internal/ai"
	"github.com/spigell/jobfit/internal/metrics"
	"github.com/spigell/jobfit/internal/profile"
)

const (
	// maxPlainLength is the length above which a token is treated as an
	// untranslated phrase.
	maxPlainLength = 20

	defaultMemoSize = 2048
)

var (
	splitRe      = regexp.MustCompile(`[/,;·–()]+`)
	untranslated = regexp.MustCompile(`[äöüßÄÖÜ]`)
)

// Options configure a Normalizer. All fields are optional.
type Options struct {
	Translator  ai.Translator
	CallTimeout time.Duration
	MemoSize    int
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
}

// Normalizer is safe for concurrent use.
type Normalizer struct {
	translator  ai.Translator
	callTimeout time.Duration
	memo        *lru.Cache[string, string]
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

func New(opts Options) *Normalizer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	size := opts.MemoSize
	if size <= 0 {
		size = defaultMemoSize
	}
	memo, _ := lru.New[string, string](size)

	return &Normalizer{
		translator:  opts.Translator,
		callTimeout: opts.CallTimeout,
		memo:        memo,
		logger:      logger,
		metrics:     opts.Metrics,
	}
}

// Normalize never fails. German content is passed through the translator
// when one is configured; translator failures keep the original terms.
// The result is sorted and free of duplicates.
func (n *Normalizer) Normalize(ctx context.Context, tokens []string, lang profile.ContentLanguage) []string {
	if len(tokens) == 0 {
		return []string{}
	}

	canonical := make([]string, 0, len(tokens))
	for _, token := range tokens {
		canonical = append(canonical, Canonicalize(token)...)
	}

	if lang == profile.ContentDE && n.translator != nil {
		canonical = n.translate(ctx, canonical)
	}

	return finalize(canonical)
}

// Canonicalize applies the glossary, splits compound entries and folds
// synonyms. It does not translate.
func Canonicalize(token string) []string {
	key := strings.ToLower(norm.NFC.String(strings.TrimSpace(token)))
	if key == "" {
		return nil
	}

	translated, ok := glossary[key]
	if !ok {
		translated = key
		if syn, ok := synonyms[key]; ok {
			translated = syn
		}
	}

	return splitAndFold(translated)
}

func splitAndFold(s string) []string {
	parts := splitRe.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if syn, ok := synonyms[part]; ok {
			part = syn
		}
		out = append(out, part)
	}
	return out
}

// NeedsTranslation reports whether a canonical token still looks German.
func NeedsTranslation(token string) bool {
	return untranslated.MatchString(token) || utf8.RuneCountInString(token) > maxPlainLength
}

func (n *Normalizer) translate(ctx context.Context, canonical []string) []string {
	translations := make(map[string][]string)
	pending := make([]string, 0)
	seen := make(map[string]struct{})

	for _, term := range canonical {
		if !NeedsTranslation(term) {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}

		if memoized, ok := n.memo.Get(term); ok {
			translations[term] = splitAndFold(memoized)
			continue
		}
		pending = append(pending, term)
	}

	n.metrics.TermsTranslated("memo", len(translations))

	if len(pending) > 0 {
		n.requestTranslations(ctx, pending, translations)
	}

	if len(translations) == 0 {
		return canonical
	}

	out := make([]string, 0, len(canonical))
	for _, term := range canonical {
		if replaced, ok := translations[term]; ok {
			out = append(out, replaced...)
			continue
		}
		out = append(out, term)
	}
	return out
}

func (n *Normalizer) requestTranslations(ctx context.Context, pending []string, into map[string][]string) {
	callCtx := ctx
	if n.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, n.callTimeout)
		defer cancel()
	}

	translated, err := n.translator.Translate(callCtx, pending)
	if err == nil && len(translated) != len(pending) {
		err = ai.ErrCountMismatch
	}
	if err != nil {
		n.logger.Warn("translation failed, keeping original terms",
			zap.Int("terms", len(pending)),
			zap.Error(err),
		)
		n.metrics.ProviderCall("translate", metrics.OutcomeFallback)
		n.metrics.TermsTranslated("kept", len(pending))
		return
	}

	n.metrics.ProviderCall("translate", metrics.OutcomeOK)
	n.metrics.TermsTranslated("provider", len(pending))

	for i, term := range pending {
		value := strings.TrimSpace(translated[i])
		if value == "" {
			continue
		}
		n.memo.Add(term, value)
		into[term] = splitAndFold(value)
		n.logger.Debug("translated term", zap.String("term", term), zap.String("translation", value))
	}
}

func finalize(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(strings.ToLower(norm.NFC.String(token)))
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	sort.Strings(out)
	return out
}
