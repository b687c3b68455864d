// Package ai defines the provider ports the matching engine depends on and
// decorators that add caching and rate limiting on top of any provider.
package ai

import (
	"context"
	"errors"
)

var (
	// ErrCountMismatch is returned when a provider answers with a different
	// number of items than it was asked for.
	ErrCountMismatch = errors.New("provider returned a different number of items")
	ErrEmptyResponse = errors.New("provider returned empty response")
)

// Embedder maps texts to vectors. The result has one vector per input text,
// in the same order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Translator translates professional terms to English. The result has one
// translation per input term, in the same order.
type Translator interface {
	Translate(ctx context.Context, terms []string) ([]string, error)
}

// EmbedderFunc adapts a function to Embedder.
type EmbedderFunc func(ctx context.Context, texts []string) ([][]float32, error)

func (f EmbedderFunc) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return f(ctx, texts)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(ctx context.Context, terms []string) ([]string, error)

func (f TranslatorFunc) Translate(ctx context.Context, terms []string) ([]string, error) {
	return f(ctx, terms)
}
