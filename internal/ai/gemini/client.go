// Package gemini implements the embedding and translation ports on top of the
// Google GenAI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/jobfit/internal/ai"
	"github.com/spigell/jobfit/internal/logger"
)

const (
	ProviderName = "gemini"

	defaultModel          = "gemini-2.5-flash"
	defaultEmbeddingModel = "text-embedding-004"
	defaultMaxRetries     = 3
	defaultMaxLogLength   = 200

	// maxQuotaDelay is the longest server-requested wait we are willing to retry after.
	maxQuotaDelay = 30 * time.Second
)

// modelsAPI is the subset of genai.Models used by the client.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Config configures a Client.
type Config struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	MaxRetries     int
	MaxLogLength   int
}

// Client talks to the Gemini API. It implements ai.Embedder and ai.Translator.
type Client struct {
	models         modelsAPI
	model          string
	embeddingModel string
	maxRetries     int
	maxLogLen      int
	logger         *zap.Logger

	newBackOff func() backoff.BackOff
}

var (
	_ ai.Embedder   = (*Client)(nil)
	_ ai.Translator = (*Client)(nil)
)

// New creates a Client configured for the Gemini API backend.
func New(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newClient(client.Models, cfg, log), nil
}

func newClient(models modelsAPI, cfg Config, log *zap.Logger) *Client {
	c := &Client{
		models:         models,
		model:          strings.TrimSpace(cfg.Model),
		embeddingModel: strings.TrimSpace(cfg.EmbeddingModel),
		maxRetries:     cfg.MaxRetries,
		maxLogLen:      cfg.MaxLogLength,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 10 * time.Second
			return b
		},
	}

	if c.model == "" {
		c.model = defaultModel
	}
	if c.embeddingModel == "" {
		c.embeddingModel = defaultEmbeddingModel
	}
	if c.maxRetries <= 0 {
		c.maxRetries = defaultMaxRetries
	}
	if c.maxLogLen <= 0 {
		c.maxLogLen = defaultMaxLogLength
	}
	c.logger = logger.WithCommonFields(log, ProviderName, c.model)

	return c
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

func (c *Client) EmbeddingModel() string {
	if c == nil {
		return ""
	}
	return c.embeddingModel
}

// Embed returns one vector per text using the embedding model.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: text}},
		})
	}

	var resp *genai.EmbedContentResponse
	err := c.retry(ctx, "embed content", func() error {
		var err error
		resp, err = c.models.EmbedContent(ctx, c.embeddingModel, contents, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 {
		return nil, ai.ErrEmptyResponse
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: asked for %d embeddings, got %d", ai.ErrCountMismatch, len(texts), len(resp.Embeddings))
	}

	vectors := make([][]float32, 0, len(resp.Embeddings))
	for i, embedding := range resp.Embeddings {
		if embedding == nil || len(embedding.Values) == 0 {
			return nil, fmt.Errorf("%w: embedding #%d has no values", ai.ErrEmptyResponse, i)
		}
		vectors = append(vectors, embedding.Values)
	}

	c.logger.Debug("gemini embed content response",
		zap.Int("texts", len(texts)),
		zap.Int("dimensions", len(vectors[0])),
	)

	return vectors, nil
}

// generate sends the prompt and returns the concatenated textual response.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	var resp *genai.GenerateContentResponse
	err := c.retry(ctx, "generate content", func() error {
		var err error
		resp, err = c.models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil {
		return "", ai.ErrEmptyResponse
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", ai.ErrEmptyResponse
	}

	return output, nil
}

// retry runs op until it succeeds, fails permanently or the retry budget
// (maxRetries attempts in total) is spent.
func (c *Client) retry(ctx context.Context, operation string, op func() error) error {
	attempt := 0
	wrapped := func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if !isTemporary(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	log := logger.WithOperation(c.logger, operation)
	notify := func(err error, wait time.Duration) {
		log.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.maxRetries-1)), ctx)
	return backoff.RetryNotify(wrapped, b, notify)
}

var retryDelayRe = regexp.MustCompile(`(?i)retry (?:after|in) ([0-9]+(?:\.[0-9]+)?)\s*s`)

// isTemporary reports whether the error is worth retrying: rate limits and
// server errors, unless the server asks us to wait longer than maxQuotaDelay.
func isTemporary(err error) bool {
	apiErr, ok := asAPIError(err)
	if !ok {
		return false
	}

	switch apiErr.Code {
	case http.StatusTooManyRequests:
		if delay, ok := quotaDelay(apiErr.Message); ok && delay > maxQuotaDelay {
			return false
		}
		return true
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

func quotaDelay(message string) (time.Duration, bool) {
	m := retryDelayRe.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}
