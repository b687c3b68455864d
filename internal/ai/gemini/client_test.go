package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/jobfit/internal/ai"
)

type fakeResponse struct {
	text       string
	embeddings [][]float32
	err        error
}

type fakeModels struct {
	mu      sync.Mutex
	queue   []fakeResponse
	models  []string
	prompts []string
	calls   int
}

func (f *fakeModels) next(model string) (fakeResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.models = append(f.models, model)
	if len(f.queue) == 0 {
		return fakeResponse{}, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res, nil
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, contents[0].Parts[0].Text)
	f.mu.Unlock()

	res, err := f.next(model)
	if err != nil {
		return nil, err
	}
	if res.err != nil {
		return nil, res.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: res.text}}},
		}},
	}, nil
}

func (f *fakeModels) EmbedContent(_ context.Context, model string, _ []*genai.Content, _ *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	res, err := f.next(model)
	if err != nil {
		return nil, err
	}
	if res.err != nil {
		return nil, res.err
	}
	resp := &genai.EmbedContentResponse{}
	for _, values := range res.embeddings {
		resp.Embeddings = append(resp.Embeddings, &genai.ContentEmbedding{Values: values})
	}
	return resp, nil
}

func testClient(models *fakeModels, maxRetries int) *Client {
	c := newClient(models, Config{Model: "gemini-test", EmbeddingModel: "embed-test", MaxRetries: maxRetries}, zap.NewNop())
	c.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return c
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(context.Background(), Config{APIKey: "  "}, nil); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestDefaults(t *testing.T) {
	c := newClient(&fakeModels{}, Config{}, nil)
	if c.Model() != defaultModel || c.EmbeddingModel() != defaultEmbeddingModel {
		t.Fatalf("unexpected models: %q %q", c.Model(), c.EmbeddingModel())
	}
	if c.maxRetries != defaultMaxRetries || c.maxLogLen != defaultMaxLogLength {
		t.Fatalf("unexpected limits: %d %d", c.maxRetries, c.maxLogLen)
	}
}

func TestEmbed(t *testing.T) {
	models := &fakeModels{queue: []fakeResponse{{embeddings: [][]float32{{1, 0}, {0, 1}}}}}
	c := testClient(models, 1)

	vectors, err := c.Embed(context.Background(), []string{"go", "golang"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(vectors) != 2 || vectors[1][1] != 1 {
		t.Fatalf("unexpected vectors: %v", vectors)
	}
	if models.models[0] != "embed-test" {
		t.Fatalf("expected embedding model, got %q", models.models[0])
	}
}

func TestEmbedCountMismatch(t *testing.T) {
	models := &fakeModels{queue: []fakeResponse{{embeddings: [][]float32{{1, 0}}}}}
	c := testClient(models, 1)

	_, err := c.Embed(context.Background(), []string{"go", "rust"})
	if !errors.Is(err, ai.ErrCountMismatch) {
		t.Fatalf("expected count mismatch, got %v", err)
	}
}

func TestEmbedEmptyInput(t *testing.T) {
	models := &fakeModels{}
	vectors, err := testClient(models, 1).Embed(context.Background(), nil)
	if err != nil || len(vectors) != 0 {
		t.Fatalf("unexpected result: %v %v", vectors, err)
	}
	if models.calls != 0 {
		t.Fatalf("expected no provider calls, got %d", models.calls)
	}
}

func TestRetriesOnTemporaryError(t *testing.T) {
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	models := &fakeModels{queue: []fakeResponse{
		{err: tempErr},
		{text: "project management\ncontrolling"},
	}}
	c := testClient(models, 2)

	out, err := c.Translate(context.Background(), []string{"projektmanagement", "controlling"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out[0] != "project management" {
		t.Fatalf("unexpected translation: %v", out)
	}
	if models.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", models.calls)
	}
	if !strings.Contains(models.prompts[0], "projektmanagement\ncontrolling") {
		t.Fatalf("terms missing from prompt: %q", models.prompts[0])
	}
}

func TestStopsAfterRetriesExhausted(t *testing.T) {
	tempErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	models := &fakeModels{queue: []fakeResponse{{err: tempErr}, {err: tempErr}, {err: tempErr}}}
	c := testClient(models, 2)

	_, err := c.Translate(context.Background(), []string{"lager"})
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected wrapped api error, got %v", err)
	}
	if models.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", models.calls)
	}
}

func TestDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	quotaErr := genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	}
	models := &fakeModels{queue: []fakeResponse{{err: quotaErr}}}
	c := testClient(models, 3)

	if _, err := c.Embed(context.Background(), []string{"go"}); err == nil {
		t.Fatal("expected error when quota delay too long")
	}
	if models.calls != 1 {
		t.Fatalf("expected single call, got %d", models.calls)
	}
}

func TestDoesNotRetryOnClientError(t *testing.T) {
	models := &fakeModels{queue: []fakeResponse{{err: genai.APIError{Code: http.StatusBadRequest}}}}
	c := testClient(models, 3)

	if _, err := c.Translate(context.Background(), []string{"lager"}); err == nil {
		t.Fatal("expected error")
	}
	if models.calls != 1 {
		t.Fatalf("expected single call, got %d", models.calls)
	}
}

func TestIsTemporary(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"plain error", errors.New("boom"), false},
		{"rate limited", genai.APIError{Code: http.StatusTooManyRequests}, true},
		{"short quota delay", genai.APIError{Code: http.StatusTooManyRequests, Message: "retry in 2.5s"}, true},
		{"long quota delay", genai.APIError{Code: http.StatusTooManyRequests, Message: "Please retry in 45s"}, false},
		{"bad gateway", genai.APIError{Code: http.StatusBadGateway}, true},
		{"pointer", &genai.APIError{Code: http.StatusGatewayTimeout}, true},
		{"not found", genai.APIError{Code: http.StatusNotFound}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTemporary(tt.err); got != tt.want {
				t.Fatalf("isTemporary(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
