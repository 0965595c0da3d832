package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatCompletionJSON(content string) string {
	resp := map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message": map[string]any{
				"role":    "assistant",
				"content": content,
			},
		}},
	}
	raw, _ := json.Marshal(resp)
	return string(raw)
}

func newUpstream(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func TestOpenAICompatProviderSendsPrompt(t *testing.T) {
	var got chatRequest
	var auth, path string

	srv, calls := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatCompletionJSON("Short summary."))
	})

	p, err := NewOpenAICompatProvider(ProviderGoogle, ProviderConfig{
		APIKey:  "google-key",
		BaseURL: srv.URL + "/v1beta/openai/",
		Model:   "gemini-test",
	})
	if err != nil {
		t.Fatalf("NewOpenAICompatProvider: %v", err)
	}

	summary, err := p.Summarize(context.Background(), Input{
		Text:           "Doctor: How are you?",
		TargetLanguage: "Finnish",
	})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if summary != "Short summary." {
		t.Fatalf("unexpected summary: %q", summary)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one upstream call, got %d", calls.Load())
	}
	if path != "/v1beta/openai/chat/completions" {
		t.Fatalf("unexpected path: %q", path)
	}
	if auth != "Bearer google-key" {
		t.Fatalf("unexpected authorization header: %q", auth)
	}
	if got.Model != "gemini-test" {
		t.Fatalf("unexpected model: %q", got.Model)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(got.Messages))
	}
	if got.Messages[0].Role != "system" || got.Messages[0].Content != SystemPrompt {
		t.Fatalf("unexpected system message: %+v", got.Messages[0])
	}
	if got.Messages[1].Role != "user" ||
		!strings.Contains(got.Messages[1].Content, "Translate the final output to Finnish") ||
		!strings.HasSuffix(got.Messages[1].Content, "Doctor: How are you?") {
		t.Fatalf("unexpected user message: %+v", got.Messages[1])
	}
}

func TestOpenAICompatProviderDoesNotRetry(t *testing.T) {
	srv, calls := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"slow down","type":"rate_limit_error"}}`)
	})

	p, err := NewOpenAICompatProvider(ProviderOpenAI, ProviderConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL + "/v1/",
		Model:   "gpt-test",
	})
	if err != nil {
		t.Fatalf("NewOpenAICompatProvider: %v", err)
	}

	_, err = p.Summarize(context.Background(), Input{Text: "x"})
	if err == nil {
		t.Fatalf("expected upstream error")
	}
	if status := UpstreamStatus(err); status != http.StatusTooManyRequests {
		t.Fatalf("expected upstream status 429, got %d (err = %v)", status, err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected no retries, got %d calls", calls.Load())
	}
}

func TestOpenAICompatProviderAllowsEmptyCompletion(t *testing.T) {
	srv, _ := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatCompletionJSON(""))
	})

	p, err := NewOpenAICompatProvider(ProviderOpenAI, ProviderConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL + "/v1/",
		Model:   "gpt-test",
	})
	if err != nil {
		t.Fatalf("NewOpenAICompatProvider: %v", err)
	}

	summary, err := p.Summarize(context.Background(), Input{Text: "x"})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary != "" {
		t.Fatalf("expected empty summary, got %q", summary)
	}
}

func TestOpenAICompatProviderRejectsResponseWithoutChoices(t *testing.T) {
	srv, _ := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","created":0,"model":"gpt-test","choices":[]}`)
	})

	p, err := NewOpenAICompatProvider(ProviderOpenAI, ProviderConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL + "/v1/",
		Model:   "gpt-test",
	})
	if err != nil {
		t.Fatalf("NewOpenAICompatProvider: %v", err)
	}

	if _, err = p.Summarize(context.Background(), Input{Text: "x"}); err == nil {
		t.Fatalf("expected error for response without choices")
	}
}

func TestOpenAICompatProviderWithoutKey(t *testing.T) {
	srv, calls := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	p, err := NewOpenAICompatProvider(ProviderGoogle, ProviderConfig{
		BaseURL: srv.URL + "/v1/",
		Model:   "gemini-test",
	})
	if err != nil {
		t.Fatalf("NewOpenAICompatProvider: %v", err)
	}
	if p.Configured() {
		t.Fatalf("expected provider without key to be unconfigured")
	}

	_, err = p.Summarize(context.Background(), Input{Text: "x"})
	if !errors.Is(err, ErrProviderNotConfigured) {
		t.Fatalf("expected ErrProviderNotConfigured, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no upstream call, got %d", calls.Load())
	}
}

func TestOpenAICompatProviderRejectsEmptyText(t *testing.T) {
	p, err := NewOpenAICompatProvider(ProviderOpenAI, ProviderConfig{APIKey: "sk-test", Model: "gpt-test"})
	if err != nil {
		t.Fatalf("NewOpenAICompatProvider: %v", err)
	}

	if _, err = p.Summarize(context.Background(), Input{Text: "   "}); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestNewOpenAICompatProviderRequiresModel(t *testing.T) {
	if _, err := NewOpenAICompatProvider(ProviderOpenAI, ProviderConfig{APIKey: "sk-test"}); err == nil {
		t.Fatalf("expected error for missing model")
	}
}

func TestOpenAICompatProviderUnreachableUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	baseURL := srv.URL + "/v1/"
	srv.Close()

	p, err := NewOpenAICompatProvider(ProviderOpenAI, ProviderConfig{
		APIKey:  "sk-test",
		BaseURL: baseURL,
		Model:   "gpt-test",
	})
	if err != nil {
		t.Fatalf("NewOpenAICompatProvider: %v", err)
	}

	_, err = p.Summarize(context.Background(), Input{Text: "x"})
	if err == nil {
		t.Fatalf("expected error for unreachable upstream")
	}
	if status := UpstreamStatus(err); status != 0 {
		t.Fatalf("expected no upstream status for transport error, got %d", status)
	}
}

func TestUpstreamStatusPlainError(t *testing.T) {
	if status := UpstreamStatus(errors.New("boom")); status != 0 {
		t.Fatalf("expected 0 for non-API error, got %d", status)
	}
}
