package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expense-advisor/pkg/config"

	"go.uber.org/zap"
)

func llmCfg(ollamaURL string) *config.LLMConfig {
	return &config.LLMConfig{
		Provider:      ProviderOllama,
		OllamaBaseURL: ollamaURL,
		OllamaModel:   "gemma3:1b",
		OllamaTimeout: 5 * time.Second,
		OpenAIAPIKey:  "test-key",
		OpenAITimeout: 5 * time.Second,
		GeminiAPIKey:  "test-key",
		GeminiTimeout: 5 * time.Second,
	}
}

func TestOllamaGenerate(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "  exact answer  "})
	}))
	defer srv.Close()

	p := NewOllama(llmCfg(srv.URL), zap.NewNop())
	resp := p.Generate(context.Background(), "prompt text")

	if resp.Status != StatusOK {
		t.Fatalf("status = %v, want OK (detail: %s)", resp.Status, resp.Detail)
	}
	if resp.Text != "exact answer" {
		t.Errorf("text = %q, want trimmed answer", resp.Text)
	}
	if gotBody["prompt"] != "prompt text" {
		t.Errorf("prompt not forwarded: %v", gotBody["prompt"])
	}
	opts, _ := gotBody["options"].(map[string]any)
	if opts == nil {
		t.Fatal("options missing from request")
	}
	if opts["temperature"] != 0.0 {
		t.Errorf("temperature = %v, want 0", opts["temperature"])
	}
	if opts["num_predict"] != 600.0 {
		t.Errorf("num_predict = %v, want 600", opts["num_predict"])
	}
	if _, ok := opts["stop"].([]any); !ok {
		t.Error("stop sequences missing from request")
	}
}

func TestOllamaNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOllama(llmCfg(srv.URL), zap.NewNop())
	resp := p.Generate(context.Background(), "prompt")

	if resp.Status != StatusUnavailable {
		t.Fatalf("status = %v, want Unavailable", resp.Status)
	}
	if resp.Text != MessageUnavailable {
		t.Errorf("text = %q, want canned unavailable message", resp.Text)
	}
}

func TestOllamaTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	p := NewOllama(llmCfg(srv.URL), zap.NewNop())
	resp := p.Generate(context.Background(), "prompt")

	if resp.Status != StatusUnavailable {
		t.Fatalf("status = %v, want Unavailable", resp.Status)
	}
	if resp.Text != MessageConnection {
		t.Errorf("text = %q, want canned connection message", resp.Text)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "first completion"}},
				{"message": map[string]string{"content": "second completion"}},
			},
		})
	}))
	defer srv.Close()

	p := NewOpenAI(llmCfg(""), zap.NewNop())
	p.endpoint = srv.URL
	resp := p.Generate(context.Background(), "prompt")

	if resp.Status != StatusOK {
		t.Fatalf("status = %v, want OK (detail: %s)", resp.Status, resp.Detail)
	}
	if resp.Text != "first completion" {
		t.Errorf("text = %q, want the first choice", resp.Text)
	}
}

func TestOpenAIEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	p := NewOpenAI(llmCfg(""), zap.NewNop())
	p.endpoint = srv.URL
	resp := p.Generate(context.Background(), "prompt")

	if resp.Status != StatusError {
		t.Fatalf("status = %v, want Error", resp.Status)
	}
	if resp.Text != MessageNoResponse {
		t.Errorf("text = %q, want no-response message", resp.Text)
	}
}

func TestGeminiGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key query param = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "the answer"}}}},
			},
		})
	}))
	defer srv.Close()

	p := NewGemini(llmCfg(""), zap.NewNop())
	p.baseURL = srv.URL
	resp := p.Generate(context.Background(), "prompt")

	if resp.Status != StatusOK {
		t.Fatalf("status = %v, want OK (detail: %s)", resp.Status, resp.Detail)
	}
	if resp.Text != "the answer" {
		t.Errorf("text = %q", resp.Text)
	}
}

func TestGeminiNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	p := NewGemini(llmCfg(""), zap.NewNop())
	p.baseURL = srv.URL
	resp := p.Generate(context.Background(), "prompt")

	if resp.Status != StatusError {
		t.Fatalf("status = %v, want Error", resp.Status)
	}
	if resp.Detail != "no response generated" {
		t.Errorf("detail = %q, want 'no response generated'", resp.Detail)
	}
}

func TestGeminiTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p := NewGemini(llmCfg(""), zap.NewNop())
	p.baseURL = srv.URL
	resp := p.Generate(context.Background(), "prompt")

	if resp.Status != StatusUnavailable {
		t.Fatalf("status = %v, want Unavailable", resp.Status)
	}
}

func TestNewSelectsProvider(t *testing.T) {
	tests := []struct {
		provider string
		wantName string
	}{
		{ProviderOllama, ProviderOllama},
		{ProviderOpenAI, ProviderOpenAI},
		{ProviderGemini, ProviderGemini},
		{"something-else", ProviderOllama}, // unrecognized defaults to local
		{"", ProviderOllama},
	}

	for _, tc := range tests {
		cfg := llmCfg("http://localhost:11434")
		cfg.Provider = tc.provider
		p := New(cfg, zap.NewNop())
		if p.Name() != tc.wantName {
			t.Errorf("New(%q).Name() = %q, want %q", tc.provider, p.Name(), tc.wantName)
		}
	}
}
