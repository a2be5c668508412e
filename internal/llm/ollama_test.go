package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaProvider_HappyPath(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/api/chat") {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model":             "llama3.1",
			"created_at":        "2025-01-01T00:00:00Z",
			"message":           map[string]any{"role": "assistant", "content": `{"questions":[]}`},
			"done":              true,
			"prompt_eval_count": 12,
			"eval_count":        7,
		})
	}))
	t.Cleanup(server.Close)

	p, err := NewOllamaProvider(OllamaConfig{ServerURL: server.URL, Model: "llama3.1"}, server.Client())
	if err != nil {
		t.Fatalf("NewOllamaProvider: %v", err)
	}

	resp, err := p.Generate(context.Background(), UserRequest("You are an expert ELT content creator.", "Create 1 question."))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != `{"questions":[]}` {
		t.Fatalf("unexpected text %q", resp.Text)
	}
	if resp.Model != "llama3.1" {
		t.Errorf("model = %q", resp.Model)
	}

	msgs, _ := gotBody["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system + user message, got %d", len(msgs))
	}
}

func TestOllamaProvider_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	p, err := NewOllamaProvider(OllamaConfig{ServerURL: server.URL, Model: "llama3.1"}, server.Client())
	if err != nil {
		t.Fatalf("NewOllamaProvider: %v", err)
	}

	_, err = p.Generate(context.Background(), UserRequest("", "hi"))
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T (%v)", err, err)
	}
}

func TestNewOllamaProvider_RequiresModel(t *testing.T) {
	if _, err := NewOllamaProvider(OllamaConfig{ServerURL: "http://localhost:11434"}, nil); err == nil {
		t.Fatal("expected error for empty model")
	}
}
