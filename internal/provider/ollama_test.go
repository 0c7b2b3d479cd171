package provider_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vibelabs/vibechat/internal/config"
	"github.com/vibelabs/vibechat/internal/provider"
)

func newOllama(serverURL string) provider.Strategy {
	return provider.NewOllama(config.ProvidersConfig{
		GenerateTimeout: 5 * time.Second,
		OllamaBaseURL:   serverURL,
	}, discardLogger())
}

func TestOllamaGenerateChat(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Stream  bool `json:"stream"`
		Options struct {
			Temperature float64 `json:"temperature"`
		} `json:"options"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"role": "assistant", "content": "hello from llama"},
		})
	}))
	defer server.Close()

	answer, err := newOllama(server.URL).GenerateChat(context.Background(), provider.Input{
		Model:        "llama3",
		Temperature:  0.7,
		SystemPrompt: "be helpful",
		UserPrompt:   "Q: hi\nA: ",
	})
	if err != nil {
		t.Fatalf("GenerateChat() unexpected error: %v", err)
	}

	if answer != "hello from llama" {
		t.Errorf("GenerateChat() = %q, want the backend reply", answer)
	}
	if gotPath != "/api/chat" {
		t.Errorf("request path = %q, want /api/chat", gotPath)
	}
	if gotBody.Model != "llama3" || gotBody.Stream {
		t.Errorf("request = %+v, want model llama3 with stream disabled", gotBody)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Role != "user" {
		t.Errorf("messages = %+v, want system then user", gotBody.Messages)
	}
	if gotBody.Options.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", gotBody.Options.Temperature)
	}
}

func TestOllamaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "Unknown model", status: http.StatusNotFound, wantErr: provider.ErrModelNotFound},
		{name: "Backend failure", status: http.StatusInternalServerError, wantErr: provider.ErrGeneration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			_, err := newOllama(server.URL).GenerateChat(context.Background(), provider.Input{Model: "missing"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("GenerateChat() error = %v, want %v", err, tt.wantErr)
			}
			// A missing model is still a generation failure.
			if !errors.Is(err, provider.ErrGeneration) {
				t.Errorf("GenerateChat() error = %v, want it to match ErrGeneration too", err)
			}
		})
	}
}

func TestOllamaGeneratePost(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{
				"role":    "assistant",
				"content": "```markdown\n# Release Notes\nEverything shipped on time.",
			},
		})
	}))
	defer server.Close()

	post, err := newOllama(server.URL).GeneratePost(context.Background(), provider.Input{Model: "llama3"})
	if err != nil {
		t.Fatalf("GeneratePost() unexpected error: %v", err)
	}
	if post.Title != "Release Notes" {
		t.Errorf("GeneratePost() title = %q, want %q", post.Title, "Release Notes")
	}
	if post.Body != "Everything shipped on time." {
		t.Errorf("GeneratePost() body = %q, want %q", post.Body, "Everything shipped on time.")
	}
}

func TestOllamaValidateKeyAlwaysSucceeds(t *testing.T) {
	t.Parallel()

	if err := newOllama("http://localhost:0").ValidateKey(context.Background(), "anything"); err != nil {
		t.Errorf("ValidateKey() error = %v, want nil for unauthenticated backend", err)
	}
}
