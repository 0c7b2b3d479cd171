package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vibelabs/vibechat/internal/config"
)

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  struct {
		Temperature float64 `json:"temperature"`
	} `json:"options"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
}

// ollamaStrategy talks to a local Ollama server over its native HTTP API.
// Ollama is unauthenticated, so API keys are ignored and ValidateKey always
// succeeds.
type ollamaStrategy struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewOllama creates the Ollama strategy.
func NewOllama(cfg config.ProvidersConfig, logger *slog.Logger) Strategy {
	return &ollamaStrategy{
		httpClient: &http.Client{Timeout: cfg.GenerateTimeout},
		baseURL:    cfg.OllamaBaseURL,
		logger:     logger.With("component", "ollama_strategy"),
	}
}

func (s *ollamaStrategy) Brand() Brand {
	return BrandOllama
}

func (s *ollamaStrategy) GenerateChat(ctx context.Context, input Input) (string, error) {
	body := ollamaChatRequest{
		Model: input.Model,
		Messages: []ollamaMessage{
			{Role: "system", Content: input.SystemPrompt},
			{Role: "user", Content: input.UserPrompt},
		},
		Stream: false,
	}
	body.Options.Temperature = input.Temperature

	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %v", ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/chat", bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("%w: failed to build request: %v", ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		s.logger.ErrorContext(ctx, "Ollama returned error status",
			"status", resp.StatusCode, "model", input.Model, "body", string(snippet))
		if resp.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%w: %q", ErrModelNotFound, input.Model)
		}
		return "", fmt.Errorf("%w: status %d", ErrGeneration, resp.StatusCode)
	}

	var parsed ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrGeneration, err)
	}
	return parsed.Message.Content, nil
}

func (s *ollamaStrategy) GeneratePost(ctx context.Context, input Input) (Post, error) {
	content, err := s.GenerateChat(ctx, input)
	if err != nil {
		return Post{}, err
	}
	return ParsePost(content)
}

func (s *ollamaStrategy) ValidateKey(_ context.Context, _ string) error {
	// Local backend, no authentication.
	return nil
}
