package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/genai"

	"github.com/vibelabs/vibechat/internal/config"
)

// geminiStrategy serves Google's Gemini API through the genai SDK.
type geminiStrategy struct {
	defaultKey string
	logger     *slog.Logger
}

// NewGemini creates the Gemini strategy.
func NewGemini(cfg config.ProvidersConfig, logger *slog.Logger) Strategy {
	return &geminiStrategy{
		defaultKey: cfg.GeminiDefaultKey,
		logger:     logger.With("component", "gemini_strategy"),
	}
}

func (s *geminiStrategy) Brand() Brand {
	return BrandGemini
}

func (s *geminiStrategy) keyFor(input Input) string {
	if input.UseDefaultKey || input.APIKey == "" {
		return s.defaultKey
	}
	return input.APIKey
}

// client builds a per-request SDK client; the genai client binds the API key
// at construction time and keys differ per user.
func (s *geminiStrategy) client(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: no gemini API key available", ErrGeneration)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create genai client: %v", ErrGeneration, err)
	}
	return client, nil
}

func (s *geminiStrategy) generate(ctx context.Context, apiKey string, input Input) (string, error) {
	client, err := s.client(ctx, apiKey)
	if err != nil {
		return "", err
	}

	temperature := float32(input.Temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: input.SystemPrompt}}},
	}
	contents := []*genai.Content{genai.NewContentFromText(input.UserPrompt, genai.RoleUser)}

	resp, err := client.Models.GenerateContent(ctx, input.Model, contents, cfg)
	if err != nil {
		return "", s.translateError(ctx, err, input.Model)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned empty content", ErrGeneration)
	}
	return text, nil
}

func (s *geminiStrategy) GenerateChat(ctx context.Context, input Input) (string, error) {
	return s.generate(ctx, s.keyFor(input), input)
}

func (s *geminiStrategy) GeneratePost(ctx context.Context, input Input) (Post, error) {
	content, err := s.GenerateChat(ctx, input)
	if err != nil {
		return Post{}, err
	}
	return ParsePost(content)
}

func (s *geminiStrategy) ValidateKey(ctx context.Context, apiKey string) error {
	client, err := s.client(ctx, apiKey)
	if err != nil {
		return fmt.Errorf("gemini key validation failed: %w", err)
	}
	// Listing models is the cheapest authenticated call.
	if _, err := client.Models.List(ctx, nil); err != nil {
		return fmt.Errorf("gemini key validation failed: %w", err)
	}
	return nil
}

func (s *geminiStrategy) translateError(ctx context.Context, err error, model string) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		s.logger.ErrorContext(ctx, "Gemini API call failed",
			"code", apiErr.Code, "model", model, "message", apiErr.Message)
		if apiErr.Code == http.StatusNotFound {
			return fmt.Errorf("%w: %q", ErrModelNotFound, model)
		}
		return fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	s.logger.ErrorContext(ctx, "Gemini transport failure", "model", model, "error", err)
	return fmt.Errorf("%w: %v", ErrGeneration, err)
}
