package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	gopenai "github.com/sashabaranov/go-openai"

	"github.com/vibelabs/vibechat/internal/config"
)

// openaiStrategy serves OpenAI-compatible chat completion backends.
type openaiStrategy struct {
	baseURL    string
	defaultKey string
	logger     *slog.Logger
}

// NewOpenAI creates the OpenAI strategy.
func NewOpenAI(cfg config.ProvidersConfig, logger *slog.Logger) Strategy {
	return &openaiStrategy{
		baseURL:    cfg.OpenAIBaseURL,
		defaultKey: cfg.OpenAIDefaultKey,
		logger:     logger.With("component", "openai_strategy"),
	}
}

func (s *openaiStrategy) Brand() Brand {
	return BrandOpenAI
}

// client builds a per-request SDK client. Clients are cheap: the key differs
// per user, so they cannot be shared.
func (s *openaiStrategy) client(apiKey string) *gopenai.Client {
	cfg := gopenai.DefaultConfig(apiKey)
	if s.baseURL != "" {
		cfg.BaseURL = s.baseURL
	}
	return gopenai.NewClientWithConfig(cfg)
}

func (s *openaiStrategy) keyFor(input Input) string {
	if input.UseDefaultKey || input.APIKey == "" {
		return s.defaultKey
	}
	return input.APIKey
}

func (s *openaiStrategy) GenerateChat(ctx context.Context, input Input) (string, error) {
	resp, err := s.client(s.keyFor(input)).CreateChatCompletion(ctx, gopenai.ChatCompletionRequest{
		Model:       input.Model,
		Temperature: float32(input.Temperature),
		Messages: []gopenai.ChatCompletionMessage{
			{Role: gopenai.ChatMessageRoleSystem, Content: input.SystemPrompt},
			{Role: gopenai.ChatMessageRoleUser, Content: input.UserPrompt},
		},
	})
	if err != nil {
		return "", s.translateError(ctx, err, input.Model)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response choices returned", ErrGeneration)
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *openaiStrategy) GeneratePost(ctx context.Context, input Input) (Post, error) {
	content, err := s.GenerateChat(ctx, input)
	if err != nil {
		return Post{}, err
	}
	return ParsePost(content)
}

func (s *openaiStrategy) ValidateKey(ctx context.Context, apiKey string) error {
	if _, err := s.client(apiKey).ListModels(ctx); err != nil {
		return fmt.Errorf("openai key validation failed: %w", err)
	}
	return nil
}

func (s *openaiStrategy) translateError(ctx context.Context, err error, model string) error {
	var apiErr *gopenai.APIError
	if errors.As(err, &apiErr) {
		s.logger.ErrorContext(ctx, "OpenAI API call failed",
			"status", apiErr.HTTPStatusCode, "model", model, "message", apiErr.Message)
		if apiErr.HTTPStatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %q", ErrModelNotFound, model)
		}
		return fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	s.logger.ErrorContext(ctx, "OpenAI transport failure", "model", model, "error", err)
	return fmt.Errorf("%w: %v", ErrGeneration, err)
}
