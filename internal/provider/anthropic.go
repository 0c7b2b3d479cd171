package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/vibelabs/vibechat/internal/config"
)

// anthropicStrategy serves Anthropic's Messages API.
type anthropicStrategy struct {
	defaultKey string
	maxTokens  int64
	logger     *slog.Logger
}

// NewAnthropic creates the Anthropic strategy.
func NewAnthropic(cfg config.ProvidersConfig, logger *slog.Logger) Strategy {
	return &anthropicStrategy{
		defaultKey: cfg.AnthropicDefaultKey,
		maxTokens:  int64(cfg.AnthropicMaxTokens),
		logger:     logger.With("component", "anthropic_strategy"),
	}
}

func (s *anthropicStrategy) Brand() Brand {
	return BrandAnthropic
}

func (s *anthropicStrategy) keyFor(input Input) string {
	if input.UseDefaultKey || input.APIKey == "" {
		return s.defaultKey
	}
	return input.APIKey
}

func (s *anthropicStrategy) GenerateChat(ctx context.Context, input Input) (string, error) {
	client := anthropic.NewClient(option.WithAPIKey(s.keyFor(input)))

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(input.Model),
		MaxTokens:   s.maxTokens,
		Temperature: anthropic.Float(input.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: input.SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(input.UserPrompt)),
		},
	})
	if err != nil {
		return "", s.translateError(ctx, err, input.Model)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("%w: anthropic returned empty content", ErrGeneration)
	}
	return text, nil
}

func (s *anthropicStrategy) GeneratePost(ctx context.Context, input Input) (Post, error) {
	content, err := s.GenerateChat(ctx, input)
	if err != nil {
		return Post{}, err
	}
	return ParsePost(content)
}

func (s *anthropicStrategy) ValidateKey(ctx context.Context, apiKey string) error {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	if _, err := client.Models.List(ctx, anthropic.ModelListParams{}); err != nil {
		return fmt.Errorf("anthropic key validation failed: %w", err)
	}
	return nil
}

func (s *anthropicStrategy) translateError(ctx context.Context, err error, model string) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		s.logger.ErrorContext(ctx, "Anthropic API call failed",
			"status", apiErr.StatusCode, "model", model)
		if apiErr.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %q", ErrModelNotFound, model)
		}
		return fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	s.logger.ErrorContext(ctx, "Anthropic transport failure", "model", model, "error", err)
	return fmt.Errorf("%w: %v", ErrGeneration, err)
}
