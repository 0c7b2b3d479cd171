// Package chat orchestrates the memory-augmented answering pipeline: resolve
// the user's provider selection and credential, embed the incoming message,
// retrieve the user's prior conversation memories, compose the augmented
// prompt, generate an answer through the selected provider, and persist the
// exchange as a new memory.
package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vibelabs/vibechat/internal/database"
	"github.com/vibelabs/vibechat/internal/prompt"
	"github.com/vibelabs/vibechat/internal/provider"
	"github.com/vibelabs/vibechat/internal/vector"
)

// SelectionStore reads the user's provider selection.
type SelectionStore interface {
	ActiveSelection(ctx context.Context, userID int64) (*database.UserProviderSelection, error)
	GetSelection(ctx context.Context, id int64) (*database.UserProviderSelection, error)
}

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// MemoryStore reads and writes user-scoped conversation memories.
type MemoryStore interface {
	Search(ctx context.Context, userID int64, vec []float32, topK int) ([]vector.ChatMemory, error)
	Save(ctx context.Context, userID int64, userInput, aiResponse string, vec []float32) error
}

// KeyResolver decrypts a stored API key, distinguishing absence from failure.
type KeyResolver interface {
	Resolve(encrypted string) (key string, ok bool, err error)
}

// StrategyProvider maps a brand to its generation strategy.
type StrategyProvider interface {
	Get(brand provider.Brand) (provider.Strategy, error)
}

// Service runs the answering pipeline.
type Service struct {
	store        SelectionStore
	embedder     Embedder
	memories     MemoryStore
	resolver     KeyResolver
	strategies   StrategyProvider
	topK         int
	systemPrompt string
	logger       *slog.Logger
}

// NewService wires the pipeline dependencies.
func NewService(
	store SelectionStore,
	embedder Embedder,
	memories MemoryStore,
	resolver KeyResolver,
	strategies StrategyProvider,
	topK int,
	systemPrompt string,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:        store,
		embedder:     embedder,
		memories:     memories,
		resolver:     resolver,
		strategies:   strategies,
		topK:         topK,
		systemPrompt: systemPrompt,
		logger:       logger.With("component", "chat_service"),
	}
}

// Answer runs the full pipeline for one user message using the user's active
// provider selection and returns the generated reply. The reply is returned
// even when persisting the new memory fails; that failure is logged and the
// exchange is simply not remembered.
func (s *Service) Answer(ctx context.Context, userID int64, message string) (string, error) {
	sel, err := s.store.ActiveSelection(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load provider selection: %w", err)
	}
	return s.answer(ctx, sel, userID, message)
}

// AnswerWithSelection is Answer with an explicit provider selection id
// instead of the user's active one.
func (s *Service) AnswerWithSelection(ctx context.Context, userID, selectionID int64, message string) (string, error) {
	sel, err := s.store.GetSelection(ctx, selectionID)
	if err != nil {
		return "", fmt.Errorf("failed to load provider selection: %w", err)
	}
	return s.answer(ctx, sel, userID, message)
}

func (s *Service) answer(ctx context.Context, sel *database.UserProviderSelection, userID int64, message string) (string, error) {
	input, err := s.buildInput(sel)
	if err != nil {
		return "", err
	}

	strategy, err := s.strategies.Get(provider.Brand(sel.Brand))
	if err != nil {
		return "", err
	}

	vec, err := s.embedder.Embed(ctx, message)
	if err != nil {
		return "", fmt.Errorf("failed to embed message: %w", err)
	}

	memories, err := s.memories.Search(ctx, userID, vec, s.topK)
	if err != nil {
		return "", fmt.Errorf("failed to search memories: %w", err)
	}

	input.SystemPrompt = s.systemPrompt
	input.UserPrompt = prompt.BuildWithMemory(memories, message)

	answer, err := strategy.GenerateChat(ctx, input)
	if err != nil {
		return "", err
	}

	persisted := true
	if err := s.memories.Save(ctx, userID, message, answer, vec); err != nil {
		persisted = false
		s.logger.ErrorContext(ctx, "Failed to persist chat memory",
			"user_id", userID, "memory_persisted", false, "error", err)
	}

	s.logger.InfoContext(ctx, "Chat answered",
		"user_id", userID, "brand", sel.Brand, "model", sel.Model,
		"memories_used", len(memories), "memory_persisted", persisted)
	return answer, nil
}

// buildInput maps a stored selection to a provider request, resolving the
// user's encrypted key if one is present.
func (s *Service) buildInput(sel *database.UserProviderSelection) (provider.Input, error) {
	input := provider.Input{
		Model:         sel.Model,
		UseDefaultKey: sel.IsDefaultKey,
		Temperature:   sel.Temperature,
	}

	if !sel.IsDefaultKey {
		key, ok, err := s.resolver.Resolve(sel.APIKey)
		if err != nil {
			return provider.Input{}, fmt.Errorf("failed to resolve API key for selection %d: %w", sel.ID, err)
		}
		if !ok {
			// Selection claims a personal key but none is stored; the
			// strategy falls back to its system default.
			input.UseDefaultKey = true
		}
		input.APIKey = key
	}
	return input, nil
}
