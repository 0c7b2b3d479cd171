// Package provider defines the chat-generation strategy contract and its
// implementations for the supported backends. Strategies are collected into a
// brand-keyed registry built once at startup.
package provider

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnknownBrand is returned when no strategy is registered for a brand.
	// With consistent provider-profile data this indicates a wiring bug, not
	// a user error.
	ErrUnknownBrand = errors.New("no strategy registered for brand")

	// ErrGeneration is returned for provider backend transport failures.
	ErrGeneration = errors.New("generation request failed")

	// ErrModelNotFound specializes ErrGeneration for backends that report the
	// requested model as unknown. errors.Is(err, ErrGeneration) holds too.
	ErrModelNotFound = fmt.Errorf("%w: model not found", ErrGeneration)

	// ErrMalformedOutput is returned when a structured-post response violates
	// the title/body parsing contract.
	ErrMalformedOutput = errors.New("malformed generation output")
)

// Brand identifies a chat-generation backend.
type Brand string

const (
	BrandOllama    Brand = "ollama"
	BrandOpenAI    Brand = "openai"
	BrandGemini    Brand = "gemini"
	BrandAnthropic Brand = "anthropic"
)

// Input is the fully assembled request handed to a strategy. APIKey is the
// user's resolved plaintext key; when UseDefaultKey is set the strategy falls
// back to its configured system credential instead.
type Input struct {
	Model         string
	UseDefaultKey bool
	Temperature   float64
	APIKey        string
	SystemPrompt  string
	UserPrompt    string
}

// Post is a structured blog-style generation result.
type Post struct {
	Title string
	Body  string
}

// Strategy is the capability contract every provider implements. Instances
// are stateless with respect to requests and safe for concurrent use.
type Strategy interface {
	// Brand reports the backend this strategy serves.
	Brand() Brand

	// GenerateChat performs one blocking chat completion and returns the raw
	// response text.
	GenerateChat(ctx context.Context, input Input) (string, error)

	// GeneratePost performs one blocking completion and parses the response
	// into a titled post per the markdown heading contract.
	GeneratePost(ctx context.Context, input Input) (Post, error)

	// ValidateKey checks that the given API key is usable with the backend.
	ValidateKey(ctx context.Context, apiKey string) error
}
