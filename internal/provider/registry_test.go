package provider_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/vibelabs/vibechat/internal/provider"
)

type stubStrategy struct {
	brand provider.Brand
}

func (s stubStrategy) Brand() provider.Brand { return s.brand }

func (s stubStrategy) GenerateChat(context.Context, provider.Input) (string, error) {
	return "stub answer", nil
}

func (s stubStrategy) GeneratePost(context.Context, provider.Input) (provider.Post, error) {
	return provider.Post{Title: "stub", Body: "stub"}, nil
}

func (s stubStrategy) ValidateKey(context.Context, string) error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegistryGet(t *testing.T) {
	t.Parallel()

	registry, err := provider.NewRegistry(discardLogger(),
		stubStrategy{brand: provider.BrandOllama},
		stubStrategy{brand: provider.BrandOpenAI},
	)
	if err != nil {
		t.Fatalf("NewRegistry() unexpected error: %v", err)
	}

	strategy, err := registry.Get(provider.BrandOllama)
	if err != nil {
		t.Fatalf("Get(ollama) unexpected error: %v", err)
	}
	if strategy.Brand() != provider.BrandOllama {
		t.Errorf("Get(ollama) brand = %q, want %q", strategy.Brand(), provider.BrandOllama)
	}

	if _, err := registry.Get(provider.BrandGemini); !errors.Is(err, provider.ErrUnknownBrand) {
		t.Errorf("Get(gemini) error = %v, want ErrUnknownBrand", err)
	}
}

func TestRegistryRejectsDuplicateBrands(t *testing.T) {
	t.Parallel()

	_, err := provider.NewRegistry(discardLogger(),
		stubStrategy{brand: provider.BrandOllama},
		stubStrategy{brand: provider.BrandOllama},
	)
	if err == nil {
		t.Fatal("NewRegistry() with duplicate brands should fail")
	}
}
