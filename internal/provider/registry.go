package provider

import (
	"fmt"
	"log/slog"
)

// Registry maps brands to their strategies. It is built once at process start
// and read-only afterwards, so unsynchronized concurrent reads are safe.
type Registry struct {
	strategies map[Brand]Strategy
}

// NewRegistry indexes the given strategies by their own reported brand.
// Adding a provider means adding one Strategy implementation here; dispatch
// never changes.
func NewRegistry(logger *slog.Logger, strategies ...Strategy) (*Registry, error) {
	byBrand := make(map[Brand]Strategy, len(strategies))
	for _, s := range strategies {
		if _, dup := byBrand[s.Brand()]; dup {
			return nil, fmt.Errorf("duplicate strategy for brand %q", s.Brand())
		}
		byBrand[s.Brand()] = s
	}

	brands := make([]string, 0, len(byBrand))
	for b := range byBrand {
		brands = append(brands, string(b))
	}
	logger.Info("Provider registry initialized", "brands", brands)

	return &Registry{strategies: byBrand}, nil
}

// Get returns the strategy for brand, or ErrUnknownBrand.
func (r *Registry) Get(brand Brand) (Strategy, error) {
	s, ok := r.strategies[brand]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBrand, brand)
	}
	return s, nil
}
