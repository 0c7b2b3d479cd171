package database_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/vibelabs/vibechat/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB() unexpected error: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestListProfilesSeeded(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	profiles, err := store.ListProfiles(context.Background())
	if err != nil {
		t.Fatalf("ListProfiles() unexpected error: %v", err)
	}
	if len(profiles) != 4 {
		t.Fatalf("ListProfiles() returned %d profiles, want 4 seeded", len(profiles))
	}

	brands := make(map[string]bool)
	for _, p := range profiles {
		brands[p.Brand] = true
	}
	for _, want := range []string{"ollama", "openai", "gemini", "anthropic"} {
		if !brands[want] {
			t.Errorf("seeded profiles missing brand %q", want)
		}
	}
}

func TestActiveSelectionNotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	if _, err := store.ActiveSelection(context.Background(), 42); !errors.Is(err, database.ErrSelectionNotFound) {
		t.Errorf("ActiveSelection() error = %v, want ErrSelectionNotFound", err)
	}
}

func TestSetActiveSelection(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	profiles, err := store.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles() unexpected error: %v", err)
	}

	sel, err := store.SetActiveSelection(ctx, 42, profiles[0].ID)
	if err != nil {
		t.Fatalf("SetActiveSelection() unexpected error: %v", err)
	}
	if sel.UserID != 42 || sel.ProviderID != profiles[0].ID || !sel.IsActive {
		t.Errorf("SetActiveSelection() = %+v, want an active selection for user 42", sel)
	}
	if sel.Brand != profiles[0].Brand || sel.Model != profiles[0].Model {
		t.Errorf("selection profile = %s/%s, want %s/%s", sel.Brand, sel.Model, profiles[0].Brand, profiles[0].Model)
	}

	// Switching deactivates the previous selection.
	second, err := store.SetActiveSelection(ctx, 42, profiles[1].ID)
	if err != nil {
		t.Fatalf("SetActiveSelection() second call unexpected error: %v", err)
	}

	active, err := store.ActiveSelection(ctx, 42)
	if err != nil {
		t.Fatalf("ActiveSelection() unexpected error: %v", err)
	}
	if active.ProviderID != profiles[1].ID || active.ID != second.ID {
		t.Errorf("ActiveSelection() = %+v, want the latest selection", active)
	}

	got, err := store.GetSelection(ctx, second.ID)
	if err != nil {
		t.Fatalf("GetSelection() unexpected error: %v", err)
	}
	if got.ProviderID != profiles[1].ID {
		t.Errorf("GetSelection() provider = %d, want %d", got.ProviderID, profiles[1].ID)
	}
}

func TestSetActiveSelectionUnknownProfile(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	if _, err := store.SetActiveSelection(context.Background(), 42, 9999); !errors.Is(err, database.ErrSelectionNotFound) {
		t.Errorf("SetActiveSelection() error = %v, want ErrSelectionNotFound", err)
	}
}

func TestSelectionsAreUserScoped(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	profiles, err := store.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles() unexpected error: %v", err)
	}

	if _, err := store.SetActiveSelection(ctx, 1, profiles[0].ID); err != nil {
		t.Fatalf("SetActiveSelection(user 1) unexpected error: %v", err)
	}

	if _, err := store.ActiveSelection(ctx, 2); !errors.Is(err, database.ErrSelectionNotFound) {
		t.Errorf("ActiveSelection(user 2) error = %v, want ErrSelectionNotFound", err)
	}
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	if err := store.RunSQLMaintenance(context.Background()); err != nil {
		t.Errorf("RunSQLMaintenance() unexpected error: %v", err)
	}
}
