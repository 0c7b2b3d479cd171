package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// ErrSelectionNotFound is returned when a referenced provider selection does
// not exist.
var ErrSelectionNotFound = errors.New("provider selection not found")

const selectionColumns = `
	s.id, s.user_id, s.provider_id, s.api_key, s.is_default_key,
	s.temperature, s.is_active, s.created_at, s.updated_at,
	p.brand, p.model`

// Store defines the interface for database operations. Methods accept a
// context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetSelection retrieves a provider selection (joined with its profile)
	// by id. Returns ErrSelectionNotFound if it does not exist.
	GetSelection(ctx context.Context, id int64) (*UserProviderSelection, error)

	// ActiveSelection retrieves the user's currently active selection.
	// Returns ErrSelectionNotFound if the user has none.
	ActiveSelection(ctx context.Context, userID int64) (*UserProviderSelection, error)

	// ListProfiles returns all seeded provider profiles.
	ListProfiles(ctx context.Context) ([]ProviderProfile, error)

	// SetActiveSelection makes the given profile the user's active selection,
	// creating a selection row for it if the user has none yet, and returns it.
	SetActiveSelection(ctx context.Context, userID, providerID int64) (*UserProviderSelection, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) GetSelection(ctx context.Context, id int64) (*UserProviderSelection, error) {
	query := `SELECT` + selectionColumns + `
		FROM user_provider_selections s
		JOIN provider_profiles p ON p.id = s.provider_id
		WHERE s.id = ?`

	var sel UserProviderSelection
	if err := s.db.GetContext(ctx, &sel, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", ErrSelectionNotFound, id)
		}
		return nil, fmt.Errorf("failed to get selection %d: %w", id, err)
	}
	return &sel, nil
}

func (s *sqlxStore) ActiveSelection(ctx context.Context, userID int64) (*UserProviderSelection, error) {
	query := `SELECT` + selectionColumns + `
		FROM user_provider_selections s
		JOIN provider_profiles p ON p.id = s.provider_id
		WHERE s.user_id = ? AND s.is_active = 1
		ORDER BY s.updated_at DESC
		LIMIT 1`

	var sel UserProviderSelection
	if err := s.db.GetContext(ctx, &sel, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no active selection for user %d", ErrSelectionNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get active selection for user %d: %w", userID, err)
	}
	return &sel, nil
}

func (s *sqlxStore) ListProfiles(ctx context.Context) ([]ProviderProfile, error) {
	var profiles []ProviderProfile
	err := s.db.SelectContext(ctx, &profiles,
		`SELECT id, brand, model, created_at FROM provider_profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list provider profiles: %w", err)
	}
	return profiles, nil
}

func (s *sqlxStore) SetActiveSelection(ctx context.Context, userID, providerID int64) (*UserProviderSelection, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var exists bool
	if err := tx.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM provider_profiles WHERE id = ?)`, providerID); err != nil {
		return nil, fmt.Errorf("failed to check provider profile %d: %w", providerID, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: provider profile %d", ErrSelectionNotFound, providerID)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE user_provider_selections SET is_active = 0, updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = ?`, userID); err != nil {
		return nil, fmt.Errorf("failed to clear active selections for user %d: %w", userID, err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE user_provider_selections SET is_active = 1, updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = ? AND provider_id = ?`, userID, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to activate selection: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_provider_selections (user_id, provider_id, is_active) VALUES (?, ?, 1)`,
			userID, providerID); err != nil {
			return nil, fmt.Errorf("failed to create selection: %w", err)
		}
	}

	query := `SELECT` + selectionColumns + `
		FROM user_provider_selections s
		JOIN provider_profiles p ON p.id = s.provider_id
		WHERE s.user_id = ? AND s.is_active = 1`
	var sel UserProviderSelection
	if err := tx.GetContext(ctx, &sel, query, userID); err != nil {
		return nil, fmt.Errorf("failed to reload active selection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit selection change: %w", err)
	}

	s.logger.InfoContext(ctx, "Active provider selection changed",
		"user_id", userID, "provider_id", providerID, "brand", sel.Brand)
	return &sel, nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "ANALYZE"); err != nil {
		return fmt.Errorf("failed to analyze database: %w", err)
	}
	s.logger.InfoContext(ctx, "SQL maintenance completed")
	return nil
}
