package database

import "time"

// ProviderProfile identifies a chat-generation backend brand and the model
// served through it. Profiles are seeded by migration and read-only at
// runtime.
type ProviderProfile struct {
	ID        int64     `db:"id"`
	Brand     string    `db:"brand"`
	Model     string    `db:"model"`
	CreatedAt time.Time `db:"created_at"`
}

// UserProviderSelection links a user to exactly one ProviderProfile together
// with the user's credentials and generation preferences. APIKey holds the
// AES-encrypted key, or the empty string when the user relies on the
// system-default credential.
type UserProviderSelection struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	ProviderID   int64     `db:"provider_id"`
	APIKey       string    `db:"api_key"`
	IsDefaultKey bool      `db:"is_default_key"`
	Temperature  float64   `db:"temperature"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`

	// Joined from provider_profiles.
	Brand string `db:"brand"`
	Model string `db:"model"`
}
