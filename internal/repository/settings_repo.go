package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andy/gemvoice/internal/db"
)

// SettingsRepo is a SQLite implementation of SettingsRepository
type SettingsRepo struct {
	db *db.DB
}

// NewSettingsRepo creates a new SettingsRepo
func NewSettingsRepo(database *db.DB) *SettingsRepo {
	return &SettingsRepo{db: database}
}

// Get retrieves the value stored under key
func (r *SettingsRepo) Get(ctx context.Context, key string) (string, bool, error) {
	query := "SELECT value FROM settings WHERE key = ?"

	var value string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get setting %q: %w", key, err)
	}

	return value, true, nil
}

// Set saves the value under key (insert or replace)
func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT OR REPLACE INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, key, value, formatTime())
	if err != nil {
		return fmt.Errorf("failed to save setting %q: %w", key, err)
	}

	return nil
}

// Delete removes the value stored under key
func (r *SettingsRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete setting %q: %w", key, err)
	}

	return nil
}

// DeleteAll removes every stored setting
func (r *SettingsRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM settings")
	if err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}

	return nil
}
