package repository

import (
	"context"
)

// SettingsRepository is a string key-value store for user settings
type SettingsRepository interface {
	// Get returns the stored value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)
	// Set inserts or replaces the value for key
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// DeleteAll wipes every stored setting
	DeleteAll(ctx context.Context) error
}
