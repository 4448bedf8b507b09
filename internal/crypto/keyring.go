package crypto

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

// Keyring provides secure key storage abstraction
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
	DeleteKey() error
}

const (
	ServiceName = "gemvoice"
	KeyName     = "db-encryption-key"

	// EnvKey overrides the OS keyring, for headless machines and CI
	EnvKey = "GEMVOICE_DB_KEY"
)

var ErrKeyNotFound = errors.New("encryption key not found")

// NewKeyring returns the best available keyring implementation: the
// environment variable when it is set, the OS keyring otherwise.
func NewKeyring() Keyring {
	if os.Getenv(EnvKey) != "" {
		return &envKeyring{}
	}
	return &osKeyring{}
}

type osKeyring struct{}

// GetKey retrieves the encryption key from the OS keyring
func (k *osKeyring) GetKey() (string, error) {
	key, err := keyring.Get(ServiceName, KeyName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w in keyring", ErrKeyNotFound)
		}
		return "", fmt.Errorf("failed to retrieve key from keyring: %w", err)
	}

	if key == "" {
		return "", fmt.Errorf("%w: stored key is empty", ErrKeyNotFound)
	}

	return key, nil
}

// SetKey stores the encryption key in the OS keyring
func (k *osKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}

	if err := keyring.Set(ServiceName, KeyName, password); err != nil {
		return fmt.Errorf("failed to store key in keyring (set %s instead): %w", EnvKey, err)
	}

	return nil
}

// DeleteKey removes the encryption key from the OS keyring
func (k *osKeyring) DeleteKey() error {
	if err := keyring.Delete(ServiceName, KeyName); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%w in keyring", ErrKeyNotFound)
		}
		return fmt.Errorf("failed to delete key from keyring: %w", err)
	}

	return nil
}

type envKeyring struct{}

// GetKey retrieves the encryption key from the environment
func (k *envKeyring) GetKey() (string, error) {
	key := os.Getenv(EnvKey)
	if key == "" {
		return "", fmt.Errorf("%w: %s is not set", ErrKeyNotFound, EnvKey)
	}

	return key, nil
}

// SetKey cannot persist anything; the variable is managed by the user
func (k *envKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}

	return fmt.Errorf("key is read from %s; update the variable instead", EnvKey)
}

// DeleteKey returns an error suggesting to unset the environment variable
func (k *envKeyring) DeleteKey() error {
	return fmt.Errorf("key is read from %s; unset the variable manually", EnvKey)
}
