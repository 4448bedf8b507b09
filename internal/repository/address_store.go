package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andy/gemvoice/internal/domain"
	"go.uber.org/zap"
)

// FromAddressKey is the settings key holding the sender address
const FromAddressKey = "invoice-from-address"

// AddressStore persists the sender address as flat JSON in the settings table
type AddressStore struct {
	settings SettingsRepository
	logger   *zap.Logger
}

// NewAddressStore creates a new AddressStore
func NewAddressStore(settings SettingsRepository, logger *zap.Logger) *AddressStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AddressStore{settings: settings, logger: logger}
}

// Load returns the stored sender address. When nothing is stored, or the
// stored value cannot be decoded, the default address is returned; a corrupt
// value is logged and otherwise ignored.
func (s *AddressStore) Load(ctx context.Context) (domain.Address, error) {
	raw, ok, err := s.settings.Get(ctx, FromAddressKey)
	if err != nil {
		return domain.DefaultFromAddress(), fmt.Errorf("failed to load from-address: %w", err)
	}
	if !ok {
		return domain.DefaultFromAddress(), nil
	}

	var addr domain.Address
	if err := json.Unmarshal([]byte(raw), &addr); err != nil {
		s.logger.Warn("ignoring unreadable stored from-address",
			zap.String("key", FromAddressKey),
			zap.Error(err),
		)
		return domain.DefaultFromAddress(), nil
	}

	return addr, nil
}

// Save writes addr, replacing any stored value
func (s *AddressStore) Save(ctx context.Context, addr domain.Address) error {
	data, err := json.Marshal(addr)
	if err != nil {
		return fmt.Errorf("failed to encode from-address: %w", err)
	}

	if err := s.settings.Set(ctx, FromAddressKey, string(data)); err != nil {
		return err
	}

	s.logger.Debug("saved from-address", zap.String("name", addr.Name))
	return nil
}

// Reset forgets the stored address so Load returns the default again
func (s *AddressStore) Reset(ctx context.Context) error {
	return s.settings.Delete(ctx, FromAddressKey)
}
