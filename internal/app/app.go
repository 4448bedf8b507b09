package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"

	"github.com/andy/gemvoice/internal/config"
	"github.com/andy/gemvoice/internal/crypto"
	"github.com/andy/gemvoice/internal/db"
	"github.com/andy/gemvoice/internal/domain"
	"github.com/andy/gemvoice/internal/ledger"
	"github.com/andy/gemvoice/internal/logging"
	"github.com/andy/gemvoice/internal/render"
	"github.com/andy/gemvoice/internal/repository"
	"github.com/andy/gemvoice/internal/service"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// App is the dependency injection container for all application components
type App struct {
	Config     *config.Config
	ConfigPath string
	DB         *db.DB
	Keyring    crypto.Keyring
	Logger     *zap.Logger

	// Repositories
	Settings  repository.SettingsRepository
	Addresses *repository.AddressStore

	// Services
	Exporter service.ExportService
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading config
// 2. Building the logger
// 3. Getting encryption key from keyring
// 4. Opening database and running migrations
// 5. Creating repositories and services
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg, config.DefaultConfigPath())
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config, configPath string) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	keyring := crypto.NewKeyring()
	password, err := encryptionKey(keyring)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.Database.Path, password)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a := newApp(cfg, configPath, database, repository.NewSettingsRepo(database), logger)
	a.Keyring = keyring
	return a, nil
}

// newApp wires repositories and services around already opened resources
func newApp(cfg *config.Config, configPath string, database *db.DB, settings repository.SettingsRepository, logger *zap.Logger) *App {
	a := &App{
		Config:     cfg,
		ConfigPath: configPath,
		DB:         database,
		Logger:     logger,
		Settings:   settings,
		Addresses:  repository.NewAddressStore(settings, logger.Named("addresses")),
	}
	a.Exporter = service.NewExportService(logger.Named("export"), service.WithLayout(a.LayoutOptions))
	return a
}

// encryptionKey returns the stored key, prompting for a new one on first run
func encryptionKey(keyring crypto.Keyring) (string, error) {
	password, err := keyring.GetKey()
	if err == nil {
		return password, nil
	}
	if !errors.Is(err, crypto.ErrKeyNotFound) {
		return "", err
	}

	fmt.Println("Setting up database encryption for the first time...")
	password, err = promptForPassword()
	if err != nil {
		return "", fmt.Errorf("failed to set password: %w", err)
	}

	if err := keyring.SetKey(password); err != nil {
		return "", fmt.Errorf("failed to store encryption key: %w", err)
	}
	return password, nil
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// ForgetEncryption closes and deletes the settings database and removes its
// key from the keyring. The next run starts from scratch with a new password.
func (a *App) ForgetEncryption() error {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.DB = nil
	}

	path := a.Config.Database.Path
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}

	if a.Keyring == nil {
		return nil
	}
	if err := a.Keyring.DeleteKey(); err != nil && !errors.Is(err, crypto.ErrKeyNotFound) {
		return err
	}
	a.Logger.Info("removed settings database and encryption key", zap.String("path", path))
	return nil
}

// LayoutOptions returns the document layout for the current invoice settings
func (a *App) LayoutOptions() render.Options {
	opts := render.DefaultOptions()
	if a.Config.Invoice.Title != "" {
		opts.Title = a.Config.Invoice.Title
	}
	if a.Config.Invoice.NumberPlaceholder != "" {
		opts.InvoiceNumber = a.Config.Invoice.NumberPlaceholder
	}
	return opts
}

// NewLedger returns an empty ledger seeded with the stored sender address.
// A storage failure is logged and the default address is used.
func (a *App) NewLedger(ctx context.Context, opts ...ledger.Option) *ledger.Ledger {
	from, err := a.Addresses.Load(ctx)
	if err != nil {
		a.Logger.Warn("using default from-address", zap.Error(err))
		from = domain.DefaultFromAddress()
	}
	return ledger.New(append([]ledger.Option{ledger.WithFromAddress(from)}, opts...)...)
}

// promptForPassword prompts user for a new database password (first run)
// This should be called when keyring has no stored key
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your saved invoice settings will be encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(a.ConfigPath)
}
