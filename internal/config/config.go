package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Invoice document settings
	Invoice InvoiceConfig `yaml:"invoice"`

	// Log output
	Log LogConfig `yaml:"log"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to SQLite database
}

type InvoiceConfig struct {
	Title             string `yaml:"title"`              // Heading printed on the document
	NumberPlaceholder string `yaml:"number_placeholder"` // Static invoice number, e.g. "INV-001"
	CurrencySymbol    string `yaml:"currency_symbol"`    // Shown on screen only; the PDF has no symbol
	OutputDir         string `yaml:"output_dir"`         // Directory for exported PDFs
	FileName          string `yaml:"file_name"`          // Default export file name
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
	Path   string `yaml:"path"`   // Log file; empty disables logging
}

func baseDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		homeDir = "."
	}
	return filepath.Join(homeDir, ".config", "gemvoice")
}

// DefaultConfigPath returns ~/.config/gemvoice/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(baseDir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := baseDir()

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "gemvoice.db"),
		},
		Invoice: InvoiceConfig{
			Title:             "INVOICE",
			NumberPlaceholder: "INV-001",
			CurrencySymbol:    "₹",
			OutputDir:         filepath.Join(dir, "invoices"),
			FileName:          "invoice.pdf",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Path:   filepath.Join(dir, "gemvoice.log"),
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Fields missing from the file keep their defaults
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.expandPaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Validate checks values that would otherwise fail much later
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Invoice.Title) == "" {
		return fmt.Errorf("invoice.title cannot be empty")
	}
	if name := c.Invoice.FileName; name == "" || strings.ContainsRune(name, os.PathSeparator) {
		return fmt.Errorf("invoice.file_name must be a plain file name, got %q", name)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// ExportPath returns the default destination for an exported invoice
func (c *Config) ExportPath() string {
	return filepath.Join(c.Invoice.OutputDir, c.Invoice.FileName)
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates all necessary directories (for database, invoices, logs)
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Database.Path), c.Invoice.OutputDir}
	if c.Log.Path != "" {
		dirs = append(dirs, filepath.Dir(c.Log.Path))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) expandPaths() {
	c.Database.Path = ExpandHome(c.Database.Path)
	c.Invoice.OutputDir = ExpandHome(c.Invoice.OutputDir)
	c.Log.Path = ExpandHome(c.Log.Path)
}

// ExpandHome replaces a leading "~/" with the user's home directory
func ExpandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, rest)
}
