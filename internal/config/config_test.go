package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("invoice:\n  currency_symbol: \"$\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "$", cfg.Invoice.CurrencySymbol)
	assert.Equal(t, "INVOICE", cfg.Invoice.Title)
	assert.Equal(t, "invoice.pdf", cfg.Invoice.FileName)
}

func TestLoadExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("invoice:\n  output_dir: ~/bills\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "bills"), cfg.Invoice.OutputDir)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"empty title":    "invoice:\n  title: \"\"\n",
		"file with dir":  "invoice:\n  file_name: a/b.pdf\n",
		"unknown format": "log:\n  format: xml\n",
		"bad yaml":       "invoice: [",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Invoice.Title = "TAX INVOICE"
	cfg.Log.Format = "json"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestExportPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Invoice.OutputDir = "/tmp/out"
	assert.Equal(t, filepath.Join("/tmp/out", "invoice.pdf"), cfg.ExportPath())
}
