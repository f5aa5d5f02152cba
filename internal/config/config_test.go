package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REGISTRY_LEDGER_ENABLED", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/registry.db", cfg.Dataset.Path)
	assert.Equal(t, "api_key", cfg.Ledger.BindingMode)
	assert.Equal(t, "fuzzy", cfg.Search.DefaultPolicy)
	assert.Equal(t, 75, cfg.Search.Threshold)
	assert.Equal(t, 15*time.Second, cfg.Ledger.Timeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REGISTRY_LEDGER_ENABLED", "false")
	t.Setenv("REGISTRY_SERVER_PORT", "9090")
	t.Setenv("REGISTRY_SEARCH_DEFAULT_POLICY", "chars")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "chars", cfg.Search.DefaultPolicy)
}

func TestLoadYAMLFile(t *testing.T) {
	t.Setenv("REGISTRY_LEDGER_ENABLED", "false")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ledger:\n  spreadsheet_id: sheet-123\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sheet-123", cfg.Ledger.SpreadsheetID)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	yml := "server:\n  port: 9090\nledger:\n  enabled: false\nsearch:\n  threshold: 80\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Fields the file sets win over their defaults.
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.Ledger.Enabled)
	assert.Equal(t, 80, cfg.Search.Threshold)

	// Fields the file omits keep their defaults.
	assert.Equal(t, "data/registry.db", cfg.Dataset.Path)
	assert.Equal(t, "fuzzy", cfg.Search.DefaultPolicy)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	t.Setenv("REGISTRY_LEDGER_ENABLED", "false")
	t.Setenv("REGISTRY_SERVER_PORT", "7070")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"ledger_without_spreadsheet", map[string]string{
			"REGISTRY_LEDGER_ENABLED": "true",
		}},
		{"bad_binding_mode", map[string]string{
			"REGISTRY_LEDGER_ENABLED":      "false",
			"REGISTRY_LEDGER_BINDING_MODE": "device",
		}},
		{"bad_policy", map[string]string{
			"REGISTRY_LEDGER_ENABLED":        "false",
			"REGISTRY_SEARCH_DEFAULT_POLICY": "regex",
		}},
		{"threshold_out_of_range", map[string]string{
			"REGISTRY_LEDGER_ENABLED":   "false",
			"REGISTRY_SEARCH_THRESHOLD": "150",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
