package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete service configuration. Precedence: built-in
// defaults, then the yaml file, then environment overrides. Defaults
// live in DefaultConfig rather than envconfig `default` tags: those
// tags re-apply whenever the env var is absent, which would clobber
// every defaulted field the yaml file set.
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Dataset DatasetConfig `yaml:"dataset" envconfig:"DATASET"`
	Ledger  LedgerConfig  `yaml:"ledger" envconfig:"LEDGER"`
	Search  SearchConfig  `yaml:"search" envconfig:"SEARCH"`
	Change  ChangeConfig  `yaml:"change_api" envconfig:"CHANGE_API"`
}

type ServerConfig struct {
	Port         int           `yaml:"port" envconfig:"PORT"`
	TokenSecret  string        `yaml:"token_secret" envconfig:"TOKEN_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" envconfig:"TOKEN_TTL"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
}

type DatasetConfig struct {
	// Path of the registry sqlite file; produced and refreshed by an
	// external download job.
	Path    string        `yaml:"path" envconfig:"PATH"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

type LedgerConfig struct {
	Enabled        bool          `yaml:"enabled" envconfig:"ENABLED"`
	CredentialPath string        `yaml:"credential_path" envconfig:"CREDENTIAL_PATH"`
	SpreadsheetID  string        `yaml:"spreadsheet_id" envconfig:"SPREADSHEET_ID"`
	SheetName      string        `yaml:"sheet_name" envconfig:"SHEET_NAME"`
	BindingMode    string        `yaml:"binding_mode" envconfig:"BINDING_MODE"`
	Timeout        time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

type SearchConfig struct {
	// Default match policy: token, chars, fuzzy or token_fuzzy. The
	// chars policy is opt-in; its anagram-level false positives are a
	// recall trade-off, not the default behavior.
	DefaultPolicy string `yaml:"default_policy" envconfig:"DEFAULT_POLICY"`
	Threshold     int    `yaml:"threshold" envconfig:"THRESHOLD"`
}

type ChangeConfig struct {
	BaseURL string        `yaml:"base_url" envconfig:"BASE_URL"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

// DefaultConfig returns the built-in defaults Load layers the yaml
// file and environment on top of.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			TokenSecret:  "dev-only-secret",
			TokenTTL:     12 * time.Hour,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Dataset: DatasetConfig{
			Path:    "data/registry.db",
			Timeout: 10 * time.Second,
		},
		Ledger: LedgerConfig{
			Enabled:        true,
			CredentialPath: "credentials.json",
			SheetName:      "Sheet1",
			BindingMode:    "api_key",
			Timeout:        15 * time.Second,
		},
		Search: SearchConfig{
			DefaultPolicy: "fuzzy",
			Threshold:     75,
		},
		Change: ChangeConfig{
			BaseURL: "http://openapi.foodsafetykorea.go.kr",
			Timeout: 10 * time.Second,
		},
	}
}

// Load reads the optional yaml file at path over the defaults, then
// applies environment overrides with the REGISTRY_ prefix.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := envconfig.Process("REGISTRY", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Ledger.Enabled && c.Ledger.SpreadsheetID == "" {
		return fmt.Errorf("ledger enabled but spreadsheet_id not set")
	}
	switch c.Ledger.BindingMode {
	case "api_key", "ip":
	default:
		return fmt.Errorf("invalid binding_mode %q", c.Ledger.BindingMode)
	}
	switch c.Search.DefaultPolicy {
	case "token", "chars", "fuzzy", "token_fuzzy":
	default:
		return fmt.Errorf("invalid default_policy %q", c.Search.DefaultPolicy)
	}
	if c.Search.Threshold < 0 || c.Search.Threshold > 100 {
		return fmt.Errorf("threshold %d out of range", c.Search.Threshold)
	}
	return nil
}
