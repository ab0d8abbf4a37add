package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Sync        SyncConfig        `toml:"sync"`
	Database    DatabaseConfig    `toml:"database"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	HubSpot HubSpotConfig `toml:"hubspot"`
	Dialpad DialpadConfig `toml:"dialpad"`
}

// HubSpotConfig contains HubSpot API credentials.
type HubSpotConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// DialpadConfig contains Dialpad API credentials.
type DialpadConfig struct {
	APIKey    string `toml:"api_key"`
	CompanyID string `toml:"company_id"`
	BaseURL   string `toml:"base_url"`
}

// SyncConfig contains sync behavior settings.
type SyncConfig struct {
	Frequency         string  `toml:"frequency"`          // manual, daily, weekly or monthly
	DeleteUnqualified bool    `toml:"delete_unqualified"` // remove unqualified leads from the directory
	PageSize          int     `toml:"page_size"`
	RateLimit         float64 `toml:"rate_limit"` // mutation requests per second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig serializes the config to TOML and writes it to path, overwriting any existing file.
//
// Secrets end up on disk, hence the restrictive mode.
func SaveConfig(config *Config, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// ValidateCredentials checks that every secret required for a sync run is present.
//
// A run must refuse to start before any network call when one is missing.
func (c *Config) ValidateCredentials() error {
	if c.Credentials.HubSpot.APIKey == "" {
		return fmt.Errorf("%w: hubspot api_key", ErrMissingCredentials)
	}
	if c.Credentials.Dialpad.APIKey == "" {
		return fmt.Errorf("%w: dialpad api_key", ErrMissingCredentials)
	}
	if c.Credentials.Dialpad.CompanyID == "" {
		return fmt.Errorf("%w: dialpad company_id", ErrMissingCredentials)
	}
	return nil
}
