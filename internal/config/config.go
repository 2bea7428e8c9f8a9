// Package config loads the assessment configuration: a YAML file for
// run-shape settings and the environment (optionally seeded from a .env
// file) for tenant credentials. Credentials never live in the YAML file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/tenantready/internal/domain"
	"github.com/felixgeelhaar/tenantready/internal/errors"
)

// Environment variables carrying the app registration credentials.
const (
	EnvTenantID     = "TENANT_ID"
	EnvClientID     = "CLIENT_ID"
	EnvClientSecret = "CLIENT_SECRET"
)

// CollectorConfig names the collection source for one service area:
// either a command line to execute or a pre-collected envelope file
// ("-" reads the envelope from stdin).
type CollectorConfig struct {
	Command []string `yaml:"command,omitempty"`
	File    string   `yaml:"file,omitempty"`
}

// Config is the run-shape configuration.
type Config struct {
	OutputDir  string                     `yaml:"output_dir"`
	Formats    []string                   `yaml:"formats"`
	Areas      []string                   `yaml:"areas,omitempty"`
	Collectors map[string]CollectorConfig `yaml:"collectors,omitempty"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputDir: ".",
		Formats:   []string{"csv", "xlsx"},
	}
}

// LoadConfig loads configuration from a YAML file, applying defaults for
// anything left unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigNotFound, "read config file", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "unmarshal config", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// ValidateConfig validates a configuration.
func ValidateConfig(config *Config) error {
	for _, format := range config.Formats {
		if format != "csv" && format != "xlsx" {
			return errors.NewConfigInvalidError(fmt.Sprintf("unknown report format %q (want csv or xlsx)", format))
		}
	}
	for _, name := range config.Areas {
		if _, err := domain.ParseArea(name); err != nil {
			return errors.NewConfigInvalidError(fmt.Sprintf("unknown service area %q", name))
		}
	}
	for name, cc := range config.Collectors {
		if _, err := domain.ParseArea(name); err != nil {
			return errors.NewConfigInvalidError(fmt.Sprintf("collector configured for unknown area %q", name))
		}
		if len(cc.Command) == 0 && cc.File == "" {
			return errors.NewConfigInvalidError(fmt.Sprintf("collector for %q needs a command or a file", name))
		}
		if len(cc.Command) > 0 && cc.File != "" {
			return errors.NewConfigInvalidError(fmt.Sprintf("collector for %q has both a command and a file", name))
		}
	}
	return nil
}

// Credentials is the app registration identity used for token
// acquisition.
type Credentials struct {
	TenantID     string
	ClientID     string
	ClientSecret string
}

// LoadEnv seeds the process environment from a .env file when one
// exists. Variables already set in the environment win.
func LoadEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, "load .env file", err)
	}
	return nil
}

// CredentialsFromEnv reads and validates the credentials before a run
// starts, so a half-configured environment fails fast instead of midway
// through collection.
func CredentialsFromEnv() (Credentials, error) {
	creds := Credentials{
		TenantID:     os.Getenv(EnvTenantID),
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
	}

	var missing []string
	if creds.TenantID == "" {
		missing = append(missing, EnvTenantID)
	}
	if creds.ClientID == "" {
		missing = append(missing, EnvClientID)
	}
	if creds.ClientSecret == "" {
		missing = append(missing, EnvClientSecret)
	}
	if len(missing) > 0 {
		return Credentials{}, errors.NewCredentialsMissingError(missing)
	}
	return creds, nil
}
