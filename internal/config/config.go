// Package config loads relay configuration from defaults, an optional
// YAML file, and environment overrides, in that order of precedence
// (later wins).
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"deaddrop/internal/verify"
)

// Config holds every tunable the relay exposes.
//
// Environment overrides use the DEADDROP_ prefix, so ListenAddr becomes
// DEADDROP_LISTEN_ADDR and so on.
type Config struct {
	// ListenAddr is the host:port the HTTP server binds.
	ListenAddr string `yaml:"listen_addr" envconfig:"LISTEN_ADDR"`

	// DatabasePath is the SQLite database file.
	DatabasePath string `yaml:"database_path" envconfig:"DATABASE_PATH"`

	// MaxCiphertextBytes caps message ciphertext size.
	MaxCiphertextBytes int `yaml:"max_ciphertext_bytes" envconfig:"MAX_CIPHERTEXT_BYTES"`

	// MaxRequestBytes caps HTTP request body size.
	MaxRequestBytes int64 `yaml:"max_request_bytes" envconfig:"MAX_REQUEST_BYTES"`

	// VerifyMode selects the signature policy: "permissive" or "strict".
	VerifyMode string `yaml:"verify_mode" envconfig:"VERIFY_MODE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:         ":8080",
		DatabasePath:       "deaddrop.db",
		MaxCiphertextBytes: 2764,
		MaxRequestBytes:    8192,
		VerifyMode:         verify.ModePermissive,
	}
}

// Load builds the effective configuration. The file at path is optional
// when path is empty; a named file that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("deaddrop", &cfg); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the relay cannot run with.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	if c.MaxCiphertextBytes <= 0 {
		return fmt.Errorf("max_ciphertext_bytes must be positive, got %d", c.MaxCiphertextBytes)
	}
	if c.MaxRequestBytes <= 0 {
		return fmt.Errorf("max_request_bytes must be positive, got %d", c.MaxRequestBytes)
	}
	if _, err := verify.ForMode(c.VerifyMode); err != nil {
		return err
	}
	return nil
}
