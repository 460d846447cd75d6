package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const (
	configSubdir   = "config"
	configFileName = "borc_config.json"

	keystoreSubdir = "keystore"
)

// Config holds the orchestrator key-management settings. The keystore
// root is an explicit value handed to the record store at construction,
// never ambient global state.
type Config struct {
	// KeystorePath is the directory holding one file per key.
	KeystorePath string `json:"keystore_path"`

	// Bech32Prefix is the cosmos chain's account address prefix.
	Bech32Prefix string `json:"bech32_prefix"`

	LogLevel   int    `json:"log_level"`
	LogFormat  string `json:"log_format"`
	LogSampler bool   `json:"log_sampler"`
}

func validateConfig(cfg *Config, basePath string) error {
	if cfg.KeystorePath == "" {
		cfg.KeystorePath = filepath.Join(basePath, keystoreSubdir)
	}
	if cfg.Bech32Prefix == "" {
		cfg.Bech32Prefix = "cosmos"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}

	if cfg.LogLevel < int(zerolog.TraceLevel) || cfg.LogLevel > int(zerolog.Disabled) {
		return fmt.Errorf("log level must be between %d and %d", int(zerolog.TraceLevel), int(zerolog.Disabled))
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("log format must be 'json' or 'console'")
	}
	return nil
}

// Save writes the given config to <basePath>/config/borc_config.json.
func Save(cfg *Config, basePath string) error {
	if err := validateConfig(cfg, basePath); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	configDir := filepath.Join(basePath, configSubdir)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configDir, configFileName)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Load reads the config from <basePath>/config/borc_config.json, applying
// defaults for unset fields.
func Load(basePath string) (Config, error) {
	configFile := filepath.Join(basePath, configSubdir, configFileName)
	data, err := os.ReadFile(filepath.Clean(configFile))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&cfg, basePath); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used when no config file exists yet.
func Default(basePath string) Config {
	cfg := Config{}
	_ = validateConfig(&cfg, basePath)
	return cfg
}
