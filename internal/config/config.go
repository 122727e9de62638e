// Package config persists dnsset's defaults.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	appName    = "dnsset"
	configFile = "config.json"
)

// Config holds the persisted defaults.
type Config struct {
	DefaultInterface string `json:"defaultInterface"` // applied when --interface is omitted
	DefaultProvider  string `json:"defaultProvider"`  // provider used by autostart and bare "set"
	Autostart        bool   `json:"autostart"`        // re-apply the default provider on login
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{}
}

// Dir returns the configuration directory, creating it if needed.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the configuration from disk. A missing file yields the
// defaults.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return loadFile(path)
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to disk.
func Save(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return saveFile(path, cfg)
}

func saveFile(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
