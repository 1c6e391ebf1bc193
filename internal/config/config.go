// Package config loads grove configuration: the persona used as the
// root system message, the default model options, the API endpoint,
// and the store location.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents grove configuration.
type Config struct {
	Persona string      `yaml:"persona"`
	Model   ModelConfig `yaml:"model"`
	API     APIConfig   `yaml:"api"`
	Store   StoreConfig `yaml:"store"`
}

// ModelConfig holds default model options.
type ModelConfig struct {
	Name        string  `yaml:"name"`
	Temperature float64 `yaml:"temperature"`
}

// APIConfig holds the transport endpoint settings. The key itself is
// never written to the config file; only the name of the environment
// variable holding it is.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	KeyEnv  string `yaml:"key_env"`
}

// StoreConfig holds the session store location.
type StoreConfig struct {
	Path string `yaml:"path"`
}

const (
	DefaultPersona = "You are a helpful assistant."
	DefaultModel   = "gpt-4o-mini"
	DefaultKeyEnv  = "OPENAI_API_KEY"
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Persona: DefaultPersona,
		Model: ModelConfig{
			Name:        DefaultModel,
			Temperature: 0.7,
		},
		API: APIConfig{
			KeyEnv: DefaultKeyEnv,
		},
		Store: StoreConfig{},
	}
}

// Path returns the config file location: $GROVE_CONFIG if set,
// otherwise ~/.grove/config.yml.
func Path() (string, error) {
	if p := os.Getenv("GROVE_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".grove", "config.yml"), nil
}

// Load reads the config file, falling back to defaults for anything
// missing. A missing file is not an error.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path, err := Path()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return applyDefaults(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var fileCfg fileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	mergeConfig(cfg, &fileCfg)

	return applyDefaults(cfg)
}

// fileConfig mirrors Config for parsing. Temperature is a pointer so
// an explicit 0 in the file is distinguishable from the field being
// absent.
type fileConfig struct {
	Persona string `yaml:"persona"`
	Model   struct {
		Name        string   `yaml:"name"`
		Temperature *float64 `yaml:"temperature"`
	} `yaml:"model"`
	API   APIConfig   `yaml:"api"`
	Store StoreConfig `yaml:"store"`
}

// Save writes the config file, creating its directory if needed.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// StorePath resolves the session store location, defaulting to
// ~/.grove/sessions.db next to the config file.
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".grove", "sessions.db"), nil
}

// mergeConfig overlays values the file actually set onto dst.
func mergeConfig(dst *Config, src *fileConfig) {
	if src.Persona != "" {
		dst.Persona = src.Persona
	}
	if src.Model.Name != "" {
		dst.Model.Name = src.Model.Name
	}
	if src.Model.Temperature != nil {
		dst.Model.Temperature = *src.Model.Temperature
	}
	if src.API.BaseURL != "" {
		dst.API.BaseURL = src.API.BaseURL
	}
	if src.API.KeyEnv != "" {
		dst.API.KeyEnv = src.API.KeyEnv
	}
	if src.Store.Path != "" {
		dst.Store.Path = src.Store.Path
	}
}

// applyDefaults fills any field a sparse config file left empty and
// applies environment overrides.
func applyDefaults(cfg *Config) (*Config, error) {
	if cfg.Persona == "" {
		cfg.Persona = DefaultPersona
	}
	if cfg.Model.Name == "" {
		cfg.Model.Name = DefaultModel
	}
	if cfg.API.KeyEnv == "" {
		cfg.API.KeyEnv = DefaultKeyEnv
	}
	if v := os.Getenv("GROVE_MODEL"); v != "" {
		cfg.Model.Name = v
	}
	if v := os.Getenv("GROVE_API_BASE"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("GROVE_STORE"); v != "" {
		cfg.Store.Path = v
	}
	return cfg, nil
}
