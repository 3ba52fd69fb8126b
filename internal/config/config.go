package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds application configuration
type Config struct {
	Theme string `toml:"theme"`

	// Diff display
	TabWidth int  `toml:"tab_width"`
	Wrap     bool `toml:"wrap"`
	Overscan int  `toml:"overscan"`

	// Syntax highlighting
	TokenCacheSize int `toml:"token_cache_size"`

	// Backend command ("jj", "git", or empty to autodetect)
	Backend string `toml:"backend"`

	// Author label stamped on new comments
	Author string `toml:"author"`

	// Relocation scoring overrides. Zero values mean "use the stock
	// constants"; these exist for tuning, not because better values
	// are known.
	Relocation RelocationConfig `toml:"relocation"`
}

// RelocationConfig mirrors the anchor-relocation scoring constants.
type RelocationConfig struct {
	Threshold       float64 `toml:"threshold"`
	ContextWeight   float64 `toml:"context_weight"`
	ProximityWeight float64 `toml:"proximity_weight"`
	ProximityRange  float64 `toml:"proximity_range"`
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return defaultConfig(), nil // Return default if can't find config path
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file
func LoadFromFile(filePath string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = toml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// applyDefaults fills unset fields with their stock values
func (c *Config) applyDefaults() {
	if c.Theme == "" {
		c.Theme = "tokyo-night"
	}
	if c.TabWidth <= 0 {
		c.TabWidth = 4
	}
	if c.Overscan <= 0 {
		c.Overscan = 10
	}
	if c.TokenCacheSize <= 0 {
		c.TokenCacheSize = 2000
	}
	if c.Author == "" {
		c.Author = os.Getenv("USER")
	}
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", "revtui", "config.toml"), nil
}

// defaultConfig returns the default configuration
func defaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// InitDefault writes a default config file at the standard location if
// none exists yet, and returns its path.
func InitDefault() (string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(configPath); err == nil {
		return configPath, fmt.Errorf("config already exists at %s", configPath)
	}
	return configPath, defaultConfig().Save()
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", "revtui"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	return os.MkdirAll(configDir, 0755)
}

// Save persists the configuration to the TOML file
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
