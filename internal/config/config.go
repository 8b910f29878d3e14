package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"

	"github.com/gamecenter-tools/matchrules/internal/errors"
)

// DefaultAPIURL is the production rule set test endpoint.
const DefaultAPIURL = "https://api.appstoreconnect.apple.com/v1/gameCenterMatchmakingRuleSetTests"

// Config represents the complete configuration for the matchmaking tools
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Teams    []string       `yaml:"teams"`
	API      APIConfig      `yaml:"api"`
	Debug    bool           `yaml:"-" env:"MATCHRULES_DEBUG"`
}

// DefaultsConfig holds the request-level attributes applied when the
// requesting player's object does not supply a value
type DefaultsConfig struct {
	AppVersion     string `yaml:"app_version"`
	BundleID       string `yaml:"bundle_id"`
	Locale         string `yaml:"locale"`
	Platform       string `yaml:"platform"`
	MinPlayers     int    `yaml:"min_players"`
	MaxPlayers     int    `yaml:"max_players"`
	SecondsInQueue int    `yaml:"seconds_in_queue"`
}

// APIConfig holds the App Store Connect endpoint settings. The token and
// rule set id never come from the config file, only from the environment
// or command-line flags
type APIConfig struct {
	URL            string `yaml:"url" env:"ASC_API_URL"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Token          string `yaml:"-" env:"ASC_API_TOKEN"`
	RuleSetID      string `yaml:"-" env:"RULESET_ID"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			AppVersion:     "1.0.0",
			BundleID:       "com.example.mygame",
			Locale:         "EN-US",
			Platform:       "IOS",
			MinPlayers:     2,
			MaxPlayers:     2,
			SecondsInQueue: 0,
		},
		Teams: []string{"blue", "red"},
		API: APIConfig{
			URL:            DefaultAPIURL,
			TimeoutSeconds: 30,
		},
	}
}

// Load builds the effective configuration: built-in defaults, overlaid by an
// optional YAML config file, overlaid by environment variables. When path is
// empty the file is discovered with FindConfigFile; a missing discovered file
// is fine, a missing explicit path is an error. Flag precedence stays in the
// commands since only they know which flags were set.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		path = FindConfigFile()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("failed to read config file '%s'", path), err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("failed to parse config file '%s'", path), err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.NewConfigError("failed to read environment variables", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".matchrules.yml", ".matchrules.yaml", "matchrules.yml", "matchrules.yaml"}

	// Start from current directory
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move up one directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks the invariants the expansion relies on
func (c *Config) Validate() error {
	if len(c.Teams) == 0 {
		return errors.NewConfigError("teams must contain at least one name", nil)
	}
	if c.API.TimeoutSeconds <= 0 {
		return errors.NewConfigError("api timeout_seconds must be positive", nil)
	}
	if c.API.URL == "" {
		return errors.NewConfigError("api url must not be empty", nil)
	}
	return nil
}

// Timeout returns the API call timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}
