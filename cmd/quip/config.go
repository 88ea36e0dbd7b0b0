// config.go
package main

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/PabloGalante/quip-agent/internal/domain"
)

// Config is the optional ~/.config/quip/config.yaml. Everything in it has a
// sensible default; the file only needs to exist when the user wants to pin
// a model, endpoint, or joke preferences.
type Config struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`

	Style       string   `yaml:"style"`
	Topic       string   `yaml:"topic"`
	Length      string   `yaml:"length"`
	Temperature *float64 `yaml:"temperature"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "quip", "config.yaml")
}

func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// PreferencesFromConfig overlays the config's joke settings on the defaults.
// Unset fields keep their default; set fields must parse.
func PreferencesFromConfig(cfg *Config) (domain.Preferences, error) {
	prefs := domain.DefaultPreferences()

	if cfg.Style != "" {
		style, err := domain.ParseJokeStyle(cfg.Style)
		if err != nil {
			return domain.Preferences{}, err
		}
		prefs.Style = style
	}
	if cfg.Topic != "" {
		prefs.Topic = cfg.Topic
	}
	if cfg.Length != "" {
		length, err := domain.ParseJokeLength(cfg.Length)
		if err != nil {
			return domain.Preferences{}, err
		}
		prefs.Length = length
	}
	if cfg.Temperature != nil {
		prefs.Temperature = *cfg.Temperature
	}

	if err := prefs.Validate(); err != nil {
		return domain.Preferences{}, err
	}
	return prefs, nil
}

// ResolveAPIKey picks the completion credential: the environment wins over
// the config file. The value is a secret and is never printed.
func ResolveAPIKey(cfg *Config) string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return cfg.APIKey
}
