package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	appDirName     = "movie-tickets-cli"
	configFileName = "config.json"

	// DefaultAnimationMillis matches the popup open/close duration.
	DefaultAnimationMillis = 300

	envCatalogURL = "MOVIE_TICKETS_CATALOG_URL"
	envOffline    = "MOVIE_TICKETS_OFFLINE"
)

var ErrInvalidDuration = errors.New("animation duration must be positive")

// Config stores user settings for movie-tickets-cli.
type Config struct {
	CatalogURL      string `json:"catalog_url,omitempty"`
	Offline         bool   `json:"offline,omitempty"`
	AnimationMillis int    `json:"animation_ms,omitempty"`
}

// Default returns the configuration used when nothing is saved.
func Default() Config {
	return Config{AnimationMillis: DefaultAnimationMillis}
}

// AnimationDuration returns the popup animation duration.
func (c Config) AnimationDuration() time.Duration {
	return time.Duration(c.AnimationMillis) * time.Millisecond
}

// Validate reports whether the configuration can be used.
func (c Config) Validate() error {
	if c.AnimationMillis <= 0 {
		return fmt.Errorf("%w: %dms", ErrInvalidDuration, c.AnimationMillis)
	}
	return nil
}

// ConfigPath returns the configuration file path.
func ConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName, configFileName), nil
}

// Load reads the saved configuration, falls back to defaults when no file
// exists and applies environment overrides on top.
func Load() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	cfg = applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads only the saved configuration, without environment
// overrides. Use it when the result is written back with Save.
func LoadFile() (Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if cfg.AnimationMillis == 0 {
			cfg.AnimationMillis = DefaultAnimationMillis
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, err
	}
	return cfg, nil
}

// Save writes configuration to disk.
func Save(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.CatalogURL = strings.TrimSpace(cfg.CatalogURL)

	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	return os.WriteFile(path, data, 0o600)
}

func applyEnv(cfg Config) Config {
	if url := strings.TrimSpace(os.Getenv(envCatalogURL)); url != "" {
		cfg.CatalogURL = url
	}
	if raw := strings.TrimSpace(os.Getenv(envOffline)); raw != "" {
		if offline, err := strconv.ParseBool(raw); err == nil {
			cfg.Offline = offline
		}
	}
	return cfg
}
