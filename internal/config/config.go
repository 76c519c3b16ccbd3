// Package config loads the TOML configuration file. All settings have
// working defaults; the file and every key in it are optional.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Share    ShareConfig    `toml:"share"`
	Editor   EditorConfig   `toml:"editor"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type ShareConfig struct {
	// BaseURL is prepended to share fragments when building links. Links
	// are self-contained, so any address serving the app works.
	BaseURL string `toml:"base_url"`
}

type EditorConfig struct {
	DefaultOwner    string `toml:"default_owner"`
	DefaultType     string `toml:"default_type"`
	AutosaveSeconds int    `toml:"autosave_seconds"`
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Share: ShareConfig{
			BaseURL: "https://mduarte.github.io/ata",
		},
		Editor: EditorConfig{
			DefaultType:     "Meeting",
			AutosaveSeconds: 30,
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}
	if c.Editor.AutosaveSeconds < 0 {
		return fmt.Errorf("invalid editor.autosave_seconds: %d", c.Editor.AutosaveSeconds)
	}
	return nil
}

// DefaultPath returns the per-user location of the config file.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".ata", "config.toml"), nil
}
