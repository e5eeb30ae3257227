// Package config loads Gravity's client configuration from
// ~/.config/gravity/config.toml, falling back to defaults when the
// file is missing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields the Gravity client needs.
type Config struct {
	ServerURL      string
	PageSize       int
	SearchDebounce time.Duration
	LogPath        string
	SessionPath    string
}

const (
	defaultConfigPath     = "~/.config/gravity/config.toml"
	defaultServerURL      = "http://localhost:8080"
	defaultPageSize       = 10
	defaultSearchDebounce = 300 * time.Millisecond
	defaultLogPath        = "~/.local/share/gravity/gravity.log"
)

// Load locates and parses the config file, falling back to defaults
// when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	raw, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.LogPath = mustExpand(cfg.LogPath)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var file struct {
		ServerURL        string `toml:"server_url"`
		PageSize         int    `toml:"page_size"`
		SearchDebounceMS int    `toml:"search_debounce_ms"`
		LogPath          string `toml:"log_path"`
		SessionPath      string `toml:"session_path"`
	}
	if err := toml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(file.ServerURL); v != "" {
		cfg.ServerURL = v
	}
	if file.PageSize > 0 {
		cfg.PageSize = file.PageSize
	}
	if file.SearchDebounceMS > 0 {
		cfg.SearchDebounce = time.Duration(file.SearchDebounceMS) * time.Millisecond
	}
	if v := strings.TrimSpace(file.LogPath); v != "" {
		cfg.LogPath = v
	}
	if v := strings.TrimSpace(file.SessionPath); v != "" {
		cfg.SessionPath = v
	}
	cfg.LogPath = mustExpand(cfg.LogPath)

	return cfg, nil
}

func defaults() Config {
	return Config{
		ServerURL:      defaultServerURL,
		PageSize:       defaultPageSize,
		SearchDebounce: defaultSearchDebounce,
		LogPath:        defaultLogPath,
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
