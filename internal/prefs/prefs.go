// Package prefs handles Gravity user preference persistence.
// Preferences are stored in ~/.config/gravity/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for Gravity.
type Prefs struct {
	Theme    string `toml:"theme"`
	ViewMode string `toml:"view_mode"` // "tiles" or "table"
}

const (
	defaultPrefsPath = "~/.config/gravity/prefs.toml"
	defaultTheme     = "Dracula"
	defaultViewMode  = "tiles"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path. A missing or unreadable
// file degrades gracefully to defaults.
func Load(path string) Prefs {
	p := Prefs{Theme: defaultTheme, ViewMode: defaultViewMode}

	resolved, err := resolvePath(path)
	if err != nil {
		return p
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		return p
	}
	if err := toml.Unmarshal(raw, &p); err != nil {
		return Prefs{Theme: defaultTheme, ViewMode: defaultViewMode}
	}

	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	if p.ViewMode != "tiles" && p.ViewMode != "table" {
		p.ViewMode = defaultViewMode
	}
	return p
}

// Save writes preferences to the given path, creating directories as
// needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	raw, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, raw, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
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
