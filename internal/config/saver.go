package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

var testConfigPath string

// SetTestConfigPath overrides the user config path Save writes to, for
// tests that must not touch the real ~/.config/riv/config.toml.
func SetTestConfigPath(path string) { testConfigPath = path }

// ResetTestConfigPath clears a prior SetTestConfigPath override.
func ResetTestConfigPath() { testConfigPath = "" }

func savePath() string {
	if testConfigPath != "" {
		return testConfigPath
	}
	return UserConfigPath()
}

// Save writes the user-level config to disk, preserving any keys it
// does not itself manage (e.g. hand-edited sections a future version
// doesn't know about yet) by round-tripping through a generic map
// rather than overwriting wholesale.
func Save(cfg *Config) error {
	path := savePath()
	if path == "" {
		return os.ErrInvalid
	}

	raw := map[string]any{}
	if data, err := os.ReadFile(path); err == nil {
		_, _ = toml.Decode(string(data), &raw)
	}

	raw["editor"] = cfg.Editor
	raw["language-server"] = cfg.LanguageServer
	raw["keys"] = cfg.Keys
	raw["theme"] = cfg.Theme
	raw["themes"] = cfg.Themes

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(raw)
}

// SaveTheme updates only the active theme name and saves.
func SaveTheme(themeName string) error {
	cfg, err := LoadFrom(savePath())
	if err != nil {
		return err
	}
	cfg.Theme = themeName
	return Save(cfg)
}

// SaveThemeOverrides saves a theme's override table.
func SaveThemeOverrides(themeName string, overrides ThemeOverride) error {
	cfg, err := LoadFrom(savePath())
	if err != nil {
		return err
	}
	if cfg.Themes == nil {
		cfg.Themes = map[string]ThemeOverride{}
	}
	cfg.Themes[themeName] = overrides
	return Save(cfg)
}
