package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestSave_PreservesUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	initial := []byte(`
customKey = "should survive"

[[snippets]]
name = "todo"
body = "// TODO: {{text}}"
`)
	if err := os.WriteFile(path, initial, 0644); err != nil {
		t.Fatal(err)
	}

	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	cfg := Default()
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw := map[string]any{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		t.Fatalf("decode saved config: %v", err)
	}

	if _, ok := raw["customKey"]; !ok {
		t.Error("Save() deleted 'customKey' from config.toml")
	}
	if _, ok := raw["snippets"]; !ok {
		t.Error("Save() deleted 'snippets' from config.toml")
	}
	if _, ok := raw["editor"]; !ok {
		t.Error("Save() did not write 'editor' key")
	}
}

func TestSave_WorksWithNoExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	cfg := Default()
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw := map[string]any{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := raw["editor"]; !ok {
		t.Error("missing 'editor' key")
	}
}

func TestSaveTheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	if err := SaveTheme("dracula"); err != nil {
		t.Fatalf("SaveTheme failed: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != "dracula" {
		t.Errorf("got theme %q, want 'dracula'", cfg.Theme)
	}
}
