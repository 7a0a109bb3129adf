package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Editor.TabWidth != 4 {
		t.Errorf("got tab-width %d, want 4", cfg.Editor.TabWidth)
	}
	if !cfg.Editor.LSP.Enable {
		t.Error("lsp should be enabled by default")
	}
	if cfg.Editor.Completion.Timeout != 250*time.Millisecond {
		t.Errorf("got completion timeout %v, want 250ms", cfg.Editor.Completion.Timeout)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Errorf("should not error on missing file: %v", err)
	}
	if cfg == nil {
		t.Error("should return default config")
	}
}

func TestLoadFrom_ValidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := []byte(`
theme = "dracula"

[editor]
tab-width = 2

[editor.lsp]
enable = false

[[language-server]]
name = "gopls"
command = "gopls"
languages = ["go"]
`)

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Theme != "dracula" {
		t.Errorf("got theme %q, want 'dracula'", cfg.Theme)
	}
	if cfg.Editor.TabWidth != 2 {
		t.Errorf("got tab-width %d, want 2", cfg.Editor.TabWidth)
	}
	if len(cfg.LanguageServer) != 1 || cfg.LanguageServer[0].Name != "gopls" {
		t.Errorf("got servers %+v, want one named gopls", cfg.LanguageServer)
	}
	// Defaults not named by the overlay should still be present.
	if cfg.Editor.Completion.Timeout != 250*time.Millisecond {
		t.Errorf("got completion timeout %v, want default 250ms", cfg.Editor.Completion.Timeout)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte(`[[[not toml`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Error("should error on invalid TOML")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input  string
		expect string
	}{
		{"~/.config/riv", filepath.Join(home, ".config/riv")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tc := range tests {
		got := ExpandPath(tc.input)
		if got != tc.expect {
			t.Errorf("ExpandPath(%q) = %q, want %q", tc.input, got, tc.expect)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Editor.Completion.Timeout = 0
	cfg.Editor.TabWidth = -1

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	if cfg.Editor.TabWidth != 4 {
		t.Errorf("got tab-width %d, want 4 after validation", cfg.Editor.TabWidth)
	}
	if cfg.Editor.Completion.Timeout != 250*time.Millisecond {
		t.Errorf("got completion timeout %v, want 250ms after validation", cfg.Editor.Completion.Timeout)
	}
}

func TestMergeServersByName(t *testing.T) {
	dir := t.TempDir()
	userPath := filepath.Join(dir, "user.toml")
	if err := os.WriteFile(userPath, []byte(`
[[language-server]]
name = "gopls"
command = "gopls"

[[language-server]]
name = "rust-analyzer"
command = "rust-analyzer"
`), 0644); err != nil {
		t.Fatal(err)
	}

	repoDir := t.TempDir()
	repoPath := filepath.Join(repoDir, repoConfigFile)
	if err := os.WriteFile(repoPath, []byte(`
[[language-server]]
name = "gopls"
command = "gopls"
args = ["-remote=auto"]
`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := mergeFile(cfg, userPath); err != nil {
		t.Fatal(err)
	}
	if err := mergeFile(cfg, repoPath); err != nil {
		t.Fatal(err)
	}

	if len(cfg.LanguageServer) != 2 {
		t.Fatalf("got %d servers, want 2 (merged by name)", len(cfg.LanguageServer))
	}
	for _, s := range cfg.LanguageServer {
		if s.Name == "gopls" && len(s.Args) == 0 {
			t.Error("repo-local override of gopls args did not apply")
		}
	}
}
