package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	userConfigDir  = ".config/riv"
	userConfigFile = "config.toml"
	repoConfigFile = ".riv.toml"
)

// Load loads and merges configuration from its layers: the user config
// at ~/.config/riv/config.toml is merged over built-in defaults, then
// the repo-local `.riv.toml` in the given workspace root is merged over
// that, so repo-local settings take precedence over user settings.
// [[language-server]] and top-level arrays of tables are merged by
// `name` rather than replaced wholesale.
func Load(workspaceRoot string) (*Config, error) {
	cfg := Default()

	if home, err := os.UserHomeDir(); err == nil {
		if err := mergeFile(cfg, filepath.Join(home, userConfigDir, userConfigFile)); err != nil && !os.IsNotExist(err) {
			slog.Warn("config: failed to load user config", "error", err)
		}
	}
	if workspaceRoot != "" {
		if err := mergeFile(cfg, filepath.Join(workspaceRoot, repoConfigFile)); err != nil && !os.IsNotExist(err) {
			slog.Warn("config: failed to load repo config", "error", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom loads defaults merged with exactly one TOML file, used by the
// CLI's `-c/--config <path>` flag which names a single override file
// instead of the layered discovery `Load` performs.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	if err := mergeFile(cfg, path); err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Validate()
		}
		return nil, err
	}
	return cfg, cfg.Validate()
}

// mergeFile decodes path as TOML into a raw overlay and merges it onto
// cfg in place. A missing file returns os.ReadFile's not-exist error
// (callers check os.IsNotExist and skip it); a malformed file is
// returned as an error so the caller can log it and continue with
// whatever was already merged.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw Config
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return err
	}

	mergeInto(cfg, &raw)
	return nil
}

// mergeInto layers raw on top of cfg. Scalars and nested structs
// overwrite when the overlay sets a non-zero value; [[language-server]]
// entries merge by Name; [keys] layers and [themes] merge key-by-key
// so a partial override doesn't drop the rest of a mode's bindings.
func mergeInto(cfg, raw *Config) {
	if raw.Editor.TabWidth != 0 {
		cfg.Editor.TabWidth = raw.Editor.TabWidth
	}
	if raw.Editor.CursorShape != "" {
		cfg.Editor.CursorShape = raw.Editor.CursorShape
	}
	mergeSoftWrap(&cfg.Editor.SoftWrap, raw.Editor.SoftWrap)
	mergeLSP(&cfg.Editor.LSP, raw.Editor.LSP)
	mergeCompletion(&cfg.Editor.Completion, raw.Editor.Completion)
	mergeTerminal(&cfg.Editor.Terminal, raw.Editor.Terminal)

	cfg.LanguageServer = mergeServersByName(cfg.LanguageServer, raw.LanguageServer)
	cfg.DebugAdapter = mergeDebugAdaptersByName(cfg.DebugAdapter, raw.DebugAdapter)

	if cfg.Keys == nil {
		cfg.Keys = map[string]KeymapLayer{}
	}
	for mode, layer := range raw.Keys {
		existing, ok := cfg.Keys[mode]
		if !ok || existing == nil {
			cfg.Keys[mode] = layer
			continue
		}
		for k, v := range layer {
			existing[k] = v
		}
	}

	if raw.Theme != "" {
		cfg.Theme = raw.Theme
	}
	if cfg.Themes == nil {
		cfg.Themes = map[string]ThemeOverride{}
	}
	for name, overrides := range raw.Themes {
		existing, ok := cfg.Themes[name]
		if !ok || existing == nil {
			cfg.Themes[name] = overrides
			continue
		}
		for k, v := range overrides {
			existing[k] = v
		}
	}
}

func mergeSoftWrap(dst *SoftWrapConfig, src SoftWrapConfig) {
	dst.Enable = dst.Enable || src.Enable
	if src.MaxWrap != 0 {
		dst.MaxWrap = src.MaxWrap
	}
	if src.MaxIndentRetain != 0 {
		dst.MaxIndentRetain = src.MaxIndentRetain
	}
	if src.WrapIndicator != "" {
		dst.WrapIndicator = src.WrapIndicator
	}
}

func mergeLSP(dst *LSPConfig, src LSPConfig) {
	dst.Enable = dst.Enable || src.Enable
	dst.DisplayMessages = dst.DisplayMessages || src.DisplayMessages
	dst.AutoSignatureHelp = dst.AutoSignatureHelp || src.AutoSignatureHelp
	dst.DisplayInlayHints = dst.DisplayInlayHints || src.DisplayInlayHints
	dst.DisplayInlineCompletion = dst.DisplayInlineCompletion || src.DisplayInlineCompletion
	dst.SnippetsEnable = dst.SnippetsEnable || src.SnippetsEnable
}

func mergeCompletion(dst *CompletionConfig, src CompletionConfig) {
	if src.TriggerLen != 0 {
		dst.TriggerLen = src.TriggerLen
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.TriggerCharTimeout != 0 {
		dst.TriggerCharTimeout = src.TriggerCharTimeout
	}
	if src.InlineTimeout != 0 {
		dst.InlineTimeout = src.InlineTimeout
	}
	if src.SignatureTimeout != 0 {
		dst.SignatureTimeout = src.SignatureTimeout
	}
	if src.InlayHintsChangeTimeout != 0 {
		dst.InlayHintsChangeTimeout = src.InlayHintsChangeTimeout
	}
	if src.InlayHintsScrollTimeout != 0 {
		dst.InlayHintsScrollTimeout = src.InlayHintsScrollTimeout
	}
	if src.GraceWindow != 0 {
		dst.GraceWindow = src.GraceWindow
	}
}

func mergeTerminal(dst *TerminalConfig, src TerminalConfig) {
	if len(src.Shell) > 0 {
		dst.Shell = src.Shell
	}
	if src.HeightPct != 0 {
		dst.HeightPct = src.HeightPct
	}
	if src.MinHeightPct != 0 {
		dst.MinHeightPct = src.MinHeightPct
	}
	if src.MaxHeightPct != 0 {
		dst.MaxHeightPct = src.MaxHeightPct
	}
	if src.StepPct != 0 {
		dst.StepPct = src.StepPct
	}
}

// mergeServersByName implements the array-of-tables-merged-by-name rule
// for [[language-server]] specifically.
func mergeServersByName(base, overlay []LanguageServerConfig) []LanguageServerConfig {
	if len(overlay) == 0 {
		return base
	}
	byName := map[string]int{}
	for i, s := range base {
		byName[s.Name] = i
	}
	for _, s := range overlay {
		if i, ok := byName[s.Name]; ok {
			base[i] = s
		} else {
			byName[s.Name] = len(base)
			base = append(base, s)
		}
	}
	return base
}

// mergeDebugAdaptersByName applies the same merge-by-name rule to
// [[debug-adapter]] tables.
func mergeDebugAdaptersByName(base, overlay []DebugAdapterConfig) []DebugAdapterConfig {
	if len(overlay) == 0 {
		return base
	}
	byName := map[string]int{}
	for i, s := range base {
		byName[s.Name] = i
	}
	for _, s := range overlay {
		if i, ok := byName[s.Name]; ok {
			base[i] = s
		} else {
			byName[s.Name] = len(base)
			base = append(base, s)
		}
	}
	return base
}

// ExpandPath expands a leading ~/ to the user's home directory.
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

// UserConfigPath returns the path to the user-level config file.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, userConfigDir, userConfigFile)
}
