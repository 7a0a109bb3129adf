// Package config implements riv's TOML configuration schema:
// [editor], [editor.lsp], [editor.completion], [[language-server]],
// [keys] and [themes] tables, loaded with github.com/BurntSushi/toml.
package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Editor         EditorConfig             `toml:"editor"`
	LanguageServer []LanguageServerConfig   `toml:"language-server"`
	DebugAdapter   []DebugAdapterConfig     `toml:"debug-adapter"`
	Keys           map[string]KeymapLayer   `toml:"keys"`
	Theme          string                   `toml:"theme"`
	Themes         map[string]ThemeOverride `toml:"themes"`
}

// EditorConfig holds top-level editor behavior plus the nested
// [editor.lsp] and [editor.completion] tables.
type EditorConfig struct {
	TabWidth    int              `toml:"tab-width"`
	SoftWrap    SoftWrapConfig   `toml:"soft-wrap"`
	CursorShape string           `toml:"cursor-shape"`
	LSP         LSPConfig        `toml:"lsp"`
	Completion  CompletionConfig `toml:"completion"`
	Terminal    TerminalConfig   `toml:"terminal"`
}

// SoftWrapConfig configures the formatter's softwrap algorithm.
type SoftWrapConfig struct {
	Enable          bool   `toml:"enable"`
	MaxWrap         int    `toml:"max-wrap"`
	MaxIndentRetain int    `toml:"max-indent-retain"`
	WrapIndicator   string `toml:"wrap-indicator"`
}

// LSPConfig tunes the LSP transport/client behaviors.
type LSPConfig struct {
	Enable                  bool `toml:"enable"`
	DisplayMessages         bool `toml:"display-messages"`
	AutoSignatureHelp       bool `toml:"auto-signature-help"`
	DisplayInlayHints       bool `toml:"display-inlay-hints"`
	DisplayInlineCompletion bool `toml:"display-inline-completion"`
	SnippetsEnable          bool `toml:"snippets"`
}

// CompletionConfig holds the completion/signature-help debounce
// constants.
type CompletionConfig struct {
	TriggerLen              int           `toml:"trigger-len"`
	Timeout                 time.Duration `toml:"timeout"`
	TriggerCharTimeout      time.Duration `toml:"trigger-char-timeout"`
	InlineTimeout           time.Duration `toml:"inline-timeout"`
	SignatureTimeout        time.Duration `toml:"signature-timeout"`
	InlayHintsChangeTimeout time.Duration `toml:"inlay-hints-change-timeout"`
	InlayHintsScrollTimeout time.Duration `toml:"inlay-hints-scroll-timeout"`
	GraceWindow             time.Duration `toml:"grace-window"`
}

// TerminalConfig configures the integrated PTY panel.
type TerminalConfig struct {
	Shell        []string `toml:"shell"`
	HeightPct    int      `toml:"height-percent"`
	MinHeightPct int      `toml:"min-height-percent"`
	MaxHeightPct int      `toml:"max-height-percent"`
	StepPct      int      `toml:"resize-step-percent"`
}

// LanguageServerConfig is one [[language-server]] table, keyed by `name`
// so the array-of-tables merge rule ("merged by name") has somewhere
// to anchor.
type LanguageServerConfig struct {
	Name      string        `toml:"name"`
	Command   string        `toml:"command"`
	Args      []string      `toml:"args"`
	Languages []string      `toml:"languages"`
	Timeout   time.Duration `toml:"timeout"`
}

// DebugAdapterConfig is one [[debug-adapter]] table, keyed by `name`
// the same way LanguageServerConfig is.
type DebugAdapterConfig struct {
	Name      string   `toml:"name"`
	Command   string   `toml:"command"`
	Args      []string `toml:"args"`
	Languages []string `toml:"languages"`
}

// KeymapLayer is one mode's key -> command-name(s) table. A string
// value is a single command; an array is a Sequence leaf. The keymap
// loader (internal/keymap) interprets the `any` values, config only
// carries the raw table.
type KeymapLayer map[string]any

// ThemeOverride is a named theme's palette override table, applied on
// top of the built-in base palette when [theme] selects it.
type ThemeOverride map[string]any

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TabWidth:    4,
			CursorShape: "block",
			SoftWrap: SoftWrapConfig{
				Enable:          false,
				MaxWrap:         20,
				MaxIndentRetain: 40,
				WrapIndicator:   "↪ ",
			},
			LSP: LSPConfig{
				Enable:                  true,
				DisplayMessages:         false,
				AutoSignatureHelp:       true,
				DisplayInlayHints:       false,
				DisplayInlineCompletion: false,
				SnippetsEnable:          true,
			},
			Completion: CompletionConfig{
				TriggerLen:              2,
				Timeout:                 250 * time.Millisecond,
				TriggerCharTimeout:      5 * time.Millisecond,
				InlineTimeout:           150 * time.Millisecond,
				SignatureTimeout:        120 * time.Millisecond,
				InlayHintsChangeTimeout: 500 * time.Millisecond,
				InlayHintsScrollTimeout: 100 * time.Millisecond,
				GraceWindow:             100 * time.Millisecond,
			},
			Terminal: TerminalConfig{
				HeightPct:    40,
				MinHeightPct: 10,
				MaxHeightPct: 80,
				StepPct:      5,
			},
		},
		Keys:   map[string]KeymapLayer{},
		Theme:  "default",
		Themes: map[string]ThemeOverride{},
	}
}

// Validate clamps out-of-range values to sane defaults rather than
// failing startup.
func (c *Config) Validate() error {
	if c.Editor.TabWidth <= 0 {
		c.Editor.TabWidth = 4
	}
	if c.Editor.Terminal.HeightPct <= 0 {
		c.Editor.Terminal.HeightPct = 40
	}
	if c.Editor.Terminal.MinHeightPct <= 0 {
		c.Editor.Terminal.MinHeightPct = 10
	}
	if c.Editor.Terminal.MaxHeightPct <= 0 {
		c.Editor.Terminal.MaxHeightPct = 80
	}
	if c.Editor.Terminal.StepPct <= 0 {
		c.Editor.Terminal.StepPct = 5
	}
	if c.Editor.Completion.Timeout <= 0 {
		c.Editor.Completion.Timeout = 250 * time.Millisecond
	}
	if c.Theme == "" {
		c.Theme = "default"
	}
	return nil
}
