// Package theme resolves the editor's configured theme name and
// override table down to a concrete lipgloss palette, against riv's
// single-editor config.Theme/config.Themes schema.
package theme

import (
	"github.com/rivedit/riv/internal/config"
	"github.com/rivedit/riv/internal/styles"
)

// ResolvedTheme is the fully-determined theme selection for this run.
type ResolvedTheme struct {
	BaseName  string
	Overrides map[string]any
}

// Resolve reads the active theme name and its override table (if any)
// out of cfg.
func Resolve(cfg *config.Config) ResolvedTheme {
	name := cfg.Theme
	if name == "" {
		name = "default"
	}
	return ResolvedTheme{
		BaseName:  name,
		Overrides: cfg.Themes[name],
	}
}

// Apply installs a resolved theme into the styles package's active
// palette.
func Apply(r ResolvedTheme) {
	if len(r.Overrides) > 0 {
		styles.ApplyThemeWithGenericOverrides(r.BaseName, r.Overrides)
		return
	}
	styles.ApplyTheme(r.BaseName)
}
