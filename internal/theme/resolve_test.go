package theme

import (
	"testing"

	"github.com/rivedit/riv/internal/config"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
		want ResolvedTheme
	}{
		{
			name: "default theme when unset",
			cfg:  &config.Config{},
			want: ResolvedTheme{BaseName: "default"},
		},
		{
			name: "named theme, no overrides",
			cfg:  &config.Config{Theme: "dracula"},
			want: ResolvedTheme{BaseName: "dracula"},
		},
		{
			name: "named theme with overrides",
			cfg: &config.Config{
				Theme: "dracula",
				Themes: map[string]config.ThemeOverride{
					"dracula": {"primary": "#ff79c6"},
				},
			},
			want: ResolvedTheme{
				BaseName:  "dracula",
				Overrides: map[string]any{"primary": "#ff79c6"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.cfg)
			if got.BaseName != tc.want.BaseName {
				t.Errorf("BaseName = %q, want %q", got.BaseName, tc.want.BaseName)
			}
			if len(got.Overrides) != len(tc.want.Overrides) {
				t.Errorf("Overrides = %v, want %v", got.Overrides, tc.want.Overrides)
			}
		})
	}
}
