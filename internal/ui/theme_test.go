package ui

import (
	"sort"
	"testing"

	"github.com/alecthomas/chroma/v2/styles"
)

func TestThemeNamesSorted(t *testing.T) {
	names := ThemeNames()
	if len(names) != len(BuiltinThemes) {
		t.Fatalf("ThemeNames() has %d names, want %d", len(names), len(BuiltinThemes))
	}
	if !sort.SliceIsSorted(names, func(i, j int) bool { return names[i] < names[j] }) {
		t.Errorf("ThemeNames() not sorted: %v", names)
	}
}

func TestBuiltinThemesComplete(t *testing.T) {
	for name, theme := range BuiltinThemes {
		t.Run(string(name), func(t *testing.T) {
			if theme.Name == "" {
				t.Error("missing display name")
			}
			for field, hex := range map[string]string{
				"Primary":   theme.Primary,
				"Text":      theme.Text,
				"User":      theme.User,
				"Assistant": theme.Assistant,
				"Border":    theme.Border,
			} {
				if len(hex) != 7 || hex[0] != '#' {
					t.Errorf("%s = %q is not a hex color", field, hex)
				}
			}
			if styles.Get(theme.ChromaStyle) == styles.Fallback {
				t.Errorf("unknown chroma style %q", theme.ChromaStyle)
			}
		})
	}
}

func TestSetTheme(t *testing.T) {
	defer SetTheme(DefaultTheme)

	SetTheme(ThemeDracula)
	if CurrentThemeName() != ThemeDracula {
		t.Errorf("CurrentThemeName() = %q, want %q", CurrentThemeName(), ThemeDracula)
	}
	if CurrentTheme().Name != BuiltinThemes[ThemeDracula].Name {
		t.Error("CurrentTheme() should follow SetTheme")
	}

	SetThemeByName("no-such-theme")
	if CurrentThemeName() != DefaultTheme {
		t.Errorf("unknown theme should fall back to %q, got %q", DefaultTheme, CurrentThemeName())
	}
}
