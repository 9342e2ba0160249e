// Package styles defines the theme tokens and lipgloss styles for the
// Attune session view. Stage rows are tinted from the catalog's own
// colors; the tokens here cover everything around them.
package styles

// ThemeTokens defines the semantic color roles for the session view.
type ThemeTokens struct {
	Background string
	Panel      string
	Text       string
	TextMuted  string
	Border     string
	Accent     string
	Focus      string
	Success    string
	Warning    string
	Error      string
	Info       string
}

// Theme bundles a palette with the name the --theme flag selects it by.
type Theme struct {
	Name   string
	Tokens ThemeTokens
}

// Themes lists available palettes by name.
var Themes = map[string]Theme{
	"default":       DefaultTheme,
	"high-contrast": HighContrastTheme,
}
