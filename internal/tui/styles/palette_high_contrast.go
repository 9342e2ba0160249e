package styles

// HighContrastTheme favors visibility on low-contrast terminals. Stage
// tints still come from the catalog, so only the chrome changes.
var HighContrastTheme = Theme{
	Name: "high-contrast",
	Tokens: ThemeTokens{
		Background: "#000000",
		Panel:      "#0A0A0A",
		Text:       "#FFFFFF",
		TextMuted:  "#BDBDBD",
		Border:     "#FFFFFF",
		Accent:     "#D075FF",
		Focus:      "#FFE14D",
		Success:    "#2BFF6F",
		Warning:    "#FFAA00",
		Error:      "#FF5252",
		Info:       "#4DD2FF",
	},
}
