package styles

// DefaultTheme is the baseline palette, tuned for dim treatment rooms.
var DefaultTheme = Theme{
	Name: "default",
	Tokens: ThemeTokens{
		Background: "#100E17",
		Panel:      "#1A1626",
		Text:       "#EDE7F6",
		TextMuted:  "#9E92B8",
		Border:     "#32294A",
		Accent:     "#8E24AA",
		Focus:      "#B388FF",
		Success:    "#43A047",
		Warning:    "#FDD835",
		Error:      "#E53935",
		Info:       "#1E88E5",
	},
}
