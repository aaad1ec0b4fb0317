package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the live view.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Success: lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Success: lipgloss.Color("#00ff00"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#0077be"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	Themes = []Theme{ThemeMinimal, ThemeRetroGreen, ThemeOcean}
)

// GetTheme returns a theme by name, the first theme when unknown.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// next returns the theme after name, wrapping around.
func next(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
