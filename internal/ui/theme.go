package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette. Colors are hex strings.
type Theme struct {
	Name string

	Background string // screen and badge text
	Surface    string // header bar
	Selection  string // cursor row background
	OnSelected string // cursor row text

	Text    string
	Muted   string
	Faint   string
	Accent  string // prices and totals
	Success string
	Warning string
	Danger  string

	// CategoryColors is keyed by lower-case catalog category.
	CategoryColors map[string]string
}

// Styles holds the lipgloss styles derived from a Theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	Brand       lipgloss.Style
	Selected    lipgloss.Style

	categoryColors map[string]string
	badgeText      string
	badgeFallback  string
}

// Styles builds the theme's styles.
func (t Theme) Styles() Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		Brand:       fg(t.Accent).Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Selection)).
			Foreground(lipgloss.Color(t.OnSelected)),

		categoryColors: t.CategoryColors,
		badgeText:      t.Background,
		badgeFallback:  t.Muted,
	}
}

// CategoryStyle returns the badge style for a catalog category. Unknown
// categories use the muted color.
func (s Styles) CategoryStyle(category string) lipgloss.Style {
	color := s.categoryColors[strings.ToLower(strings.TrimSpace(category))]
	if color == "" {
		color = s.badgeFallback
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.badgeText)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

var themes = map[string]Theme{
	"Mocha":   mochaTheme(),
	"Gruvbox": gruvboxTheme(),
	"Nord":    nordTheme(),
}

var themeOrder = []string{"Mocha", "Gruvbox", "Nord"}

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names in cycle order.
func ThemeNames() []string {
	return themeOrder
}

// https://github.com/catppuccin/catppuccin (mocha flavor)
func mochaTheme() Theme {
	return Theme{
		Name:       "Mocha",
		Background: "#1e1e2e", // base
		Surface:    "#313244", // surface0
		Selection:  "#45475a", // surface1
		OnSelected: "#cdd6f4", // text
		Text:       "#cdd6f4",
		Muted:      "#a6adc8", // subtext0
		Faint:      "#7f849c", // overlay1
		Accent:     "#f5c2e7", // pink
		Success:    "#a6e3a1",
		Warning:    "#f9e2af",
		Danger:     "#f38ba8",
		CategoryColors: map[string]string{
			"electronics":      "#89b4fa",
			"jewelery":         "#f9e2af",
			"men's clothing":   "#94e2d5",
			"women's clothing": "#cba6f7",
		},
	}
}

// https://github.com/morhetz/gruvbox (dark, medium contrast)
func gruvboxTheme() Theme {
	return Theme{
		Name:       "Gruvbox",
		Background: "#282828", // bg0
		Surface:    "#3c3836", // bg1
		Selection:  "#504945", // bg2
		OnSelected: "#fbf1c7", // fg0
		Text:       "#ebdbb2",
		Muted:      "#bdae93", // fg3
		Faint:      "#928374", // gray
		Accent:     "#fe8019", // orange
		Success:    "#b8bb26",
		Warning:    "#fabd2f",
		Danger:     "#fb4934",
		CategoryColors: map[string]string{
			"electronics":      "#83a598",
			"jewelery":         "#fabd2f",
			"men's clothing":   "#8ec07c",
			"women's clothing": "#d3869b",
		},
	}
}

// https://www.nordtheme.com/docs/colors-and-palettes
func nordTheme() Theme {
	return Theme{
		Name:       "Nord",
		Background: "#2e3440", // nord0
		Surface:    "#3b4252", // nord1
		Selection:  "#5e81ac", // nord10
		OnSelected: "#eceff4", // nord6
		Text:       "#e5e9f0", // nord5
		Muted:      "#d8dee9", // nord4
		Faint:      "#4c566a", // nord3
		Accent:     "#88c0d0", // nord8
		Success:    "#a3be8c",
		Warning:    "#ebcb8b",
		Danger:     "#bf616a",
		CategoryColors: map[string]string{
			"electronics":      "#81a1c1",
			"jewelery":         "#ebcb8b",
			"men's clothing":   "#8fbcbb",
			"women's clothing": "#b48ead",
		},
	}
}
