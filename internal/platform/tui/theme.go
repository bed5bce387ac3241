package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-crunch/internal/core"
)

// Theme contains all configurable visual styles outside the game screen,
// plus color overrides for the screen itself.
type Theme struct {
	Name string

	// Palette overrides colorStyles for the listed colors.
	Palette map[core.Color]lipgloss.Style

	// Menu styles
	MenuTitle       lipgloss.Style
	MenuSubtitle    lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style
	Controls        lipgloss.Style

	// Scoreboard styles
	Border        lipgloss.Color
	TableHeader   lipgloss.Style
	TableSelected lipgloss.Style
	Empty         lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true),
		MenuSubtitle:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Controls:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		Border:        lipgloss.Color("240"),
		TableHeader:   lipgloss.NewStyle().Bold(true),
		TableSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
		Empty:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4),
	}
}

// PastelTheme returns a softer pastel theme.
func PastelTheme() Theme {
	theme := DefaultTheme()
	theme.Name = "pastel"
	theme.Palette = map[core.Color]lipgloss.Style{
		core.ColorOrange:      lipgloss.NewStyle().Foreground(lipgloss.Color("216")), // Peach
		core.ColorPink:        lipgloss.NewStyle().Foreground(lipgloss.Color("218")),
		core.ColorYellow:      lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
		core.ColorBrown:       lipgloss.NewStyle().Foreground(lipgloss.Color("180")), // Tan
		core.ColorGreen:       lipgloss.NewStyle().Foreground(lipgloss.Color("157")),
		core.ColorBrightWhite: lipgloss.NewStyle().Foreground(lipgloss.Color("195")),
	}
	theme.MenuTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("218")).Bold(true)
	theme.MenuItemActive = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	return theme
}

// MonochromeTheme returns a grayscale theme. Tiles stay apart by glyph.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	theme.Name = "mono"
	theme.Palette = make(map[core.Color]lipgloss.Style)
	for c := range colorStyles {
		theme.Palette[c] = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	}
	theme.Palette[core.ColorGray] = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	theme.MenuTitle = lipgloss.NewStyle().Bold(true)
	theme.MenuItemActive = lipgloss.NewStyle().Bold(true).Underline(true)
	theme.TableSelected = lipgloss.NewStyle().Reverse(true)
	return theme
}

var themes = map[string]func() Theme{
	"default": DefaultTheme,
	"pastel":  PastelTheme,
	"mono":    MonochromeTheme,
}

// ThemeNames lists the built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme.
func ThemeByName(name string) (Theme, error) {
	f, ok := themes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (want one of %s)", name, strings.Join(ThemeNames(), ", "))
	}
	return f(), nil
}

// Global theme variable (can be changed at runtime)
var currentTheme = DefaultTheme()

// SetTheme sets the global theme.
func SetTheme(theme Theme) {
	currentTheme = theme
}

// GetTheme returns the current global theme.
func GetTheme() Theme {
	return currentTheme
}

// styleFor returns the style a screen color renders with.
func styleFor(c core.Color) lipgloss.Style {
	if s, ok := currentTheme.Palette[c]; ok {
		return s
	}
	if s, ok := colorStyles[c]; ok {
		return s
	}
	return colorStyles[core.ColorDefault]
}
