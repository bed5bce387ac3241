package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-crunch/internal/core"
)

// ansiColors is the terminal color each screen color maps to by default.
// Bold entries are the bright variants.
var ansiColors = map[core.Color]struct {
	code string
	bold bool
}{
	core.ColorRed:           {"1", false},
	core.ColorGreen:         {"2", false},
	core.ColorYellow:        {"3", false},
	core.ColorBlue:          {"4", false},
	core.ColorMagenta:       {"5", false},
	core.ColorCyan:          {"6", false},
	core.ColorWhite:         {"7", false},
	core.ColorBrightRed:     {"9", false},
	core.ColorBrightYellow:  {"11", true},
	core.ColorBrightMagenta: {"13", true},
	core.ColorBrightWhite:   {"15", true},
	core.ColorOrange:        {"208", false},
	core.ColorBrown:         {"130", false},
	core.ColorPink:          {"205", false},
	core.ColorGray:          {"245", false},
}

// colorStyles is the default style of every screen color. Themes override
// entries through Theme.Palette.
var colorStyles = buildColorStyles()

func buildColorStyles() map[core.Color]lipgloss.Style {
	styles := map[core.Color]lipgloss.Style{core.ColorDefault: lipgloss.NewStyle()}
	for c, a := range ansiColors {
		styles[c] = lipgloss.NewStyle().Foreground(lipgloss.Color(a.code)).Bold(a.bold)
	}
	return styles
}

// RenderScreen turns a Screen into styled terminal text. Each row is cut
// into runs of one color so a run costs a single escape sequence.
func RenderScreen(s *core.Screen) string {
	rows := make([]string, s.Height())
	for y := range rows {
		rows[y] = renderRow(s, y)
	}
	return strings.Join(rows, "\n")
}

func renderRow(s *core.Screen, y int) string {
	var (
		out strings.Builder
		run strings.Builder
		cur core.Color
	)
	flush := func() {
		if run.Len() > 0 {
			out.WriteString(styleFor(cur).Render(run.String()))
			run.Reset()
		}
	}

	for x := range s.Width() {
		cell := s.GetCell(x, y)
		if cell.Color != cur {
			flush()
			cur = cell.Color
		}
		run.WriteRune(cell.Rune)
	}
	flush()
	return out.String()
}
