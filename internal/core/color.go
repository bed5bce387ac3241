package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightYellow
	ColorBrightMagenta
	ColorBrightWhite
	ColorOrange
	ColorBrown
	ColorPink
	ColorGray
)

// Cell is one character of a Screen with its color.
type Cell struct {
	Rune  rune
	Color Color
}

// Blank is the cell a cleared screen is filled with.
var Blank = Cell{Rune: ' ', Color: ColorDefault}
