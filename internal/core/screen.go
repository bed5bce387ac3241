package core

import (
	"strings"
	"unicode/utf8"
)

// Screen is an off-terminal cell buffer. Games draw into it and the platform
// decides how to put it on a terminal.
type Screen struct {
	w, h  int
	cells []Cell // Row-major, len == w*h
}

// NewScreen returns a blank w x h screen. Negative sizes are treated as zero.
func NewScreen(w, h int) *Screen {
	s := &Screen{}
	s.Resize(w, h)
	return s
}

// Width returns the screen width in cells.
func (s *Screen) Width() int { return s.w }

// Height returns the screen height in cells.
func (s *Screen) Height() int { return s.h }

// Bounds returns the whole screen as a rectangle.
func (s *Screen) Bounds() Rect {
	return NewRect(0, 0, s.w, s.h)
}

// index maps a position to its offset in cells, or -1 when off screen.
func (s *Screen) index(x, y int) int {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return -1
	}
	return y*s.w + x
}

// Resize changes the dimensions. The overlapping top-left area keeps its
// content and everything else is blank.
func (s *Screen) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if s.cells != nil && w == s.w && h == s.h {
		return
	}

	next := make([]Cell, w*h)
	for i := range next {
		next[i] = Blank
	}
	for y := range min(h, s.h) {
		copy(next[y*w:y*w+min(w, s.w)], s.cells[y*s.w:])
	}
	s.w, s.h, s.cells = w, h, next
}

// Clear blanks every cell.
func (s *Screen) Clear() {
	for i := range s.cells {
		s.cells[i] = Blank
	}
}

// Set places a default-colored rune. Off-screen writes are dropped.
func (s *Screen) Set(x, y int, r rune) {
	s.SetColored(x, y, r, ColorDefault)
}

// SetColored places a colored rune. Off-screen writes are dropped.
func (s *Screen) SetColored(x, y int, r rune, c Color) {
	if i := s.index(x, y); i >= 0 {
		s.cells[i] = Cell{Rune: r, Color: c}
	}
}

// Get returns the rune at a position, or a space when off screen.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at a position, or Blank when off screen.
func (s *Screen) GetCell(x, y int) Cell {
	if i := s.index(x, y); i >= 0 {
		return s.cells[i]
	}
	return Blank
}

// DrawText writes text left to right from (x, y), clipped at the edges.
func (s *Screen) DrawText(x, y int, text string) {
	s.DrawTextColored(x, y, text, ColorDefault)
}

// DrawTextColored is DrawText with a color.
func (s *Screen) DrawTextColored(x, y int, text string, c Color) {
	for _, r := range text {
		s.SetColored(x, y, r, c)
		x++
	}
}

// DrawTextCentered writes text centered on row y.
func (s *Screen) DrawTextCentered(y int, text string, c Color) {
	s.DrawTextColored((s.w-utf8.RuneCountInString(text))/2, y, text, c)
}

// DrawRect fills r with one rune.
func (s *Screen) DrawRect(r Rect, fill rune, c Color) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			s.SetColored(x, y, fill, c)
		}
	}
}

// DrawBox outlines r with single-line box characters. Rectangles smaller
// than 2x2 are skipped.
func (s *Screen) DrawBox(r Rect, c Color) {
	if r.W < 2 || r.H < 2 {
		return
	}
	right, bottom := r.Right()-1, r.Bottom()-1

	for x := r.X + 1; x < right; x++ {
		s.SetColored(x, r.Y, '─', c)
		s.SetColored(x, bottom, '─', c)
	}
	for y := r.Y + 1; y < bottom; y++ {
		s.SetColored(r.X, y, '│', c)
		s.SetColored(right, y, '│', c)
	}
	s.SetColored(r.X, r.Y, '┌', c)
	s.SetColored(right, r.Y, '┐', c)
	s.SetColored(r.X, bottom, '└', c)
	s.SetColored(right, bottom, '┘', c)
}

// Row returns the runes of row y without color. Rows off screen read as
// spaces.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.h {
		return strings.Repeat(" ", s.w)
	}
	var sb strings.Builder
	sb.Grow(s.w)
	for _, c := range s.cells[y*s.w : (y+1)*s.w] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}

// String returns the whole buffer without color, one line per row.
func (s *Screen) String() string {
	rows := make([]string, s.h)
	for y := range rows {
		rows[y] = s.Row(y)
	}
	return strings.Join(rows, "\n")
}
