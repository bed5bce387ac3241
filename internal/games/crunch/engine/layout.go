package engine

import "fmt"

// DefaultColumns and DefaultRows are the dimensions of the reference level.
const (
	DefaultColumns = 9
	DefaultRows    = 9
)

// CellState tags a cell of the board layout.
type CellState uint8

const (
	CellBlocked CellState = iota
	CellPlayable
)

// String returns the string representation of a cell state.
func (s CellState) String() string {
	switch s {
	case CellBlocked:
		return "Blocked"
	case CellPlayable:
		return "Playable"
	default:
		return "Unknown"
	}
}

// Layout describes which cells of a fixed-size grid can hold pieces.
// It is immutable once constructed.
type Layout struct {
	columns int
	rows    int
	cells   []CellState // row-major, index = row*columns + column
}

// NewLayout creates a layout from a row-major cell slice (row 0 first).
func NewLayout(columns, rows int, cells []CellState) (*Layout, error) {
	if columns <= 0 || rows <= 0 {
		return nil, fmt.Errorf("layout: invalid dimensions %dx%d", columns, rows)
	}
	if len(cells) != columns*rows {
		return nil, fmt.Errorf("layout: got %d cells for a %dx%d grid", len(cells), columns, rows)
	}

	owned := make([]CellState, len(cells))
	copy(owned, cells)
	return &Layout{columns: columns, rows: rows, cells: owned}, nil
}

// FullLayout creates a layout where every cell is playable.
func FullLayout(columns, rows int) *Layout {
	cells := make([]CellState, columns*rows)
	for i := range cells {
		cells[i] = CellPlayable
	}
	return &Layout{columns: columns, rows: rows, cells: cells}
}

// Columns returns the grid width.
func (l *Layout) Columns() int {
	return l.columns
}

// Rows returns the grid height.
func (l *Layout) Rows() int {
	return l.rows
}

// InBounds reports whether (column, row) lies inside the grid.
func (l *Layout) InBounds(column, row int) bool {
	return column >= 0 && column < l.columns && row >= 0 && row < l.rows
}

// State returns the state of a cell; out-of-bounds cells are blocked.
func (l *Layout) State(column, row int) CellState {
	if !l.InBounds(column, row) {
		return CellBlocked
	}
	return l.cells[row*l.columns+column]
}

// IsPlayable reports whether a cell can hold a piece.
func (l *Layout) IsPlayable(column, row int) bool {
	return l.State(column, row) == CellPlayable
}

// PlayableCount returns the number of playable cells.
func (l *Layout) PlayableCount() int {
	n := 0
	for _, c := range l.cells {
		if c == CellPlayable {
			n++
		}
	}
	return n
}

// PlayableCoords returns all playable coordinates in row-major scan
// order, bottom row first.
func (l *Layout) PlayableCoords() []Coord {
	coords := make([]Coord, 0, len(l.cells))
	for row := 0; row < l.rows; row++ {
		for column := 0; column < l.columns; column++ {
			if l.IsPlayable(column, row) {
				coords = append(coords, C(column, row))
			}
		}
	}
	return coords
}
