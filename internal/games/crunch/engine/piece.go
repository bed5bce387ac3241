package engine

import "fmt"

// Coord addresses a cell. Column grows to the right, Row grows upward:
// row 0 is the bottom row and pieces fall toward it.
type Coord struct {
	Column int
	Row    int
}

// C is a convenience constructor for Coord.
func C(column, row int) Coord {
	return Coord{Column: column, Row: row}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Column, c.Row)
}

// Manhattan returns the Manhattan distance to another coordinate.
func (c Coord) Manhattan(other Coord) int {
	dc := c.Column - other.Column
	dr := c.Row - other.Row
	if dc < 0 {
		dc = -dc
	}
	if dr < 0 {
		dr = -dr
	}
	return dc + dr
}

// Adjacent reports whether two coordinates share an edge.
func (c Coord) Adjacent(other Coord) bool {
	return c.Manhattan(other) == 1
}

// Less orders coordinates row-major, bottom row first.
func (c Coord) Less(other Coord) bool {
	if c.Row != other.Row {
		return c.Row < other.Row
	}
	return c.Column < other.Column
}

// Piece is a snapshot of a typed game piece occupying one playable cell.
// ID is stable for the lifetime of the piece: swaps and falls keep it,
// removal ends it. Column and Row always equal the slot the piece was
// read from.
type Piece struct {
	ID     uint64
	Column int
	Row    int
	Type   TileType
}

// Coord returns the position of the piece.
func (p Piece) Coord() Coord {
	return Coord{Column: p.Column, Row: p.Row}
}

// String returns a compact description, e.g. "Donut#12@(3,4)".
func (p Piece) String() string {
	return fmt.Sprintf("%s#%d@(%d,%d)", p.Type, p.ID, p.Column, p.Row)
}
