package engine

import "fmt"

// slot is the storage for one cell. A zero slot is empty.
type slot struct {
	id  uint64
	typ TileType
}

func (s slot) empty() bool {
	return s.typ == TileNone
}

// Grid owns all pieces of a board, indexed by column and row.
// A piece's coordinates are never stored separately from its slot, so
// a piece read from the grid always reports the position it occupies.
// Grid is not safe for concurrent use.
type Grid struct {
	layout *Layout
	slots   []slot // row-major, index = row*columns + column
	nextID  uint64
	version uint64 // Bumped by every change to the board
}

// NewGrid creates an empty grid over the given layout.
func NewGrid(layout *Layout) *Grid {
	return &Grid{
		layout: layout,
		slots:  make([]slot, layout.Columns()*layout.Rows()),
	}
}

// Layout returns the board layout the grid was built on.
func (g *Grid) Layout() *Layout {
	return g.layout
}

// Columns returns the grid width.
func (g *Grid) Columns() int {
	return g.layout.Columns()
}

// Rows returns the grid height.
func (g *Grid) Rows() int {
	return g.layout.Rows()
}

// IsPlayable reports whether a cell can hold a piece.
func (g *Grid) IsPlayable(column, row int) bool {
	return g.layout.IsPlayable(column, row)
}

func (g *Grid) index(column, row int) int {
	return row*g.layout.Columns() + column
}

func (g *Grid) checkBounds(column, row int) error {
	if !g.layout.InBounds(column, row) {
		return &OutOfBoundsError{
			Column:  column,
			Row:     row,
			Columns: g.layout.Columns(),
			Rows:    g.layout.Rows(),
		}
	}
	return nil
}

// Get returns the piece at (column, row). The bool is false for an empty
// cell. Fails with *OutOfBoundsError outside the grid.
func (g *Grid) Get(column, row int) (Piece, bool, error) {
	if err := g.checkBounds(column, row); err != nil {
		return Piece{}, false, err
	}
	s := g.slots[g.index(column, row)]
	if s.empty() {
		return Piece{}, false, nil
	}
	return g.piece(column, row, s), true, nil
}

// Set places a new piece of type t at (column, row), replacing whatever
// was there, and returns it. TileNone clears the cell and returns a zero
// Piece. Placing onto a blocked cell fails with ErrBlockedCell.
func (g *Grid) Set(column, row int, t TileType) (Piece, error) {
	if err := g.checkBounds(column, row); err != nil {
		return Piece{}, err
	}
	if t == TileNone {
		g.slots[g.index(column, row)] = slot{}
		g.version++
		return Piece{}, nil
	}
	if !g.layout.IsPlayable(column, row) {
		return Piece{}, ErrBlockedCell
	}
	if !t.Valid() {
		return Piece{}, fmt.Errorf("%w: %s", ErrInvalidTileType, t)
	}

	g.nextID++
	s := slot{id: g.nextID, typ: t}
	g.slots[g.index(column, row)] = s
	g.version++
	return g.piece(column, row, s), nil
}

// Clear empties the cell at (column, row).
func (g *Grid) Clear(column, row int) error {
	_, err := g.Set(column, row, TileNone)
	return err
}

// TypeAt returns the tile type at (column, row), or TileNone for empty and
// out-of-bounds cells.
func (g *Grid) TypeAt(column, row int) TileType {
	if !g.layout.InBounds(column, row) {
		return TileNone
	}
	return g.slots[g.index(column, row)].typ
}

// Pieces returns every piece on the board in row-major order.
func (g *Grid) Pieces() []Piece {
	pieces := make([]Piece, 0, len(g.slots))
	for row := 0; row < g.Rows(); row++ {
		for column := 0; column < g.Columns(); column++ {
			s := g.slots[g.index(column, row)]
			if !s.empty() {
				pieces = append(pieces, g.piece(column, row, s))
			}
		}
	}
	return pieces
}

// Count returns the number of pieces on the board.
func (g *Grid) Count() int {
	n := 0
	for _, s := range g.slots {
		if !s.empty() {
			n++
		}
	}
	return n
}

// Reset removes every piece.
func (g *Grid) Reset() {
	for i := range g.slots {
		g.slots[i] = slot{}
	}
	g.version++
}

// Types returns a row-major copy of the tile types, mainly for tests and
// snapshots.
func (g *Grid) Types() [][]TileType {
	out := make([][]TileType, g.Rows())
	for row := range out {
		out[row] = make([]TileType, g.Columns())
		for column := range out[row] {
			out[row][column] = g.slots[g.index(column, row)].typ
		}
	}
	return out
}

func (g *Grid) piece(column, row int, s slot) Piece {
	return Piece{ID: s.id, Column: column, Row: row, Type: s.typ}
}

// move relocates the piece at from into the empty cell at to, keeping its
// identity. Callers guarantee both cells are playable and in bounds.
func (g *Grid) move(from, to Coord) Piece {
	fi := g.index(from.Column, from.Row)
	ti := g.index(to.Column, to.Row)
	g.slots[ti] = g.slots[fi]
	g.slots[fi] = slot{}
	g.version++
	return g.piece(to.Column, to.Row, g.slots[ti])
}

// swap exchanges the contents of two cells in one step.
func (g *Grid) swap(a, b Coord) {
	g.exchange(a, b)
	g.version++
}

// exchange is swap for trial moves that are undone before returning, so
// the board version stays put.
func (g *Grid) exchange(a, b Coord) {
	ai := g.index(a.Column, a.Row)
	bi := g.index(b.Column, b.Row)
	g.slots[ai], g.slots[bi] = g.slots[bi], g.slots[ai]
}
