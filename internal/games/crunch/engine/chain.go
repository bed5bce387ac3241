package engine

import (
	"fmt"
	"strings"
)

// MinChainLength is the shortest run that counts as a match.
const MinChainLength = 3

// Orientation tells which way a chain runs.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// String returns the string representation of an orientation.
func (o Orientation) String() string {
	if o == Vertical {
		return "Vertical"
	}
	return "Horizontal"
}

// Chain is a run of at least MinChainLength collinear, adjacent pieces of
// one type. A piece at the corner of an L or T shape belongs to two chains.
type Chain struct {
	Pieces      []Piece
	Orientation Orientation
	Score       int
}

// Len returns the number of pieces in the chain.
func (c Chain) Len() int {
	return len(c.Pieces)
}

// Type returns the tile type shared by the chain's pieces.
func (c Chain) Type() TileType {
	if len(c.Pieces) == 0 {
		return TileNone
	}
	return c.Pieces[0].Type
}

// Contains reports whether the chain covers the given cell.
func (c Chain) Contains(at Coord) bool {
	for _, p := range c.Pieces {
		if p.Coord() == at {
			return true
		}
	}
	return false
}

func (c Chain) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s x%d [", c.Orientation, c.Type(), c.Len())
	for i, p := range c.Pieces {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p.Coord().String())
	}
	fmt.Fprintf(&b, "] score=%d", c.Score)
	return b.String()
}

// findChains scans rows left to right and then columns bottom to top,
// emitting every run of MinChainLength or more. Scores are left at zero.
func findChains(g *Grid) []Chain {
	var chains []Chain

	for row := 0; row < g.Rows(); row++ {
		chains = scanLine(g, chains, Horizontal, g.Columns(), func(i int) Coord { return C(i, row) })
	}
	for column := 0; column < g.Columns(); column++ {
		chains = scanLine(g, chains, Vertical, g.Rows(), func(i int) Coord { return C(column, i) })
	}

	return chains
}

// scanLine accumulates runs along one line and appends those long enough.
func scanLine(g *Grid, chains []Chain, o Orientation, n int, at func(int) Coord) []Chain {
	start := 0
	for i := 1; i <= n; i++ {
		first := at(start)
		t := g.TypeAt(first.Column, first.Row)
		if i < n {
			next := at(i)
			if t != TileNone && g.TypeAt(next.Column, next.Row) == t {
				continue
			}
		}
		if t != TileNone && i-start >= MinChainLength {
			chain := Chain{Orientation: o, Pieces: make([]Piece, 0, i-start)}
			for j := start; j < i; j++ {
				c := at(j)
				p, _, _ := g.Get(c.Column, c.Row)
				chain.Pieces = append(chain.Pieces, p)
			}
			chains = append(chains, chain)
		}
		start = i
	}
	return chains
}

// runLength counts same-typed pieces through (column, row) along the
// direction (dc, dr), the cell itself included.
func runLength(g *Grid, column, row, dc, dr int) int {
	t := g.TypeAt(column, row)
	if t == TileNone {
		return 0
	}
	n := 1
	for c, r := column+dc, row+dr; g.TypeAt(c, r) == t; c, r = c+dc, r+dr {
		n++
	}
	for c, r := column-dc, row-dr; g.TypeAt(c, r) == t; c, r = c-dc, r-dr {
		n++
	}
	return n
}

// inChain reports whether the piece at (column, row) is part of a
// horizontal or vertical run of MinChainLength or more.
func inChain(g *Grid, column, row int) bool {
	return runLength(g, column, row, 1, 0) >= MinChainLength ||
		runLength(g, column, row, 0, 1) >= MinChainLength
}
