package engine

import "fmt"

// Swap exchanges the pieces on two adjacent cells. It is the only input
// a player can give the engine.
type Swap struct {
	From Coord
	To   Coord
}

// NewSwap is a convenience constructor.
func NewSwap(from, to Coord) Swap {
	return Swap{From: from, To: to}
}

// String returns a string representation of the swap.
func (s Swap) String() string {
	return fmt.Sprintf("%s<->%s", s.From, s.To)
}

// Normalize orders the endpoints so From precedes To in scan order.
// Two swaps over the same pair of cells normalize to the same value.
func (s Swap) Normalize() Swap {
	if s.To.Less(s.From) {
		return Swap{From: s.To, To: s.From}
	}
	return s
}

// Equal reports whether both swaps exchange the same two cells.
func (s Swap) Equal(other Swap) bool {
	return s.Normalize() == other.Normalize()
}

// Reverse returns the swap with its endpoints exchanged.
func (s Swap) Reverse() Swap {
	return Swap{From: s.To, To: s.From}
}

// validate checks that the swap names two adjacent occupied cells.
func (g *Grid) validate(s Swap) error {
	for _, c := range []Coord{s.From, s.To} {
		if err := g.checkBounds(c.Column, c.Row); err != nil {
			return &InvalidSwapError{Swap: s, Err: err}
		}
	}
	if !s.From.Adjacent(s.To) {
		return &InvalidSwapError{Swap: s, Err: ErrNotAdjacent}
	}
	if g.TypeAt(s.From.Column, s.From.Row) == TileNone || g.TypeAt(s.To.Column, s.To.Row) == TileNone {
		return &InvalidSwapError{Swap: s, Err: ErrEmptyCell}
	}
	return nil
}

// isPossibleSwap applies the swap, checks both moved pieces for a run and
// undoes the swap before returning.
func (g *Grid) isPossibleSwap(s Swap) bool {
	if g.validate(s) != nil {
		return false
	}
	g.exchange(s.From, s.To)
	defer g.exchange(s.From, s.To)

	return inChain(g, s.To.Column, s.To.Row) || inChain(g, s.From.Column, s.From.Row)
}

// possibleSwaps tests every playable cell against its right neighbour and
// the neighbour above it, which covers each adjacent pair exactly once.
func (g *Grid) possibleSwaps() []Swap {
	var swaps []Swap
	for _, c := range g.layout.PlayableCoords() {
		if g.TypeAt(c.Column, c.Row) == TileNone {
			continue
		}
		for _, n := range []Coord{C(c.Column+1, c.Row), C(c.Column, c.Row+1)} {
			s := Swap{From: c, To: n}
			if g.isPossibleSwap(s) {
				swaps = append(swaps, s)
			}
		}
	}
	return swaps
}

// PerformSwap exchanges the two pieces named by the swap. Both cells are
// updated before it returns. A swap that is out of range, not adjacent, or
// touches an empty cell fails with *InvalidSwapError and changes nothing.
// PerformSwap does not check that the swap forms a match; see
// IsPossibleSwap and Play.
func (l *Level) PerformSwap(s Swap) error {
	if err := l.grid.validate(s); err != nil {
		return err
	}
	l.grid.swap(s.From, s.To)
	return nil
}

// IsPossibleSwap reports whether the swap would put either moved piece in
// a chain. The board is left unchanged. Invalid swaps are never possible.
func (l *Level) IsPossibleSwap(s Swap) bool {
	return l.grid.isPossibleSwap(s)
}

// DetectPossibleSwaps enumerates every swap that forms a match, caches the
// result and returns a copy. Order is deterministic: scan order of the
// lower endpoint, right neighbour before the one above.
func (l *Level) DetectPossibleSwaps() []Swap {
	l.possibleSwaps = l.grid.possibleSwaps()
	l.swapsVersion = l.grid.version
	return l.PossibleSwaps()
}

// PossibleSwaps returns the swaps found by the last DetectPossibleSwaps,
// which may predate later changes to the board.
func (l *Level) PossibleSwaps() []Swap {
	out := make([]Swap, len(l.possibleSwaps))
	copy(out, l.possibleSwaps)
	return out
}

// Hint returns a swap that makes a match, if the board has one. The
// possible swaps are enumerated again when the board changed since the
// last DetectPossibleSwaps.
func (l *Level) Hint() (Swap, bool) {
	if l.swapsVersion != l.grid.version {
		l.DetectPossibleSwaps()
	}
	if len(l.possibleSwaps) == 0 {
		return Swap{}, false
	}
	return l.possibleSwaps[0], true
}
