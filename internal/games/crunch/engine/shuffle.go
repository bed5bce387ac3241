package engine

import (
	"errors"
	"fmt"
)

// DefaultMaxShuffleAttempts bounds how often Shuffle retries a fill.
const DefaultMaxShuffleAttempts = 100

// errNoAllowedType means a cell had no type that avoids a chain.
var errNoAllowedType = errors.New("no tile type avoids a chain")

// Shuffle fills every empty playable cell with a random piece so that the
// board holds no chain and offers at least one possible swap. Pieces
// already on the board are kept. A fill that fails either condition is
// undone and retried; after the configured number of attempts Shuffle
// returns *UnsolvableLevelError wrapping ErrNoPossibleSwap.
// The new pieces are returned in scan order, bottom row first.
func (l *Level) Shuffle() ([]Piece, error) {
	var lastErr error
	for attempt := 1; attempt <= l.maxShuffleAttempts; attempt++ {
		created, err := l.fillAttempt()
		if err == nil {
			swaps := l.DetectPossibleSwaps()
			if len(swaps) > 0 {
				l.logger.Debug("shuffle done", "attempt", attempt, "pieces", len(created), "swaps", len(swaps))
				return created, nil
			}
			err = ErrNoPossibleSwap
		}

		lastErr = err
		l.logger.Debug("shuffle retry", "attempt", attempt, "err", err)
		for _, p := range created {
			l.grid.slots[l.grid.index(p.Column, p.Row)] = slot{}
		}
	}

	l.possibleSwaps = nil
	if !errors.Is(lastErr, ErrNoPossibleSwap) {
		lastErr = fmt.Errorf("%w: %w", ErrNoPossibleSwap, lastErr)
	}
	return nil, &UnsolvableLevelError{Attempts: l.maxShuffleAttempts, Err: lastErr}
}

// Reshuffle removes every piece, fixed ones included, and shuffles.
func (l *Level) Reshuffle() ([]Piece, error) {
	l.grid.Reset()
	l.possibleSwaps = nil
	return l.Shuffle()
}

// fillAttempt places one random piece per empty playable cell, drawing
// only types that do not complete a run with any neighbour. On failure
// the pieces created so far are returned so the caller can remove them.
func (l *Level) fillAttempt() ([]Piece, error) {
	g := l.grid
	var created []Piece
	allowed := make([]TileType, 0, l.tileTypes)

	for _, c := range g.layout.PlayableCoords() {
		if g.TypeAt(c.Column, c.Row) != TileNone {
			continue
		}

		allowed = allowed[:0]
		for t := TileType(1); int(t) <= l.tileTypes; t++ {
			if !completesRun(g, c, t) {
				allowed = append(allowed, t)
			}
		}
		if len(allowed) == 0 {
			return created, fmt.Errorf("cell %s: %w", c, errNoAllowedType)
		}

		p, err := g.Set(c.Column, c.Row, allowed[l.rng.Intn(len(allowed))])
		if err != nil {
			return created, err
		}
		created = append(created, p)
	}

	return created, nil
}

// completesRun reports whether a piece of type t at c would sit in a run
// of MinChainLength or more along either axis.
func completesRun(g *Grid, c Coord, t TileType) bool {
	count := func(dc, dr int) int {
		n := 0
		for col, row := c.Column+dc, c.Row+dr; g.TypeAt(col, row) == t; col, row = col+dc, row+dr {
			n++
		}
		return n
	}
	return 1+count(-1, 0)+count(1, 0) >= MinChainLength ||
		1+count(0, -1)+count(0, 1) >= MinChainLength
}
