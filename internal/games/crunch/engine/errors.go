package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPossibleSwap is returned when a filled board offers no move.
	ErrNoPossibleSwap = errors.New("no possible swap")

	// ErrBlockedCell is returned when placing a piece on a non-playable cell.
	ErrBlockedCell = errors.New("cell is not playable")

	// ErrEmptyCell is returned when a swap names a cell without a piece.
	ErrEmptyCell = errors.New("cell is empty")

	// ErrNotAdjacent is returned when a swap names non-adjacent cells.
	ErrNotAdjacent = errors.New("cells are not adjacent")

	// ErrInvalidTileType is returned for a type outside the catalogue.
	ErrInvalidTileType = errors.New("invalid tile type")
)

// OutOfBoundsError reports a coordinate outside the grid.
type OutOfBoundsError struct {
	Column  int
	Row     int
	Columns int
	Rows    int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("coordinate (%d,%d) outside %dx%d grid", e.Column, e.Row, e.Columns, e.Rows)
}

// InvalidSwapError reports a swap that was rejected before any mutation.
type InvalidSwapError struct {
	Swap Swap
	Err  error
}

func (e *InvalidSwapError) Error() string {
	return fmt.Sprintf("invalid swap %s: %v", e.Swap, e.Err)
}

func (e *InvalidSwapError) Unwrap() error {
	return e.Err
}

// LevelFormatError reports malformed level input.
type LevelFormatError struct {
	Path   string // Source file, empty for in-memory definitions
	Field  string
	Reason string
}

func (e *LevelFormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("level %s: field %q: %s", e.Path, e.Field, e.Reason)
	}
	return fmt.Sprintf("level: field %q: %s", e.Field, e.Reason)
}

// UnsolvableLevelError reports that shuffling never produced a playable board.
type UnsolvableLevelError struct {
	Attempts int
	Err      error
}

func (e *UnsolvableLevelError) Error() string {
	return fmt.Sprintf("level unsolvable after %d shuffle attempts: %v", e.Attempts, e.Err)
}

func (e *UnsolvableLevelError) Unwrap() error {
	return e.Err
}
