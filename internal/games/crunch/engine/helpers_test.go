package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-crunch/internal/dependencies/random"
	"github.com/vovakirdan/tui-crunch/internal/testutil"
)

// boardLevel builds a level from an ASCII picture, top row first.
// '#' is blocked, '.' is an empty playable cell, '1'..'6' place a piece.
func boardLevel(t *testing.T, rng random.Random, picture ...string) *Level {
	t.Helper()
	require.NotEmpty(t, picture)

	rows := len(picture)
	columns := len(picture[0])
	cells := make([]CellState, columns*rows)
	for line, text := range picture {
		require.Len(t, text, columns, "ragged picture line %d", line)
		row := rows - 1 - line
		for column, ch := range text {
			if ch != '#' {
				cells[row*columns+column] = CellPlayable
			}
		}
	}
	layout, err := NewLayout(columns, rows, cells)
	require.NoError(t, err)

	level, err := NewLevel(Definition{
		ID:          1,
		Name:        "test",
		Layout:      layout,
		TargetScore: 1000,
		MaxMoves:    20,
	}, WithRandom(rng), WithLogger(testutil.NopLogger()))
	require.NoError(t, err)

	for line, text := range picture {
		row := rows - 1 - line
		for column, ch := range text {
			if ch >= '1' && ch <= '6' {
				_, err := level.Grid().Set(column, row, TileType(ch-'0'))
				require.NoError(t, err)
			}
		}
	}
	return level
}

// patternType returns a type from 1..4 that differs from both its
// horizontal and vertical neighbours, so a board painted with it holds
// no chain and not even a pair.
func patternType(column, row int) TileType {
	return TileType((column+2*row)%4 + 1)
}

// patternLevel builds a full 9x9 board painted with patternType.
func patternLevel(t *testing.T, rng random.Random) *Level {
	t.Helper()

	level, err := NewLevel(Definition{
		ID:          1,
		Name:        "pattern",
		Layout:      FullLayout(DefaultColumns, DefaultRows),
		TargetScore: 1000,
		MaxMoves:    20,
	}, WithRandom(rng), WithLogger(testutil.NopLogger()))
	require.NoError(t, err)

	for row := 0; row < DefaultRows; row++ {
		for column := 0; column < DefaultColumns; column++ {
			_, err := level.Grid().Set(column, row, patternType(column, row))
			require.NoError(t, err)
		}
	}
	return level
}

// set places a piece in a test, failing on error.
func set(t *testing.T, l *Level, column, row int, typ TileType) Piece {
	t.Helper()
	p, err := l.Grid().Set(column, row, typ)
	require.NoError(t, err)
	return p
}

// requireInvariant checks that blocked cells are empty and every piece
// reports the slot it sits in.
func requireInvariant(t *testing.T, l *Level) {
	t.Helper()
	g := l.Grid()
	for row := 0; row < g.Rows(); row++ {
		for column := 0; column < g.Columns(); column++ {
			p, ok, err := g.Get(column, row)
			require.NoError(t, err)
			if !g.IsPlayable(column, row) {
				require.False(t, ok, "blocked cell (%d,%d) holds %s", column, row, p)
				continue
			}
			if ok {
				require.Equal(t, C(column, row), p.Coord())
			}
		}
	}
}

func ids(g *Grid) map[Coord]uint64 {
	out := make(map[Coord]uint64)
	for _, p := range g.Pieces() {
		out[p.Coord()] = p.ID
	}
	return out
}
