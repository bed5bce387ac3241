package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vovakirdan/tui-crunch/internal/dependencies/mocks"
	"github.com/vovakirdan/tui-crunch/internal/dependencies/random"
	"github.com/vovakirdan/tui-crunch/internal/testutil"
)

// TurnTestSuite plays one scripted turn on a 9x9 board: a swap that makes
// four Macaroons in a row on row 4, followed by a refill that lines up
// three Sugar Cookies on the top row.
type TurnTestSuite struct {
	suite.Suite
	rng   *mocks.MockRandom
	level *Level
	swap  Swap
}

func TestTurnTestSuite(t *testing.T) {
	suite.Run(t, new(TurnTestSuite))
}

func (s *TurnTestSuite) SetupTest() {
	s.rng = mocks.NewMockRandom()
	s.level = patternLevel(s.T(), s.rng)

	// Row 4 reads M M _ M with a fourth Macaroon just below the gap.
	for _, c := range []Coord{C(0, 4), C(1, 4), C(3, 4), C(2, 3)} {
		set(s.T(), s.level, c.Column, c.Row, TileMacaroon)
	}
	s.swap = NewSwap(C(2, 3), C(2, 4))
	s.Require().Empty(s.level.DetectChains())
}

func (s *TurnTestSuite) TestStepByStep() {
	s.Require().True(s.level.IsPossibleSwap(s.swap))

	s.level.ResetComboMultiplier()
	s.Require().NoError(s.level.PerformSwap(s.swap))

	chains := s.level.RemoveMatches()
	s.Require().Len(chains, 1)
	s.Equal(Horizontal, chains[0].Orientation)
	s.Equal(4, chains[0].Len())
	s.Equal(120, chains[0].Score)
	for i, p := range chains[0].Pieces {
		s.Equal(C(i, 4), p.Coord())
	}
	s.Equal(2, s.level.ComboMultiplier())

	falls := s.level.FillHoles()
	s.Require().Len(falls, 4)
	for _, column := range falls {
		s.Len(column, 4, "rows 5..8 drop by one")
		for _, f := range column {
			s.Equal(1, f.Distance())
		}
	}

	// Sugar Cookie, Sugar Cookie, Sugar Cookie, Macaroon on the top row.
	s.rng.QueueIntn(5, 5, 5, 4)
	created := s.level.TopUp()
	s.Require().Len(created, 4)
	for column, pieces := range created {
		s.Require().Len(pieces, 1)
		s.Equal(C(column, 8), pieces[0].Coord())
	}

	chains = s.level.DetectChains()
	s.Require().Len(chains, 1)
	s.Equal(TileSugarCookie, chains[0].Type())
	s.Equal(3, chains[0].Len())
	s.Equal(120, chains[0].Score, "60 at multiplier 2")
}

func (s *TurnTestSuite) TestPlay() {
	// Second refill: Cupcake, Danish, Donut, which settle the board.
	s.rng.QueueIntn(5, 5, 5, 4, 1, 2, 3)

	turn, err := s.level.Play(s.swap)
	s.Require().NoError(err)
	s.True(turn.Accepted)
	s.Require().Len(turn.Cycles, 2)
	s.Equal(2, turn.Combo())

	first := turn.Cycles[0]
	s.Equal(1, first.Multiplier)
	s.Equal(120, first.Score)
	s.Len(first.NewPieces, 4)

	second := turn.Cycles[1]
	s.Equal(2, second.Multiplier)
	s.Equal(120, second.Score)
	s.Empty(second.Falls, "the chain sat on the top row")
	s.Len(second.NewPieces, 3)

	s.Equal(240, turn.Score)
	s.Zero(s.rng.Remaining())
	s.Empty(s.level.DetectChains())
	s.Equal(len(s.level.PossibleSwaps()) == 0, turn.NeedsShuffle)
	requireInvariant(s.T(), s.level)
}

func (s *TurnTestSuite) TestPlayRejectsSwapWithoutMatch() {
	before := ids(s.level.Grid())

	turn, err := s.level.Play(NewSwap(C(6, 6), C(7, 6)))
	s.Require().NoError(err)
	s.False(turn.Accepted)
	s.Empty(turn.Cycles)
	s.Zero(turn.Score)
	s.Equal(before, ids(s.level.Grid()))
}

func (s *TurnTestSuite) TestPlayRejectsInvalidSwap() {
	before := ids(s.level.Grid())

	_, err := s.level.Play(NewSwap(C(0, 0), C(2, 0)))
	s.ErrorIs(err, ErrNotAdjacent)
	s.Equal(before, ids(s.level.Grid()))
}

func TestShuffleGuarantees(t *testing.T) {
	pictures := [][]string{
		nil, // full 9x9
		{
			"##.....##",
			"#.......#",
			".........",
			"....#....",
			"...###...",
			"....#....",
			".........",
			"#.......#",
			"##.....##",
		},
	}
	for _, seed := range []int64{1, 2, 3, 4, 5, 99} {
		for _, tileTypes := range []int{MinTileTypes, 4, TileTypeCount} {
			for _, picture := range pictures {
				layout := FullLayout(DefaultColumns, DefaultRows)
				if picture != nil {
					layout = boardLevel(t, mocks.NewMockRandom(), picture...).Grid().Layout()
				}
				level, err := NewLevel(Definition{Layout: layout, TargetScore: 100, MaxMoves: 10},
					WithRandom(random.New(seed)), WithTileTypes(tileTypes), WithLogger(testutil.NopLogger()))
				require.NoError(t, err)

				created, err := level.Shuffle()
				require.NoError(t, err, "seed %d types %d", seed, tileTypes)
				assert.Len(t, created, layout.PlayableCount())
				assert.Empty(t, level.DetectChains())
				assert.NotEmpty(t, level.DetectPossibleSwaps())
				for _, p := range created {
					assert.LessOrEqual(t, int(p.Type), tileTypes)
				}
				requireInvariant(t, level)
			}
		}
	}
}

func TestShuffleKeepsFixedPieces(t *testing.T) {
	fixed := []FixedPiece{
		{Column: 0, Row: 0, Type: TileDonut},
		{Column: 1, Row: 0, Type: TileDonut},
		{Column: 4, Row: 4, Type: TileCroissant},
	}
	level, err := NewLevel(Definition{
		Layout:      FullLayout(DefaultColumns, DefaultRows),
		Pieces:      fixed,
		TargetScore: 100,
		MaxMoves:    10,
	}, WithRandom(random.New(11)))
	require.NoError(t, err)
	assert.Equal(t, 3, level.Grid().Count())

	created, err := level.Shuffle()
	require.NoError(t, err)
	assert.Len(t, created, DefaultColumns*DefaultRows-3)
	for _, fp := range fixed {
		assert.Equal(t, fp.Type, level.Grid().TypeAt(fp.Column, fp.Row))
	}
	assert.NotEqual(t, TileDonut, level.Grid().TypeAt(2, 0), "shuffle never completes a run")
	assert.Empty(t, level.DetectChains())
}

func TestShuffleUnsolvable(t *testing.T) {
	// Two cells can never hold a chain, so no swap ever exists.
	level, err := NewLevel(Definition{Layout: FullLayout(2, 1), TargetScore: 1, MaxMoves: 1},
		WithRandom(random.New(5)), WithMaxShuffleAttempts(7))
	require.NoError(t, err)

	created, err := level.Shuffle()
	assert.Nil(t, created)
	var unsolvable *UnsolvableLevelError
	require.True(t, errors.As(err, &unsolvable))
	assert.Equal(t, 7, unsolvable.Attempts)
	assert.ErrorIs(t, err, ErrNoPossibleSwap)
	assert.Zero(t, level.Grid().Count(), "failed attempts are cleared")
	_, ok := level.Hint()
	assert.False(t, ok)
}

func TestReshuffleReplacesEveryPiece(t *testing.T) {
	level := patternLevel(t, random.New(21))
	before := ids(level.Grid())

	created, err := level.Reshuffle()
	require.NoError(t, err)
	assert.Len(t, created, DefaultColumns*DefaultRows)
	for _, p := range created {
		for _, old := range before {
			require.NotEqual(t, old, p.ID)
		}
	}
	assert.Empty(t, level.DetectChains())
	assert.NotEmpty(t, level.PossibleSwaps())
}

func TestNewLevelRejects(t *testing.T) {
	full := FullLayout(5, 5)
	blocked, err := NewLayout(2, 1, []CellState{CellPlayable, CellBlocked})
	require.NoError(t, err)

	tests := []struct {
		name  string
		def   Definition
		opts  []Option
		field string
	}{
		{"no layout", Definition{TargetScore: 1, MaxMoves: 1}, nil, "tiles"},
		{"no playable cell", Definition{Layout: FullLayout(2, 2).withAll(CellBlocked), TargetScore: 1, MaxMoves: 1}, nil, "tiles"},
		{"no target", Definition{Layout: full, MaxMoves: 1}, nil, "target_score"},
		{"no moves", Definition{Layout: full, TargetScore: 1}, nil, "moves"},
		{"fixed on blocked", Definition{Layout: blocked, TargetScore: 1, MaxMoves: 1,
			Pieces: []FixedPiece{{Column: 1, Row: 0, Type: TileDonut}}}, nil, "pieces[0]"},
		{"fixed outside", Definition{Layout: full, TargetScore: 1, MaxMoves: 1,
			Pieces: []FixedPiece{{Column: 9, Row: 0, Type: TileDonut}}}, nil, "pieces[0]"},
		{"fixed bad type", Definition{Layout: full, TargetScore: 1, MaxMoves: 1,
			Pieces: []FixedPiece{{Column: 0, Row: 0, Type: TileSugarCookie}}}, []Option{WithTileTypes(4)}, "pieces[0]"},
		{"fixed twice", Definition{Layout: full, TargetScore: 1, MaxMoves: 1,
			Pieces: []FixedPiece{{Column: 0, Row: 0, Type: TileDonut}, {Column: 0, Row: 0, Type: TileCupcake}}}, nil, "pieces[1]"},
		{"fixed chain", Definition{Layout: full, TargetScore: 1, MaxMoves: 1,
			Pieces: []FixedPiece{
				{Column: 0, Row: 0, Type: TileDonut},
				{Column: 0, Row: 1, Type: TileDonut},
				{Column: 0, Row: 2, Type: TileDonut},
			}}, nil, "pieces"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLevel(tt.def, tt.opts...)
			var format *LevelFormatError
			require.True(t, errors.As(err, &format), "got %v", err)
			assert.Equal(t, tt.field, format.Field)
		})
	}

	_, err = NewLevel(Definition{Layout: full, TargetScore: 1, MaxMoves: 1}, WithTileTypes(2))
	assert.Error(t, err)
	_, err = NewLevel(Definition{Layout: full, TargetScore: 1, MaxMoves: 1}, WithMaxShuffleAttempts(0))
	assert.Error(t, err)
	_, err = NewLevel(Definition{Layout: full, TargetScore: 1, MaxMoves: 1},
		WithScoring(ScoringPolicy{ChainScores: []int{100, 50}}))
	assert.Error(t, err)
}

func TestLevelAccessors(t *testing.T) {
	level, err := NewLevel(Definition{
		ID:          3,
		Name:        "Three",
		Layout:      FullLayout(6, 7),
		TargetScore: 1500,
		MaxMoves:    25,
	}, WithTileTypes(5))
	require.NoError(t, err)

	assert.Equal(t, 3, level.ID())
	assert.Equal(t, "Three", level.Name())
	assert.Equal(t, 1500, level.TargetScore())
	assert.Equal(t, 25, level.MaxMoves())
	assert.Equal(t, 5, level.TileTypes())
	assert.Equal(t, 6, level.Columns())
	assert.Equal(t, 7, level.Rows())
	assert.Equal(t, DefaultScoringPolicy(), level.Scoring())
}

// withAll returns a copy of the layout with every cell set to state.
func (l *Layout) withAll(state CellState) *Layout {
	cells := make([]CellState, len(l.cells))
	for i := range cells {
		cells[i] = state
	}
	return &Layout{columns: l.columns, rows: l.rows, cells: cells}
}
