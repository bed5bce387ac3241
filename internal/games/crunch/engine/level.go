package engine

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-crunch/internal/dependencies/random"
)

// FixedPiece is a piece a level places before the first shuffle.
type FixedPiece struct {
	Column int
	Row    int
	Type   TileType
}

// Definition is the structural description a level is built from.
type Definition struct {
	ID          int
	Name        string
	Layout      *Layout
	Pieces      []FixedPiece
	TargetScore int
	MaxMoves    int
}

// Option configures a Level.
type Option func(*Level)

// WithRandom sets the random source used for shuffles and refills.
func WithRandom(rng random.Random) Option {
	return func(l *Level) {
		l.rng = rng
	}
}

// WithScoring sets the scoring policy. The policy must be valid.
func WithScoring(p ScoringPolicy) Option {
	return func(l *Level) {
		l.scoring = p
	}
}

// WithTileTypes limits the catalogue to the first n types.
func WithTileTypes(n int) Option {
	return func(l *Level) {
		l.tileTypes = n
	}
}

// WithMaxShuffleAttempts bounds Shuffle retries.
func WithMaxShuffleAttempts(n int) Option {
	return func(l *Level) {
		l.maxShuffleAttempts = n
	}
}

// WithLogger sets the logger for shuffle and cascade diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(l *Level) {
		l.logger = logger
	}
}

// Turn is the outcome of one player swap. Accepted is false when the swap
// was legal but formed no match; the board is then unchanged.
type Turn struct {
	Swap         Swap
	Accepted     bool
	Cycles       []Cycle
	Score        int
	NeedsShuffle bool
}

// Combo returns the number of cascade cycles the swap triggered.
func (t Turn) Combo() int {
	return len(t.Cycles)
}

// Level owns one board and runs every rule on it.
// A Level is single-threaded: callers serialize all access.
type Level struct {
	def  Definition
	grid *Grid

	rng                random.Random
	scoring            ScoringPolicy
	combo              Combo
	tileTypes          int
	maxShuffleAttempts int
	logger             *log.Logger

	possibleSwaps []Swap
	swapsVersion  uint64 // Grid version possibleSwaps was computed at
}

// NewLevel validates the definition and places its fixed pieces. The board
// is otherwise empty; call Shuffle before play.
func NewLevel(def Definition, opts ...Option) (*Level, error) {
	l := &Level{
		def:                def,
		scoring:            DefaultScoringPolicy(),
		tileTypes:          TileTypeCount,
		maxShuffleAttempts: DefaultMaxShuffleAttempts,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.rng == nil {
		l.rng = random.New(0)
	}
	if l.logger == nil {
		l.logger = log.New(io.Discard)
	}

	if err := l.scoring.Validate(); err != nil {
		return nil, err
	}
	if l.tileTypes < MinTileTypes || l.tileTypes > TileTypeCount {
		return nil, fmt.Errorf("tile types must be in [%d,%d], got %d", MinTileTypes, TileTypeCount, l.tileTypes)
	}
	if l.maxShuffleAttempts < 1 {
		return nil, fmt.Errorf("max shuffle attempts must be positive, got %d", l.maxShuffleAttempts)
	}
	if err := def.validate(); err != nil {
		return nil, err
	}

	l.combo = newCombo(l.scoring)
	l.grid = NewGrid(def.Layout)
	if err := l.placeFixed(); err != nil {
		return nil, err
	}

	return l, nil
}

func (d Definition) validate() error {
	if d.Layout == nil {
		return &LevelFormatError{Field: "tiles", Reason: "missing"}
	}
	if d.Layout.PlayableCount() == 0 {
		return &LevelFormatError{Field: "tiles", Reason: "no playable cell"}
	}
	if d.TargetScore <= 0 {
		return &LevelFormatError{Field: "target_score", Reason: fmt.Sprintf("must be positive, got %d", d.TargetScore)}
	}
	if d.MaxMoves <= 0 {
		return &LevelFormatError{Field: "moves", Reason: fmt.Sprintf("must be positive, got %d", d.MaxMoves)}
	}
	return nil
}

func (l *Level) placeFixed() error {
	for i, fp := range l.def.Pieces {
		field := fmt.Sprintf("pieces[%d]", i)
		if !fp.Type.Valid() || int(fp.Type) > l.tileTypes {
			return &LevelFormatError{Field: field, Reason: fmt.Sprintf("tile type %d not in play", fp.Type)}
		}
		if !l.grid.layout.InBounds(fp.Column, fp.Row) {
			return &LevelFormatError{Field: field, Reason: fmt.Sprintf("cell (%d,%d) outside the grid", fp.Column, fp.Row)}
		}
		if !l.grid.IsPlayable(fp.Column, fp.Row) {
			return &LevelFormatError{Field: field, Reason: fmt.Sprintf("cell (%d,%d) is blocked", fp.Column, fp.Row)}
		}
		if l.grid.TypeAt(fp.Column, fp.Row) != TileNone {
			return &LevelFormatError{Field: field, Reason: fmt.Sprintf("cell (%d,%d) already holds a piece", fp.Column, fp.Row)}
		}
		if _, err := l.grid.Set(fp.Column, fp.Row, fp.Type); err != nil {
			return &LevelFormatError{Field: field, Reason: err.Error()}
		}
	}
	if chains := findChains(l.grid); len(chains) > 0 {
		return &LevelFormatError{Field: "pieces", Reason: "fixed pieces form a chain: " + chains[0].String()}
	}
	return nil
}

// ID returns the level identifier.
func (l *Level) ID() int {
	return l.def.ID
}

// Name returns the level display name.
func (l *Level) Name() string {
	return l.def.Name
}

// TargetScore returns the score needed to clear the level.
func (l *Level) TargetScore() int {
	return l.def.TargetScore
}

// MaxMoves returns the move allowance.
func (l *Level) MaxMoves() int {
	return l.def.MaxMoves
}

// TileTypes returns how many catalogue types are in play.
func (l *Level) TileTypes() int {
	return l.tileTypes
}

// Scoring returns the scoring policy.
func (l *Level) Scoring() ScoringPolicy {
	return l.scoring
}

// Grid returns the board.
func (l *Level) Grid() *Grid {
	return l.grid
}

// Columns returns the board width.
func (l *Level) Columns() int {
	return l.grid.Columns()
}

// Rows returns the board height.
func (l *Level) Rows() int {
	return l.grid.Rows()
}

// PieceAt returns the piece at (column, row).
func (l *Level) PieceAt(column, row int) (Piece, bool, error) {
	return l.grid.Get(column, row)
}

// Play runs one player action. Invalid swaps fail with *InvalidSwapError.
// A legal swap that forms no match is not an error: the returned Turn has
// Accepted false and nothing changes. Otherwise the multiplier is reset,
// the swap is applied and the cascade runs to completion. NeedsShuffle is
// set when the resulting board offers no further swap.
func (l *Level) Play(s Swap) (Turn, error) {
	turn := Turn{Swap: s}
	if err := l.grid.validate(s); err != nil {
		return turn, err
	}
	if !l.grid.isPossibleSwap(s) {
		return turn, nil
	}

	l.ResetComboMultiplier()
	l.grid.swap(s.From, s.To)
	turn.Accepted = true
	turn.Cycles = l.Resolve()
	for _, c := range turn.Cycles {
		turn.Score += c.Score
	}
	turn.NeedsShuffle = len(l.possibleSwaps) == 0
	if turn.NeedsShuffle {
		l.logger.Debug("board has no possible swap", "level", l.def.ID)
	}
	return turn, nil
}
