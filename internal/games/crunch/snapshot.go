package crunch

import "github.com/vovakirdan/tui-crunch/internal/games/crunch/engine"

// Phase is what the game is doing between ticks.
type Phase string

const (
	PhasePlaying      Phase = "playing"
	PhasePaused       Phase = "paused"
	PhaseLevelCleared Phase = "level_cleared"
	PhaseGameOver     Phase = "game_over"
	PhaseWon          Phase = "won"
	PhaseTooSmall     Phase = "too_small"
	PhaseFailed       Phase = "failed"
)

// phase resolves the state flags, most final first. Rendering and
// snapshots both go through it so they never disagree.
func (g *Game) phase() Phase {
	switch {
	case g.failure != nil:
		return PhaseFailed
	case g.tooSmall:
		return PhaseTooSmall
	case g.won:
		return PhaseWon
	case g.gameOver:
		return PhaseGameOver
	case g.paused:
		return PhasePaused
	case g.levelCleared:
		return PhaseLevelCleared
	}
	return PhasePlaying
}

// Snapshot is a copy of the game state that tests can compare between
// runs with the same seed.
type Snapshot struct {
	Tick       uint64
	Mode       Mode
	Phase      Phase
	Level      int // 0 when no level is loaded
	Round      int // Endless rounds cleared
	Target     int
	Score      int
	LevelScore int
	MovesLeft  int
	Board      [][]engine.TileType // Indexed [row][column], row 0 at the bottom
	Cursor     engine.Coord
	Selected   *engine.Coord
	Message    string
}

func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:       g.tick,
		Mode:       g.mode,
		Phase:      g.phase(),
		Round:      g.round,
		Target:     g.target,
		Score:      g.score,
		LevelScore: g.levelScore,
		MovesLeft:  g.movesLeft,
		Cursor:     g.cursor,
		Message:    g.message,
	}
	if g.level != nil {
		s.Level = g.level.ID()
		s.Board = g.level.Grid().Types()
	}
	if g.selected {
		at := g.selection
		s.Selected = &at
	}
	return s
}
