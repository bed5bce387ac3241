// Package crunch implements the Crunch tile-matching game on top of the
// rule engine: cursor and selection handling, move accounting, campaign
// progression and the endless mode.
package crunch

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-crunch/internal/config"
	"github.com/vovakirdan/tui-crunch/internal/core"
	"github.com/vovakirdan/tui-crunch/internal/dependencies/random"
	"github.com/vovakirdan/tui-crunch/internal/games/crunch/engine"
	"github.com/vovakirdan/tui-crunch/internal/games/crunch/levels"
	"github.com/vovakirdan/tui-crunch/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeEndless  Mode = "endless"
)

// Game IDs as registered with the registry.
const (
	IDCampaign = "crunch"
	IDEndless  = "crunch_endless"
)

// Game implements the Crunch puzzle game.
type Game struct {
	mode Mode
	rng  *random.Seeded
	tick uint64

	cfg     config.CrunchConfig
	opts    []engine.Option
	catalog []levels.Level
	endless *config.EndlessProgression

	level      *engine.Level
	levelIndex int // Index into catalog
	round      int // Endless rounds cleared
	target     int
	movesLeft  int
	movesUsed  int
	levelScore int
	score      int

	cursor    engine.Coord
	selected  bool
	selection engine.Coord
	hint      engine.Swap
	hintTicks int

	message      string
	messageTicks int
	events       []string
	lastTurn     engine.Turn

	// Screen dimensions
	screenW int
	screenH int

	// Game state flags
	gameOver        bool
	levelCleared    bool
	won             bool
	paused          bool
	tooSmall        bool
	levelClearTicks int
	failure         error // Set when no level could be started
	startAt         int   // Level ID for the next Reset, 0 for the first
}

// Package-level config, set once at startup and only read afterwards so
// concurrent sessions may share it.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	levelDir         string
	logger           = log.New(io.Discard)
)

// SetConfigPath sets a custom config file path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset applied on Reset.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	difficultyPreset = preset
}

// SetLevelDir makes the game load levels from a directory instead of the
// embedded campaign. An empty path restores the campaign.
func SetLevelDir(dir string) {
	levelDir = dir
}

// SetLogger sets the logger used by the game and its levels.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// LoadLevels returns the levels the game will play, from the configured
// level directory or the embedded campaign.
func LoadLevels() ([]levels.Level, error) {
	var loader *levels.Loader
	if levelDir != "" {
		loader = levels.NewLoader(levelDir)
	} else {
		loader = levels.Campaign()
	}
	loader.Logger = logger
	return loader.LoadAll()
}

// New creates a new campaign mode game.
func New() *Game {
	return &Game{
		mode: ModeCampaign,
	}
}

// NewEndless creates a new endless mode game.
func NewEndless() *Game {
	return &Game{
		mode: ModeEndless,
	}
}

func init() {
	registry.Register(IDCampaign, func() registry.Game {
		return New()
	})
	registry.Register(IDEndless, func() registry.Game {
		return NewEndless()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return IDEndless
	}
	return IDCampaign
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Crunch (Endless)"
	}
	return "Crunch"
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = random.New(cfg.Seed)
	g.tick = 0
	g.score = 0
	g.round = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.gameOver = false
	g.levelCleared = false
	g.won = false
	g.paused = false
	g.levelClearTicks = 0
	g.failure = nil
	g.events = nil
	g.clearMessage()

	g.loadConfig()

	catalog, err := LoadLevels()
	if err == nil && len(catalog) == 0 {
		err = levels.ErrLevelNotFound
	}
	if err != nil {
		g.fail(fmt.Errorf("load levels: %w", err))
		return
	}
	g.catalog = catalog

	// The chosen start level applies to one campaign Reset only.
	start := g.startAt
	g.startAt = 0
	g.levelIndex = 0
	if g.mode == ModeCampaign && start > 0 {
		for i, lvl := range g.catalog {
			if lvl.ID == start {
				g.levelIndex = i
				break
			}
		}
	}

	g.startLevel()
	g.checkScreenSize()
}

// loadConfig reads the game config, falling back to defaults on error.
func (g *Game) loadConfig() {
	cfg, err := config.LoadCrunch(configPath)
	if err != nil {
		logger.Warn("using default config", "err", err)
	}
	config.ApplyCrunchPreset(&cfg, difficultyPreset)

	opts, err := cfg.LevelOptions()
	if err != nil {
		logger.Warn("invalid config, using defaults", "err", err)
		cfg = config.DefaultCrunchConfig()
		config.ApplyCrunchPreset(&cfg, difficultyPreset)
		opts, _ = cfg.LevelOptions() //nolint:errcheck // defaults always validate
	}
	g.cfg = cfg
	g.opts = append(opts, engine.WithRandom(g.rng), engine.WithLogger(logger))
	g.endless = config.NewEndlessProgression(cfg.Endless)
}

// startLevel builds and shuffles the current level. A level that cannot be
// dealt is skipped; the game fails only when none can.
func (g *Game) startLevel() {
	for tries := 0; tries < len(g.catalog); tries++ {
		def := g.catalog[g.levelIndex]
		lvl, err := def.NewLevel(g.opts...)
		if err == nil {
			_, err = lvl.Shuffle()
		}
		if err == nil {
			g.beginLevel(lvl)
			return
		}

		var unsolvable *engine.UnsolvableLevelError
		if !errors.As(err, &unsolvable) {
			g.fail(err)
			return
		}
		logger.Warn("skipping unsolvable level", "level", def.ID, "attempts", unsolvable.Attempts)
		g.levelIndex = (g.levelIndex + 1) % len(g.catalog)
	}
	g.fail(errors.New("no level in the catalog can be dealt"))
}

// beginLevel resets the per-level state for a freshly dealt board.
func (g *Game) beginLevel(lvl *engine.Level) {
	g.level = lvl
	g.levelScore = 0
	g.movesUsed = 0
	g.lastTurn = engine.Turn{}
	g.selected = false
	g.hintTicks = 0
	g.cursor = g.firstPlayable()

	if g.mode == ModeEndless {
		g.target = g.endless.Target(lvl.TargetScore(), g.round)
		g.movesLeft = g.endless.Moves()
	} else {
		g.target = lvl.TargetScore()
		g.movesLeft = g.cfg.MovesFor(lvl.MaxMoves())
	}
	logger.Debug("level started", "level", lvl.ID(), "target", g.target, "moves", g.movesLeft)
}

// fail stops the game with an error the renderer can show.
func (g *Game) fail(err error) {
	logger.Error("crunch cannot start", "err", err)
	g.failure = err
	g.level = nil
	g.gameOver = true
}

// firstPlayable returns the playable cell closest to the board center.
func (g *Game) firstPlayable() engine.Coord {
	cols, rows := g.level.Columns(), g.level.Rows()
	center := engine.C(cols/2, rows/2)
	best, bestDist := center, -1
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if !g.level.Grid().IsPlayable(c, r) {
				continue
			}
			if d := center.Manhattan(engine.C(c, r)); bestDist < 0 || d < bestDist {
				best, bestDist = engine.C(c, r), d
			}
		}
	}
	return best
}

// StartAt makes the next Reset begin on the level with the given ID.
func (g *Game) StartAt(id int) {
	g.startAt = id
}

// Resize adapts to a new screen size without restarting.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	g.checkScreenSize()
}

// checkScreenSize verifies the screen is large enough.
func (g *Game) checkScreenSize() {
	if g.level == nil {
		g.tooSmall = false
		return
	}
	minW, minH := minScreenSize(g.level.Columns(), g.level.Rows())
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	g.events = g.events[:0]
	g.tickMessages()

	// Handle pause toggle
	if in.Has(core.ActionPause) && !g.gameOver && !g.won {
		g.paused = !g.paused
	}

	// Handle restart
	if in.Has(core.ActionRestart) && (g.gameOver || g.won) {
		g.Reset(core.RuntimeConfig{
			ScreenW: g.screenW,
			ScreenH: g.screenH,
			Seed:    int64(g.tick) + g.rng.Seed(),
		})
		return g.result()
	}

	if g.paused || g.tooSmall || g.gameOver || g.won {
		return g.result()
	}

	// Level clear banner
	if g.levelCleared {
		g.levelClearTicks--
		if g.levelClearTicks <= 0 {
			g.levelCleared = false
			g.nextLevel()
		}
		return g.result()
	}

	g.handleInput(in)
	return g.result()
}

// handleInput applies the player's actions for this tick.
func (g *Game) handleInput(in core.InputFrame) {
	if in.Empty() {
		return
	}
	if in.Has(core.ActionHint) {
		g.showHint()
	}
	if in.Has(core.ActionShuffle) {
		g.shuffle()
		return
	}
	if in.Has(core.ActionConfirm) {
		g.toggleSelection()
	}

	dc, dr := direction(in)
	if dc == 0 && dr == 0 {
		return
	}
	if g.selected {
		g.trySwap(engine.NewSwap(g.selection, engine.C(g.selection.Column+dc, g.selection.Row+dr)))
		return
	}
	g.moveCursor(dc, dr)
}

// direction converts the arrow actions to a board delta. Up on screen is
// toward higher rows.
func direction(in core.InputFrame) (dc, dr int) {
	switch {
	case in.Has(core.ActionUp):
		return 0, 1
	case in.Has(core.ActionDown):
		return 0, -1
	case in.Has(core.ActionLeft):
		return -1, 0
	case in.Has(core.ActionRight):
		return 1, 0
	}
	return 0, 0
}

// moveCursor moves the cursor, skipping over blocked cells.
func (g *Game) moveCursor(dc, dr int) {
	grid := g.level.Grid()
	c, r := g.cursor.Column+dc, g.cursor.Row+dr
	for c >= 0 && c < grid.Columns() && r >= 0 && r < grid.Rows() {
		if grid.IsPlayable(c, r) {
			g.cursor = engine.C(c, r)
			return
		}
		c, r = c+dc, r+dr
	}
}

// toggleSelection selects the piece under the cursor or drops the selection.
func (g *Game) toggleSelection() {
	if g.selected {
		g.selected = false
		return
	}
	if _, ok, _ := g.level.PieceAt(g.cursor.Column, g.cursor.Row); ok {
		g.selected = true
		g.selection = g.cursor
	}
}

// trySwap plays a swap. Rejected and invalid swaps cost nothing.
func (g *Game) trySwap(s engine.Swap) {
	g.selected = false

	turn, err := g.level.Play(s)
	if err != nil {
		g.say("Can't swap there")
		return
	}
	if !turn.Accepted {
		g.say("No match")
		return
	}

	g.cursor = s.To
	g.hintTicks = 0
	g.lastTurn = turn
	g.spendMove()
	g.levelScore += turn.Score
	g.score += turn.Score

	if combo := turn.Combo(); combo > 1 {
		g.say(fmt.Sprintf("Combo x%d! +%d", combo, turn.Score))
	} else {
		g.say(fmt.Sprintf("+%d", turn.Score))
	}

	if g.checkLevelEnd() || !turn.NeedsShuffle {
		return
	}
	// A dead board after a cascade is reshuffled for free.
	if _, err := g.level.Reshuffle(); err != nil {
		g.fail(err)
		return
	}
	g.say("No moves left, shuffled")
}

// shuffle reshuffles the board on request.
func (g *Game) shuffle() {
	g.selected = false
	if _, err := g.level.Reshuffle(); err != nil {
		g.fail(err)
		return
	}
	g.hintTicks = 0
	g.say("Shuffled")
	if g.cfg.Gameplay.ShuffleCostsMove {
		g.spendMove()
		g.checkLevelEnd()
	}
}

// showHint highlights one possible swap.
func (g *Game) showHint() {
	s, ok := g.level.Hint()
	if !ok {
		g.say("No possible swap")
		return
	}
	g.hint = s
	g.hintTicks = max(g.cfg.Gameplay.MessageTicks, 1)
}

func (g *Game) spendMove() {
	g.movesLeft--
	g.movesUsed++
}

// checkLevelEnd settles the level once its target is met or its moves run
// out. Reports whether the level ended.
func (g *Game) checkLevelEnd() bool {
	switch {
	case g.levelScore >= g.target:
		g.levelCleared = true
		g.levelClearTicks = max(g.cfg.Gameplay.LevelClearTicks, 1)
		g.selected = false
		g.emit(fmt.Sprintf("Level %d cleared", g.level.ID()))
		logger.Info("level cleared", "level", g.level.ID(), "score", g.levelScore, "moves", g.movesUsed)
		return true
	case g.movesLeft <= 0:
		g.gameOver = true
		g.emit("Out of moves")
		logger.Info("out of moves", "level", g.level.ID(), "score", g.levelScore, "target", g.target)
		return true
	}
	return false
}

// nextLevel advances to the next campaign level or endless round.
func (g *Game) nextLevel() {
	if g.mode == ModeEndless {
		g.round++
		g.levelIndex = (g.levelIndex + 1) % len(g.catalog)
		g.startLevel()
		return
	}

	if g.levelIndex+1 >= len(g.catalog) {
		g.won = true
		g.emit("Campaign complete")
		return
	}
	g.levelIndex++
	g.startLevel()
}

func (g *Game) say(msg string) {
	g.message = msg
	g.messageTicks = max(g.cfg.Gameplay.MessageTicks, 1)
	g.emit(msg)
}

func (g *Game) emit(event string) {
	g.events = append(g.events, event)
}

func (g *Game) clearMessage() {
	g.message = ""
	g.messageTicks = 0
	g.hintTicks = 0
}

func (g *Game) tickMessages() {
	if g.messageTicks > 0 {
		g.messageTicks--
		if g.messageTicks == 0 {
			g.message = ""
		}
	}
	if g.hintTicks > 0 {
		g.hintTicks--
	}
}

func (g *Game) result() core.StepResult {
	var events []string
	if len(g.events) > 0 {
		events = append(events, g.events...)
	}
	return core.StepResult{
		State:  g.State(),
		Events: events,
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:     g.score,
		Level:     g.levelLabel(),
		MovesUsed: g.movesUsed,
		Cleared:   g.won,
		GameOver:  g.gameOver || g.won,
		Paused:    g.paused || g.tooSmall || g.levelCleared,
	}
}

// levelLabel names the current level for the score table.
func (g *Game) levelLabel() string {
	if g.mode == ModeEndless {
		return "round " + strconv.Itoa(g.round+1)
	}
	if g.level == nil {
		return ""
	}
	return strconv.Itoa(g.level.ID())
}

// Failure returns the error that kept the game from starting, if any.
func (g *Game) Failure() error {
	return g.failure
}
