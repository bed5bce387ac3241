package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-crunch/internal/core"
	"github.com/vovakirdan/tui-crunch/internal/registry"
	"github.com/vovakirdan/tui-crunch/internal/storage"
)

// saveTimeout bounds every score store call made from the UI.
const saveTimeout = 2 * time.Second

// Options carries the collaborators shared by every screen.
type Options struct {
	Store  storage.ScoreStore // nil: scores are not kept
	Player string             // Name saved with scores
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}

// resizer is implemented by games that follow a terminal resize in place.
type resizer interface {
	Resize(width, height int)
}

// exitKind is how the player left a game.
type exitKind int

const (
	exitNone exitKind = iota
	exitBack
	exitQuit
)

// GameModel runs one game: keys are collected into a frame between ticks
// and handed to the game on the next tick.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	opts       Options
	config     core.RuntimeConfig
	keys       *KeyMapper
	pending    core.InputFrame
	gameState  core.GameState
	exit       exitKind
	saved      bool // The current game over has been recorded
	standalone bool // Back quits the program instead of returning to a menu
}

// NewGameModel wraps game. A zero seed or tick rate is replaced with a
// time-based seed and the default rate.
func NewGameModel(game registry.Game, opts Options, cfg core.RuntimeConfig) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	return GameModel{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		opts:   opts,
		config: cfg,
		keys:   NewKeyMapper(),
	}
}

// Start resets the game. Init has a value receiver, so this must happen
// before the model is handed to Bubble Tea.
func (m GameModel) Start() GameModel {
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	return m
}

func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.key(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		return m.tick()
	}
	return m, nil
}

func (m GameModel) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.screenshot()
		return m, nil
	}
	if m.keys.MapKeyToFrame(msg, &m.pending) {
		m.exit = exitQuit
		return m, tea.Quit
	}

	// Leaving mid-game is only allowed from the pause or game over screen.
	if m.pending.Has(core.ActionBack) && (m.gameState.Paused || m.gameState.GameOver) {
		if m.standalone {
			m.exit = exitQuit
			return m, tea.Quit
		}
		m.exit = exitBack
	}
	return m, nil
}

func (m *GameModel) resize(w, h int) {
	m.config.ScreenW, m.config.ScreenH = w, h
	m.screen.Resize(w, h)

	switch g := m.game.(type) {
	case resizer:
		g.Resize(w, h)
	default:
		if !m.gameState.GameOver {
			m.game.Reset(m.config)
		}
	}
}

func (m GameModel) tick() (tea.Model, tea.Cmd) {
	if m.exit != exitNone {
		return m, nil
	}

	in := m.pending
	m.pending.Clear()

	if m.gameState.GameOver && in.Has(core.ActionRestart) {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.saved = false
		return m, tickCmd(m.config.TickRate)
	}

	res := m.game.Step(in)
	m.gameState = res.State
	for _, ev := range res.Events {
		m.opts.logger().Debug("game event", "game", m.game.ID(), "event", ev)
	}
	if m.gameState.GameOver && !m.saved {
		m.saveScore()
		m.saved = true
	}
	return m, tickCmd(m.config.TickRate)
}

// saveScore records the finished run. Empty runs are skipped and store
// failures are logged, never shown.
func (m GameModel) saveScore() {
	if m.opts.Store == nil || m.gameState.Score <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	entry := storage.ScoreEntry{
		GameID:  m.game.ID(),
		Level:   m.gameState.Level,
		Player:  m.opts.Player,
		Score:   m.gameState.Score,
		Moves:   m.gameState.MovesUsed,
		Cleared: m.gameState.Cleared,
	}
	log := m.opts.logger().With("game", entry.GameID, "score", entry.Score)
	if _, err := m.opts.Store.SaveScore(ctx, entry); err != nil {
		log.Warn("could not save score", "err", err)
		return
	}
	log.Info("score saved", "player", entry.Player, "level", entry.Level)
}

// screenshot writes the current frame under ~/.crunch/screenshots.
func (m *GameModel) screenshot() {
	home, err := os.UserHomeDir()
	if err != nil {
		m.opts.logger().Warn("no home directory for screenshots", "err", err)
		return
	}
	m.game.Render(m.screen)
	path, err := writeScreenshot(filepath.Join(home, ".crunch", "screenshots"), m.game.ID(), m.screen, time.Now())
	if err != nil {
		m.opts.logger().Warn("could not save screenshot", "err", err)
		return
	}
	m.opts.logger().Info("screenshot saved", "path", path)
}

// writeScreenshot saves the uncolored screen as <dir>/<game>_<time>.txt.
func writeScreenshot(dir, gameID string, s *core.Screen, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", gameID, at.Format("20060102_150405")))
	return path, os.WriteFile(path, []byte(s.String()+"\n"), 0o600)
}

func (m GameModel) View() string {
	if m.exit == exitQuit {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting reports whether the player asked to quit the program.
func (m GameModel) IsQuitting() bool {
	return m.exit == exitQuit
}

// BackToMenu reports whether the player asked to leave the game.
func (m GameModel) BackToMenu() bool {
	return m.exit == exitBack
}

// Run plays a single game in the terminal until the player quits.
func Run(game registry.Game, opts Options, cfg core.RuntimeConfig) error {
	m := NewGameModel(game, opts, cfg).Start()
	m.standalone = true
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
