package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-crunch/internal/registry"
	"github.com/vovakirdan/tui-crunch/internal/storage"
)

const (
	maxScores      = 100 // Rows loaded per mode
	bestsMinWidth  = 84  // Narrower terminals drop the level bests panel
	bestsPanelW    = 20
	scoreDateStyle = "Jan 02 15:04"
)

// scoreboardKeys are the scoreboard bindings, shown by the help bar.
type scoreboardKeys struct {
	Up, Down   key.Binding
	Next, Prev key.Binding
	Back, Quit key.Binding
}

func (k scoreboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Back, k.Quit}
}

func (k scoreboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newScoreboardKeys() scoreboardKeys {
	return scoreboardKeys{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Next: key.NewBinding(key.WithKeys("tab", "right", "l", "d"), key.WithHelp("tab/→", "next mode")),
		Prev: key.NewBinding(key.WithKeys("shift+tab", "left", "h", "a"), key.WithHelp("←", "prev mode")),
		Back: key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel shows the best runs of each game mode.
type ScoreboardModel struct {
	modes     []registry.GameInfo
	active    int
	store     storage.ScoreStore // nil when scores are not kept
	scores    []storage.ScoreEntry
	stats     *storage.GameStats
	bests     []storage.LevelBest
	loadErr   error
	table     table.Model
	help      help.Model
	keys      scoreboardKeys
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel builds the scoreboard opened on the first mode.
func NewScoreboardModel(store storage.ScoreStore, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		modes:  registry.List(),
		store:  store,
		help:   help.New(),
		keys:   newScoreboardKeys(),
		width:  width,
		height: height,
	}
	m.help.Width = width
	m.table = m.newTable()
	m.load()
	return m
}

func (m ScoreboardModel) showBests() bool {
	return m.width >= bestsMinWidth && len(m.bests) > 0
}

// newTable sizes the score table to the terminal.
func (m ScoreboardModel) newTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Player", Width: 12},
		{Title: "Score", Width: 7},
		{Title: "Level", Width: 10},
		{Title: "Moves", Width: 5},
		{Title: "When", Width: len(scoreDateStyle)},
	}

	room := m.width - 6
	if m.width >= bestsMinWidth {
		room -= bestsPanelW + 4
	}
	for _, c := range columns {
		room -= c.Width + 2
	}
	if room > 0 {
		columns[1].Width += min(room, 12)
	}

	theme := GetTheme()
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Inherit(theme.TableHeader)
	styles.Selected = styles.Selected.Inherit(theme.TableSelected)

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-11, 3)),
		table.WithStyles(styles),
	)
	t.SetRows(m.rows())
	return t
}

func (m ScoreboardModel) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.scores))
	for i, e := range m.scores {
		level := e.Level
		if e.Cleared {
			level += " ✓"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			e.Player,
			strconv.Itoa(e.Score),
			level,
			strconv.Itoa(e.Moves),
			e.CreatedAt.Local().Format(scoreDateStyle),
		})
	}
	return rows
}

// load fetches the active mode's runs, stats and level bests.
func (m *ScoreboardModel) load() {
	m.scores, m.stats, m.bests, m.loadErr = nil, nil, nil, nil
	if m.store != nil && len(m.modes) > 0 {
		m.loadErr = m.fetch(m.modes[m.active].ID)
	}
	m.table.SetRows(m.rows())
	m.table.GotoTop()
}

func (m *ScoreboardModel) fetch(gameID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	var err error
	if m.scores, err = m.store.TopScores(ctx, gameID, maxScores); err != nil {
		return err
	}
	if m.stats, err = m.store.Stats(ctx, gameID); err != nil {
		return err
	}
	if lb, ok := m.store.(storage.LevelBester); ok {
		bests, err := lb.LevelBests(ctx, gameID)
		if err != nil {
			return err
		}
		m.bests = storage.SortLevelBests(bests)
	}
	return nil
}

// switchMode moves to the mode delta steps away, wrapping around.
func (m *ScoreboardModel) switchMode(delta int) {
	if len(m.modes) == 0 {
		return
	}
	m.active = (m.active + delta + len(m.modes)) % len(m.modes)
	m.load()
}

func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.switchMode(1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.switchMode(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}
	theme := GetTheme()

	lines := []string{
		"",
		centerText(theme.MenuTitle.Render("HIGH SCORES"), m.width),
		centerText(m.tabs(), m.width),
		centerText(theme.MenuDescription.Render(m.statsLine()), m.width),
		"",
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.body()),
		"",
		theme.Controls.Render(m.help.View(m.keys)),
	}
	return strings.Join(lines, "\n")
}

// tabs renders one tab per mode with the active one highlighted.
func (m ScoreboardModel) tabs() string {
	theme := GetTheme()
	tabs := make([]string, len(m.modes))
	for i, mode := range m.modes {
		if i == m.active {
			tabs[i] = theme.TableSelected.Padding(0, 1).Render(mode.Title)
		} else {
			tabs[i] = theme.MenuItemNormal.Padding(0, 1).Render(mode.Title)
		}
	}
	return strings.Join(tabs, " ")
}

// statsLine summarizes the active mode.
func (m ScoreboardModel) statsLine() string {
	switch {
	case m.store == nil:
		return "Scores are not being kept"
	case m.loadErr != nil:
		return "Could not load scores: " + m.loadErr.Error()
	case m.stats == nil || m.stats.GamesCount == 0:
		return ""
	}
	return fmt.Sprintf("%d runs  |  best %d  |  average %.0f  |  %d cleared  |  last played %s",
		m.stats.GamesCount, m.stats.HighScore, m.stats.AvgScore, m.stats.Clears,
		m.stats.LastPlayed.Local().Format(scoreDateStyle))
}

// body is the framed score table, with level bests beside it on wide
// terminals.
func (m ScoreboardModel) body() string {
	theme := GetTheme()
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	var scores string
	if len(m.scores) == 0 {
		scores = theme.Empty.Render("No scores recorded yet.\nPlay a round to set a high score!")
	} else {
		scores = m.table.View()
	}
	if !m.showBests() {
		return frame.Render(scores)
	}

	var b strings.Builder
	b.WriteString(theme.TableHeader.Render("Best per level"))
	for _, best := range m.bests {
		fmt.Fprintf(&b, "\n%-10s %7d", best.Level, best.Score)
	}
	panel := frame.Width(bestsPanelW).Render(b.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, frame.Render(scores), " ", panel)
}

// IsGoingBack reports whether the player asked to return to the menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the player asked to quit.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}
