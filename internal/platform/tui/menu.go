package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-crunch/internal/core"
	"github.com/vovakirdan/tui-crunch/internal/games/crunch"
	"github.com/vovakirdan/tui-crunch/internal/games/crunch/levels"
)

// MenuItem is what the player picked: a game mode and, for the campaign,
// the level to start on (0 = first).
type MenuItem struct {
	GameID     string
	StartLevel int
}

type menuChoice int

const (
	choiceCampaign menuChoice = iota
	choiceEndless
	choiceLevels
	choiceScores
	choiceQuit
)

var mainMenu = []struct {
	choice menuChoice
	label  string
	desc   string
}{
	{choiceCampaign, "Campaign", "Play the levels in order"},
	{choiceEndless, "Endless", "Rounds with growing targets"},
	{choiceLevels, "Select Level...", "Start the campaign anywhere"},
	{choiceScores, "High Scores", "Best runs so far"},
	{choiceQuit, "Quit", ""},
}

// MenuModel is the main menu with its level picker. Run on its own it
// ends with tea.Quit once the player has decided; SessionModel reads the
// decision instead.
type MenuModel struct {
	keys          *KeyMapper
	config        core.RuntimeConfig
	width, height int

	cursor        int
	inLevelSelect bool
	levelCursor   int
	levels        []levels.Level
	levelErr      error

	selected       *MenuItem
	openScoreboard bool
	quitting       bool
}

// NewMenuModel loads the campaign levels and builds the menu.
func NewMenuModel(cfg core.RuntimeConfig) MenuModel {
	lvls, err := crunch.LoadLevels()
	return MenuModel{
		keys:     NewKeyMapper(),
		config:   cfg,
		width:    cfg.ScreenW,
		height:   cfg.ScreenH,
		levels:   lvls,
		levelErr: err,
	}
}

// WithLevelSelect returns the menu opened on the level picker.
func (m MenuModel) WithLevelSelect() MenuModel {
	if len(m.levels) > 0 {
		m.cursor = int(choiceLevels)
		m.inLevelSelect = true
		m.levelCursor = 0
	}
	return m
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height

	case tea.KeyMsg:
		action := m.keys.MapKeyToMenuAction(msg)
		if action == MenuActionQuit {
			m.quitting = true
			return m, tea.Quit
		}
		if m.inLevelSelect {
			return m.updateLevels(action)
		}
		return m.updateMain(action)
	}
	return m, nil
}

// moveCursor moves a cursor by delta, staying inside [0, n).
func moveCursor(cursor, delta, n int) int {
	return max(0, min(cursor+delta, n-1))
}

func (m MenuModel) updateMain(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionUp:
		m.cursor = moveCursor(m.cursor, -1, len(mainMenu))
	case MenuActionDown:
		m.cursor = moveCursor(m.cursor, 1, len(mainMenu))
	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	case MenuActionSelect:
		return m.choose(mainMenu[m.cursor].choice)
	}
	return m, nil
}

func (m MenuModel) choose(c menuChoice) (tea.Model, tea.Cmd) {
	switch c {
	case choiceCampaign:
		m.selected = &MenuItem{GameID: crunch.IDCampaign}
	case choiceEndless:
		m.selected = &MenuItem{GameID: crunch.IDEndless}
	case choiceLevels:
		if len(m.levels) > 0 {
			m.inLevelSelect = true
			m.levelCursor = 0
		}
		return m, nil
	case choiceScores:
		m.openScoreboard = true
	case choiceQuit:
		m.quitting = true
	}
	return m, tea.Quit
}

func (m MenuModel) updateLevels(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionUp:
		m.levelCursor = moveCursor(m.levelCursor, -1, len(m.levels))
	case MenuActionDown:
		m.levelCursor = moveCursor(m.levelCursor, 1, len(m.levels))
	case MenuActionBack:
		m.inLevelSelect = false
	case MenuActionSelect:
		m.selected = &MenuItem{GameID: crunch.IDCampaign, StartLevel: m.levels[m.levelCursor].ID}
		return m, tea.Quit
	}
	return m, nil
}

func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}
	var block string
	if m.inLevelSelect {
		block = m.levelsView()
	} else {
		block = m.mainView()
	}
	return "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, block)
}

// option renders one selectable line.
func option(text string, active bool) string {
	theme := GetTheme()
	if active {
		return theme.MenuItemActive.Render("> " + text)
	}
	return theme.MenuItemNormal.Render("  " + text)
}

func (m MenuModel) mainView() string {
	theme := GetTheme()
	lines := []string{
		theme.MenuTitle.Render("C R U N C H"),
		"",
		theme.MenuSubtitle.Render("Match three pastries in a row"),
		"",
	}

	for i, e := range mainMenu {
		label := e.label
		if e.choice == choiceCampaign && len(m.levels) > 0 {
			label = fmt.Sprintf("%s (%d levels)", label, len(m.levels))
		}
		lines = append(lines, option(label, i == m.cursor))
	}

	lines = append(lines, "", theme.MenuDescription.Render(mainMenu[m.cursor].desc))
	if m.levelErr != nil {
		lines = append(lines, theme.MenuDescription.Render("levels: "+m.levelErr.Error()))
	}
	lines = append(lines, "", theme.Controls.Render("↑/↓ move  ·  enter select  ·  tab scores  ·  q quit"))
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m MenuModel) levelsView() string {
	theme := GetTheme()

	// Scroll so the cursor stays on screen.
	visible := max(m.height-8, 3)
	first := max(0, min(m.levelCursor-visible/2, len(m.levels)-visible))
	last := min(len(m.levels), first+visible)

	rows := make([]string, 0, last-first)
	for i := first; i < last; i++ {
		l := m.levels[i]
		row := fmt.Sprintf("%2d. %-16s %5s  target %5d  moves %2d",
			l.ID, l.Name, fmt.Sprintf("%dx%d", l.Columns, l.Rows), l.TargetScore, l.MaxMoves)
		rows = append(rows, option(row, i == m.levelCursor))
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		theme.MenuTitle.Render("SELECT LEVEL"),
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
		theme.Controls.Render("enter play  ·  esc back  ·  q quit"),
	)
}

// Selected returns the picked mode, or nil.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting reports whether the player asked to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard reports whether the player asked for the scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the runtime config, updated by resizes.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText pads styled text so it sits in the middle of width columns.
func centerText(text string, width int) string {
	if w := lipgloss.Width(text); w < width {
		return strings.Repeat(" ", (width-w)/2) + text
	}
	return text
}
