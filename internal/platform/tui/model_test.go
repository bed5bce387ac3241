package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-crunch/internal/core"
	"github.com/vovakirdan/tui-crunch/internal/storage/memory"
)

func gameStep(t *testing.T, m GameModel, msg tea.Msg) GameModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(GameModel)
}

func TestGameModelRestartRecordsNextRun(t *testing.T) {
	store := memory.New()
	m := NewGameModel(&overGame{}, Options{Store: store}, testConfig()).Start()

	m = gameStep(t, m, TickMsg{})
	if !m.gameState.GameOver {
		t.Fatal("game should be over after one step")
	}

	m = gameStep(t, m, runeKey('r'))
	m = gameStep(t, m, TickMsg{})
	if m.gameState.GameOver {
		t.Fatal("restart should reset the game")
	}
	m = gameStep(t, m, TickMsg{})

	scores, err := store.TopScores(context.Background(), "over", 10)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if len(scores) != 2 {
		t.Errorf("saved %d scores, want one per run", len(scores))
	}
}

func TestGameModelBackIgnoredWhilePlaying(t *testing.T) {
	m := NewGameModel(&overGame{}, Options{}, testConfig()).Start()

	m = gameStep(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() || m.IsQuitting() {
		t.Error("back must be ignored during play")
	}
}

func TestGameModelStandaloneBackQuits(t *testing.T) {
	m := NewGameModel(&overGame{}, Options{}, testConfig()).Start()
	m.standalone = true
	m = gameStep(t, m, TickMsg{})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(GameModel)
	if !m.IsQuitting() || cmd == nil {
		t.Error("back after game over should quit a standalone game")
	}
	if m.View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestWriteScreenshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := core.NewScreen(4, 2)
	s.DrawText(0, 0, "ok")

	at := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	path, err := writeScreenshot(dir, "crunch", s, at)
	if err != nil {
		t.Fatalf("writeScreenshot: %v", err)
	}
	if filepath.Base(path) != "crunch_20261018_093000.txt" {
		t.Errorf("path = %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "ok  \n") {
		t.Errorf("screenshot = %q", data)
	}
}
