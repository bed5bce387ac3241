package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-crunch/internal/games/crunch"
	"github.com/vovakirdan/tui-crunch/internal/storage"
	"github.com/vovakirdan/tui-crunch/internal/storage/memory"
)

func seededStore(t *testing.T) *memory.Storage {
	t.Helper()
	store := memory.New()
	for _, e := range []storage.ScoreEntry{
		{GameID: crunch.IDCampaign, Player: "ada", Level: "2", Score: 640, Cleared: true},
		{GameID: crunch.IDCampaign, Player: "bob", Level: "1", Score: 120},
		{GameID: crunch.IDEndless, Player: "cy", Level: "round 4", Score: 2100},
	} {
		if _, err := store.SaveScore(context.Background(), e); err != nil {
			t.Fatalf("SaveScore: %v", err)
		}
	}
	return store
}

func scoreboardKey(m ScoreboardModel, msg tea.KeyMsg) (ScoreboardModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(ScoreboardModel), cmd
}

func TestScoreboardLoadsActiveMode(t *testing.T) {
	m := NewScoreboardModel(seededStore(t), 120, 40)

	if got := m.modes[m.active].ID; got != crunch.IDCampaign {
		t.Fatalf("opened on %q, want the campaign", got)
	}
	if len(m.scores) != 2 || m.scores[0].Player != "ada" {
		t.Fatalf("scores = %+v", m.scores)
	}
	if len(m.bests) != 2 || m.bests[0].Level != "1" {
		t.Errorf("bests = %+v", m.bests)
	}

	view := m.View()
	for _, want := range []string{"HIGH SCORES", "ada", "2 ✓", "Best per level", "2 runs"} {
		if !strings.Contains(view, want) {
			t.Errorf("view is missing %q", want)
		}
	}
}

func TestScoreboardSwitchesModes(t *testing.T) {
	m := NewScoreboardModel(seededStore(t), 120, 40)

	m, _ = scoreboardKey(m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.modes[m.active].ID; got != crunch.IDEndless {
		t.Fatalf("tab moved to %q, want endless", got)
	}
	if len(m.scores) != 1 || m.scores[0].Score != 2100 {
		t.Errorf("endless scores = %+v", m.scores)
	}

	// Wraps in both directions.
	m, _ = scoreboardKey(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = scoreboardKey(m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.modes[m.active].ID; got != crunch.IDEndless {
		t.Errorf("after wrapping active = %q", got)
	}
}

func TestScoreboardNarrowHidesBests(t *testing.T) {
	m := NewScoreboardModel(seededStore(t), 60, 30)
	if m.showBests() {
		t.Error("level bests should not fit in 60 columns")
	}
	if strings.Contains(m.View(), "Best per level") {
		t.Error("narrow view shows the bests panel")
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, 100, 30)
	if got := m.statsLine(); got != "Scores are not being kept" {
		t.Errorf("statsLine() = %q", got)
	}
	if !strings.Contains(m.View(), "No scores recorded yet") {
		t.Error("empty scoreboard should say so")
	}
}

type failingStore struct{ *memory.Storage }

func (failingStore) TopScores(context.Context, string, int) ([]storage.ScoreEntry, error) {
	return nil, errors.New("backend down")
}

func TestScoreboardReportsLoadError(t *testing.T) {
	m := NewScoreboardModel(failingStore{memory.New()}, 100, 30)
	if !strings.Contains(m.statsLine(), "backend down") {
		t.Errorf("statsLine() = %q", m.statsLine())
	}
}

func TestScoreboardBackAndQuit(t *testing.T) {
	m := NewScoreboardModel(nil, 100, 30)
	back, cmd := scoreboardKey(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !back.IsGoingBack() || back.IsQuitting() || cmd == nil {
		t.Error("esc should go back")
	}

	quit, _ := scoreboardKey(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !quit.IsQuitting() {
		t.Error("q should quit")
	}
}
