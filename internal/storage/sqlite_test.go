package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsScores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scores.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveScore(ctx, ScoreEntry{GameID: "crunch", Score: 70}); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	store.Close()

	// Migrations must not run twice.
	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()
	if high, _ := store.HighScore(ctx, "crunch"); high != 70 {
		t.Errorf("HighScore() after reopen = %d, want 70", high)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := map[string]string{
		"~/.crunch/scores.db": filepath.Join(home, ".crunch", "scores.db"),
		"/tmp/scores.db":      "/tmp/scores.db",
		"~other/scores.db":    "~other/scores.db",
	}
	for in, want := range tests {
		got, err := expandHome(in)
		if err != nil || got != want {
			t.Errorf("expandHome(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveScore(ctx, ScoreEntry{GameID: "crunch", Score: score, Level: "1"}); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore(ctx, ScoreEntry{GameID: "crunch_endless", Score: 500}); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores(ctx, "crunch", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	endless, err := store.TopScores(ctx, "crunch_endless", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(endless) != 1 {
		t.Errorf("Expected 1 endless score, got %d", len(endless))
	}
}

func TestStoreEntryFields(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	when := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	id, err := store.SaveScore(ctx, ScoreEntry{
		GameID:    "crunch",
		Level:     "4",
		Player:    "  alice ",
		Score:     1840,
		Moves:     17,
		Cleared:   true,
		CreatedAt: when,
	})
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores(ctx, "crunch", 1)
	if err != nil || len(scores) != 1 {
		t.Fatalf("TopScores() = %v, %v", scores, err)
	}
	got := scores[0]
	if got.ID != id || got.Level != "4" || got.Player != "alice" || got.Moves != 17 || !got.Cleared {
		t.Errorf("entry round trip = %+v", got)
	}
	if !got.CreatedAt.Equal(when) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, when)
	}
}

func TestStoreRejectsInvalidEntries(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.SaveScore(ctx, ScoreEntry{Score: 10}); !errors.Is(err, ErrInvalidScore) {
		t.Errorf("missing game id: err = %v", err)
	}
	if _, err := store.SaveScore(ctx, ScoreEntry{GameID: "crunch", Score: -1}); !errors.Is(err, ErrInvalidScore) {
		t.Errorf("negative score: err = %v", err)
	}

	id, err := store.SaveScore(ctx, ScoreEntry{GameID: "crunch", Score: 0})
	if err != nil || id == 0 {
		t.Fatalf("zero score should save: id=%d err=%v", id, err)
	}
	scores, _ := store.TopScores(ctx, "crunch", 0)
	if len(scores) != 1 || scores[0].Player != AnonymousPlayer {
		t.Errorf("scores = %+v", scores)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		store.SaveScore(ctx, ScoreEntry{GameID: "test", Score: (i + 1) * 100})
	}

	scores, err := store.TopScores(ctx, "test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 1500 || scores[1].Score != 1400 || scores[2].Score != 1300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	scores, _ = store.TopScores(ctx, "test", 0)
	if len(scores) != DefaultLimit {
		t.Errorf("default limit returned %d scores", len(scores))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	high, err := store.HighScore(ctx, "empty")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected 0 for empty game, got %d", high)
	}

	for _, score := range []int{100, 500, 200} {
		store.SaveScore(ctx, ScoreEntry{GameID: "test", Score: score})
	}

	high, err = store.HighScore(ctx, "test")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 500 {
		t.Errorf("Expected high score 500, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.SaveScore(ctx, ScoreEntry{GameID: "test", Score: 100})
	store.SaveScore(ctx, ScoreEntry{GameID: "other", Score: 100})

	if err := store.ClearScores(ctx, "test"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	scores, _ := store.TopScores(ctx, "test", 10)
	if len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	other, _ := store.TopScores(ctx, "other", 10)
	if len(other) != 1 {
		t.Error("Clear should only affect the given game")
	}
}

func TestStoreLevelBests(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.SaveScore(ctx, ScoreEntry{GameID: "crunch", Level: "1", Score: 300})
	store.SaveScore(ctx, ScoreEntry{GameID: "crunch", Level: "1", Score: 500})
	store.SaveScore(ctx, ScoreEntry{GameID: "crunch", Level: "2", Score: 200})
	store.SaveScore(ctx, ScoreEntry{GameID: "crunch", Score: 999})
	store.SaveScore(ctx, ScoreEntry{GameID: "other", Level: "1", Score: 800})

	bests, err := store.LevelBests(ctx, "crunch")
	if err != nil {
		t.Fatalf("LevelBests() failed: %v", err)
	}
	if len(bests) != 2 || bests["1"] != 500 || bests["2"] != 200 {
		t.Errorf("LevelBests() = %v, want map[1:500 2:200]", bests)
	}
}

func TestSortLevelBests(t *testing.T) {
	got := SortLevelBests(map[string]int{
		"round 10": 40,
		"round 9":  30,
		"12":       20,
		"3":        10,
		"bonus":    5,
	})
	want := []string{"3", "12", "bonus", "round 9", "round 10"}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Level != w {
			t.Errorf("entry %d = %q, want %q (all: %v)", i, got[i].Level, w, got)
		}
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	empty, err := store.Stats(ctx, "crunch")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	last := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store.SaveScore(ctx, ScoreEntry{GameID: "crunch", Score: 300, CreatedAt: last.Add(-time.Hour)})
	store.SaveScore(ctx, ScoreEntry{GameID: "crunch", Score: 900, Cleared: true, CreatedAt: last})

	stats, err := store.Stats(ctx, "crunch")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 900 || stats.TotalScore != 1200 || stats.Clears != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgScore != 600 {
		t.Errorf("AvgScore = %v, want 600", stats.AvgScore)
	}
	if !stats.LastPlayed.Equal(last) {
		t.Errorf("LastPlayed = %v, want %v", stats.LastPlayed, last)
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
