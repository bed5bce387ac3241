// Package storage defines score persistence for Crunch. Backends live in
// this package (SQLite) and its subpackages (memory, redis).
package storage

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidScore is returned when a score entry cannot be saved.
var ErrInvalidScore = errors.New("invalid score entry")

// DefaultLimit is the number of entries TopScores returns for limit <= 0.
const DefaultLimit = 10

// AnonymousPlayer is recorded when a score carries no player name.
const AnonymousPlayer = "anonymous"

// ScoreEntry is one finished run.
type ScoreEntry struct {
	ID        int64     `json:"id"`
	GameID    string    `json:"game_id"`
	Level     string    `json:"level"`
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	Moves     int       `json:"moves"`
	Cleared   bool      `json:"cleared"`
	CreatedAt time.Time `json:"created_at"`
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	Clears     int
	LastPlayed time.Time
}

// ScoreStore is implemented by every score backend.
type ScoreStore interface {
	// SaveScore records a finished run and returns its ID.
	SaveScore(ctx context.Context, entry ScoreEntry) (int64, error)
	// TopScores returns the best runs of a game, highest first.
	TopScores(ctx context.Context, gameID string, limit int) ([]ScoreEntry, error)
	// HighScore returns the best score of a game, 0 when none exist.
	HighScore(ctx context.Context, gameID string) (int, error)
	// Stats aggregates every run of a game.
	Stats(ctx context.Context, gameID string) (*GameStats, error)
	// ClearScores deletes every run of a game.
	ClearScores(ctx context.Context, gameID string) error
	Close() error
}

// LevelBester is implemented by stores that keep the best score reached on
// each level label.
type LevelBester interface {
	LevelBests(ctx context.Context, gameID string) (map[string]int, error)
}

// LevelBest is one level label with its best score.
type LevelBest struct {
	Level string
	Score int
}

// SortLevelBests flattens a LevelBests result, ordered by label so that
// "round 9" comes before "round 10".
func SortLevelBests(bests map[string]int) []LevelBest {
	out := make([]LevelBest, 0, len(bests))
	for level, score := range bests {
		out = append(out, LevelBest{Level: level, Score: score})
	}
	slices.SortFunc(out, func(a, b LevelBest) int {
		return compareLevels(a.Level, b.Level)
	})
	return out
}

// compareLevels orders labels by their text prefix, then by a trailing
// number when both have one.
func compareLevels(a, b string) int {
	pa, na, okA := splitTrailingNumber(a)
	pb, nb, okB := splitTrailingNumber(b)
	if c := strings.Compare(pa, pb); c != 0 || !okA || !okB {
		if c == 0 {
			return strings.Compare(a, b)
		}
		return c
	}
	return cmp.Compare(na, nb)
}

func splitTrailingNumber(s string) (string, int, bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, 0, false
	}
	return s[:i], n, true
}

// Normalize validates an entry and fills in defaults before it is saved.
func Normalize(entry ScoreEntry) (ScoreEntry, error) {
	entry.GameID = strings.TrimSpace(entry.GameID)
	if entry.GameID == "" {
		return entry, errors.Join(ErrInvalidScore, errors.New("game id is empty"))
	}
	if entry.Score < 0 {
		return entry, errors.Join(ErrInvalidScore, errors.New("score is negative"))
	}
	entry.Player = strings.TrimSpace(entry.Player)
	if entry.Player == "" {
		entry.Player = AnonymousPlayer
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC().Truncate(time.Second)
	return entry, nil
}

// Limit resolves a requested result size.
func Limit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
