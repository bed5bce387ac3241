// Package memory is an in-process score store, used when no database is
// configured and in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-crunch/internal/storage"
)

// Storage is an in-memory implementation of storage.ScoreStore
type Storage struct {
	mu     sync.RWMutex
	nextID int64
	scores map[string][]storage.ScoreEntry
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		scores: make(map[string][]storage.ScoreEntry),
	}
}

var (
	_ storage.ScoreStore  = (*Storage)(nil)
	_ storage.LevelBester = (*Storage)(nil)
)

func (s *Storage) SaveScore(_ context.Context, entry storage.ScoreEntry) (int64, error) {
	entry, err := storage.Normalize(entry)
	if err != nil {
		return 0, fmt.Errorf("storage: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	entry.ID = s.nextID
	s.scores[entry.GameID] = append(s.scores[entry.GameID], entry)
	return entry.ID, nil
}

func (s *Storage) TopScores(_ context.Context, gameID string, limit int) ([]storage.ScoreEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := append([]storage.ScoreEntry(nil), s.scores[gameID]...)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].ID > entries[j].ID
	})
	if n := storage.Limit(limit); len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func (s *Storage) HighScore(_ context.Context, gameID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	high := 0
	for _, e := range s.scores[gameID] {
		high = max(high, e.Score)
	}
	return high, nil
}

func (s *Storage) Stats(_ context.Context, gameID string) (*storage.GameStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &storage.GameStats{GameID: gameID}
	for _, e := range s.scores[gameID] {
		stats.GamesCount++
		stats.HighScore = max(stats.HighScore, e.Score)
		stats.TotalScore += int64(e.Score)
		if e.Cleared {
			stats.Clears++
		}
		if e.CreatedAt.After(stats.LastPlayed) {
			stats.LastPlayed = e.CreatedAt
		}
	}
	if stats.GamesCount > 0 {
		stats.AvgScore = float64(stats.TotalScore) / float64(stats.GamesCount)
	}
	return stats, nil
}

// LevelBests returns the best score per level label. Entries without a
// level are skipped.
func (s *Storage) LevelBests(_ context.Context, gameID string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bests := make(map[string]int)
	for _, e := range s.scores[gameID] {
		if e.Level == "" {
			continue
		}
		if best, ok := bests[e.Level]; !ok || e.Score > best {
			bests[e.Level] = e.Score
		}
	}
	return bests, nil
}

func (s *Storage) ClearScores(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scores, gameID)
	return nil
}

func (s *Storage) Close() error {
	return nil
}
