// Package redis is a shared score store for hosted play: every SSH session
// of a server, or several servers, can report to the same leaderboard.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vovakirdan/tui-crunch/internal/storage"
)

// raiseBest sets a hash field to ARGV[2] unless it already holds a score at
// least as high.
var raiseBest = redis.NewScript(`
local cur = redis.call("HGET", KEYS[1], ARGV[1])
if cur and tonumber(cur) >= tonumber(ARGV[2]) then
	return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
return 1
`)

// Storage is a Redis-backed implementation of storage.ScoreStore
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var (
	_ storage.ScoreStore  = (*Storage)(nil)
	_ storage.LevelBester = (*Storage)(nil)
)

func (s *Storage) SaveScore(ctx context.Context, entry storage.ScoreEntry) (int64, error) {
	entry, err := storage.Normalize(entry)
	if err != nil {
		return 0, fmt.Errorf("storage: %w", err)
	}

	id, err := s.client.Incr(ctx, scoreSeqKey()).Result()
	if err != nil {
		return 0, err
	}
	entry.ID = id

	data, err := json.Marshal(entry)
	if err != nil {
		return 0, err
	}

	// Use pipeline for atomic save + index update
	key := leaderboardKey(entry.GameID)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, scoreKey(member(id)), data, 0)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(entry.Score), Member: member(id)})
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	if entry.Level != "" {
		if err := raiseBest.Run(ctx, s.client, []string{levelBestKey(entry.GameID)}, entry.Level, entry.Score).Err(); err != nil {
			return id, err
		}
	}

	if err := s.trim(ctx, key); err != nil {
		return id, err
	}
	return id, nil
}

// trim drops the lowest entries of a leaderboard past MaxEntriesPerGame.
func (s *Storage) trim(ctx context.Context, key string) error {
	if s.cfg.MaxEntriesPerGame <= 0 {
		return nil
	}
	count, err := s.client.ZCard(ctx, key).Result()
	if err != nil {
		return err
	}
	excess := count - int64(s.cfg.MaxEntriesPerGame)
	if excess <= 0 {
		return nil
	}

	ids, err := s.client.ZRange(ctx, key, 0, excess-1).Result()
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.ZRem(ctx, key, toAny(ids)...)
	pipe.Del(ctx, scoreKeys(ids)...)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) TopScores(ctx context.Context, gameID string, limit int) ([]storage.ScoreEntry, error) {
	ids, err := s.client.ZRevRange(ctx, leaderboardKey(gameID), 0, int64(storage.Limit(limit))-1).Result()
	if err != nil {
		return nil, err
	}
	return s.entries(ctx, ids)
}

// entries loads score entries in the order of ids. IDs whose entry has
// gone missing are skipped.
func (s *Storage) entries(ctx context.Context, ids []string) ([]storage.ScoreEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	values, err := s.client.MGet(ctx, scoreKeys(ids)...).Result()
	if err != nil {
		return nil, err
	}

	result := make([]storage.ScoreEntry, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var entry storage.ScoreEntry
		if err := json.Unmarshal([]byte(str), &entry); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, nil
}

// LevelBests returns the best score ever reached on each level of a game,
// keyed by level label. Trimming the leaderboard does not lower them.
func (s *Storage) LevelBests(ctx context.Context, gameID string) (map[string]int, error) {
	raw, err := s.client.HGetAll(ctx, levelBestKey(gameID)).Result()
	if err != nil {
		return nil, err
	}
	bests := make(map[string]int, len(raw))
	for level, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("storage: best score for level %q: %w", level, err)
		}
		bests[level] = n
	}
	return bests, nil
}

func (s *Storage) HighScore(ctx context.Context, gameID string) (int, error) {
	top, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey(gameID), 0, 0).Result()
	if err != nil {
		return 0, err
	}
	if len(top) == 0 {
		return 0, nil
	}
	return int(top[0].Score), nil
}

func (s *Storage) Stats(ctx context.Context, gameID string) (*storage.GameStats, error) {
	ids, err := s.client.ZRevRange(ctx, leaderboardKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	all, err := s.entries(ctx, ids)
	if err != nil {
		return nil, err
	}

	stats := &storage.GameStats{GameID: gameID}
	for _, e := range all {
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

func (s *Storage) ClearScores(ctx context.Context, gameID string) error {
	key := leaderboardKey(gameID)
	ids, err := s.client.ZRange(ctx, key, 0, -1).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	if len(ids) > 0 {
		pipe.Del(ctx, scoreKeys(ids)...)
	}
	pipe.Del(ctx, key, levelBestKey(gameID))
	_, err = pipe.Exec(ctx)
	return err
}

func scoreKeys(ids []string) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = scoreKey(id)
	}
	return keys
}

func toAny(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
