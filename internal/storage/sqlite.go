package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DefaultDBPath is where scores are kept unless --db says otherwise.
const DefaultDBPath = "~/.crunch/scores.db"

// migrations are applied in order; PRAGMA user_version records how many
// have run.
var migrations = []string{
	`CREATE TABLE scores (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id    TEXT    NOT NULL,
		level      TEXT    NOT NULL DEFAULT '',
		player     TEXT    NOT NULL,
		score      INTEGER NOT NULL,
		moves      INTEGER NOT NULL DEFAULT 0,
		cleared    INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX idx_scores_top ON scores(game_id, score DESC, id DESC);`,

	`CREATE INDEX idx_scores_level ON scores(game_id, level);`,
}

const entryColumns = `id, game_id, level, player, score, moves, cleared, created_at`

// Store keeps scores in a SQLite file.
type Store struct {
	db *sql.DB
}

var (
	_ ScoreStore  = (*Store)(nil)
	_ LevelBester = (*Store)(nil)
)

// Open opens the database at path, creating the file, its directory and
// the schema as needed. A leading ~ is the home directory.
func Open(path string) (*Store, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return s, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// migrate runs the migrations the database has not seen yet.
func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	for i := version; i < len(migrations); i++ {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveScore records a finished run and returns its row ID.
func (s *Store) SaveScore(ctx context.Context, entry ScoreEntry) (int64, error) {
	entry, err := Normalize(entry)
	if err != nil {
		return 0, fmt.Errorf("storage: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (game_id, level, player, score, moves, cleared, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.GameID, entry.Level, entry.Player, entry.Score, entry.Moves, entry.Cleared,
		entry.CreatedAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	return res.LastInsertId()
}

// TopScores returns the best runs of a game, newest first on ties.
func (s *Store) TopScores(ctx context.Context, gameID string, limit int) ([]ScoreEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, id DESC
		 LIMIT ?`,
		gameID, Limit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot read score: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows) (ScoreEntry, error) {
	var (
		e       ScoreEntry
		created int64
	)
	err := rows.Scan(&e.ID, &e.GameID, &e.Level, &e.Player, &e.Score, &e.Moves, &e.Cleared, &created)
	e.CreatedAt = time.Unix(created, 0).UTC()
	return e, err
}

// HighScore returns the best score of a game, 0 when it has none.
func (s *Store) HighScore(ctx context.Context, gameID string) (int, error) {
	var high int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(score), 0) FROM scores WHERE game_id = ?`, gameID,
	).Scan(&high)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	return high, nil
}

// LevelBests returns the best score saved on each level label of a game.
// Entries without a level are skipped.
func (s *Store) LevelBests(ctx context.Context, gameID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT level, MAX(score) FROM scores
		 WHERE game_id = ? AND level != ''
		 GROUP BY level`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level bests: %w", err)
	}
	defer rows.Close()

	bests := make(map[string]int)
	for rows.Next() {
		var level string
		var score int
		if err := rows.Scan(&level, &score); err != nil {
			return nil, fmt.Errorf("storage: cannot read level best: %w", err)
		}
		bests[level] = score
	}
	return bests, rows.Err()
}

// Stats aggregates every run of a game.
func (s *Store) Stats(ctx context.Context, gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}
	var last int64

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(score), 0), COALESCE(SUM(cleared), 0), COALESCE(MAX(created_at), 0)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &stats.Clears, &last)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	if stats.GamesCount > 0 {
		stats.LastPlayed = time.Unix(last, 0).UTC()
	}
	return stats, nil
}

// ClearScores deletes every run of a game.
func (s *Store) ClearScores(ctx context.Context, gameID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM scores WHERE game_id = ?`, gameID); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}
