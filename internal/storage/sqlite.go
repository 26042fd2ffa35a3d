// Package storage provides SQLite-based persistence for PipeFlow scores.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single finished level.
type ScoreEntry struct {
	ID         uuid.UUID
	LevelID    string
	Difficulty string
	Mode       string
	Score      int
	Remaining  time.Duration
	RunID      uuid.UUID // flow run that produced the score; zero if unknown
	CreatedAt  time.Time
}

// LevelStats contains aggregated statistics for a level at one difficulty.
type LevelStats struct {
	LevelID    string
	Difficulty string
	Plays      int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id TEXT PRIMARY KEY,
			level_id TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			mode TEXT NOT NULL DEFAULT 'level',
			score INTEGER NOT NULL,
			remaining_ms INTEGER NOT NULL DEFAULT 0,
			run_id TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_level ON scores(level_id, difficulty);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(level_id, difficulty, score DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a finished level and returns the new row's ID.
// A zero e.ID is replaced with a fresh one.
func (s *Store) SaveScore(e ScoreEntry) (uuid.UUID, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	run := ""
	if e.RunID != uuid.Nil {
		run = e.RunID.String()
	}
	_, err := s.db.Exec(
		`INSERT INTO scores (id, level_id, difficulty, mode, score, remaining_ms, run_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.LevelID, e.Difficulty, modeOrDefault(e.Mode), e.Score, e.Remaining.Milliseconds(), run,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("storage: cannot save score: %w", err)
	}
	return e.ID, nil
}

// SaveIfBest records e only when it beats the stored high score for its
// level and difficulty. Reports whether the score was recorded.
func (s *Store) SaveIfBest(e ScoreEntry) (bool, error) {
	best, err := s.HighScore(e.LevelID, e.Difficulty)
	if err != nil {
		return false, err
	}
	if e.Score <= best {
		return false, nil
	}
	if _, err := s.SaveScore(e); err != nil {
		return false, err
	}
	return true, nil
}

// TopScores retrieves the top N scores for a level at one difficulty.
// Results are ordered by score descending.
func (s *Store) TopScores(levelID, difficulty string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, difficulty, mode, score, remaining_ms, run_id, created_at
		 FROM scores
		 WHERE level_id = ? AND difficulty = ?
		 ORDER BY score DESC, created_at ASC
		 LIMIT ?`,
		levelID, difficulty, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var (
			e               ScoreEntry
			id, run         string
			remainingMillis int64
			createdAt       any
		)
		if err := rows.Scan(&id, &e.LevelID, &e.Difficulty, &e.Mode, &e.Score, &remainingMillis, &run, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("storage: bad score id %q: %w", id, err)
		}
		if run != "" {
			if e.RunID, err = uuid.Parse(run); err != nil {
				return nil, fmt.Errorf("storage: bad run id %q: %w", run, err)
			}
		}
		e.Remaining = time.Duration(remainingMillis) * time.Millisecond
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// HighScore returns the highest score for a level at one difficulty.
// Returns 0 if no scores exist.
func (s *Store) HighScore(levelID, difficulty string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE level_id = ? AND difficulty = ?",
		levelID, difficulty,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes all scores for a level, across difficulties.
func (s *Store) ClearScores(levelID string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE level_id = ?", levelID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// Stats retrieves aggregated statistics for a level at one difficulty.
func (s *Store) Stats(levelID, difficulty string) (*LevelStats, error) {
	stats := &LevelStats{LevelID: levelID, Difficulty: difficulty}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0)
		 FROM scores WHERE level_id = ? AND difficulty = ?`,
		levelID, difficulty,
	).Scan(&stats.Plays, &stats.HighScore, &stats.AvgScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM scores WHERE level_id = ? AND difficulty = ? ORDER BY created_at DESC LIMIT 1`,
		levelID, difficulty,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}
	return stats, nil
}

// AllStats retrieves statistics for every level and difficulty played,
// ordered by level and difficulty.
func (s *Store) AllStats() ([]LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id, difficulty, COUNT(*), MAX(score), AVG(score), MAX(created_at)
		 FROM scores
		 GROUP BY level_id, difficulty
		 ORDER BY level_id, difficulty`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all level stats: %w", err)
	}
	defer rows.Close()

	var all []LevelStats
	for rows.Next() {
		var st LevelStats
		var lastPlayed any
		if err := rows.Scan(&st.LevelID, &st.Difficulty, &st.Plays, &st.HighScore, &st.AvgScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		all = append(all, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return all, nil
}

// parseTime handles the driver returning either time.Time or a string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func modeOrDefault(m string) string {
	if m == "" {
		return "level"
	}
	return m
}
