// Package storage provides the SQLite-backed Blockfall leaderboard.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when a leaderboard entry does not exist.
var ErrNotFound = errors.New("storage: entry not found")

// ErrInvalidEntry is returned by Submit for entries that cannot be ranked.
var ErrInvalidEntry = errors.New("storage: invalid entry")

// MaxNameLength limits player names on the leaderboard.
const MaxNameLength = 16

// DefaultLimit is used by Fetch when no positive limit is given.
const DefaultLimit = 10

// Store manages the SQLite database connection for the leaderboard.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents one finished session on the leaderboard.
type ScoreEntry struct {
	ID             int64     `json:"-"`
	PublicID       string    `json:"id"`
	Name           string    `json:"name"`
	Score          int       `json:"score"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	Difficulty     string    `json:"difficulty"`
	Lines          int       `json:"lines"`
	Level          int       `json:"level"`
	CreatedAt      time.Time `json:"created_at"`
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

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
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			public_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			elapsed_secs INTEGER NOT NULL DEFAULT 0,
			difficulty TEXT NOT NULL,
			lines INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_rank ON scores(difficulty, score DESC, elapsed_secs ASC, id ASC);
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

// validate trims the name and rejects entries that cannot be ranked.
func (e *ScoreEntry) validate() error {
	e.Name = strings.TrimSpace(e.Name)
	switch {
	case e.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidEntry)
	case len([]rune(e.Name)) > MaxNameLength:
		return fmt.Errorf("%w: name longer than %d characters", ErrInvalidEntry, MaxNameLength)
	case e.Difficulty == "":
		return fmt.Errorf("%w: empty difficulty", ErrInvalidEntry)
	case e.Score < 0 || e.ElapsedSeconds < 0 || e.Lines < 0:
		return fmt.Errorf("%w: negative value", ErrInvalidEntry)
	}
	return nil
}

// Submit records a finished session and returns its 1-based rank among
// entries of the same difficulty together with the stored entry.
// Ties rank by shorter elapsed time, then by earlier submission.
func (s *Store) Submit(entry ScoreEntry) (int, ScoreEntry, error) {
	if err := entry.validate(); err != nil {
		return 0, ScoreEntry{}, err
	}
	entry.PublicID = uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, ScoreEntry{}, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO scores (public_id, name, score, elapsed_secs, difficulty, lines, level)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.PublicID, entry.Name, entry.Score, entry.ElapsedSeconds,
		entry.Difficulty, entry.Lines, entry.Level,
	)
	if err != nil {
		return 0, ScoreEntry{}, fmt.Errorf("storage: cannot save score: %w", err)
	}

	entry.ID, err = result.LastInsertId()
	if err != nil {
		return 0, ScoreEntry{}, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	var better int
	err = tx.QueryRow(
		`SELECT COUNT(*) FROM scores
		 WHERE difficulty = ?
		   AND (score > ?
		        OR (score = ? AND elapsed_secs < ?)
		        OR (score = ? AND elapsed_secs = ? AND id < ?))`,
		entry.Difficulty,
		entry.Score,
		entry.Score, entry.ElapsedSeconds,
		entry.Score, entry.ElapsedSeconds, entry.ID,
	).Scan(&better)
	if err != nil {
		return 0, ScoreEntry{}, fmt.Errorf("storage: cannot compute rank: %w", err)
	}

	var createdAt any
	if err := tx.QueryRow("SELECT created_at FROM scores WHERE id = ?", entry.ID).Scan(&createdAt); err != nil {
		return 0, ScoreEntry{}, fmt.Errorf("storage: cannot read entry: %w", err)
	}
	entry.CreatedAt = parseTime(createdAt)

	if err := tx.Commit(); err != nil {
		return 0, ScoreEntry{}, fmt.Errorf("storage: cannot commit: %w", err)
	}
	return better + 1, entry, nil
}

const selectColumns = `SELECT id, public_id, name, score, elapsed_secs, difficulty, lines, level, created_at FROM scores`

const rankOrder = `ORDER BY score DESC, elapsed_secs ASC, id ASC`

// Fetch retrieves the best entries for a difficulty in rank order.
// An empty difficulty lists entries of all difficulties.
func (s *Store) Fetch(difficulty string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var (
		rows *sql.Rows
		err  error
	)
	if difficulty == "" {
		rows, err = s.db.Query(selectColumns+" "+rankOrder+" LIMIT ?", limit)
	} else {
		rows, err = s.db.Query(selectColumns+" WHERE difficulty = ? "+rankOrder+" LIMIT ?", difficulty, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// Get retrieves an entry by its public ID.
func (s *Store) Get(publicID string) (ScoreEntry, error) {
	row := s.db.QueryRow(selectColumns+" WHERE public_id = ?", publicID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ScoreEntry{}, ErrNotFound
	}
	return e, err
}

// HighScore returns the highest score for the given difficulty.
// Returns 0 if no scores exist.
func (s *Store) HighScore(difficulty string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE difficulty = ?",
		difficulty,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get high score: %w", err)
	}
	return int(score.Int64), nil
}

// ClearScores deletes all entries for the given difficulty.
func (s *Store) ClearScores(difficulty string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE difficulty = ?", difficulty); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// Stats contains aggregated statistics for one difficulty.
type Stats struct {
	Difficulty   string `json:"difficulty"`
	TotalGames   int    `json:"total_games"`
	HighScore    int    `json:"high_score"`
	TotalLines   int    `json:"total_lines"`
	BestLevel    int    `json:"best_level"`
	AverageScore int    `json:"average_score"`
}

// AllStats retrieves statistics for every difficulty that has entries,
// ordered by difficulty name.
func (s *Store) AllStats() ([]Stats, error) {
	rows, err := s.db.Query(
		`SELECT difficulty, COUNT(*), MAX(score), SUM(lines), MAX(level), AVG(score)
		 FROM scores
		 GROUP BY difficulty
		 ORDER BY difficulty`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query stats: %w", err)
	}
	defer rows.Close()

	var stats []Stats
	for rows.Next() {
		var st Stats
		var avg float64
		if err := rows.Scan(&st.Difficulty, &st.TotalGames, &st.HighScore, &st.TotalLines, &st.BestLevel, &avg); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats: %w", err)
		}
		st.AverageScore = int(avg + 0.5)
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (ScoreEntry, error) {
	var e ScoreEntry
	var createdAt any
	err := row.Scan(&e.ID, &e.PublicID, &e.Name, &e.Score, &e.ElapsedSeconds,
		&e.Difficulty, &e.Lines, &e.Level, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ScoreEntry{}, err
	}
	if err != nil {
		return ScoreEntry{}, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

// parseTime handles the driver returning either time.Time or text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.DateTime, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
