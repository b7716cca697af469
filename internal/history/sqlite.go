package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Import sqlite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS generations (
    id                  TEXT PRIMARY KEY,
    prompt              TEXT NOT NULL,
    prompt_hash         TEXT NOT NULL,
    language            TEXT NOT NULL,
    status              TEXT NOT NULL,
    code                TEXT NOT NULL,
    model_available     INTEGER NOT NULL DEFAULT 0,
    samples_requested   INTEGER NOT NULL DEFAULT 0,
    samples_completed   INTEGER NOT NULL DEFAULT 0,
    candidates_accepted INTEGER NOT NULL DEFAULT 0,
    best_score          REAL NOT NULL DEFAULT 0,
    duration_ms         INTEGER NOT NULL DEFAULT 0,
    user_id             TEXT NOT NULL DEFAULT '',
    created_at          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_generations_created_at ON generations (created_at);
`

// SQLiteStore keeps history in a local database file
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save inserts a record
func (s *SQLiteStore) Save(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generations (
			id, prompt, prompt_hash, language, status, code, model_available,
			samples_requested, samples_completed, candidates_accepted,
			best_score, duration_ms, user_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID.String(), rec.Prompt, rec.PromptHash, rec.Language, rec.Status, rec.Code, rec.ModelAvailable,
		rec.SamplesRequested, rec.SamplesCompleted, rec.CandidatesAccepted,
		rec.BestScore, rec.DurationMS, rec.UserID, rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	return nil
}

// Recent returns the newest records first
func (s *SQLiteStore) Recent(ctx context.Context, q Query) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, prompt, prompt_hash, language, status, code, model_available,
		       samples_requested, samples_completed, candidates_accepted,
		       best_score, duration_ms, user_id, created_at
		FROM generations
		WHERE (? = '' OR language = ?)
		ORDER BY created_at DESC
		LIMIT ?
	`, q.Language, q.Language, normalizeLimit(q.Limit))
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r         Record
			id        string
			createdAt string
		)
		if err := rows.Scan(
			&id, &r.Prompt, &r.PromptHash, &r.Language, &r.Status, &r.Code, &r.ModelAvailable,
			&r.SamplesRequested, &r.SamplesCompleted, &r.CandidatesAccepted,
			&r.BestScore, &r.DurationMS, &r.UserID, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse generation id: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse generation time: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
