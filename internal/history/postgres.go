package history

import (
	"context"
	"fmt"

	"github.com/codewizard/api/internal/database"
	"github.com/jackc/pgx/v5"
)

// PostgresStore keeps history in the generations table
type PostgresStore struct {
	db *database.Postgres
}

// NewPostgresStore uses an existing pool; the schema comes from the migrations
func NewPostgresStore(db *database.Postgres) *PostgresStore {
	return &PostgresStore{db: db}
}

// Save inserts a record
func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	_, err := s.db.Pool().Exec(ctx, `
		INSERT INTO generations (
			id, prompt, prompt_hash, language, status, code, model_available,
			samples_requested, samples_completed, candidates_accepted,
			best_score, duration_ms, user_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), $14)
	`,
		rec.ID, rec.Prompt, rec.PromptHash, rec.Language, rec.Status, rec.Code, rec.ModelAvailable,
		rec.SamplesRequested, rec.SamplesCompleted, rec.CandidatesAccepted,
		rec.BestScore, rec.DurationMS, rec.UserID, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	return nil
}

// Recent returns the newest records first
func (s *PostgresStore) Recent(ctx context.Context, q Query) ([]Record, error) {
	query := `
		SELECT id, prompt, prompt_hash, language, status, code, model_available,
		       samples_requested, samples_completed, candidates_accepted,
		       best_score, duration_ms, COALESCE(user_id, ''), created_at
		FROM generations
		WHERE ($1 = '' OR language = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.db.Pool().Query(ctx, query, q.Language, normalizeLimit(q.Limit))
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var r Record
		err := row.Scan(
			&r.ID, &r.Prompt, &r.PromptHash, &r.Language, &r.Status, &r.Code, &r.ModelAvailable,
			&r.SamplesRequested, &r.SamplesCompleted, &r.CandidatesAccepted,
			&r.BestScore, &r.DurationMS, &r.UserID, &r.CreatedAt,
		)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan generations: %w", err)
	}
	return records, nil
}

// Close is a no-op; the pool is owned by the caller
func (s *PostgresStore) Close() error {
	return nil
}
