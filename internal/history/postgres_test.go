package history

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/codewizard/api/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openPostgresStore(t *testing.T) (*PostgresStore, *database.Postgres) {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	require.NoError(t, database.RunMigrations(url, zap.NewNop()))

	db, err := database.NewPostgres(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return NewPostgresStore(db), db
}

func TestPostgresSaveAndRecent(t *testing.T) {
	s, db := openPostgresStore(t)
	ctx := context.Background()
	// Far enough ahead that these rows sort before anything else in a shared database
	base := time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)

	first := FromResult(result("pg first", "python", base), "")
	second := FromResult(result("pg second", "sql", base.Add(time.Minute)), "u-7")
	third := FromResult(result("pg third", "python", base.Add(2*time.Minute)), "")
	ids := []string{first.ID.String(), second.ID.String(), third.ID.String()}
	t.Cleanup(func() {
		_, _ = db.Pool().Exec(context.Background(), "DELETE FROM generations WHERE id = ANY($1::uuid[])", ids)
	})
	for _, r := range []Record{first, second, third} {
		require.NoError(t, s.Save(ctx, r))
	}

	recent, err := s.Recent(ctx, Query{Limit: 3})
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, third.ID, recent[0].ID)
	assert.Equal(t, second.ID, recent[1].ID)
	assert.Equal(t, first.ID, recent[2].ID)

	assert.Equal(t, "u-7", recent[1].UserID)
	assert.Empty(t, recent[0].UserID)
	assert.Equal(t, "pg third", recent[0].Prompt)
	assert.Equal(t, HashPrompt("pg third"), recent[0].PromptHash)
	assert.Equal(t, 10.5, recent[0].BestScore)
	assert.True(t, recent[0].ModelAvailable)
	assert.True(t, recent[1].CreatedAt.Equal(second.CreatedAt))

	python, err := s.Recent(ctx, Query{Language: "python", Limit: 2})
	require.NoError(t, err)
	require.Len(t, python, 2)
	assert.Equal(t, third.ID, python[0].ID)
	assert.Equal(t, first.ID, python[1].ID)

	var nulls int
	require.NoError(t, db.Pool().QueryRow(ctx,
		"SELECT COUNT(*) FROM generations WHERE id = ANY($1::uuid[]) AND user_id IS NULL", ids).Scan(&nulls))
	assert.Equal(t, 2, nulls)
}

func TestPostgresDuplicateID(t *testing.T) {
	s, db := openPostgresStore(t)
	rec := FromResult(result("pg dup", "c", time.Now()), "")
	t.Cleanup(func() {
		_, _ = db.Pool().Exec(context.Background(), "DELETE FROM generations WHERE id = $1", rec.ID)
	})

	require.NoError(t, s.Save(context.Background(), rec))
	assert.Error(t, s.Save(context.Background(), rec))
}
