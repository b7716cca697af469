package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)

	assert.Contains(t, names, "000001_create_generations.up.sql")
	assert.Contains(t, names, "000001_create_generations.down.sql")
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "not-a-url")
	assert.Error(t, err)
}

func TestNewPostgresRejectsBadURL(t *testing.T) {
	_, err := NewPostgres(context.Background(), "postgres://%zz")
	assert.Error(t, err)
}
