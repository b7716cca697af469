package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	assert.Equal(t, "codewizard_20240309_140507.log", FileName(ts))
}

func TestNewWritesDebugToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	logger, path, err := New(dir)
	require.NoError(t, err)
	logger.Debug("debug only in file")
	require.NoError(t, logger.Sync())

	assert.True(t, strings.HasPrefix(filepath.Base(path), "codewizard_"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debug only in file")
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 12; i++ {
		name := fmt.Sprintf("codewizard_202401%02d_000000.log", i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))

	names, total, err := ListFiles(dir, 10)
	require.NoError(t, err)

	assert.Equal(t, 12, total)
	require.Len(t, names, 10)
	assert.Equal(t, "codewizard_20240112_000000.log", names[0])
	assert.Equal(t, "codewizard_20240103_000000.log", names[9])
}

func TestListFilesMissingDir(t *testing.T) {
	names, total, err := ListFiles(filepath.Join(t.TempDir(), "absent"), 10)

	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Zero(t, total)
}
