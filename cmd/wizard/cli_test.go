package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/codewizard/api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	for _, key := range []string{"MODEL_BACKEND", "MODEL_URL", "DATABASE_URL", "REDIS_URL", "NATS_URL", "SAMPLE_COUNT", "SAMPLE_PARALLELISM"} {
		t.Setenv(key, "")
	}
	return filepath.Join(t.TempDir(), "history.db")
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func ollamaServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/generate":
			_, _ = w.Write([]byte(`{"model":"coder","response":"def count_vowels(text):\n    return sum(1 for ch in text.lower() if ch in \"aeiou\")","done":true}` + "\n"))
		case "/api/show":
			_, _ = w.Write([]byte(`{}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLanguagesCmd(t *testing.T) {
	isolateEnv(t)

	out, _, err := execute(t, "languages")
	require.NoError(t, err)
	assert.Contains(t, out, "python")
	assert.Contains(t, out, "DataAlchemy")
	assert.Contains(t, out, ".cpp")
}

func TestGenerateFallbackAndHistory(t *testing.T) {
	db := isolateEnv(t)

	out, stderr, err := execute(t, "--backend", "none", "--history-db", db, "generate", "-l", "javascript", "parse", "a", "date")
	require.NoError(t, err)
	assert.Contains(t, out, "// parse a date")
	assert.Contains(t, out, "function main()")
	assert.Contains(t, stderr, "ScriptMaster: no usable candidate")

	out, _, err = execute(t, "--history-db", db, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "javascript")
	assert.Contains(t, out, "fallback")
	assert.Contains(t, out, "parse a date")

	out, _, err = execute(t, "--history-db", db, "history", "-l", "sql")
	require.NoError(t, err)
	assert.Contains(t, out, "No generations recorded yet.")
}

func TestGenerateWithModel(t *testing.T) {
	db := isolateEnv(t)
	srv := ollamaServer(t)

	out, _, err := execute(t, "--backend", "ollama", "--model-url", srv.URL, "--model", "coder", "--history-db", db,
		"generate", "--samples", "2", "--json", "count vowels")
	require.NoError(t, err)

	var res models.GenerationResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, models.StatusSuccess, res.Status)
	assert.Equal(t, 2, res.SamplesRequested)
	assert.Equal(t, 1, res.BestSample)
	assert.Contains(t, res.Code, "def count_vowels")
}

func TestGenerateRejectsBadInput(t *testing.T) {
	db := isolateEnv(t)

	_, _, err := execute(t, "--backend", "none", "--history-db", db, "generate", "-l", "cobol", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")

	_, _, err = execute(t, "--backend", "none", "--history-db", db, "generate", "drop table users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restricted patterns")

	_, _, err = execute(t, "generate")
	assert.Error(t, err)
}

func TestDoctorCmd(t *testing.T) {
	db := isolateEnv(t)
	srv := ollamaServer(t)

	out, _, err := execute(t, "--backend", "ollama", "--model-url", srv.URL, "--model", "coder", "--history-db", db, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "model      ok")
	assert.Contains(t, out, "database   not configured")
	assert.Contains(t, out, "history    ok")

	out, _, err = execute(t, "--backend", "none", "--history-db", db, "doctor")
	require.Error(t, err)
	assert.Contains(t, out, "model      FAIL")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
