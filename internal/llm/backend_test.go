package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOllamaCompleter(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/generate":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"model":"coder","response":"def add(a, b):\n    return a + b","done":true}` + "\n"))
		case "/api/show":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := NewOllamaCompleter(srv.URL, "coder", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, c.Probe(context.Background()))

	text, err := c.Complete(context.Background(), Request{
		Prompt:        "Prompt: add\nOutput:",
		MaxTokens:     1500,
		Temperature:   0.3,
		TopP:          0.9,
		RepeatPenalty: 1.15,
		Stop:          []string{"Prompt:"},
	})
	require.NoError(t, err)

	assert.Equal(t, "def add(a, b):\n    return a + b", text)
	assert.Equal(t, "coder", got["model"])
	assert.Equal(t, true, got["raw"])
	options := got["options"].(map[string]interface{})
	assert.InDelta(t, 0.3, options["temperature"], 1e-6)
	assert.InDelta(t, 1500, options["num_predict"], 1e-6)
	assert.Equal(t, []interface{}{"Prompt:"}, options["stop"])
}

func TestOllamaCompleterErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'coder' not found"}`))
	}))
	defer srv.Close()

	c, err := NewOllamaCompleter(srv.URL, "coder", time.Second)
	require.NoError(t, err)

	assert.Error(t, c.Probe(context.Background()))
	_, err = c.Complete(context.Background(), Request{Prompt: "x"})
	assert.Error(t, err)
}

func TestOpenAICompleter(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/completions":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"text_completion","model":"coder","choices":[{"text":"SELECT 1;","index":0,"finish_reason":"stop"}]}`))
		case "/v1/models":
			_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"coder","object":"model"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewOpenAICompleter(srv.URL+"/v1", "", "coder", 5*time.Second)
	require.NoError(t, c.Probe(context.Background()))

	text, err := c.Complete(context.Background(), Request{Prompt: "p", MaxTokens: 1500, Temperature: 0.5, TopP: 0.9, Stop: []string{"Prompt:"}})
	require.NoError(t, err)

	assert.Equal(t, "SELECT 1;", text)
	assert.Equal(t, "coder", got["model"])
	assert.Equal(t, "p", got["prompt"])
	assert.InDelta(t, 1500, got["max_tokens"], 1e-6)
}

func TestOpenAIProbeMissingModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"other"}]}`))
	}))
	defer srv.Close()

	c := NewOpenAICompleter(srv.URL+"/v1", "", "coder", time.Second)
	assert.Error(t, c.Probe(context.Background()))
}

func TestNewBackend(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	c, err := NewBackend(ctx, BackendConfig{Kind: BackendNone}, logger)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	c, err = NewBackend(ctx, BackendConfig{Kind: "llamafile"}, logger)
	assert.Nil(t, c)
	assert.Error(t, err)

	down := httptest.NewServer(http.NotFoundHandler())
	defer down.Close()
	c, err = NewBackend(ctx, BackendConfig{Kind: BackendOllama, URL: down.URL, Model: "coder", Timeout: time.Second}, logger)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestNewBackendWrapsCompleter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"coder"}]}`))
	}))
	defer srv.Close()

	c, err := NewBackend(context.Background(), BackendConfig{
		Kind:      BackendOpenAI,
		URL:       srv.URL + "/v1",
		Model:     "coder",
		Timeout:   time.Second,
		Serialize: true,
	}, zap.NewNop())
	require.NoError(t, err)

	assert.IsType(t, &SerialCompleter{}, c)
	assert.True(t, IsAvailable(c))
}
