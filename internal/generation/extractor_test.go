package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/codewizard/api/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lang(t *testing.T, id string) registry.Language {
	t.Helper()
	l, ok := registry.MustLoad().Lookup(id)
	require.True(t, ok, id)
	return l
}

func TestExtractFencedBlock(t *testing.T) {
	raw := "Here you go:\n```python\ndef add(a, b):\n    return a + b\n```\nHope this helps!"

	code, err := NewExtractor().Extract(context.Background(), raw, lang(t, "python"))

	require.NoError(t, err)
	assert.Equal(t, "def add(a, b):\n    return a + b", code)
}

func TestExtractUntaggedFence(t *testing.T) {
	raw := "```\nfunction add(a, b) {\n  return a + b;\n}\n```"

	code, err := NewExtractor().Extract(context.Background(), raw, lang(t, "javascript"))

	require.NoError(t, err)
	assert.Equal(t, "function add(a, b) {\n  return a + b;\n}", code)
}

func TestExtractUnclosedFenceKeepsText(t *testing.T) {
	raw := "```sql\nSELECT name FROM users WHERE age > 30;"

	code, err := NewExtractor().Extract(context.Background(), raw, lang(t, "sql"))

	require.NoError(t, err)
	assert.Equal(t, "SELECT name FROM users WHERE age > 30;", code)
}

func TestExtractDropsLeadingProse(t *testing.T) {
	raw := "Sure! The function below works.\n\nimport math\n\ndef area(r):\n    return math.pi * r * r\n"

	code, err := NewExtractor().Extract(context.Background(), raw, lang(t, "python"))

	require.NoError(t, err)
	assert.Equal(t, "import math\n\ndef area(r):\n    return math.pi * r * r", code)
}

func TestExtractKeywordsAreCrossLanguage(t *testing.T) {
	raw := "def helper(x):\n    return x * 2"

	code, err := NewExtractor().Extract(context.Background(), raw, lang(t, "java"))

	require.NoError(t, err)
	assert.Equal(t, raw, code)
}

func TestExtractRejections(t *testing.T) {
	e := NewExtractor()
	py := lang(t, "python")

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"no code", "I am unable to help with that request.", ErrNoCode},
		{"todo prompt", "TODO: implement this", ErrNoCode},
		{"too short", "def f(): 1", ErrTooShort},
		{"todo marker", "def f(x):\n    # todo handle negatives\n    return x", ErrPlaceholder},
		{"implement marker", "def f(x):\n    # Implement later\n    return x", ErrPlaceholder},
		{"placeholder marker", "def f(x):\n    return PLACEHOLDER_VALUE", ErrPlaceholder},
		{"pass comment", "def f(x):\n    pass  # fill in", ErrPlaceholder},
		{"syntax error", "def broken(:\n    return 1 +", ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := e.Extract(context.Background(), tt.raw, py)
			assert.Empty(t, code)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExtractTodoPromptRejectedWithCode(t *testing.T) {
	code, err := NewExtractor().Extract(context.Background(), "def x():\n    TODO: implement this", lang(t, "python"))

	assert.Empty(t, code)
	assert.Error(t, err)
}

func TestExtractSyntaxCheckOnlyForParseStrategy(t *testing.T) {
	raw := "function broken( {\n  return ;;"

	code, err := NewExtractor().Extract(context.Background(), raw, lang(t, "javascript"))

	require.NoError(t, err)
	assert.Equal(t, raw, code)
}

func TestExtractIdempotent(t *testing.T) {
	e := NewExtractor()
	py := lang(t, "python")
	raw := "Answer:\n```py\ndef square(n):\n    \"\"\"Square n.\"\"\"\n    return n * n\n```"

	once, err := e.Extract(context.Background(), raw, py)
	require.NoError(t, err)
	twice, err := e.Extract(context.Background(), once, py)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

type rejectAll struct{}

func (rejectAll) Check(context.Context, string) error { return errors.New("nope") }

func TestExtractCustomChecker(t *testing.T) {
	e := NewExtractor().WithChecker("python", rejectAll{})

	code, err := e.Extract(context.Background(), "def ok(x):\n    return x", lang(t, "python"))

	assert.Empty(t, code)
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestPythonChecker(t *testing.T) {
	c := PythonChecker{}
	ctx := context.Background()

	assert.NoError(t, c.Check(ctx, "class A:\n    def f(self):\n        return 1\n"))
	assert.Error(t, c.Check(ctx, "class A\n    def f(self) return"))
}

type ctxKey struct{}

type ctxRecorder struct{ got context.Context }

func (c *ctxRecorder) Check(ctx context.Context, _ string) error {
	c.got = ctx
	return ctx.Err()
}

func TestExtractPassesContextToChecker(t *testing.T) {
	rec := &ctxRecorder{}
	e := NewExtractor().WithChecker("python", rec)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	_, err := e.Extract(ctx, "def ok(x):\n    return x", lang(t, "python"))
	require.NoError(t, err)
	assert.Equal(t, "req-1", rec.got.Value(ctxKey{}))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	code, err := e.Extract(cancelled, "def ok(x):\n    return x", lang(t, "python"))
	assert.Empty(t, code)
	assert.ErrorIs(t, err, ErrSyntax)
}
