package generation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/codewizard/api/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recorder is a Completer that records every request it receives
type recorder struct {
	mu       sync.Mutex
	requests []llm.Request
	respond  func(call int, req llm.Request) (string, error)
}

func (r *recorder) Complete(ctx context.Context, req llm.Request) (string, error) {
	r.mu.Lock()
	call := len(r.requests)
	r.requests = append(r.requests, req)
	r.mu.Unlock()

	if r.respond == nil {
		return "", nil
	}
	return r.respond(call, req)
}

func TestBuildPrompt(t *testing.T) {
	assert.Equal(t, "SYSTEM\n\nPrompt: add two numbers\nOutput:", BuildPrompt("SYSTEM", "add two numbers"))
}

func TestSamplingPlanCycles(t *testing.T) {
	plan := DefaultSamplingPlan

	assert.Len(t, plan, 9)
	assert.Equal(t, float32(0.1), plan.Temperature(0))
	assert.Equal(t, float32(0.9), plan.Temperature(8))
	assert.Equal(t, float32(0.1), plan.Temperature(9))
	assert.Equal(t, float32(0.2), plan.Temperature(10))
}

func TestSampleRequestParameters(t *testing.T) {
	rec := &recorder{respond: func(int, llm.Request) (string, error) { return "  out  \n", nil }}
	s := NewSampler(rec, nil, 1, zap.NewNop())

	attempts := s.Sample(context.Background(), "SYS", "p", 11, nil)

	require.Len(t, attempts, 11)
	require.Len(t, rec.requests, 11)
	for i, req := range rec.requests {
		assert.Equal(t, "SYS\n\nPrompt: p\nOutput:", req.Prompt)
		assert.Equal(t, 1500, req.MaxTokens)
		assert.Equal(t, float32(0.9), req.TopP)
		assert.Equal(t, float32(1.15), req.RepeatPenalty)
		assert.Equal(t, []string{"Prompt:", "\n\n\n\n"}, req.Stop)
		assert.Equal(t, DefaultSamplingPlan.Temperature(i), req.Temperature)
		assert.Equal(t, "out", attempts[i].Text)
		assert.Equal(t, i, attempts[i].Index)
	}
}

func TestSampleFailureDoesNotAbortBatch(t *testing.T) {
	rec := &recorder{respond: func(call int, _ llm.Request) (string, error) {
		if call%2 == 0 {
			return "", errors.New("inference failed")
		}
		return "ok", nil
	}}
	s := NewSampler(rec, nil, 1, zap.NewNop())

	var seen int
	attempts := s.Sample(context.Background(), "", "p", 5, func(Attempt) { seen++ })

	assert.Equal(t, 5, seen)
	assert.Len(t, rec.requests, 5)
	assert.Error(t, attempts[0].Err)
	assert.NoError(t, attempts[1].Err)
	assert.Equal(t, "ok", attempts[1].Text)
	assert.Error(t, attempts[4].Err)
}

func TestSampleStopsLaunchingAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{respond: func(call int, _ llm.Request) (string, error) {
		if call == 1 {
			cancel()
		}
		return "ok", nil
	}}
	s := NewSampler(rec, nil, 1, zap.NewNop())

	attempts := s.Sample(ctx, "", "p", 6, nil)

	assert.Len(t, rec.requests, 2)
	assert.NoError(t, attempts[0].Err)
	assert.NoError(t, attempts[1].Err)
	for _, a := range attempts[2:] {
		assert.ErrorIs(t, a.Err, context.Canceled)
	}
}

func TestSampleParallelKeepsIndexOrder(t *testing.T) {
	rec := &recorder{respond: func(_ int, req llm.Request) (string, error) {
		return req.Prompt, nil
	}}
	plan := SamplingPlan{0.1, 0.2, 0.3}
	s := NewSampler(rec, plan, 4, zap.NewNop())

	var mu sync.Mutex
	calls := 0
	attempts := s.Sample(context.Background(), "", "p", 7, func(Attempt) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	assert.Equal(t, 7, calls)
	assert.Len(t, rec.requests, 7)
	for i, a := range attempts {
		assert.Equal(t, i, a.Index)
		assert.Equal(t, plan.Temperature(i), a.Temperature)
		assert.NoError(t, a.Err)
	}
}

func TestSampleRecoversPanics(t *testing.T) {
	for _, parallelism := range []int{1, 2} {
		rec := &recorder{respond: func(call int, _ llm.Request) (string, error) {
			if call == 0 {
				panic("backend exploded")
			}
			return "ok", nil
		}}
		s := NewSampler(rec, nil, parallelism, zap.NewNop())

		attempts := s.Sample(context.Background(), "", "p", 3, nil)

		require.Len(t, rec.requests, 3, "parallelism %d", parallelism)
		failed := 0
		for _, a := range attempts {
			if a.Err != nil {
				failed++
				assert.Contains(t, a.Err.Error(), "backend exploded")
				assert.Empty(t, a.Text)
			}
		}
		assert.Equal(t, 1, failed, "parallelism %d", parallelism)
	}
}
