// Package llm wraps model inference behind the Completer interface so the
// sampling loop can run against a real backend or a deterministic stub.
package llm

import (
	"context"
	"errors"
)

// ErrBackendUnavailable is returned when no model backend is configured or
// the startup probe could not reach the model.
var ErrBackendUnavailable = errors.New("model backend unavailable")

// Request is one raw-prompt completion call
type Request struct {
	Prompt        string
	MaxTokens     int
	Temperature   float32
	TopP          float32
	RepeatPenalty float32
	Stop          []string
}

// Completer performs a single completion
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Prober verifies at startup that the configured model can serve requests
type Prober interface {
	Probe(ctx context.Context) error
}

// Availability is implemented by completers whose readiness changes at runtime
type Availability interface {
	Available() bool
}

// CompleterFunc adapts a function to the Completer interface
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f(ctx, req)
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// IsAvailable reports whether c can currently take requests. A nil completer
// is never available.
func IsAvailable(c Completer) bool {
	if c == nil {
		return false
	}
	if a, ok := c.(Availability); ok {
		return a.Available()
	}
	return true
}
