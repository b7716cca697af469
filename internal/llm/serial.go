package llm

import (
	"context"
	"sync"
)

// SerialCompleter allows a single completion in flight at a time. Local
// inference servers hold one copy of the weights and degrade badly under
// concurrent load.
type SerialCompleter struct {
	mu   sync.Mutex
	next Completer
}

// Serialize wraps next with a process-wide mutex
func Serialize(next Completer) *SerialCompleter {
	return &SerialCompleter{next: next}
}

// Complete holds the lock for the duration of the wrapped call
func (s *SerialCompleter) Complete(ctx context.Context, req Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.next.Complete(ctx, req)
}

// Available forwards to the wrapped completer
func (s *SerialCompleter) Available() bool {
	return IsAvailable(s.next)
}
