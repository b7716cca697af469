package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Backend kinds accepted by BackendConfig.Kind
const (
	BackendOllama = "ollama"
	BackendOpenAI = "openai"
	BackendNone   = "none"
)

// BackendConfig selects and tunes the model backend
type BackendConfig struct {
	Kind            string
	URL             string
	Model           string
	APIKey          string
	Timeout         time.Duration
	ProbeTimeout    time.Duration
	Serialize       bool
	BreakerFailures int
	BreakerTimeout  time.Duration
}

// NewBackend constructs the configured completer, probes the model and wraps
// it with the circuit breaker (and the serializer when requested). On any
// failure it returns a nil Completer and the cause; callers run fallback-only.
func NewBackend(ctx context.Context, cfg BackendConfig, logger *zap.Logger) (Completer, error) {
	var base Completer
	switch cfg.Kind {
	case BackendOllama:
		c, err := NewOllamaCompleter(cfg.URL, cfg.Model, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		base = c
	case BackendOpenAI:
		base = NewOpenAICompleter(cfg.URL, cfg.APIKey, cfg.Model, cfg.Timeout)
	case BackendNone, "":
		return nil, ErrBackendUnavailable
	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.Kind)
	}

	if p, ok := base.(Prober); ok {
		probeTimeout := cfg.ProbeTimeout
		if probeTimeout <= 0 {
			probeTimeout = 10 * time.Second
		}
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()

		if err := p.Probe(probeCtx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
	}

	breaker := NewCircuitBreaker(cfg.BreakerFailures, 1, cfg.BreakerTimeout)
	breaker.OnStateChange = func(from, to CircuitState) {
		logger.Warn("model backend circuit changed",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}

	var completer Completer = WithBreaker(base, breaker)
	if cfg.Serialize {
		completer = Serialize(completer)
	}

	logger.Info("model backend ready",
		zap.String("backend", cfg.Kind),
		zap.String("model", cfg.Model),
		zap.Bool("serialized", cfg.Serialize),
	)
	return completer, nil
}
