// Package eventbus publishes generation lifecycle events to NATS
package eventbus

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/codewizard/api/internal/models"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Stream and subjects used by the service
const (
	StreamName         = "CODEWIZARD"
	SubjectAll         = "codewizard.>"
	SubjectGenerated   = "codewizard.generation.completed"
	defaultConnTimeout = 5 * time.Second
)

// GenerationCompleted is published after every generation
type GenerationCompleted struct {
	ID                 uuid.UUID `json:"id"`
	Language           string    `json:"language"`
	Status             string    `json:"status"`
	ModelAvailable     bool      `json:"model_available"`
	SamplesRequested   int       `json:"samples_requested"`
	CandidatesAccepted int       `json:"candidates_accepted"`
	BestScore          float64   `json:"best_score"`
	DurationMS         int64     `json:"duration_ms"`
	Cached             bool      `json:"cached"`
	Timestamp          time.Time `json:"timestamp"`
}

// EventFromResult summarizes a result; prompt and code are not included
func EventFromResult(res *models.GenerationResult, cached bool) GenerationCompleted {
	return GenerationCompleted{
		ID:                 res.ID,
		Language:           res.Language,
		Status:             string(res.Status),
		ModelAvailable:     res.ModelAvailable,
		SamplesRequested:   res.SamplesRequested,
		CandidatesAccepted: res.CandidatesAccepted,
		BestScore:          res.BestScore,
		DurationMS:         res.Duration.Milliseconds(),
		Cached:             cached,
		Timestamp:          time.Now().UTC(),
	}
}

// Bus wraps a NATS connection and, when the server supports it, JetStream
type Bus struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	logger *zap.Logger
}

// Connect dials NATS and ensures the event stream exists. JetStream is
// optional: without it events go out over core NATS.
func Connect(url string, logger *zap.Logger) (*Bus, error) {
	nc, err := nats.Connect(url,
		nats.Name("codewizard-api"),
		nats.Timeout(defaultConnTimeout),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, err
	}

	bus := &Bus{nc: nc, logger: logger}

	js, err := nc.JetStream()
	if err != nil {
		logger.Warn("JetStream unavailable, using core NATS", zap.Error(err))
		return bus, nil
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectAll},
		MaxAge:   7 * 24 * time.Hour,
	})
	if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		logger.Warn("could not provision event stream, using core NATS", zap.Error(err))
		return bus, nil
	}

	bus.js = js
	return bus, nil
}

// Publish sends v as JSON on subject. A nil bus drops the event.
func (b *Bus) Publish(subject string, v interface{}) error {
	if b == nil {
		return nil
	}
	if b.nc == nil || b.nc.IsClosed() {
		return nats.ErrConnectionClosed
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	if b.js != nil {
		_, err = b.js.Publish(subject, payload)
		return err
	}
	return b.nc.Publish(subject, payload)
}

// PublishCompleted emits a GenerationCompleted event
func (b *Bus) PublishCompleted(res *models.GenerationResult, cached bool) error {
	return b.Publish(SubjectGenerated, EventFromResult(res, cached))
}

// Subscribe registers a handler on subject over core NATS
func (b *Bus) Subscribe(subject string, handler nats.MsgHandler) (*nats.Subscription, error) {
	if b == nil || b.nc == nil {
		return nil, nats.ErrConnectionClosed
	}
	return b.nc.Subscribe(subject, handler)
}

// Healthy reports whether the connection is up
func (b *Bus) Healthy() bool {
	return b != nil && b.nc != nil && b.nc.IsConnected()
}

// Close drains and closes the connection
func (b *Bus) Close() {
	if b == nil || b.nc == nil {
		return
	}
	if err := b.nc.Drain(); err != nil {
		b.nc.Close()
	}
}
