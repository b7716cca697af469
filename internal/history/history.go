// Package history persists finished generations so they can be listed later
package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/codewizard/api/internal/models"
	"github.com/google/uuid"
)

// ErrUnavailable is returned when no history store is configured
var ErrUnavailable = errors.New("generation history unavailable")

// DefaultLimit caps Recent when the caller passes no limit
const DefaultLimit = 20

// MaxLimit is the largest page Recent will return
const MaxLimit = 200

// Record is one stored generation
type Record struct {
	ID                 uuid.UUID `json:"id"`
	Prompt             string    `json:"prompt"`
	PromptHash         string    `json:"prompt_hash"`
	Language           string    `json:"language"`
	Status             string    `json:"status"`
	Code               string    `json:"code"`
	ModelAvailable     bool      `json:"model_available"`
	SamplesRequested   int       `json:"samples_requested"`
	SamplesCompleted   int       `json:"samples_completed"`
	CandidatesAccepted int       `json:"candidates_accepted"`
	BestScore          float64   `json:"best_score"`
	DurationMS         int64     `json:"duration_ms"`
	UserID             string    `json:"user_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// Query filters Recent
type Query struct {
	Limit    int
	Language string
}

// Store saves and lists generation records
type Store interface {
	Save(ctx context.Context, rec Record) error
	Recent(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// HashPrompt returns the hex sha256 of a prompt
func HashPrompt(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// FromResult builds a record for a finished generation
func FromResult(res *models.GenerationResult, userID string) Record {
	return Record{
		ID:                 res.ID,
		Prompt:             res.Prompt,
		PromptHash:         HashPrompt(res.Prompt),
		Language:           res.Language,
		Status:             string(res.Status),
		Code:               res.Code,
		ModelAvailable:     res.ModelAvailable,
		SamplesRequested:   res.SamplesRequested,
		SamplesCompleted:   res.SamplesCompleted,
		CandidatesAccepted: res.CandidatesAccepted,
		BestScore:          res.BestScore,
		DurationMS:         res.Duration.Milliseconds(),
		UserID:             userID,
		CreatedAt:          res.Timestamp.UTC(),
	}
}

func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}
