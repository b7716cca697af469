package models

import (
	"time"

	"github.com/google/uuid"
)

// GenerationStatus tells the caller whether the code came from the model
type GenerationStatus string

const (
	StatusSuccess  GenerationStatus = "success"
	StatusFallback GenerationStatus = "fallback"
)

// GenerationResult is the unit returned for one generation request.
// Code is never empty: when no sampled candidate survives, it holds the
// fallback skeleton and Status is StatusFallback.
type GenerationResult struct {
	ID             uuid.UUID        `json:"id"`
	Code           string           `json:"code"`
	Language       string           `json:"language"`
	Prompt         string           `json:"prompt"`
	Timestamp      time.Time        `json:"timestamp"`
	Status         GenerationStatus `json:"status"`
	ModelAvailable bool             `json:"model_available"`

	// Sampling metadata
	SamplesRequested   int           `json:"samples_requested"`
	SamplesCompleted   int           `json:"samples_completed"`
	CandidatesAccepted int           `json:"candidates_accepted"`
	BestSample         int           `json:"best_sample,omitempty"` // 1-based attempt number
	BestScore          float64       `json:"best_score"`
	Duration           time.Duration `json:"duration_ns"`
}

// SampleEvent reports the outcome of one sampling attempt as it is evaluated
type SampleEvent struct {
	Sample      int     `json:"sample"` // 1-based attempt number
	Temperature float32 `json:"temperature"`
	Accepted    bool    `json:"accepted"`
	Score       float64 `json:"score,omitempty"`
	Error       string  `json:"error,omitempty"`
}
