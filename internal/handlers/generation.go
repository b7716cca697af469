package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/codewizard/api/internal/cache"
	"github.com/codewizard/api/internal/generation"
	"github.com/codewizard/api/internal/guardrails"
	"github.com/codewizard/api/internal/history"
	"github.com/codewizard/api/internal/middleware"
	"github.com/codewizard/api/internal/models"
	"github.com/codewizard/api/internal/registry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxSamples bounds the per-request sample count
const MaxSamples = 32

const persistTimeout = 5 * time.Second

// Generator is the code generation core
type Generator interface {
	Generate(ctx context.Context, req generation.Request) *models.GenerationResult
	IsBackendAvailable() bool
	Registry() *registry.Registry
}

// ResultCache stores successful results by request fingerprint
type ResultCache interface {
	Get(ctx context.Context, key string) (*models.GenerationResult, bool, error)
	Put(ctx context.Context, key string, res *models.GenerationResult) error
}

// EventPublisher announces finished generations
type EventPublisher interface {
	PublishCompleted(res *models.GenerationResult, cached bool) error
}

// GenerationOptions wires the optional integrations of the generation handler
type GenerationOptions struct {
	DefaultSamples int
	Cache          ResultCache
	History        history.Store
	Events         EventPublisher
}

// GenerationHandler handles code generation endpoints
type GenerationHandler struct {
	gen      Generator
	registry *registry.Registry
	opts     GenerationOptions
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(gen Generator, opts GenerationOptions, logger *zap.Logger) *GenerationHandler {
	if opts.DefaultSamples <= 0 {
		opts.DefaultSamples = generation.DefaultSampleCount
	}
	return &GenerationHandler{
		gen:      gen,
		registry: gen.Registry(),
		opts:     opts,
		logger:   logger,
	}
}

// GenerateRequest is the request body for code generation
type GenerateRequest struct {
	Prompt   string `json:"prompt" example:"Write a function to count vowels in a string"`
	Language string `json:"language" example:"python"`
	Samples  int    `json:"samples,omitempty" example:"9"`
}

// GenerationMetadata describes how a result was produced
type GenerationMetadata struct {
	ID                 uuid.UUID `json:"id"`
	SamplesRequested   int       `json:"samples_requested"`
	SamplesCompleted   int       `json:"samples_completed"`
	CandidatesAccepted int       `json:"candidates_accepted"`
	BestSample         int       `json:"best_sample,omitempty"`
	BestScore          float64   `json:"best_score"`
	Cached             bool      `json:"cached"`
}

// GenerateResponse is returned by POST /api/generate
type GenerateResponse struct {
	Code           string             `json:"code"`
	Language       string             `json:"language"`
	Prompt         string             `json:"prompt"`
	Timestamp      string             `json:"timestamp"`
	BotName        string             `json:"bot_name"`
	Status         string             `json:"status"`
	GenerationTime float64            `json:"generation_time"`
	ModelAvailable bool               `json:"model_available"`
	Metadata       GenerationMetadata `json:"metadata"`
}

// requestError is a validation failure ready to be sent to the client
type requestError struct {
	status  int
	code    string
	message string
}

func (e *requestError) Error() string { return e.message }

type validRequest struct {
	prompt   string
	language registry.Language
	samples  int
}

// validate applies the language check, the guardrails and the sample bounds
func (h *GenerationHandler) validate(req GenerateRequest) (validRequest, *requestError) {
	lang, ok := h.registry.Lookup(registry.Normalize(req.Language))
	if !ok {
		h.logger.Warn("Unsupported language requested", zap.String("language", req.Language))
		return validRequest{}, &requestError{
			status:  http.StatusBadRequest,
			code:    middleware.ErrCodeUnsupportedLanguage,
			message: "Unsupported language. Supported: " + strings.Join(h.registry.IDs(), ", "),
		}
	}

	if err := guardrails.ValidatePrompt(req.Prompt); err != nil {
		fields := []zap.Field{zap.String("reason", err.Error())}
		var v *guardrails.Violation
		if errors.As(err, &v) {
			fields = append(fields, zap.String("pattern", v.Pattern))
		}
		h.logger.Warn("Prompt rejected by guardrails", fields...)
		return validRequest{}, &requestError{
			status:  http.StatusBadRequest,
			code:    middleware.ErrCodeGuardrailViolation,
			message: err.Error(),
		}
	}

	samples := req.Samples
	if samples < 0 || samples > MaxSamples {
		return validRequest{}, &requestError{
			status:  http.StatusBadRequest,
			code:    middleware.ErrCodeBadRequest,
			message: fmt.Sprintf("samples must be between 1 and %d", MaxSamples),
		}
	}
	if samples == 0 {
		samples = h.opts.DefaultSamples
	}

	return validRequest{prompt: req.Prompt, language: lang, samples: samples}, nil
}

// run serves a validated request from the cache or the generator
func (h *GenerationHandler) run(ctx context.Context, vr validRequest, userID string, onSample func(models.SampleEvent)) (*models.GenerationResult, bool) {
	key := cache.Key(vr.language.ID, vr.samples, vr.prompt)
	if h.opts.Cache != nil {
		res, ok, err := h.opts.Cache.Get(ctx, key)
		if err != nil {
			h.logger.Warn("Result cache read failed", zap.Error(err))
		}
		if ok {
			h.logger.Info("Serving cached result", zap.String("language", vr.language.ID))
			h.publish(res, true)
			return res, true
		}
	}

	res := h.gen.Generate(ctx, generation.Request{
		Prompt:      vr.prompt,
		Language:    vr.language.ID,
		SampleCount: vr.samples,
		OnSample:    onSample,
	})

	h.persist(res, key, userID)
	h.publish(res, false)
	return res, false
}

// persist writes the cache entry and history record off the request path
func (h *GenerationHandler) persist(res *models.GenerationResult, key, userID string) {
	if h.opts.Cache == nil && h.opts.History == nil {
		return
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if h.opts.Cache != nil {
			if err := h.opts.Cache.Put(ctx, key, res); err != nil {
				h.logger.Warn("Result cache write failed", zap.Error(err))
			}
		}
		if h.opts.History != nil {
			if err := h.opts.History.Save(ctx, history.FromResult(res, userID)); err != nil {
				h.logger.Warn("Failed to save generation history", zap.String("id", res.ID.String()), zap.Error(err))
			}
		}
	}()
}

func (h *GenerationHandler) publish(res *models.GenerationResult, cached bool) {
	if h.opts.Events == nil {
		return
	}
	if err := h.opts.Events.PublishCompleted(res, cached); err != nil {
		h.logger.Warn("Failed to publish generation event", zap.Error(err))
	}
}

// Wait blocks until background persistence has finished
func (h *GenerationHandler) Wait() {
	h.wg.Wait()
}

func (h *GenerationHandler) response(res *models.GenerationResult, cached bool) GenerateResponse {
	botName := "CodeWizard"
	if lang, ok := h.registry.Lookup(res.Language); ok && lang.BotName != "" {
		botName = lang.BotName
	}
	return GenerateResponse{
		Code:           res.Code,
		Language:       res.Language,
		Prompt:         res.Prompt,
		Timestamp:      res.Timestamp.Format(time.RFC3339),
		BotName:        botName,
		Status:         string(res.Status),
		GenerationTime: res.Duration.Seconds(),
		ModelAvailable: res.ModelAvailable,
		Metadata: GenerationMetadata{
			ID:                 res.ID,
			SamplesRequested:   res.SamplesRequested,
			SamplesCompleted:   res.SamplesCompleted,
			CandidatesAccepted: res.CandidatesAccepted,
			BestSample:         res.BestSample,
			BestScore:          res.BestScore,
			Cached:             cached,
		},
	}
}

// Generate generates code for a prompt
// @Summary Generate code
// @Description Samples the model several times and returns the best-scoring candidate, or a template when none survives.
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Prompt and target language"
// @Success 200 {object} GenerateResponse
// @Failure 400 {object} middleware.APIError
// @Failure 429 {object} middleware.APIError
// @Router /api/generate [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondErrorWithDetails(c, http.StatusBadRequest, middleware.ErrCodeBadRequest, "invalid request body", err.Error())
		return
	}

	vr, rerr := h.validate(req)
	if rerr != nil {
		middleware.RespondError(c, rerr.status, rerr.code, rerr.message)
		return
	}

	h.logger.Info("New code generation request",
		zap.String("language", vr.language.ID),
		zap.Int("samples", vr.samples),
		zap.Int("prompt_length", len(vr.prompt)),
	)

	userID, _ := middleware.GetUserID(c)
	res, cached := h.run(c.Request.Context(), vr, userID, nil)

	c.JSON(http.StatusOK, h.response(res, cached))
}
