// Package generation implements self-consistency code generation: sample a
// language model at several temperatures, extract and score each candidate,
// keep the best one and fall back to a template when nothing survives.
package generation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/codewizard/api/internal/llm"
	"github.com/codewizard/api/internal/metrics"
	"github.com/codewizard/api/internal/models"
	"github.com/codewizard/api/internal/registry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/codewizard/api/internal/generation")

// DefaultSampleCount is the number of attempts per request
const DefaultSampleCount = 9

// Config tunes the orchestrator
type Config struct {
	SampleCount int
	Parallelism int
	Plan        SamplingPlan
	Metrics     *metrics.Metrics
}

// Service orchestrates one generation per call
type Service struct {
	registry  *registry.Registry
	completer llm.Completer
	extractor *Extractor
	sampler   *Sampler
	cfg       Config
	logger    *zap.Logger
}

// NewService creates the generator. A nil completer runs in fallback-only mode.
func NewService(reg *registry.Registry, completer llm.Completer, cfg Config, logger *zap.Logger) *Service {
	if cfg.SampleCount <= 0 {
		cfg.SampleCount = DefaultSampleCount
	}
	if len(cfg.Plan) == 0 {
		cfg.Plan = DefaultSamplingPlan
	}

	s := &Service{
		registry:  reg,
		completer: completer,
		extractor: NewExtractor(),
		cfg:       cfg,
		logger:    logger,
	}
	if completer != nil {
		s.sampler = NewSampler(completer, cfg.Plan, cfg.Parallelism, logger)
	}
	cfg.Metrics.SetBackendAvailable(s.IsBackendAvailable())
	return s
}

// Request is one generation call
type Request struct {
	Prompt      string
	Language    string
	SampleCount int

	// OnSample, when set, receives each attempt's outcome as it is evaluated
	OnSample func(models.SampleEvent)
}

// IsBackendAvailable reports whether real sampling is possible right now
func (s *Service) IsBackendAvailable() bool {
	return llm.IsAvailable(s.completer)
}

// SupportedLanguages lists the language ids in registry order
func (s *Service) SupportedLanguages() []string {
	return s.registry.IDs()
}

// Registry returns the language registry the service resolves against
func (s *Service) Registry() *registry.Registry {
	return s.registry
}

// Generate runs the sampling pipeline. It never fails: unknown languages are
// replaced by the default one and every internal failure degrades to the
// fallback skeleton, so the returned Code is never empty.
func (s *Service) Generate(ctx context.Context, req Request) (result *models.GenerationResult) {
	start := time.Now()

	lang, substituted := s.registry.Resolve(req.Language)
	if substituted {
		s.logger.Warn("Unsupported language, using default",
			zap.String("requested", req.Language),
			zap.String("language", lang.ID),
		)
	}

	n := req.SampleCount
	if n <= 0 {
		n = s.cfg.SampleCount
	}

	ctx, span := tracer.Start(ctx, "Generation.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("generation.language", lang.ID),
		attribute.Int("generation.samples", n),
	)

	available := s.IsBackendAvailable()
	s.cfg.Metrics.SetBackendAvailable(available)

	result = &models.GenerationResult{
		ID:               uuid.New(),
		Language:         lang.ID,
		Prompt:           req.Prompt,
		Timestamp:        start,
		ModelAvailable:   available,
		SamplesRequested: n,
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Generation panicked, using fallback",
				zap.String("language", lang.ID),
				zap.Any("panic", r),
			)
			span.RecordError(fmt.Errorf("generation panic: %v", r))
			s.fallback(result)
		}
		result.Duration = time.Since(start)
		span.SetAttributes(attribute.String("generation.status", string(result.Status)))
		s.cfg.Metrics.ObserveGeneration(lang.ID, string(result.Status), result.Duration)
	}()

	if !available {
		s.logger.Warn("Model backend unavailable, using fallback template", zap.String("language", lang.ID))
		s.fallback(result)
		return result
	}

	candidates := s.sample(ctx, span, lang, req, n, result)

	best, ok := Select(candidates)
	if !ok {
		s.logger.Warn("All samples rejected, using fallback template",
			zap.String("language", lang.ID),
			zap.Int("samples", n),
			zap.Int("completed", result.SamplesCompleted),
		)
		s.fallback(result)
		return result
	}

	result.Code = best.Code
	result.Status = models.StatusSuccess
	result.BestSample = best.Index + 1
	result.BestScore = best.Score

	s.logger.Info("Selected best candidate",
		zap.String("language", lang.ID),
		zap.Int("sample", best.Index+1),
		zap.Float64("score", best.Score),
		zap.Int("accepted", result.CandidatesAccepted),
		zap.Int("samples", n),
	)
	return result
}

// sample runs the attempts and evaluates each as it arrives. Candidates are
// stored by attempt index so selection does not depend on completion order.
func (s *Service) sample(ctx context.Context, span trace.Span, lang registry.Language, req Request, n int, result *models.GenerationResult) []Candidate {
	var mu sync.Mutex
	slots := make([]*Candidate, n)

	s.sampler.Sample(ctx, lang.SystemPrompt, req.Prompt, n, func(a Attempt) {
		event := models.SampleEvent{Sample: a.Index + 1, Temperature: a.Temperature}

		switch {
		case a.Err != nil:
			event.Error = a.Err.Error()
			s.cfg.Metrics.ObserveSample(metrics.SampleFailed, 0)
		default:
			code, err := s.extractor.Extract(ctx, a.Text, lang)
			if err != nil {
				s.logger.Debug("Sample rejected",
					zap.Int("sample", a.Index+1),
					zap.Error(err),
				)
				s.cfg.Metrics.ObserveSample(metrics.SampleRejected, 0)
				break
			}
			score := Score(code, req.Prompt)
			event.Accepted = true
			event.Score = score
			s.cfg.Metrics.ObserveSample(metrics.SampleAccepted, score)

			mu.Lock()
			slots[a.Index] = &Candidate{Code: code, Score: score, Index: a.Index}
			mu.Unlock()
		}

		mu.Lock()
		if a.Err == nil {
			result.SamplesCompleted++
		}
		if event.Accepted {
			result.CandidatesAccepted++
		}
		mu.Unlock()

		span.AddEvent("sample", trace.WithAttributes(
			attribute.Int("sample", event.Sample),
			attribute.Float64("temperature", float64(event.Temperature)),
			attribute.Bool("accepted", event.Accepted),
			attribute.Float64("score", event.Score),
		))
		if req.OnSample != nil {
			req.OnSample(event)
		}
	})

	candidates := make([]Candidate, 0, n)
	for _, c := range slots {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}
	return candidates
}

func (s *Service) fallback(result *models.GenerationResult) {
	result.Code = Fallback(result.Prompt, result.Language)
	result.Status = models.StatusFallback
	result.BestSample = 0
	result.BestScore = 0
}
