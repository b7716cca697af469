package generation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/codewizard/api/internal/llm"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Completion parameters sent with every sampling attempt
const (
	MaxTokens     = 1500
	TopP          = 0.9
	RepeatPenalty = 1.15
)

// StopSequences keep the model from inventing further prompt/output pairs
var StopSequences = []string{"Prompt:", "\n\n\n\n"}

// SamplingPlan is the ordered set of temperatures cycled across attempts
type SamplingPlan []float32

// DefaultSamplingPlan is the nine-temperature reference plan
var DefaultSamplingPlan = SamplingPlan{0.1, 0.2, 0.3, 0.4, 0.5, 0.5, 0.7, 0.9, 0.9}

// Temperature returns the temperature for attempt i
func (p SamplingPlan) Temperature(i int) float32 {
	if len(p) == 0 {
		return DefaultSamplingPlan.Temperature(i)
	}
	return p[i%len(p)]
}

// BuildPrompt assembles the raw model input for one request
func BuildPrompt(system, prompt string) string {
	var b strings.Builder
	b.WriteString(system)
	b.WriteString("\n\nPrompt: ")
	b.WriteString(prompt)
	b.WriteString("\nOutput:")
	return b.String()
}

// Attempt is the raw outcome of one sampling call
type Attempt struct {
	Index       int
	Temperature float32
	Text        string
	Err         error
}

// Sampler issues the completions of one generation request
type Sampler struct {
	completer   llm.Completer
	plan        SamplingPlan
	parallelism int
	logger      *zap.Logger
}

// NewSampler creates a sampler. parallelism <= 1 samples sequentially.
func NewSampler(completer llm.Completer, plan SamplingPlan, parallelism int, logger *zap.Logger) *Sampler {
	if len(plan) == 0 {
		plan = DefaultSamplingPlan
	}
	if parallelism < 1 {
		parallelism = 1
	}
	return &Sampler{
		completer:   completer,
		plan:        plan,
		parallelism: parallelism,
		logger:      logger,
	}
}

// Sample runs n attempts and returns them ordered by index. A failed attempt
// carries its error and never stops the batch. Once ctx is done, attempts not
// yet started are skipped with ctx.Err(). onAttempt, when non-nil, is called
// once per attempt, never concurrently.
func (s *Sampler) Sample(ctx context.Context, system, prompt string, n int, onAttempt func(Attempt)) []Attempt {
	full := BuildPrompt(system, prompt)
	attempts := make([]Attempt, n)

	var mu sync.Mutex
	report := func(a Attempt) {
		mu.Lock()
		defer mu.Unlock()
		attempts[a.Index] = a
		if onAttempt != nil {
			onAttempt(a)
		}
	}

	if s.parallelism == 1 {
		for i := 0; i < n; i++ {
			report(s.attempt(ctx, full, i))
		}
		return attempts
	}

	var g errgroup.Group
	g.SetLimit(s.parallelism)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			report(Attempt{Index: i, Temperature: s.plan.Temperature(i), Err: err})
			continue
		}
		i := i
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("Sample evaluation panicked", zap.Int("sample", i+1), zap.Any("panic", r))
					mu.Lock()
					attempts[i] = Attempt{Index: i, Temperature: s.plan.Temperature(i), Err: fmt.Errorf("sample panicked: %v", r)}
					mu.Unlock()
				}
			}()
			report(s.attempt(ctx, full, i))
			return nil
		})
	}
	_ = g.Wait()

	return attempts
}

// attempt runs one completion. A panicking backend becomes the attempt's
// error so the remaining attempts still run.
func (s *Sampler) attempt(ctx context.Context, full string, i int) (a Attempt) {
	a = Attempt{Index: i, Temperature: s.plan.Temperature(i)}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Sample panicked", zap.Int("sample", i+1), zap.Any("panic", r))
			a.Text = ""
			a.Err = fmt.Errorf("sample panicked: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		a.Err = err
		return a
	}

	text, err := s.completer.Complete(ctx, llm.Request{
		Prompt:        full,
		MaxTokens:     MaxTokens,
		Temperature:   a.Temperature,
		TopP:          TopP,
		RepeatPenalty: RepeatPenalty,
		Stop:          StopSequences,
	})
	if err != nil {
		s.logger.Warn("Sample failed",
			zap.Int("sample", i+1),
			zap.Float32("temperature", a.Temperature),
			zap.Error(err),
		)
		a.Err = err
		return a
	}

	a.Text = strings.TrimSpace(text)
	return a
}
