package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/codewizard/api/internal/generation"
	"github.com/codewizard/api/internal/guardrails"
	"github.com/codewizard/api/internal/history"
	"github.com/codewizard/api/internal/llm"
	"github.com/codewizard/api/internal/models"
	"github.com/codewizard/api/internal/registry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newGenerateCmd(opts *cliOptions) *cobra.Command {
	var (
		language    string
		samples     int
		parallelism int
		asJSON      bool
		noHistory   bool
		progress    bool
	)

	cmd := &cobra.Command{
		Use:   "generate <prompt...>",
		Short: "Generate code for a prompt",
		Long: `Generate samples the configured model and prints the best candidate.

Examples:
  wizard generate "count vowels in a string"
  wizard generate -l sql --samples 3 "top five customers by revenue"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg, err := registry.Load()
			if err != nil {
				return err
			}
			lang, ok := reg.Lookup(registry.Normalize(language))
			if !ok {
				return fmt.Errorf("unsupported language %q (supported: %s)", language, strings.Join(reg.IDs(), ", "))
			}

			prompt := strings.Join(args, " ")
			if err := guardrails.ValidatePrompt(prompt); err != nil {
				return err
			}

			completer := newCompleter(ctx, opts)

			if parallelism <= 0 {
				parallelism = opts.cfg.SampleParallelism
			}
			svc := generation.NewService(reg, completer, generation.Config{
				SampleCount: opts.cfg.SampleCount,
				Parallelism: parallelism,
			}, opts.logger)

			req := generation.Request{Prompt: prompt, Language: lang.ID, SampleCount: samples}
			if progress {
				errOut := cmd.ErrOrStderr()
				req.OnSample = func(e models.SampleEvent) {
					switch {
					case e.Error != "":
						fmt.Fprintf(errOut, "sample %d (t=%.1f): failed: %s\n", e.Sample, e.Temperature, e.Error)
					case e.Accepted:
						fmt.Fprintf(errOut, "sample %d (t=%.1f): score %.1f\n", e.Sample, e.Temperature, e.Score)
					default:
						fmt.Fprintf(errOut, "sample %d (t=%.1f): rejected\n", e.Sample, e.Temperature)
					}
				}
			}

			res := svc.Generate(ctx, req)

			if !noHistory {
				if err := saveHistory(context.Background(), opts.historyPath, res); err != nil {
					opts.logger.Warn("Failed to save generation history", zap.Error(err))
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			fmt.Fprintln(out, res.Code)
			if res.Status == models.StatusFallback {
				fmt.Fprintf(cmd.ErrOrStderr(), "\n%s: no usable candidate, showing %s template\n", lang.BotName, lang.Name)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "\n%s: sample %d of %d, score %.1f, %.1fs\n",
					lang.BotName, res.BestSample, res.SamplesRequested, res.BestScore, res.Duration.Seconds())
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&language, "language", "l", "python", "Target language id")
	f.IntVarP(&samples, "samples", "n", 0, "Number of sampling attempts (default $SAMPLE_COUNT)")
	f.IntVar(&parallelism, "parallel", 0, "Concurrent attempts (default $SAMPLE_PARALLELISM)")
	f.BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	f.BoolVar(&noHistory, "no-history", false, "Do not record the generation locally")
	f.BoolVar(&progress, "progress", false, "Report each sample on stderr")
	return cmd
}

// newCompleter builds the configured backend, or nil for fallback-only runs
func newCompleter(ctx context.Context, opts *cliOptions) llm.Completer {
	completer, err := llm.NewBackend(ctx, llm.BackendConfig{
		Kind:            opts.cfg.ModelBackend,
		URL:             opts.cfg.ModelURL,
		Model:           opts.cfg.ModelName,
		APIKey:          opts.cfg.ModelAPIKey,
		Timeout:         opts.cfg.ModelTimeout,
		Serialize:       opts.cfg.SerializeBackend,
		BreakerFailures: opts.cfg.BreakerFailures,
		BreakerTimeout:  opts.cfg.BreakerTimeout,
	}, opts.logger)
	if err != nil {
		opts.logger.Warn("Model backend unavailable, using fallback templates", zap.Error(err))
		return nil
	}
	return completer
}

func saveHistory(ctx context.Context, path string, res *models.GenerationResult) error {
	store, err := history.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(ctx, history.FromResult(res, ""))
}
