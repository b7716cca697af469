// Command wizard runs Code Wizard generations from the terminal and inspects
// the local history and backing services.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/codewizard/api/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// cliOptions holds the persistent flags shared by every subcommand
type cliOptions struct {
	verbose     bool
	backend     string
	modelURL    string
	model       string
	timeout     time.Duration
	historyPath string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "wizard",
		Short: "Code Wizard - self-consistency code generation",
		Long: `wizard samples a local code model several times, filters and scores
the candidates, and prints the best one. When the model is unreachable it
prints a commented skeleton for the requested language instead.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.cfg = config.Load()
			if opts.backend != "" {
				opts.cfg.ModelBackend = opts.backend
			}
			if opts.modelURL != "" {
				opts.cfg.ModelURL = opts.modelURL
			}
			if opts.model != "" {
				opts.cfg.ModelName = opts.model
			}
			if opts.timeout > 0 {
				opts.cfg.ModelTimeout = opts.timeout
			}

			if !opts.verbose {
				opts.logger = zap.NewNop()
				return nil
			}
			zc := zap.NewDevelopmentConfig()
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			zc.OutputPaths = []string{"stderr"}
			logger, err := zc.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr at debug level")
	pf.StringVar(&opts.backend, "backend", "", "Model backend: ollama, openai or none (default $MODEL_BACKEND)")
	pf.StringVar(&opts.modelURL, "model-url", "", "Model server URL (default $MODEL_URL)")
	pf.StringVar(&opts.model, "model", "", "Model name (default $MODEL_NAME)")
	pf.DurationVar(&opts.timeout, "timeout", 0, "Per-attempt model timeout (default $MODEL_TIMEOUT)")
	pf.StringVar(&opts.historyPath, "history-db", defaultHistoryPath(), "SQLite file for local generation history")

	root.AddCommand(
		newGenerateCmd(opts),
		newLanguagesCmd(),
		newHistoryCmd(opts),
		newDoctorCmd(opts),
	)
	return root
}

func defaultHistoryPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "codewizard", "history.db")
	}
	return "codewizard_history.db"
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
