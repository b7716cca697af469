package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codewizard/api/internal/cache"
	"github.com/codewizard/api/internal/config"
	"github.com/codewizard/api/internal/database"
	"github.com/codewizard/api/internal/eventbus"
	"github.com/codewizard/api/internal/generation"
	"github.com/codewizard/api/internal/guardrails"
	"github.com/codewizard/api/internal/handlers"
	"github.com/codewizard/api/internal/history"
	"github.com/codewizard/api/internal/llm"
	"github.com/codewizard/api/internal/logging"
	"github.com/codewizard/api/internal/metrics"
	"github.com/codewizard/api/internal/registry"
	"github.com/codewizard/api/internal/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	_ "github.com/codewizard/api/docs" // Swagger docs
)

// @title Code Wizard API
// @version 2.0.0
// @description Self-consistency code generation: several sampled completions are filtered, scored and the best one returned.
// @host localhost:8000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	ctx := context.Background()
	started := time.Now()

	cfg := config.Load()

	logger, logFile, err := logging.New(cfg.LogDir)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Code Wizard API starting...",
		zap.String("version", handlers.ServiceVersion),
		zap.String("environment", cfg.Environment),
		zap.String("log_file", logFile),
	)

	reg, err := registry.Load()
	if err != nil {
		logger.Fatal("failed to load language registry", zap.Error(err))
	}

	logger.Info("Initializing telemetry...")
	shutdownTelemetry, err := telemetry.InitTracer(ctx, "codewizard-api", cfg.OTLPEndpoint)
	if err != nil {
		// Log but don't fail, as collector might be down
		logger.Error("failed to initialize telemetry", zap.Error(err))
	} else {
		defer func() {
			if err := shutdownTelemetry(context.Background()); err != nil {
				logger.Error("failed to shutdown telemetry", zap.Error(err))
			}
		}()
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	deps := map[string]handlers.Pinger{"database": nil, "redis": nil, "nats": nil}
	opts := handlers.GenerationOptions{DefaultSamples: cfg.SampleCount}

	if cfg.DatabaseURL != "" {
		logger.Info("Initializing database...")
		if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			logger.Error("failed to run migrations", zap.Error(err))
		}
		db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database, history disabled", zap.Error(err))
		} else {
			defer db.Close()
			opts.History = history.NewPostgresStore(db)
			deps["database"] = db
			logger.Info("connected to database")
		}
	}

	if cfg.RedisURL != "" {
		logger.Info("Initializing Redis...")
		rdb, err := database.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis, result cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			opts.Cache = cache.New(rdb.Client(), cfg.CacheTTL)
			deps["redis"] = rdb
			logger.Info("connected to redis")
		}
	}

	if cfg.NATSURL != "" {
		logger.Info("Initializing NATS...")
		bus, err := eventbus.Connect(cfg.NATSURL, logger)
		if err != nil {
			logger.Error("failed to connect to NATS", zap.Error(err))
		} else {
			defer bus.Close()
			opts.Events = bus
			deps["nats"] = handlers.PingFunc(func(context.Context) error {
				if !bus.Healthy() {
					return errors.New("disconnected")
				}
				return nil
			})
			logger.Info("connected to NATS")
		}
	}

	logger.Info("Initializing model backend...",
		zap.String("backend", cfg.ModelBackend),
		zap.String("url", cfg.ModelURL),
		zap.String("model", cfg.ModelName),
	)
	completer, err := llm.NewBackend(ctx, llm.BackendConfig{
		Kind:            cfg.ModelBackend,
		URL:             cfg.ModelURL,
		Model:           cfg.ModelName,
		APIKey:          cfg.ModelAPIKey,
		Timeout:         cfg.ModelTimeout,
		Serialize:       cfg.SerializeBackend,
		BreakerFailures: cfg.BreakerFailures,
		BreakerTimeout:  cfg.BreakerTimeout,
	}, logger)
	if err != nil {
		// We don't fatal here; every request is answered from the fallback templates
		logger.Error("model backend unavailable, running in fallback mode", zap.Error(err))
		completer = nil
	}

	svc := generation.NewService(reg, completer, generation.Config{
		SampleCount: cfg.SampleCount,
		Parallelism: cfg.SampleParallelism,
		Metrics:     m,
	}, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	generationHandler := handlers.NewGenerationHandler(svc, opts, logger)
	router := handlers.NewRouter(handlers.RouterConfig{
		Logger:         logger,
		Metrics:        m,
		MetricsHandler: promhttp.Handler(),
		JWTSecret:      cfg.JWTSecret,
		Generation:     generationHandler,
		Health: handlers.NewHealthHandler(svc, handlers.HealthOptions{
			Started:         started,
			ModelConfigured: cfg.ModelBackend != llm.BackendNone,
			Dependencies:    deps,
		}),
		Info:    handlers.NewInfoHandler(reg, cfg.LogDir, cfg.IndexPath, logger),
		History: handlers.NewHistoryHandler(opts.History, logger),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout(cfg),
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Code Wizard ready",
		zap.Strings("languages", reg.IDs()),
		zap.Bool("model_available", svc.IsBackendAvailable()),
		zap.Int("guardrails", len(guardrails.Patterns)),
		zap.String("addr", fmt.Sprintf("http://localhost:%s", cfg.Port)),
	)

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	generationHandler.Wait()
	if opts.History != nil {
		_ = opts.History.Close()
	}

	logger.Info("server exited gracefully")
}

// writeTimeout covers the longest sampling loop a request may ask for
func writeTimeout(cfg *config.Config) time.Duration {
	attempts := max(cfg.SampleCount, handlers.MaxSamples, 1)
	return cfg.ModelTimeout*time.Duration(attempts) + 30*time.Second
}
