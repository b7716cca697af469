package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the API service
type Config struct {
	// Server
	Port        string
	Environment string
	LogDir      string
	IndexPath   string

	// Model backend
	ModelBackend     string // "ollama", "openai" or "none"
	ModelURL         string
	ModelName        string
	ModelAPIKey      string
	ModelTimeout     time.Duration
	SerializeBackend bool
	BreakerFailures  int
	BreakerTimeout   time.Duration

	// Sampling
	SampleCount       int
	SampleParallelism int

	// Optional infrastructure; empty disables the integration
	DatabaseURL  string
	RedisURL     string
	CacheTTL     time.Duration
	NATSURL      string
	OTLPEndpoint string

	// Security
	JWTSecret string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8000"),
		Environment:       getEnv("GO_ENV", "development"),
		LogDir:            getEnv("LOG_DIR", "logs"),
		IndexPath:         getEnv("INDEX_PATH", "static/index.html"),
		ModelBackend:      strings.ToLower(getEnv("MODEL_BACKEND", "ollama")),
		ModelURL:          getEnv("MODEL_URL", "http://localhost:11434"),
		ModelName:         getEnv("MODEL_NAME", "qwen2.5-coder:7b-instruct-q5_K_M"),
		ModelAPIKey:       getEnv("MODEL_API_KEY", ""),
		ModelTimeout:      getEnvDuration("MODEL_TIMEOUT", 2*time.Minute),
		SerializeBackend:  getEnvBool("SERIALIZE_BACKEND", true),
		BreakerFailures:   getEnvInt("BREAKER_FAILURES", 5),
		BreakerTimeout:    getEnvDuration("BREAKER_TIMEOUT", 30*time.Second),
		SampleCount:       getEnvInt("SAMPLE_COUNT", 9),
		SampleParallelism: getEnvInt("SAMPLE_PARALLELISM", 1),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		RedisURL:          getEnv("REDIS_URL", ""),
		CacheTTL:          getEnvDuration("CACHE_TTL", 10*time.Minute),
		NATSURL:           getEnv("NATS_URL", ""),
		OTLPEndpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
	}
}

// IsProduction reports whether the service runs in release mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
