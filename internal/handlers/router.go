package handlers

import (
	"net/http"

	"github.com/codewizard/api/internal/metrics"
	"github.com/codewizard/api/internal/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// RouterConfig collects everything the HTTP layer serves
type RouterConfig struct {
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler // nil disables /metrics
	JWTSecret      string

	Generation *GenerationHandler
	Health     *HealthHandler
	Info       *InfoHandler
	History    *HistoryHandler
}

// NewRouter builds the gin engine with middleware and routes
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(cfg.Logger, cfg.Metrics))
	router.Use(middleware.CORS())
	router.Use(middleware.OptionalAuth(cfg.JWTSecret))

	// Swagger documentation
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if cfg.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	router.GET("/", cfg.Info.Root)
	router.GET("/health", cfg.Health.Health)
	router.GET("/health/deep", cfg.Health.DeepHealth)

	api := router.Group("/api")
	api.Use(middleware.RateLimitMiddleware(middleware.NewDefaultRateLimiter()))
	{
		api.GET("/languages", cfg.Info.Languages)
		api.GET("/languages/:id", cfg.Info.Language)
		api.GET("/guardrails", cfg.Info.Guardrails)
		api.GET("/logs", cfg.Info.Logs)
		api.GET("/history", middleware.Auth(cfg.JWTSecret), cfg.History.List)
	}

	// Generation routes - stricter rate limit
	gen := router.Group("/api/generate")
	gen.Use(middleware.RateLimitMiddleware(middleware.NewGenerationRateLimiter()))
	{
		gen.POST("", cfg.Generation.Generate)
		gen.GET("/stream", cfg.Generation.Stream)
	}

	return router
}
