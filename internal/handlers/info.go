package handlers

import (
	"net/http"
	"os"

	"github.com/codewizard/api/internal/guardrails"
	"github.com/codewizard/api/internal/logging"
	"github.com/codewizard/api/internal/middleware"
	"github.com/codewizard/api/internal/registry"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const recentLogLimit = 10

// InfoHandler serves static information about the service
type InfoHandler struct {
	registry  *registry.Registry
	logDir    string
	indexPath string
	logger    *zap.Logger
}

// NewInfoHandler creates a new info handler
func NewInfoHandler(reg *registry.Registry, logDir, indexPath string, logger *zap.Logger) *InfoHandler {
	return &InfoHandler{registry: reg, logDir: logDir, indexPath: indexPath, logger: logger}
}

// LanguagesResponse lists the supported languages
type LanguagesResponse struct {
	Languages []string          `json:"languages"`
	Bots      map[string]string `json:"bots"`
	Count     int               `json:"count"`
}

// LanguageResponse describes one language
type LanguageResponse struct {
	registry.Language
	Description string `json:"description"`
}

// GuardrailsResponse describes the prompt checks
type GuardrailsResponse struct {
	Guardrails            []string `json:"guardrails"`
	MaxPromptLength       int      `json:"max_prompt_length"`
	SecurityPatternsCount int      `json:"security_patterns_count"`
}

// LogsResponse lists recent log files
type LogsResponse struct {
	Logs  []string `json:"logs"`
	Total int      `json:"total"`
}

// Root serves the browser frontend when present, otherwise a JSON banner
func (h *InfoHandler) Root(c *gin.Context) {
	if h.indexPath != "" {
		if st, err := os.Stat(h.indexPath); err == nil && !st.IsDir() {
			c.File(h.indexPath)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"service": ServiceName,
		"version": ServiceVersion,
		"docs":    "/docs/index.html",
	})
}

// Languages lists supported languages and their bot names
// @Summary Supported languages
// @Tags Info
// @Produce json
// @Success 200 {object} LanguagesResponse
// @Router /api/languages [get]
func (h *InfoHandler) Languages(c *gin.Context) {
	ids := h.registry.IDs()
	c.JSON(http.StatusOK, LanguagesResponse{
		Languages: ids,
		Bots:      h.registry.BotNames(),
		Count:     len(ids),
	})
}

// Language describes one supported language
// @Summary Language details
// @Tags Info
// @Produce json
// @Param id path string true "Language id"
// @Success 200 {object} LanguageResponse
// @Failure 404 {object} middleware.APIError
// @Router /api/languages/{id} [get]
func (h *InfoHandler) Language(c *gin.Context) {
	id := c.Param("id")
	lang, ok := h.registry.Lookup(registry.Normalize(id))
	if !ok {
		middleware.NotFound(c, h.registry.Describe(id))
		return
	}
	c.JSON(http.StatusOK, LanguageResponse{Language: lang, Description: h.registry.Describe(id)})
}

// Guardrails lists the applied prompt guardrails
// @Summary Prompt guardrails
// @Tags Info
// @Produce json
// @Success 200 {object} GuardrailsResponse
// @Router /api/guardrails [get]
func (h *InfoHandler) Guardrails(c *gin.Context) {
	c.JSON(http.StatusOK, GuardrailsResponse{
		Guardrails:            guardrails.Descriptions,
		MaxPromptLength:       guardrails.MaxPromptLength,
		SecurityPatternsCount: len(guardrails.Patterns),
	})
}

// Logs lists the most recent log files
// @Summary Recent log files
// @Tags Info
// @Produce json
// @Success 200 {object} LogsResponse
// @Router /api/logs [get]
func (h *InfoHandler) Logs(c *gin.Context) {
	names, total, err := logging.ListFiles(h.logDir, recentLogLimit)
	if err != nil {
		h.logger.Error("Failed to list log files", zap.Error(err))
		middleware.InternalError(c, "could not list log files")
		return
	}
	c.JSON(http.StatusOK, LogsResponse{Logs: names, Total: total})
}
