package handlers

import (
	"net/http"
	"strconv"

	"github.com/codewizard/api/internal/history"
	"github.com/codewizard/api/internal/middleware"
	"github.com/codewizard/api/internal/registry"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HistoryHandler lists stored generations
type HistoryHandler struct {
	store  history.Store
	logger *zap.Logger
}

// NewHistoryHandler creates a history handler; store may be nil
func NewHistoryHandler(store history.Store, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{store: store, logger: logger}
}

// HistoryResponse is a page of generation records
type HistoryResponse struct {
	Generations []history.Record `json:"generations"`
	Count       int              `json:"count"`
}

// List returns recent generations, newest first
// @Summary Generation history
// @Tags History
// @Produce json
// @Security Bearer
// @Param limit query int false "Maximum records (default 20, max 200)"
// @Param language query string false "Filter by language id"
// @Success 200 {object} HistoryResponse
// @Failure 401 {object} middleware.APIError
// @Failure 503 {object} middleware.APIError
// @Router /api/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	if h.store == nil {
		middleware.ServiceUnavailable(c, middleware.ErrCodeHistoryUnavailable, history.ErrUnavailable.Error())
		return
	}

	q := history.Query{Language: registry.Normalize(c.Query("language"))}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			middleware.BadRequest(c, "limit must be a non-negative integer")
			return
		}
		q.Limit = limit
	}

	records, err := h.store.Recent(c.Request.Context(), q)
	if err != nil {
		h.logger.Error("Failed to read generation history", zap.Error(err))
		middleware.InternalError(c, "could not read generation history")
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	c.JSON(http.StatusOK, HistoryResponse{Generations: records, Count: len(records)})
}
