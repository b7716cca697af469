package handlers

import (
	"net/http"
	"time"

	"github.com/codewizard/api/internal/middleware"
	"github.com/codewizard/api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const streamWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamMessage is one frame sent over the generation stream
type StreamMessage struct {
	Type   string               `json:"type"` // "sample", "result" or "error"
	Sample *models.SampleEvent  `json:"sample,omitempty"`
	Result *GenerateResponse    `json:"result,omitempty"`
	Error  *middleware.APIError `json:"error,omitempty"`
}

// Stream upgrades to a WebSocket, reads one GenerateRequest and streams the
// outcome of every sample before the final result.
// @Summary Stream a generation
// @Description WebSocket. Send a GenerateRequest; receive "sample" frames then one "result" frame.
// @Tags Generation
// @Router /api/generate/stream [get]
func (h *GenerationHandler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	send := func(msg StreamMessage) error {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		return conn.WriteJSON(msg)
	}

	var req GenerateRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = send(StreamMessage{Type: "error", Error: &middleware.APIError{
			Code:    middleware.ErrCodeBadRequest,
			Message: "invalid request body",
			Details: err.Error(),
		}})
		return
	}

	vr, rerr := h.validate(req)
	if rerr != nil {
		_ = send(StreamMessage{Type: "error", Error: &middleware.APIError{Code: rerr.code, Message: rerr.message}})
		return
	}

	userID, _ := middleware.GetUserID(c)
	res, cached := h.run(c.Request.Context(), vr, userID, func(e models.SampleEvent) {
		if err := send(StreamMessage{Type: "sample", Sample: &e}); err != nil {
			h.logger.Debug("Dropping sample frame", zap.Error(err))
		}
	})

	resp := h.response(res, cached)
	if err := send(StreamMessage{Type: "result", Result: &resp}); err != nil {
		h.logger.Warn("Failed to send generation result", zap.Error(err))
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
		time.Now().Add(time.Second))
}
