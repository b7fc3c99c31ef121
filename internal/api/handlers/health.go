package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/madsbk/sqlbridge/internal/api/response"
	"github.com/madsbk/sqlbridge/internal/logging"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger   logging.Logger
	executor Executor
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(logger logging.Logger, executor Executor) *HealthHandler {
	return &HealthHandler{logger: logger, executor: executor}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}

// Health reports service liveness and database reachability. A failed ping
// degrades the status and the response code.
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "ok",
		Service:  "sqlbridge",
		Database: "ok",
	}

	if h.executor != nil {
		if err := h.executor.Ping(c.Request.Context()); err != nil {
			h.logger.Warn("health ping failed", zap.Error(err))
			resp.Status = "degraded"
			resp.Database = "unreachable"
			response.Error(c, 503, "database unreachable", resp)
			return
		}
	}

	response.OK(c, resp)
}
