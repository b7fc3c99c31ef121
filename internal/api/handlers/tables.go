package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/madsbk/sqlbridge/internal/api/response"
	"github.com/madsbk/sqlbridge/internal/db"
	"github.com/madsbk/sqlbridge/internal/logging"
	"github.com/madsbk/sqlbridge/internal/models"
)

// TablesHandler serves table metadata for the selected database.
type TablesHandler struct {
	logger   logging.Logger
	executor Executor
}

// NewTablesHandler creates a new tables handler.
func NewTablesHandler(logger logging.Logger, executor Executor) *TablesHandler {
	return &TablesHandler{
		logger:   logger.With(zap.String("handler", "tables")),
		executor: executor,
	}
}

// ListTables returns the table names of the selected database.
func (h *TablesHandler) ListTables(c *gin.Context) {
	tables, err := h.executor.Tables(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, gin.H{"tables": tables})
}

// GetColumns returns one table's column names in definition order.
func (h *TablesHandler) GetColumns(c *gin.Context) {
	table := c.Param("name")

	columns, err := h.executor.Columns(c.Request.Context(), table)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if len(columns) == 0 {
		response.NotFound(c, "table not found")
		return
	}

	response.OK(c, models.TableColumns{Table: table, Columns: columns})
}

func (h *TablesHandler) respondError(c *gin.Context, err error) {
	requestID := response.GetRequestID(c)

	var connErr *db.ConnectionError
	if errors.As(err, &connErr) {
		h.logger.Error("database unreachable", zap.Error(err), zap.String("request_id", requestID))
		response.ServiceUnavailable(c, "database unreachable")
		return
	}

	var queryErr *db.QueryError
	if errors.As(err, &queryErr) {
		h.logger.Warn("table lookup failed", zap.Error(err), zap.String("request_id", requestID))
		response.BadRequest(c, "table lookup failed", err.Error())
		return
	}

	h.logger.Error("unexpected error listing tables", zap.Error(err), zap.String("request_id", requestID))
	response.InternalServerError(c, "internal error")
}
