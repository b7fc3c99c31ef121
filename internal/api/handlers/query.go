package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/madsbk/sqlbridge/internal/api/response"
	"github.com/madsbk/sqlbridge/internal/db"
	"github.com/madsbk/sqlbridge/internal/logging"
	"github.com/madsbk/sqlbridge/internal/models"
)

// QueryHandler handles SQL execution requests.
type QueryHandler struct {
	logger    logging.Logger
	executor  Executor
	publisher AuditPublisher
}

// NewQueryHandler creates a new query handler. A nil publisher disables
// audit events for executed scripts.
func NewQueryHandler(logger logging.Logger, executor Executor, publisher AuditPublisher) *QueryHandler {
	return &QueryHandler{
		logger:    logger.With(zap.String("handler", "query")),
		executor:  executor,
		publisher: publisher,
	}
}

// RunQuery executes a row-returning statement and renders the result set.
func (h *QueryHandler) RunQuery(c *gin.Context) {
	var req models.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid query request",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	result, err := h.executor.Query(c.Request.Context(), req.SQL)
	if err != nil {
		h.respondDBError(c, err, "query")
		return
	}

	h.logger.Info("query executed",
		zap.Int("rows", len(result.Rows)),
		zap.String("request_id", response.GetRequestID(c)),
	)

	response.OK(c, result)
}

// RunScript executes a script of semicolon-separated statements and reports
// the rows affected.
func (h *QueryHandler) RunScript(c *gin.Context) {
	var req models.ExecRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid exec request",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	statements := db.SplitStatements(req.SQL)
	affected, err := h.executor.Execute(c.Request.Context(), req.SQL)
	if err != nil {
		h.respondDBError(c, err, "exec")
		return
	}

	h.logger.Info("script executed",
		zap.Int("statements", len(statements)),
		zap.Int64("rows_affected", affected),
		zap.String("request_id", response.GetRequestID(c)),
	)

	h.publishExecAudit(c, affected)

	response.OK(c, models.ExecResult{
		Statements:   len(statements),
		RowsAffected: affected,
	})
}

// publishExecAudit records a successful script execution. Publish failures
// never fail the request.
func (h *QueryHandler) publishExecAudit(c *gin.Context, affected int64) {
	if h.publisher == nil {
		return
	}

	event := models.AuditEvent{
		ID:           uuid.New().String(),
		Kind:         models.AuditKindExec,
		RowsAffected: affected,
		Succeeded:    true,
		OccurredAt:   time.Now().UTC(),
	}

	if err := h.publisher.Publish(c.Request.Context(), event); err != nil {
		h.logger.Warn("failed to publish exec audit event",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
	}
}

// respondDBError maps connector errors onto HTTP statuses. Constraint
// violations surface as conflicts; everything else from the driver is the
// caller's SQL, so it comes back as a bad request.
func (h *QueryHandler) respondDBError(c *gin.Context, err error, op string) {
	requestID := response.GetRequestID(c)

	var connErr *db.ConnectionError
	if errors.As(err, &connErr) {
		h.logger.Error("database unreachable",
			zap.String("op", op),
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		response.ServiceUnavailable(c, "database unreachable")
		return
	}

	if db.IsDuplicateEntry(err) {
		h.logger.Warn("duplicate entry",
			zap.String("op", op),
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		response.Conflict(c, "duplicate entry", err.Error())
		return
	}

	var queryErr *db.QueryError
	if errors.As(err, &queryErr) {
		h.logger.Warn("statement failed",
			zap.String("op", op),
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		response.BadRequest(c, "statement failed", err.Error())
		return
	}

	h.logger.Error("unexpected database error",
		zap.String("op", op),
		zap.Error(err),
		zap.String("request_id", requestID),
	)
	response.InternalServerError(c, "internal error")
}
