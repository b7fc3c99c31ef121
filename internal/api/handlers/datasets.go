package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/madsbk/sqlbridge/internal/api/response"
	"github.com/madsbk/sqlbridge/internal/dataset"
	"github.com/madsbk/sqlbridge/internal/logging"
)

// DatasetHandler accepts dataset manifests and runs loads.
type DatasetHandler struct {
	logger logging.Logger
	loader DatasetLoader
}

// NewDatasetHandler creates a new dataset handler.
func NewDatasetHandler(logger logging.Logger, loader DatasetLoader) *DatasetHandler {
	return &DatasetHandler{
		logger: logger.With(zap.String("handler", "dataset")),
		loader: loader,
	}
}

// LoadDataset validates the manifest in the request body against the manifest
// schema and runs the load. The report is returned even when individual
// tables fail; only database-level failures abort.
func (h *DatasetHandler) LoadDataset(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "failed to read request body", err.Error())
		return
	}

	manifest, err := dataset.ParseManifest(raw)
	if err != nil {
		h.logger.Warn("invalid manifest",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.BadRequest(c, "invalid manifest", err.Error())
		return
	}

	report, err := h.loader.Load(c.Request.Context(), manifest)
	if err != nil {
		h.logger.Error("dataset load failed",
			zap.String("database", manifest.Database),
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.InternalServerError(c, "dataset load failed")
		return
	}

	h.logger.Info("dataset load finished",
		zap.String("load_id", report.ID),
		zap.String("database", report.Database),
		zap.Int64("rows_inserted", report.RowsInserted()),
		zap.Bool("failed", report.Failed()),
		zap.String("request_id", response.GetRequestID(c)),
	)

	response.Created(c, report, "dataset load finished")
}
