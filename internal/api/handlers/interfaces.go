package handlers

import (
	"context"

	"github.com/madsbk/sqlbridge/internal/dataset"
	"github.com/madsbk/sqlbridge/internal/models"
)

// Executor is the connector surface the API drives. *db.Connector satisfies it.
type Executor interface {
	Query(ctx context.Context, sqlText string) (*models.ResultSet, error)
	Execute(ctx context.Context, script string) (int64, error)
	Tables(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, table string) ([]string, error)
	Ping(ctx context.Context) error
}

// DatasetLoader runs manifest loads. *loader.Service satisfies it.
type DatasetLoader interface {
	Load(ctx context.Context, manifest *dataset.Manifest) (*models.LoadReport, error)
}

// AuditPublisher records executed scripts on the audit stream.
// *audit.Publisher satisfies it; nil disables auditing.
type AuditPublisher interface {
	Publish(ctx context.Context, event models.AuditEvent) error
}
