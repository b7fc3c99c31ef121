package loader

import (
	"context"

	"github.com/madsbk/sqlbridge/internal/db"
	"github.com/madsbk/sqlbridge/internal/models"
)

// Store is the database surface a load drives. *db.Connector satisfies it.
type Store interface {
	CreateDatabase(ctx context.Context, name string, opts db.CreateDatabaseOptions) error
	CreateTable(ctx context.Context, table string, columnDefs []string, overwrite bool) error
	Columns(ctx context.Context, table string) ([]string, error)
	InsertRows(ctx context.Context, table string, columns []string, rows [][]interface{}) (int64, error)
	AddPrimaryKey(ctx context.Context, table, column string) error
	AddForeignKey(ctx context.Context, table, column, refTable, refColumn string) error
}

// AuditPublisher emits audit events for completed loads.
type AuditPublisher interface {
	Publish(ctx context.Context, event models.AuditEvent) error
}
