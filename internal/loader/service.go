package loader

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/madsbk/sqlbridge/internal/dataset"
	"github.com/madsbk/sqlbridge/internal/db"
	"github.com/madsbk/sqlbridge/internal/logging"
	"github.com/madsbk/sqlbridge/internal/models"
	"github.com/madsbk/sqlbridge/pkg/clock"
)

// Service loads datasets described by a manifest into MySQL.
type Service struct {
	store     Store
	publisher AuditPublisher
	logger    logging.Logger
	clock     clock.Clock

	// baseDir resolves relative CSV paths in manifests.
	baseDir string
}

// NewService creates a loader service with the real clock.
func NewService(store Store, publisher AuditPublisher, logger logging.Logger, baseDir string) *Service {
	return NewServiceWithClock(store, publisher, logger, baseDir, clock.RealClock{})
}

// NewServiceWithClock creates a loader service with an injected clock.
func NewServiceWithClock(store Store, publisher AuditPublisher, logger logging.Logger, baseDir string, clk clock.Clock) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger.With(zap.String("service", "loader")),
		clock:     clk,
		baseDir:   baseDir,
	}
}

// Load ensures the manifest's database and tables exist, fills tables from
// their CSV files, then wires primary and foreign keys. Per-table failures
// are recorded in the report; only a failure to create the database aborts
// the whole load.
func (s *Service) Load(ctx context.Context, manifest *dataset.Manifest) (*models.LoadReport, error) {
	report := &models.LoadReport{
		ID:        uuid.New().String(),
		Database:  manifest.Database,
		StartedAt: s.clock.Now().UTC(),
		Tables:    make([]models.TableLoad, 0, len(manifest.Tables)),
	}

	err := s.store.CreateDatabase(ctx, manifest.Database, db.CreateDatabaseOptions{
		Use:       true,
		Overwrite: manifest.Overwrite,
	})
	if err != nil {
		return nil, fmt.Errorf("create database %s: %w", manifest.Database, err)
	}

	// All tables are created before any keys so foreign keys can reference
	// tables that appear later in the manifest.
	for _, spec := range manifest.Tables {
		report.Tables = append(report.Tables, s.loadTable(ctx, spec, manifest.Overwrite))
	}

	for i, spec := range manifest.Tables {
		if report.Tables[i].Status == models.TableLoadStatusFailed {
			continue
		}
		if err := s.wireKeys(ctx, spec); err != nil {
			report.Tables[i].Status = models.TableLoadStatusFailed
			report.Tables[i].Error = err.Error()
		}
	}

	report.FinishedAt = s.clock.Now().UTC()

	s.logger.Info("dataset load finished",
		zap.String("load_id", report.ID),
		zap.String("database", report.Database),
		zap.Int64("rows_inserted", report.RowsInserted()),
		zap.Bool("failed", report.Failed()),
	)

	s.publishAudit(ctx, manifest, report)

	return report, nil
}

func (s *Service) loadTable(ctx context.Context, spec dataset.TableSpec, overwrite bool) models.TableLoad {
	result := models.TableLoad{Table: spec.Name}

	if err := s.store.CreateTable(ctx, spec.Name, spec.Columns, overwrite); err != nil {
		result.Status = models.TableLoadStatusFailed
		result.Error = err.Error()
		return result
	}

	if spec.Data == "" {
		result.Status = models.TableLoadStatusEmpty
		return result
	}

	path := spec.Data
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.baseDir, path)
	}

	csvColumns, rows, err := dataset.ReadCSV(path)
	if err != nil {
		result.Status = models.TableLoadStatusFailed
		result.Error = err.Error()
		return result
	}

	// Insert in the table's own column order; the CSV header is the fallback
	// when the table cannot be described.
	columns, err := s.store.Columns(ctx, spec.Name)
	if err != nil || len(columns) == 0 {
		columns = csvColumns
	}

	s.logger.Debug("mapping csv columns",
		zap.String("table", spec.Name),
		zap.Strings("csv_columns", csvColumns),
		zap.Strings("table_columns", columns),
	)

	inserted, err := s.store.InsertRows(ctx, spec.Name, columns, dataset.RowsToArgs(rows))
	if err != nil {
		result.Status = models.TableLoadStatusFailed
		result.Error = err.Error()
		result.RowsInserted = inserted
		return result
	}

	result.RowsInserted = inserted
	if inserted == 0 {
		result.Status = models.TableLoadStatusEmpty
	} else {
		result.Status = models.TableLoadStatusLoaded
	}
	return result
}

func (s *Service) wireKeys(ctx context.Context, spec dataset.TableSpec) error {
	if spec.PrimaryKey != "" {
		if err := s.store.AddPrimaryKey(ctx, spec.Name, spec.PrimaryKey); err != nil {
			// Re-running a load hits ER_MULTIPLE_PRI_KEY on tables that already
			// have their key; that is not a load failure.
			if !db.IsDuplicateKeyDefinition(err) {
				return fmt.Errorf("add primary key on %s: %w", spec.Name, err)
			}
			s.logger.Debug("primary key already defined", zap.String("table", spec.Name))
		}
	}

	for _, fk := range spec.ForeignKeys {
		if err := s.store.AddForeignKey(ctx, spec.Name, fk.Column, fk.References.Table, fk.References.Column); err != nil {
			return fmt.Errorf("add foreign key %s.%s: %w", spec.Name, fk.Column, err)
		}
	}
	return nil
}

func (s *Service) publishAudit(ctx context.Context, manifest *dataset.Manifest, report *models.LoadReport) {
	if s.publisher == nil {
		return
	}

	tables := make([]string, 0, len(manifest.Tables))
	for _, spec := range manifest.Tables {
		tables = append(tables, spec.Name)
	}

	event := models.AuditEvent{
		ID:           report.ID,
		Kind:         models.AuditKindLoad,
		Database:     report.Database,
		Tables:       tables,
		RowsAffected: report.RowsInserted(),
		Succeeded:    !report.Failed(),
		OccurredAt:   report.FinishedAt,
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish audit event",
			zap.String("load_id", report.ID),
			zap.Error(err),
		)
	}
}
