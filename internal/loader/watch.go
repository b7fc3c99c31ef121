package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/madsbk/sqlbridge/internal/dataset"
)

// ParseSchedule parses a standard five-field cron expression.
func ParseSchedule(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return schedule, nil
}

// Watch reloads the manifest on the cron schedule until ctx is cancelled.
// Load failures are logged and the loop keeps going.
func (s *Service) Watch(ctx context.Context, cronExpr string, manifest *dataset.Manifest) error {
	schedule, err := ParseSchedule(cronExpr)
	if err != nil {
		return err
	}

	s.logger.Info("watching dataset",
		zap.String("database", manifest.Database),
		zap.String("cron", cronExpr),
	)

	for {
		next := schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-timer.C:
			if _, err := s.Load(ctx, manifest); err != nil {
				s.logger.Error("scheduled reload failed",
					zap.String("database", manifest.Database),
					zap.Error(err),
				)
			}
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}
