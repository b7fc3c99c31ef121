package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/madsbk/sqlbridge/internal/dataset"
	"github.com/madsbk/sqlbridge/internal/db"
	"github.com/madsbk/sqlbridge/internal/loader"
	"github.com/madsbk/sqlbridge/internal/logging"
	"github.com/madsbk/sqlbridge/pkg/config"
	"github.com/madsbk/sqlbridge/platform/audit"
)

var (
	manifestPath string
	envFile      string
	envKey       string
	cronExpr     string
)

var rootCmd = &cobra.Command{
	Use:   "loader",
	Short: "Load CSV datasets into MySQL from a manifest",
	Long: `loader connects to MySQL using a credential string read from an env file
and loads the databases, tables, keys and CSV data described by a manifest.`,
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Run a single dataset load and exit",
	RunE:  runLoad,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the dataset on a cron schedule until interrupted",
	RunE:  runWatch,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "", "path to the dataset manifest (required)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file holding the credential string (default from DB_ENV_FILE)")
	rootCmd.PersistentFlags().StringVar(&envKey, "env-key", "", "env file key holding the credential string (default from DB_ENV_KEY)")
	watchCmd.Flags().StringVar(&cronExpr, "cron", "", "cron schedule for reloads (default from RELOAD_CRON)")
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	svc, manifest, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := svc.Load(ctx, manifest)
	if err != nil {
		return err
	}
	if report.Failed() {
		return fmt.Errorf("load %s finished with failed tables", report.ID)
	}

	fmt.Printf("loaded %d rows into %s across %d tables\n",
		report.RowsInserted(), report.Database, len(report.Tables))
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	expr := cronExpr
	if expr == "" {
		expr = cfg.ReloadCron
	}
	if expr == "" {
		return config.NewConfigError("cron schedule is required: pass --cron or set RELOAD_CRON")
	}
	if _, err := loader.ParseSchedule(expr); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc, manifest, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.Watch(ctx, expr, manifest); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// setup wires config, logging, the connector, the optional audit publisher
// and the load service, and parses the manifest. CSV paths in the manifest
// resolve relative to the manifest file.
func setup(ctx context.Context) (*loader.Service, *dataset.Manifest, func(), error) {
	cfg := config.FromEnv()
	if envFile != "" {
		cfg.EnvFile = envFile
	}
	if envKey != "" {
		cfg.EnvKey = envKey
	}
	if cfg.EnvKey == "" {
		return nil, nil, nil, config.NewConfigError("credential key is required: pass --env-key or set DB_ENV_KEY")
	}
	if manifestPath == "" {
		return nil, nil, nil, config.NewConfigError("--manifest is required")
	}

	logger, err := logging.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initialize logger: %w", err)
	}

	manifest, err := dataset.LoadManifest(manifestPath)
	if err != nil {
		return nil, nil, nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	connector, err := db.ConnectFromEnvFile(connectCtx, cfg.EnvFile, cfg.EnvKey, "")
	if err != nil {
		return nil, nil, nil, err
	}

	var publisher loader.AuditPublisher
	var closePublisher func() error
	if cfg.KafkaBrokers != "" {
		zapLogger, _ := zap.NewProduction()
		kafkaPublisher := audit.NewPublisher(strings.Split(cfg.KafkaBrokers, ","), cfg.AuditTopic, zapLogger)
		publisher = kafkaPublisher
		closePublisher = kafkaPublisher.Close
	}

	svc := loader.NewService(connector, publisher, logger, filepath.Dir(manifestPath))

	cleanup := func() {
		if closePublisher != nil {
			if err := closePublisher(); err != nil {
				logger.Warn("failed to close audit publisher", zap.Error(err))
			}
		}
		if err := connector.Close(); err != nil {
			logger.Warn("failed to close connector", zap.Error(err))
		}
	}
	return svc, manifest, cleanup, nil
}
