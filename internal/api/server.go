package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/madsbk/sqlbridge/internal/api/handlers"
	"github.com/madsbk/sqlbridge/internal/api/middleware"
	"github.com/madsbk/sqlbridge/internal/db"
	"github.com/madsbk/sqlbridge/internal/loader"
	"github.com/madsbk/sqlbridge/internal/logging"
	"github.com/madsbk/sqlbridge/pkg/config"
	"github.com/madsbk/sqlbridge/platform/audit"
)

// Server orchestrates HTTP routing and dependencies for the API service.
type Server struct {
	config    config.App
	logger    logging.Logger
	router    *gin.Engine
	connector *db.Connector
	publisher *audit.Publisher
}

// NewServer wires the API dependencies together.
func NewServer() (*Server, error) {
	cfg := config.FromEnv()

	logger, err := logging.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	if cfg.EnvKey == "" {
		return nil, config.NewConfigError("DB_ENV_KEY is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	connector, err := db.ConnectFromEnvFile(ctx, cfg.EnvFile, cfg.EnvKey, cfg.Database)
	if err != nil {
		return nil, err
	}

	var publisher *audit.Publisher
	if cfg.KafkaBrokers != "" {
		zapLogger, _ := zap.NewProduction()
		publisher = audit.NewPublisher(strings.Split(cfg.KafkaBrokers, ","), cfg.AuditTopic, zapLogger)
	}

	server := &Server{
		config:    cfg,
		logger:    logger,
		connector: connector,
		publisher: publisher,
	}

	server.setupRouter()
	return server, nil
}

// setupRouter configures the gin router with middleware and routes.
func (s *Server) setupRouter() {
	router := gin.New()

	zapLogger := s.getZapLogger()

	// Recovery first so panics in later middleware are caught.
	router.Use(ginzap.RecoveryWithZap(zapLogger, true))
	router.Use(middleware.RequestID())
	router.Use(ginzap.Ginzap(zapLogger, time.RFC3339, true))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", handlers.NewHealthHandler(s.logger, s.connector).Health)

	loaderService := loader.NewService(s.connector, s.auditPublisher(), s.logger, ".")

	v1 := router.Group("/api/v1")
	{
		queryHandler := handlers.NewQueryHandler(s.logger, s.connector, s.handlerPublisher())
		v1.POST("/query", queryHandler.RunQuery)
		v1.POST("/exec", queryHandler.RunScript)

		tablesHandler := handlers.NewTablesHandler(s.logger, s.connector)
		v1.GET("/tables", tablesHandler.ListTables)
		v1.GET("/tables/:name/columns", tablesHandler.GetColumns)

		datasetHandler := handlers.NewDatasetHandler(s.logger, loaderService)
		v1.POST("/datasets/load", datasetHandler.LoadDataset)
	}

	s.router = router
}

// auditPublisher adapts the optional Kafka publisher to the loader interface;
// a nil interface disables auditing.
func (s *Server) auditPublisher() loader.AuditPublisher {
	if s.publisher == nil {
		return nil
	}
	return s.publisher
}

func (s *Server) handlerPublisher() handlers.AuditPublisher {
	if s.publisher == nil {
		return nil
	}
	return s.publisher
}

// getZapLogger builds the *zap.Logger the gin-contrib/zap middleware needs.
func (s *Server) getZapLogger() *zap.Logger {
	var zapLogger *zap.Logger
	if s.config.Environment == "production" {
		zapLogger, _ = zap.NewProduction()
	} else {
		zapLogger, _ = zap.NewDevelopment()
	}
	return zapLogger
}

// Serve starts the HTTP server with graceful shutdown support.
func (s *Server) Serve() error {
	addr := ":" + s.config.APIPort
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		s.logger.Info("starting API server",
			zap.String("address", addr),
			zap.String("environment", s.config.Environment),
			zap.String("database", s.connector.Database()),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-quit
	s.logger.Info("shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			s.logger.Error("failed to close audit publisher", zap.Error(err))
		}
	}

	if err := s.connector.Close(); err != nil {
		s.logger.Error("failed to close database connection", zap.Error(err))
	}

	if err := s.logger.Sync(); err != nil {
		// Sync on stdout/stderr fails on some platforms; not actionable.
		if !strings.Contains(err.Error(), "invalid argument") {
			return err
		}
	}

	s.logger.Info("server stopped")
	return nil
}
