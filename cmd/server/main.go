package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docparser/internal/config"
	"docparser/internal/extract"
	"docparser/internal/handler"
	"docparser/internal/logging"
	"docparser/internal/port"
	"docparser/internal/reader"
	"docparser/internal/repository/postgres"
	"docparser/internal/router"
	"docparser/internal/service"
	s3storage "docparser/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	recordRepo := postgres.NewParseRecordRepo(db)

	// Initialize storage
	var storage port.ObjectStorage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		if cfg.Upload.ArchiveToS3 {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		logger.Warn("S3 client unavailable; s3:// sources disabled", zap.Error(err))
	} else {
		storage = s3Client
	}

	// Initialize services
	engine := extract.NewEngine(nil)
	parseSvc := service.NewParseService(engine, reader.New(), recordRepo, storage, &cfg.Upload, &cfg.S3, logger)

	// Initialize handlers
	parseH := handler.NewParseHandler(parseSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(logger, cfg.CORS.AllowedOrigins, parseH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
