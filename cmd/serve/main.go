// Command serve runs the conversion service: POST a SkyDemon export to
// /v1/convert and receive the userpoints CSV.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/airfield-userpoints-etl/internal/adapter/httpadapter"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/config"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/converter"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/domain"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/observability"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/pipeline"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	policy, err := pipeline.ParseErrorPolicy(cfg.ErrorPolicy)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Uploads have no file name of their own, so only an explicit
	// IMPORT_FILENAME fills that column.
	importFilename, _ := os.LookupEnv("IMPORT_FILENAME")
	defaults := domain.WaypointDefaults{
		Type:           cfg.WaypointType,
		Region:         cfg.WaypointRegion,
		ImportFilename: importFilename,
	}
	transformer := pipeline.NewTransformer(defaults, cfg.AxisCheck, logger)
	svc := converter.New(transformer, logger, metrics, cfg.BatchSize, policy)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, cfg.MaxUploadBytes, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	svc.Drain()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
