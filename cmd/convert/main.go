// Command convert reads a SkyDemon airfields export and writes the airfields
// as Little Navmap userpoints, to a CSV file or a Kafka topic.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	kafkaadapter "github.com/couchcryptid/airfield-userpoints-etl/internal/adapter/kafka"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/adapter/skydemon"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/adapter/userpoints"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/config"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/domain"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/observability"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/pipeline"
	"github.com/joho/godotenv"
)

// sink is a pipeline loader that must be closed to finish its output.
type sink interface {
	pipeline.BatchLoader
	Close() error
}

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := run(ctx, cfg, logger, metrics)

	if cfg.MetricsTextfile != "" {
		if err := observability.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("metrics textfile error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("conversion failed", "error", runErr)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (err error) {
	policy, err := pipeline.ParseErrorPolicy(cfg.ErrorPolicy)
	if err != nil {
		return err
	}

	reader, err := skydemon.Open(cfg.SourcePath, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := reader.Close(); cerr != nil {
			logger.Error("source close error", "error", cerr)
		}
	}()

	out, err := newSink(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s sink: %w", cfg.Sink, cerr)
		}
	}()

	defaults := domain.WaypointDefaults{
		Type:           cfg.WaypointType,
		Region:         cfg.WaypointRegion,
		ImportFilename: cfg.ImportFilename,
	}
	transformer := pipeline.NewTransformer(defaults, cfg.AxisCheck, logger)
	p := pipeline.New(reader, transformer, out, logger, metrics, cfg.BatchSize, policy)

	logger.Info("converting",
		"source", cfg.SourcePath,
		"sink", cfg.Sink,
		"output", outputName(cfg),
	)

	sum, err := p.Run(ctx)
	logger.Info("conversion summary",
		"read", sum.Read,
		"written", sum.Written,
		"skipped", sum.Skipped,
		"duration", sum.Duration,
	)
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("interrupted: %w", err)
	}
	return err
}

func newSink(cfg *config.Config, logger *slog.Logger) (sink, error) {
	if cfg.Sink == config.SinkKafka {
		return kafkaadapter.NewWriter(cfg, logger), nil
	}
	return userpoints.Create(cfg.OutputPath)
}

func outputName(cfg *config.Config) string {
	if cfg.Sink == config.SinkKafka {
		return cfg.KafkaSinkTopic
	}
	return cfg.OutputPath
}
