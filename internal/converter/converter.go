// Package converter runs one complete SkyDemon to userpoints conversion per
// call, for callers that hold the document in a stream rather than a file.
package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/airfield-userpoints-etl/internal/adapter/skydemon"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/adapter/userpoints"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/observability"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/pipeline"
)

// ErrDraining is reported by CheckReadiness after Drain.
var ErrDraining = errors.New("converter is shutting down")

// Service converts documents with a shared transformer and settings.
type Service struct {
	transformer pipeline.Transformer
	logger      *slog.Logger
	metrics     *observability.Metrics
	batchSize   int
	policy      pipeline.ErrorPolicy
	draining    atomic.Bool
}

// New creates a Service.
func New(t pipeline.Transformer, logger *slog.Logger, metrics *observability.Metrics, batchSize int, policy pipeline.ErrorPolicy) *Service {
	return &Service{
		transformer: t,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
		policy:      policy,
	}
}

// Convert reads a SkyDemon document from src and writes the userpoints CSV,
// header included, to dst. On error dst may hold a partial CSV.
func (s *Service) Convert(ctx context.Context, src io.Reader, dst io.Writer) (pipeline.Summary, error) {
	reader := skydemon.NewReader(src, s.logger)
	writer := userpoints.NewWriter(dst)

	p := pipeline.New(reader, s.transformer, writer, s.logger, s.metrics, s.batchSize, s.policy)
	sum, err := p.Run(ctx)
	if err != nil {
		return sum, err
	}
	if err := writer.Close(); err != nil {
		return sum, fmt.Errorf("finish userpoints: %w", err)
	}
	return sum, nil
}

// Drain marks the service as shutting down. In-flight conversions finish.
func (s *Service) Drain() {
	s.draining.Store(true)
}

// CheckReadiness reports ready until Drain is called.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.draining.Load() {
		return ErrDraining
	}
	return nil
}
