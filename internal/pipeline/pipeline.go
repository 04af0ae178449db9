package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/airfield-userpoints-etl/internal/domain"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/observability"
)

// BatchExtractor reads up to batchSize raw airfields from the source. It
// returns io.EOF, possibly alongside a final partial batch, once the source
// is exhausted.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawAirfield, error)
}

// Transformer converts a raw airfield into a waypoint.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawAirfield) (domain.Waypoint, error)
}

// BatchLoader writes multiple waypoints to the destination, in order.
type BatchLoader interface {
	LoadBatch(ctx context.Context, waypoints []domain.Waypoint) error
}

// ErrorPolicy decides what a record-level transform failure does to the run.
type ErrorPolicy int

const (
	// SkipInvalid logs the failing airfield and continues with the next one.
	SkipInvalid ErrorPolicy = iota
	// AbortOnError stops the run at the first failing airfield.
	AbortOnError
)

// ParseErrorPolicy maps the ERROR_POLICY values "skip" and "abort".
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch s {
	case "skip":
		return SkipInvalid, nil
	case "abort":
		return AbortOnError, nil
	default:
		return 0, fmt.Errorf("unknown error policy %q", s)
	}
}

func (p ErrorPolicy) String() string {
	if p == AbortOnError {
		return "abort"
	}
	return "skip"
}

// Summary reports the outcome of one run.
type Summary struct {
	Read     int
	Written  int
	Skipped  int
	Duration time.Duration
}

// RecordError is returned by Run under AbortOnError. It identifies the
// source airfield and wraps the transform error.
type RecordError struct {
	Index int
	Line  int
	Name  string
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("airfield #%d %q (line %d): %v", e.Index, e.Name, e.Line, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Pipeline orchestrates the extract-transform-load loop.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	batchSize   int
	policy      ErrorPolicy
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int, policy ErrorPolicy) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
		policy:      policy,
	}
}

// Run drains the extractor, converting and loading airfields in source order.
// It stops early when ctx is cancelled, when extraction or loading fails, or
// under AbortOnError when an airfield does not convert.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	p.logger.Info("pipeline started", "batch_size", p.batchSize, "error_policy", p.policy.String())
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	start := clock.Now()
	var sum Summary
	finish := func(err error) (Summary, error) {
		sum.Duration = clock.Since(start)
		return sum, err
	}

	for {
		if err := ctx.Err(); err != nil {
			p.logger.Info("pipeline stopping", "reason", err)
			return finish(err)
		}

		done, err := p.processBatch(ctx, &sum)
		if err != nil {
			return finish(err)
		}
		if done {
			break
		}
	}

	p.logger.Info("pipeline finished",
		"read", sum.Read,
		"written", sum.Written,
		"skipped", sum.Skipped,
	)
	return finish(nil)
}

// processBatch runs one extract-transform-load cycle. done reports that the
// extractor is exhausted.
func (p *Pipeline) processBatch(ctx context.Context, sum *Summary) (done bool, err error) {
	batchStart := clock.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if errors.Is(err, io.EOF) {
		done = true
	} else if err != nil {
		return false, fmt.Errorf("extract batch: %w", err)
	}

	if len(rawBatch) == 0 {
		return done, nil
	}

	sum.Read += len(rawBatch)
	p.metrics.AirfieldsRead.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))

	if err := p.transformAndLoad(ctx, rawBatch, sum); err != nil {
		return false, err
	}

	p.metrics.BatchProcessingDuration.Observe(clock.Since(batchStart).Seconds())
	return done, nil
}

// transformAndLoad transforms each airfield in the batch and loads the
// successes as one batch.
func (p *Pipeline) transformAndLoad(ctx context.Context, rawBatch []domain.RawAirfield, sum *Summary) error {
	outBatch := make([]domain.Waypoint, 0, len(rawBatch))

	for _, raw := range rawBatch {
		wp, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.metrics.TransformErrors.WithLabelValues(errorKind(err)).Inc()
			if p.policy == AbortOnError {
				// Airfields ahead of the failing one still reach the sink.
				if lerr := p.load(ctx, outBatch, sum); lerr != nil {
					return lerr
				}
				return &RecordError{Index: raw.Index, Line: raw.Line, Name: raw.Name, Err: err}
			}
			p.logger.Warn("transform failed, skipping airfield", transformErrorAttrs(raw, err)...)
			sum.Skipped++
			continue
		}
		p.logger.Debug("waypoint converted",
			"name", wp.Name,
			"latitude", wp.Latitude,
			"longitude", wp.Longitude,
		)
		outBatch = append(outBatch, wp)
	}

	return p.load(ctx, outBatch, sum)
}

// load hands the converted waypoints to the loader and counts them.
func (p *Pipeline) load(ctx context.Context, outBatch []domain.Waypoint, sum *Summary) error {
	if len(outBatch) == 0 {
		return nil
	}

	if err := p.loader.LoadBatch(ctx, outBatch); err != nil {
		p.logger.Error("load batch failed", "error", err, "batch_size", len(outBatch))
		return fmt.Errorf("load batch: %w", err)
	}

	sum.Written += len(outBatch)
	p.metrics.WaypointsWritten.Add(float64(len(outBatch)))
	return nil
}

// transformErrorAttrs names the offending airfield and, for parse failures,
// the raw token and the subfield that failed.
func transformErrorAttrs(raw domain.RawAirfield, err error) []any {
	attrs := []any{
		"error", err,
		"index", raw.Index,
		"line", raw.Line,
		"name", raw.Name,
		"position", raw.Position,
	}
	var cerr *domain.CoordinateFormatError
	if errors.As(err, &cerr) {
		attrs = append(attrs, "token", cerr.Token, "field", cerr.Field)
	}
	return attrs
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedCoordinate):
		return observability.ErrorKindCoordinate
	case errors.Is(err, domain.ErrMalformedPosition):
		return observability.ErrorKindPosition
	case errors.Is(err, domain.ErrMissingAttribute):
		return observability.ErrorKindMissingAttribute
	default:
		return observability.ErrorKindOther
	}
}
