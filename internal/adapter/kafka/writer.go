package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/airfield-userpoints-etl/internal/config"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Message header keys.
const (
	headerWaypointType   = "waypoint_type"
	headerImportFilename = "import_filename"
)

// messageWriter is the subset of *kafkago.Writer the sink uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer produces one message per waypoint to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes the waypoints in a single
// WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, waypoints []domain.Waypoint) error {
	if len(waypoints) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(waypoints))
	for i := range waypoints {
		msg, err := serializeToMessage(waypoints[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish waypoints: %w", err)
	}
	w.logger.Debug("waypoints published", "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Waypoint into a Kafka message keyed by ident.
func serializeToMessage(wp domain.Waypoint) (kafkago.Message, error) {
	data, err := json.Marshal(wp)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize waypoint %q: %w", wp.Ident, err)
	}
	headers := []kafkago.Header{
		{Key: headerWaypointType, Value: []byte(wp.Type)},
	}
	if wp.ImportFilename != nil {
		headers = append(headers, kafkago.Header{Key: headerImportFilename, Value: []byte(*wp.ImportFilename)})
	}
	return kafkago.Message{
		Key:     []byte(wp.Ident),
		Value:   data,
		Headers: headers,
	}, nil
}
