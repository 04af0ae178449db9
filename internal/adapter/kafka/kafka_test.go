package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/couchcryptid/airfield-userpoints-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessageWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeMessageWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeMessageWriter) Close() error {
	f.closed = true
	return nil
}

func ptr[T any](v T) *T { return &v }

func testWriter(fake *fakeMessageWriter) *Writer {
	return &Writer{writer: fake, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestSerializeToMessage(t *testing.T) {
	wp := domain.Waypoint{
		Type:           "Airstrip",
		Name:           "Kolobrzeg",
		Ident:          "Kolobrzeg",
		Latitude:       52.5,
		Longitude:      17.75,
		Elevation:      ptr(5.0),
		Region:         ptr("EP"),
		ImportFilename: ptr("skydemon_PL_missing.airfields.xml"),
	}

	msg, err := serializeToMessage(wp)
	require.NoError(t, err)

	assert.Equal(t, []byte("Kolobrzeg"), msg.Key)
	assert.JSONEq(t, `{
		"type": "Airstrip",
		"name": "Kolobrzeg",
		"ident": "Kolobrzeg",
		"latitude": 52.5,
		"longitude": 17.75,
		"elevation": 5,
		"region": "EP",
		"import_filename": "skydemon_PL_missing.airfields.xml"
	}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "waypoint_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("Airstrip"), msg.Headers[0].Value)
	assert.Equal(t, "import_filename", msg.Headers[1].Key)
	assert.Equal(t, []byte("skydemon_PL_missing.airfields.xml"), msg.Headers[1].Value)
}

func TestSerializeToMessage_NoImportFilename(t *testing.T) {
	msg, err := serializeToMessage(domain.Waypoint{Type: "Airstrip", Name: "A", Ident: "A"})
	require.NoError(t, err)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "waypoint_type", msg.Headers[0].Key)
}

func TestSerializeToMessage_Unencodable(t *testing.T) {
	_, err := serializeToMessage(domain.Waypoint{Ident: "NaN", Latitude: math.NaN()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serialize waypoint")
}

func TestWriter_LoadBatch(t *testing.T) {
	fake := &fakeMessageWriter{}
	w := testWriter(fake)

	err := w.LoadBatch(context.Background(), []domain.Waypoint{
		{Type: "Airstrip", Name: "A", Ident: "A"},
		{Type: "Airstrip", Name: "B", Ident: "B"},
	})
	require.NoError(t, err)
	require.Len(t, fake.msgs, 2)
	assert.Equal(t, []byte("A"), fake.msgs[0].Key)
	assert.Equal(t, []byte("B"), fake.msgs[1].Key)

	require.NoError(t, w.Close())
	assert.True(t, fake.closed)
}

func TestWriter_LoadBatchEmpty(t *testing.T) {
	fake := &fakeMessageWriter{err: errors.New("must not be called")}
	require.NoError(t, testWriter(fake).LoadBatch(context.Background(), nil))
}

func TestWriter_LoadBatchError(t *testing.T) {
	fake := &fakeMessageWriter{err: errors.New("broker unavailable")}
	err := testWriter(fake).LoadBatch(context.Background(), []domain.Waypoint{{Ident: "A"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish waypoints")
	assert.Contains(t, err.Error(), "broker unavailable")
}
