package config

import (
	"testing"
	"time"

	"github.com/couchcryptid/airfield-userpoints-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "skydemon_PL_missing.airfields.xml", cfg.SourcePath)
	assert.Equal(t, "userpoints.csv", cfg.OutputPath)
	assert.Equal(t, SinkCSV, cfg.Sink)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "airfield-userpoints", cfg.KafkaSinkTopic)
	assert.Equal(t, ErrorPolicySkip, cfg.ErrorPolicy)
	assert.False(t, cfg.AxisCheck)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, domain.DefaultWaypointType, cfg.WaypointType)
	assert.Equal(t, domain.DefaultRegion, cfg.WaypointRegion)
	assert.Equal(t, "skydemon_PL_missing.airfields.xml", cfg.ImportFilename)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsTextfile)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("SOURCE_PATH", "/data/in/skydemon_DE.airfields.xml")
	t.Setenv("OUTPUT_PATH", "/data/out/de.csv")
	t.Setenv("SINK", "kafka")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("ERROR_POLICY", "abort")
	t.Setenv("AXIS_CHECK", "true")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("WAYPOINT_TYPE", "Airport")
	t.Setenv("WAYPOINT_REGION", "ED")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("METRICS_TEXTFILE", "/var/lib/node_exporter/airfield_etl.prom")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/in/skydemon_DE.airfields.xml", cfg.SourcePath)
	assert.Equal(t, "/data/out/de.csv", cfg.OutputPath)
	assert.Equal(t, SinkKafka, cfg.Sink)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, ErrorPolicyAbort, cfg.ErrorPolicy)
	assert.True(t, cfg.AxisCheck)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, "Airport", cfg.WaypointType)
	assert.Equal(t, "ED", cfg.WaypointRegion)
	assert.Equal(t, "skydemon_DE.airfields.xml", cfg.ImportFilename)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "/var/lib/node_exporter/airfield_etl.prom", cfg.MetricsTextfile)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
}

func TestLoad_EmptyOptionalColumns(t *testing.T) {
	t.Setenv("WAYPOINT_REGION", "")
	t.Setenv("IMPORT_FILENAME", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.WaypointRegion)
	assert.Empty(t, cfg.ImportFilename)
}

func TestLoad_ExplicitImportFilename(t *testing.T) {
	t.Setenv("IMPORT_FILENAME", "manual.xml")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "manual.xml", cfg.ImportFilename)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr string
	}{
		{"SINK", "s3", "SINK"},
		{"ERROR_POLICY", "retry", "ERROR_POLICY"},
		{"AXIS_CHECK", "sometimes", "AXIS_CHECK"},
		{"BATCH_SIZE", "0", "BATCH_SIZE"},
		{"BATCH_SIZE", "9999", "BATCH_SIZE"},
		{"SHUTDOWN_TIMEOUT", "not-a-duration", "SHUTDOWN_TIMEOUT"},
		{"SHUTDOWN_TIMEOUT", "-1s", "SHUTDOWN_TIMEOUT"},
		{"MAX_UPLOAD_BYTES", "0", "MAX_UPLOAD_BYTES"},
		{"MAX_UPLOAD_BYTES", "lots", "MAX_UPLOAD_BYTES"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
