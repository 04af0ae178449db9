package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/airfield-userpoints-etl/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Sink kinds.
const (
	SinkCSV   = "csv"
	SinkKafka = "kafka"
)

// Error policies.
const (
	ErrorPolicySkip  = "skip"
	ErrorPolicyAbort = "abort"
)

const defaultMaxUploadBytes = 10 << 20

// Config holds all service settings, populated from environment variables.
type Config struct {
	SourcePath string
	OutputPath string
	Sink       string

	KafkaBrokers   []string
	KafkaSinkTopic string

	ErrorPolicy string
	AxisCheck   bool
	BatchSize   int

	// Fixed userpoint columns.
	WaypointType   string
	WaypointRegion string
	ImportFilename string

	LogLevel        string
	LogFormat       string
	MetricsTextfile string

	// Conversion service settings.
	HTTPAddr        string
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	axisCheck, err := parseBool("AXIS_CHECK", false)
	if err != nil {
		return nil, err
	}

	maxUpload, err := parseMaxUploadBytes()
	if err != nil {
		return nil, err
	}

	sourcePath := sharedcfg.EnvOrDefault("SOURCE_PATH", "skydemon_PL_missing.airfields.xml")

	importFilename := filepath.Base(sourcePath)
	if v, ok := os.LookupEnv("IMPORT_FILENAME"); ok {
		importFilename = v
	}
	region := domain.DefaultRegion
	if v, ok := os.LookupEnv("WAYPOINT_REGION"); ok {
		region = v
	}

	cfg := &Config{
		SourcePath:     sourcePath,
		OutputPath:     sharedcfg.EnvOrDefault("OUTPUT_PATH", "userpoints.csv"),
		Sink:           sharedcfg.EnvOrDefault("SINK", SinkCSV),
		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "airfield-userpoints"),

		ErrorPolicy: sharedcfg.EnvOrDefault("ERROR_POLICY", ErrorPolicySkip),
		AxisCheck:   axisCheck,
		BatchSize:   batchSize,

		WaypointType:   sharedcfg.EnvOrDefault("WAYPOINT_TYPE", domain.DefaultWaypointType),
		WaypointRegion: region,
		ImportFilename: importFilename,

		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: shutdownTimeout,
		MaxUploadBytes:  maxUpload,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Sink {
	case SinkCSV:
		if c.OutputPath == "" {
			return errors.New("OUTPUT_PATH is required when SINK=csv")
		}
	case SinkKafka:
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required when SINK=kafka")
		}
		if c.KafkaSinkTopic == "" {
			return errors.New("KAFKA_SINK_TOPIC is required when SINK=kafka")
		}
	default:
		return fmt.Errorf("invalid SINK %q: want %q or %q", c.Sink, SinkCSV, SinkKafka)
	}

	switch c.ErrorPolicy {
	case ErrorPolicySkip, ErrorPolicyAbort:
	default:
		return fmt.Errorf("invalid ERROR_POLICY %q: want %q or %q", c.ErrorPolicy, ErrorPolicySkip, ErrorPolicyAbort)
	}

	if c.SourcePath == "" {
		return errors.New("SOURCE_PATH is required")
	}
	if c.WaypointType == "" {
		return errors.New("WAYPOINT_TYPE must not be empty")
	}
	return nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseMaxUploadBytes() (int64, error) {
	s := os.Getenv("MAX_UPLOAD_BYTES")
	if s == "" {
		return defaultMaxUploadBytes, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid MAX_UPLOAD_BYTES")
	}
	return n, nil
}
