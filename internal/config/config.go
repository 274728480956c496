package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Prediction backend.
	UseMockData    bool
	APIBaseURL     string
	BackendTimeout time.Duration
	HistorySize    int

	// Map display area used for viewport fitting.
	MapWidth  int
	MapHeight int

	// Result publishing.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	// Tracing.
	TracingEnabled     bool
	TracingExporter    string
	TracingEndpoint    string
	TracingSampleRatio float64
}

// Load reads configuration from environment variables, applying defaults
// where unset or empty.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}
	backendTimeout, err := parseDuration("BACKEND_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	historySize, err := parsePositiveInt("HISTORY_SIZE", 50)
	if err != nil {
		return nil, err
	}
	mapWidth, err := parsePositiveInt("MAP_WIDTH", 1024)
	if err != nil {
		return nil, err
	}
	mapHeight, err := parsePositiveInt("MAP_HEIGHT", 600)
	if err != nil {
		return nil, err
	}
	sampleRatio, err := parseRatio("TRACING_SAMPLE_RATIO", 1)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		UseMockData:    parseBool("USE_MOCK_DATA"),
		APIBaseURL:     strings.TrimRight(sharedcfg.EnvOrDefault("API_BASE_URL", "http://localhost:5000"), "/"),
		BackendTimeout: backendTimeout,
		HistorySize:    historySize,

		MapWidth:  mapWidth,
		MapHeight: mapHeight,

		KafkaEnabled: parseBool("KAFKA_ENABLED"),
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "shoreline-predictions"),

		TracingEnabled:     parseBool("TRACING_ENABLED"),
		TracingExporter:    sharedcfg.EnvOrDefault("TRACING_EXPORTER", "stdout"),
		TracingEndpoint:    sharedcfg.EnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
		TracingSampleRatio: sampleRatio,
	}

	if !cfg.UseMockData && cfg.APIBaseURL == "" {
		return nil, errors.New("API_BASE_URL is required unless USE_MOCK_DATA is true")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func parseBool(key string) bool {
	return strings.EqualFold(os.Getenv(key), "true")
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func parseRatio(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f > 1 {
		return 0, errors.New("invalid " + key)
	}
	return f, nil
}
