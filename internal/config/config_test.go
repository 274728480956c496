package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.UseMockData)
	assert.Equal(t, "http://localhost:5000", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 50, cfg.HistorySize)
	assert.Equal(t, 1024, cfg.MapWidth)
	assert.Equal(t, 600, cfg.MapHeight)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "shoreline-predictions", cfg.KafkaTopic)
	assert.False(t, cfg.TracingEnabled)
	assert.Equal(t, "stdout", cfg.TracingExporter)
	assert.Equal(t, "localhost:4317", cfg.TracingEndpoint)
	assert.InDelta(t, 1.0, cfg.TracingSampleRatio, 1e-9)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("USE_MOCK_DATA", "true")
	t.Setenv("API_BASE_URL", "https://models.example.com/")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("HISTORY_SIZE", "10")
	t.Setenv("MAP_WIDTH", "800")
	t.Setenv("MAP_HEIGHT", "480")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-results")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("TRACING_EXPORTER", "otlp")
	t.Setenv("TRACING_ENDPOINT", "collector:4317")
	t.Setenv("TRACING_SAMPLE_RATIO", "0.25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.UseMockData)
	assert.Equal(t, "https://models.example.com", cfg.APIBaseURL, "trailing slash trimmed")
	assert.Equal(t, 5*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 10, cfg.HistorySize)
	assert.Equal(t, 800, cfg.MapWidth)
	assert.Equal(t, 480, cfg.MapHeight)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-results", cfg.KafkaTopic)
	assert.True(t, cfg.TracingEnabled)
	assert.Equal(t, "otlp", cfg.TracingExporter)
	assert.Equal(t, "collector:4317", cfg.TracingEndpoint)
	assert.InDelta(t, 0.25, cfg.TracingSampleRatio, 1e-9)
}

func TestLoad_MockFlagIsCaseInsensitive(t *testing.T) {
	t.Setenv("USE_MOCK_DATA", "TRUE")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.UseMockData)

	t.Setenv("USE_MOCK_DATA", "1")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.UseMockData, "only \"true\" enables mock data")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
		{"BACKEND_TIMEOUT", "bad"},
		{"BACKEND_TIMEOUT", "0s"},
		{"HISTORY_SIZE", "0"},
		{"HISTORY_SIZE", "many"},
		{"MAP_WIDTH", "-10"},
		{"MAP_HEIGHT", "tall"},
		{"TRACING_SAMPLE_RATIO", "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_BaseURLRequiredWithoutMock(t *testing.T) {
	t.Setenv("API_BASE_URL", "/")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_BASE_URL")

	t.Setenv("USE_MOCK_DATA", "true")
	_, err = Load()
	require.NoError(t, err)
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}
