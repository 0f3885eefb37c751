package observability

import (
	"os"
	"strconv"
	"strings"
)

// Config controls logging, tracing and metrics behavior.
type Config struct {
	ServiceName string
	Environment string
	Version     string
	LogLevel    string
	LogFormat   string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64
}

// Debug reports whether verbose diagnostics should be emitted.
func (c Config) Debug() bool {
	return strings.EqualFold(c.Environment, "development") ||
		strings.EqualFold(c.LogLevel, "debug")
}

// LoadConfig reads observability settings from the environment.
func LoadConfig() Config {
	return Config{
		ServiceName: envOr("APP_SERVICE", "lernora"),
		Environment: envOr("ENVIRONMENT", "development"),
		Version:     envOr("APP_VERSION", "0.1.0"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		LogFormat:   envOr("LOG_FORMAT", "json"),

		OtelEnabled:          envBool("OTEL_ENABLED", false),
		OtelExporterEndpoint: envOr("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
		OtelExporterProtocol: envOr("OTEL_EXPORTER_PROTOCOL", "grpc"),
		OtelSamplingRatio:    envFloat("OTEL_SAMPLING_RATIO", 1.0),
	}
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

func envFloat(key string, fallback float64) float64 {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fallback
	}
	return value
}
