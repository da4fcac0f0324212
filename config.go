package crate

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variables read by LoadConfig.
const (
	EnvLogLevel         = "CRATE_LOG_LEVEL"
	EnvLogFormat        = "CRATE_LOG_FORMAT"
	EnvMetrics          = "CRATE_METRICS"
	EnvMetricsNamespace = "CRATE_METRICS_NAMESPACE"
)

// Config is the environment-driven container configuration.
type Config struct {
	LogLevel         string // debug | info | warn | error, empty disables logging
	LogFormat        string // json | console
	Metrics          bool
	MetricsNamespace string
}

// LoadConfig reads the given env files (default .env) if present and builds
// a Config from the environment. Variables already set win over the files.
func LoadConfig(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// .env is optional
	_ = godotenv.Load(files...)

	return &Config{
		LogLevel:         env(EnvLogLevel, ""),
		LogFormat:        env(EnvLogFormat, "json"),
		Metrics:          envBool(EnvMetrics, false),
		MetricsNamespace: env(EnvMetricsNamespace, "crate"),
	}
}

// Logger builds the zap logger described by the config. An empty level
// yields a no-op logger.
func (cfg *Config) Logger() (*zap.Logger, error) {
	if cfg.LogLevel == "" {
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
	}

	var zc zap.Config
	switch cfg.LogFormat {
	case "json", "":
		zc = zap.NewProductionConfig()
	case "console":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid %s: %q", EnvLogFormat, cfg.LogFormat)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

// Options turns the config into container options. Metrics collectors are
// registered with reg when metrics are enabled.
func (cfg *Config) Options(reg prometheus.Registerer) ([]Option, error) {
	log, err := cfg.Logger()
	if err != nil {
		return nil, err
	}

	opts := []Option{WithLogger(log)}

	if cfg.LogLevel == "debug" {
		opts = append(opts, WithObserver(NewLogObserver(log)))
	}

	if cfg.Metrics {
		metrics, err := NewMetricsObserver(cfg.MetricsNamespace, reg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithObserver(metrics))
	}

	return opts, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
