package observability

import (
	"strings"

	"github.com/megomed/marketplace/internal/config"
	obslogger "github.com/megomed/marketplace/internal/observability/logger"
	"github.com/megomed/marketplace/internal/observability/metrics"
)

// Config holds observability settings derived from the application config.
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string
}

func LoadConfig(cfg config.Config) Config {
	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = "marketplace"
	}
	return Config{
		ServiceName: serviceName,
		Environment: strings.TrimSpace(cfg.Environment),
		LogLevel:    strings.ToLower(strings.TrimSpace(cfg.Logger.Level)),
	}
}

// Debug reports whether request logs should carry error details.
func (c Config) Debug() bool {
	if c.LogLevel == "debug" {
		return true
	}
	switch strings.ToLower(c.Environment) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func provideMetricsConfig(cfg Config) metrics.Config {
	return metrics.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	}
}

func provideMiddlewareConfig(cfg Config) obslogger.MiddlewareConfig {
	return obslogger.MiddlewareConfig{Debug: cfg.Debug()}
}
