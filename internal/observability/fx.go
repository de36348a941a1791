package observability

import (
	"github.com/megomed/marketplace/internal/observability/metrics"
	"github.com/megomed/marketplace/internal/observability/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		provideMetricsConfig,
		provideMiddlewareConfig,
		newMetrics,
	),
	fx.Invoke(tracing.Setup),
)

func newMetrics(cfg metrics.Config) *metrics.Metrics {
	return metrics.New(prometheus.DefaultRegisterer, cfg)
}
