package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	WorkflowExtendRequest = "invoice_extend_request"
	WorkflowPay           = "invoice_pay"
	WorkflowRenew         = "subscription_renew"
)

const (
	ResultApplied  = "applied"
	ResultSkipped  = "skipped"
	ResultFailed   = "failed"
	ResultRejected = "rejected"
)

// Config labels every series with the service identity.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics captures workflow and backend health signals.
type Metrics struct {
	workflowOutcomes *prometheus.CounterVec
	inFlightSkips    *prometheus.CounterVec
	backendDuration  *prometheus.HistogramVec
	backendErrors    *prometheus.CounterVec
	listCacheLookups *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New registers the instruments on registerer, or the default registerer when nil.
func New(registerer prometheus.Registerer, cfg Config) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "marketplace"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	workflowOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "marketplace_workflow_outcomes_total",
		Help:        "Workflow calls by result.",
		ConstLabels: constLabels,
	}, []string{"workflow", "result"})
	inFlightSkips := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "marketplace_workflow_inflight_skips_total",
		Help:        "Workflow calls ignored because the same record was already in flight.",
		ConstLabels: constLabels,
	}, []string{"workflow"})
	backendDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "marketplace_backend_request_duration_seconds",
		Help:        "Latency of calls to the marketplace backend.",
		Buckets:     []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		ConstLabels: constLabels,
	}, []string{"operation", "status_class"})
	backendErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "marketplace_backend_errors_total",
		Help:        "Backend calls that failed by status code.",
		ConstLabels: constLabels,
	}, []string{"operation", "status_code"})
	listCacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "marketplace_list_cache_lookups_total",
		Help:        "List cache lookups by kind and result.",
		ConstLabels: constLabels,
	}, []string{"kind", "result"})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "marketplace_http_request_duration_seconds",
		Help:        "Inbound HTTP request latency.",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: constLabels,
	}, []string{"method", "route", "status_code"})

	registerer.MustRegister(
		workflowOutcomes,
		inFlightSkips,
		backendDuration,
		backendErrors,
		listCacheLookups,
		httpDuration,
	)

	return &Metrics{
		workflowOutcomes: workflowOutcomes,
		inFlightSkips:    inFlightSkips,
		backendDuration:  backendDuration,
		backendErrors:    backendErrors,
		listCacheLookups: listCacheLookups,
		httpDuration:     httpDuration,
	}
}

// RecordOutcome counts a finished workflow call.
func (m *Metrics) RecordOutcome(workflow, result string) {
	if m == nil {
		return
	}
	m.workflowOutcomes.WithLabelValues(workflow, result).Inc()
	if result == ResultSkipped {
		m.inFlightSkips.WithLabelValues(workflow).Inc()
	}
}

// ObserveBackendCall records latency and, for failures, the status code. A zero
// status means the request never produced a response.
func (m *Metrics) ObserveBackendCall(operation string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.backendDuration.WithLabelValues(operation, statusClass(status)).Observe(elapsed.Seconds())
	if status == 0 || status >= 400 {
		m.backendErrors.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	}
}

func (m *Metrics) RecordListCache(kind string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.listCacheLookups.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) observeHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func statusClass(status int) string {
	switch {
	case status == 0:
		return "transport_error"
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
