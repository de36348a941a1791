package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newTestMetrics() *Metrics {
	return New(prometheus.NewRegistry(), Config{ServiceName: "marketplace", Environment: "test"})
}

func TestRecordOutcomeCountsSkips(t *testing.T) {
	m := newTestMetrics()

	m.RecordOutcome(WorkflowRenew, ResultApplied)
	m.RecordOutcome(WorkflowRenew, ResultSkipped)
	m.RecordOutcome(WorkflowRenew, ResultSkipped)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.workflowOutcomes.WithLabelValues(WorkflowRenew, ResultApplied)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.workflowOutcomes.WithLabelValues(WorkflowRenew, ResultSkipped)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.inFlightSkips.WithLabelValues(WorkflowRenew)))
}

func TestObserveBackendCallCountsFailures(t *testing.T) {
	m := newTestMetrics()

	m.ObserveBackendCall("renew_subscription", http.StatusOK, 10*time.Millisecond)
	m.ObserveBackendCall("renew_subscription", http.StatusUnauthorized, 10*time.Millisecond)
	m.ObserveBackendCall("renew_subscription", 0, 10*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.backendErrors.WithLabelValues("renew_subscription", "401")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.backendErrors.WithLabelValues("renew_subscription", "0")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.backendDuration))
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordOutcome(WorkflowPay, ResultFailed)
		m.ObserveBackendCall("pay", 500, time.Second)
		m.RecordListCache("invoices", true)
	})
}

func TestGinMiddlewareObservesRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newTestMetrics()

	r := gin.New()
	r.Use(GinMiddleware(m))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, 1, testutil.CollectAndCount(m.httpDuration))
}
