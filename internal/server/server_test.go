package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	auditdomain "github.com/megomed/marketplace/internal/audit/domain"
	"github.com/megomed/marketplace/internal/auth/session"
	"github.com/megomed/marketplace/internal/config"
	"github.com/megomed/marketplace/internal/feedback"
	invoicedomain "github.com/megomed/marketplace/internal/invoice/domain"
	obslogger "github.com/megomed/marketplace/internal/observability/logger"
	obsmetrics "github.com/megomed/marketplace/internal/observability/metrics"
	"github.com/megomed/marketplace/internal/role"
	subscriptiondomain "github.com/megomed/marketplace/internal/subscription/domain"
	"github.com/megomed/marketplace/pkg/listing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeInvoiceService struct {
	gotCreds session.Credentials
	gotList  invoicedomain.ListInvoiceRequest
	resolve  func(invoicedomain.ResolveExtendRequest) (feedback.Outcome, error)
	pay      func(invoicedomain.PayRequest) (feedback.Outcome, error)
}

func (f *fakeInvoiceService) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	f.gotCreds, _ = session.CredentialsFromContext(ctx)
	f.gotList = req
	if req.From == "bad" {
		return invoicedomain.ListInvoiceResponse{}, listing.ErrInvalidDate
	}
	return invoicedomain.ListInvoiceResponse{PageInfo: listing.PageInfo{Page: 1, PageSize: 10}}, nil
}

func (f *fakeInvoiceService) ResolveExtendRequest(_ context.Context, req invoicedomain.ResolveExtendRequest) (feedback.Outcome, error) {
	return f.resolve(req)
}

func (f *fakeInvoiceService) Pay(_ context.Context, req invoicedomain.PayRequest) (feedback.Outcome, error) {
	return f.pay(req)
}

type fakeSubscriptionService struct {
	renew func(subscriptiondomain.RenewRequest) (feedback.Outcome, error)
}

func (f *fakeSubscriptionService) List(context.Context) (subscriptiondomain.ListSubscriptionResponse, error) {
	return subscriptiondomain.ListSubscriptionResponse{Subscriptions: []subscriptiondomain.SubscriptionView{}}, nil
}

func (f *fakeSubscriptionService) Renew(_ context.Context, req subscriptiondomain.RenewRequest) (feedback.Outcome, error) {
	return f.renew(req)
}

type fakeAuditService struct {
	records []auditdomain.RecordRequest
}

func (f *fakeAuditService) Record(_ context.Context, req auditdomain.RecordRequest) error {
	f.records = append(f.records, req)
	return nil
}

func (f *fakeAuditService) List(context.Context, auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	return auditdomain.ListAuditLogResponse{AuditLogs: []auditdomain.AuditLog{{Action: "invoice.pay"}}}, nil
}

type testServer struct {
	engine        *gin.Engine
	invoices      *fakeInvoiceService
	subscriptions *fakeSubscriptionService
	audit         *fakeAuditService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := obsmetrics.New(prometheus.NewRegistry(), obsmetrics.Config{ServiceName: "marketplace", Environment: "test"})
	engine := NewEngine(zap.NewNop(), obslogger.MiddlewareConfig{}, m)

	ts := &testServer{
		engine:        engine,
		invoices:      &fakeInvoiceService{},
		subscriptions: &fakeSubscriptionService{},
		audit:         &fakeAuditService{},
	}
	srv := NewServer(ServerParams{
		Gin:             engine,
		Cfg:             config.Config{Environment: "test"},
		Log:             zap.NewNop(),
		Sessions:        session.NewManager(),
		InvoiceSvc:      ts.invoices,
		SubscriptionSvc: ts.subscriptions,
		AuditSvc:        ts.audit,
	})
	srv.RegisterRoutes()
	return ts
}

func (ts *testServer) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func client() map[string]string {
	return map[string]string{"Authorization": "Bearer tok", session.RoleHeader: "client"}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(obslogger.RequestIDHeader))
}

func TestAPIRequiresToken(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodGet, "/api/subscriptions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decode(t, rec)["error"].(map[string]any)["type"])
}

func TestInvoicesRequireKnownRole(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/invoices", "", map[string]string{"Authorization": "Bearer tok"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/api/invoices", "", map[string]string{"Authorization": "Bearer tok", session.RoleHeader: "admin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListInvoicesForwardsQueryAndCredentials(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/invoices?sort_by=amount&order=asc&page=2&page_size=5&from=2025-01-01", "", client())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "amount", ts.invoices.gotList.SortBy)
	assert.Equal(t, 2, ts.invoices.gotList.Page)
	assert.Equal(t, 5, ts.invoices.gotList.PageSize)
	assert.Equal(t, session.Credentials{Token: "tok", Role: role.Client}, ts.invoices.gotCreds)

	rec = ts.do(http.MethodGet, "/api/invoices?from=bad", "", client())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveExtendRequestRecordsAudit(t *testing.T) {
	ts := newTestServer(t)
	ts.invoices.resolve = func(req invoicedomain.ResolveExtendRequest) (feedback.Outcome, error) {
		assert.Equal(t, "inv-1", req.InvoiceID)
		return feedback.Outcome{Status: feedback.StatusApplied, Tone: feedback.ToneSuccess, Message: "ok", Refetched: true}, nil
	}

	rec := ts.do(http.MethodPost, "/api/invoices/inv-1/extend-request", `{"action":"accept"}`, client())
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "applied", data["status"])
	assert.Equal(t, true, data["refetched"])

	require.Len(t, ts.audit.records, 1)
	assert.Equal(t, "invoice.extend_request.accept", ts.audit.records[0].Action)
	assert.Equal(t, "applied", ts.audit.records[0].Result)
}

func TestWorkflowErrorStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not_allowed", invoicedomain.ErrActionNotAllowed, http.StatusForbidden},
		{"no_request", invoicedomain.ErrNoExtendRequest, http.StatusConflict},
		{"not_found", invoicedomain.ErrInvoiceNotFound, http.StatusNotFound},
		{"bad_action", invoicedomain.ErrInvalidAction, http.StatusBadRequest},
		{"upstream", &feedback.Error{Message: "Failed to update extend request", StatusCode: 500, Err: errors.New("boom")}, http.StatusBadGateway},
		{"expired", &feedback.Error{Message: "Your session has expired. Please log in again.", StatusCode: 401}, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.invoices.resolve = func(invoicedomain.ResolveExtendRequest) (feedback.Outcome, error) {
				return feedback.Outcome{}, tc.err
			}

			rec := ts.do(http.MethodPost, "/api/invoices/inv-1/extend-request", `{"action":"reject"}`, client())
			assert.Equal(t, tc.want, rec.Code)
			require.Len(t, ts.audit.records, 1)
		})
	}
}

func TestWorkflowFailureCarriesUserMessage(t *testing.T) {
	ts := newTestServer(t)
	ts.invoices.pay = func(invoicedomain.PayRequest) (feedback.Outcome, error) {
		return feedback.Outcome{}, &feedback.Error{Message: "Card declined", StatusCode: 402}
	}

	rec := ts.do(http.MethodPost, "/api/invoices/inv-1/pay", "", client())
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Card declined", decode(t, rec)["error"].(map[string]any)["message"])
	assert.Equal(t, "failed", ts.audit.records[0].Result)
}

func TestRenewSkippedIsOK(t *testing.T) {
	ts := newTestServer(t)
	ts.subscriptions.renew = func(subscriptiondomain.RenewRequest) (feedback.Outcome, error) {
		return feedback.Skipped(), nil
	}

	rec := ts.do(http.MethodPost, "/api/subscriptions/sub-1/renew", "", map[string]string{"Authorization": "Bearer tok"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "skipped", decode(t, rec)["data"].(map[string]any)["status"])
	assert.Equal(t, "subscription.renew", ts.audit.records[0].Action)
}

func TestListAuditLogs(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodGet, "/api/audit-logs?target_type=invoice", "", client())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 1)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode(t, rec)["error"].(map[string]any)["type"])
}
