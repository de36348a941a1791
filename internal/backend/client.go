// Package backend calls the marketplace REST backend on behalf of the session
// found in the request context.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	jsoniter "github.com/json-iterator/go"
	"github.com/megomed/marketplace/internal/apiresponse"
	"github.com/megomed/marketplace/internal/auth/session"
	"github.com/megomed/marketplace/internal/config"
	"github.com/megomed/marketplace/internal/observability/metrics"
	"github.com/megomed/marketplace/internal/observability/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxResponseBytes = 4 << 20

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	// reads retries idempotent GETs; writes never retries.
	reads   *retryablehttp.Client
	writes  *retryablehttp.Client
	log     *zap.Logger
	tracer  trace.Tracer
	metrics *metrics.Metrics
}

func NewClient(cfg config.BackendConfig, log *zap.Logger, m *metrics.Metrics) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("backend.client")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	newTransport := func(retryMax int) *retryablehttp.Client {
		c := retryablehttp.NewClient()
		c.HTTPClient.Timeout = timeout
		c.RetryMax = retryMax
		c.RetryWaitMin = 100 * time.Millisecond
		c.RetryWaitMax = 2 * time.Second
		c.Logger = retryableLogger{log: log.Sugar()}
		c.ErrorHandler = retryablehttp.PassthroughErrorHandler
		return c
	}

	retryMax := cfg.RetryMax
	if retryMax < 0 {
		retryMax = 0
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		reads:   newTransport(retryMax),
		writes:  newTransport(0),
		log:     log,
		tracer:  otel.Tracer(tracing.BackendTracerName),
		metrics: m,
	}
}

// do sends one request and decodes a JSON body into out. Non-2xx responses
// become *Error with the decoded payload attached.
func (c *Client) do(ctx context.Context, operation, method, path string, body any, out any) (err error) {
	creds, ok := session.CredentialsFromContext(ctx)
	if !ok {
		return &Error{Method: method, Path: path, StatusCode: http.StatusUnauthorized, Err: ErrMissingCredentials}
	}

	ctx, span := c.tracer.Start(ctx, "backend."+operation, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
	)
	start := time.Now()
	status := 0
	defer func() {
		c.metrics.ObserveBackendCall(operation, status, time.Since(start))
		span.SetAttributes(attribute.Int("http.status_code", status))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, operation+" failed")
		}
		span.End()
	}()

	var reader io.Reader
	if body != nil {
		encoded, mErr := json.Marshal(body)
		if mErr != nil {
			return &Error{Method: method, Path: path, Err: fmt.Errorf("encode request: %w", mErr)}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+creds.Token)
	tracing.InjectHeaders(ctx, req.Header)

	transport := c.writes
	if method == http.MethodGet {
		transport = c.reads
	}

	resp, err := transport.Do(req)
	if err != nil {
		c.log.Warn("backend request failed",
			zap.String("operation", operation),
			zap.String("path", path),
			zap.Error(err),
		)
		return &Error{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &Error{Method: method, Path: path, StatusCode: status, Err: err}
	}

	if status < 200 || status >= 300 {
		var payload apiresponse.Payload
		_ = json.Unmarshal(raw, &payload)
		c.log.Info("backend returned error status",
			zap.String("operation", operation),
			zap.Int("status", status),
		)
		return &Error{
			Method:     method,
			Path:       path,
			StatusCode: status,
			Payload:    payload,
			Err:        fmt.Errorf("unexpected status %d", status),
		}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Method: method, Path: path, StatusCode: status, Err: fmt.Errorf("%w: %v", ErrUnexpectedShape, err)}
	}
	return nil
}

// post sends a mutation and returns its payload. An empty body decodes to an
// empty payload.
func (c *Client) post(ctx context.Context, operation, path string, body any) (apiresponse.Payload, error) {
	var payload apiresponse.Payload
	if err := c.do(ctx, operation, http.MethodPost, path, body, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = apiresponse.Payload{}
	}
	return payload, nil
}

// decodeList accepts {data: [...]}, {data: {result: [...]}} or a bare array.
func decodeList[T any](raw jsoniter.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if isNull(trimmed) {
		return []T{}, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		return items, nil
	}

	var envelope struct {
		Data   jsoniter.RawMessage `json:"data"`
		Result jsoniter.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	for _, next := range []jsoniter.RawMessage{envelope.Data, envelope.Result} {
		if len(bytes.TrimSpace(next)) > 0 {
			return decodeList[T](next)
		}
	}
	return nil, ErrUnexpectedShape
}

func isNull(raw []byte) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func getList[T any](ctx context.Context, c *Client, operation, path string) ([]T, error) {
	var raw jsoniter.RawMessage
	if err := c.do(ctx, operation, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	items, err := decodeList[T](raw)
	if err != nil {
		return nil, &Error{Method: http.MethodGet, Path: path, StatusCode: http.StatusOK, Err: err}
	}
	return items, nil
}
