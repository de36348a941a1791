package service

import (
	"context"
	"strings"
	"time"

	"github.com/megomed/marketplace/internal/apiresponse"
	"github.com/megomed/marketplace/internal/auth/session"
	"github.com/megomed/marketplace/internal/backend"
	"github.com/megomed/marketplace/internal/cache"
	"github.com/megomed/marketplace/internal/config"
	"github.com/megomed/marketplace/internal/feedback"
	"github.com/megomed/marketplace/internal/inflight"
	invoicedomain "github.com/megomed/marketplace/internal/invoice/domain"
	"github.com/megomed/marketplace/internal/observability/metrics"
	"github.com/megomed/marketplace/internal/role"
	"github.com/megomed/marketplace/pkg/listing"
	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const listFailedMessage = "Failed to load invoices"

type Service struct {
	log      *zap.Logger
	backend  invoicedomain.Backend
	tracker  inflight.Tracker
	workflow *config.WorkflowConfigHolder
	metrics  *metrics.Metrics
	lists    *cache.ListCache[invoicedomain.Invoice]
}

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	Backend  invoicedomain.Backend
	Tracker  inflight.Tracker
	Workflow *config.WorkflowConfigHolder
	Metrics  *metrics.Metrics `optional:"true"`
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		log:      p.Log.Named("invoice.service"),
		backend:  p.Backend,
		tracker:  p.Tracker,
		workflow: p.Workflow,
		metrics:  p.Metrics,
		lists: cache.NewListCache[invoicedomain.Invoice]("invoices", func() time.Duration {
			return p.Workflow.Get().ListCacheTTL
		}, p.Metrics),
	}
}

// List returns one page of invoice views for the caller's role.
func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	creds, ok := session.CredentialsFromContext(ctx)
	if !ok {
		return invoicedomain.ListInvoiceResponse{}, session.ErrUnauthenticated
	}

	cmp, err := comparator(req.SortBy)
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}
	dateRange, filtered, err := listing.ParseDateRange(req.From, req.To)
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}

	invoices, err := s.load(ctx, creds)
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, s.listFailure(err)
	}

	if filtered {
		invoices = lo.Filter(invoices, func(inv invoicedomain.Invoice, _ int) bool {
			createdAt, ok := inv.CreatedTime()
			return ok && dateRange.Contains(createdAt)
		})
	}
	sorted := listing.Sort(invoices, cmp, listing.ParseOrder(req.Order))
	page, pageInfo := listing.Paginate(sorted, req.Page, req.PageSize)

	views := lo.Map(page, func(inv invoicedomain.Invoice, _ int) invoicedomain.InvoiceView {
		return invoicedomain.BuildView(creds.Role, inv, s.inFlight(ctx, inv.ID))
	})

	return invoicedomain.ListInvoiceResponse{
		PageInfo: pageInfo,
		Invoices: views,
	}, nil
}

// ResolveExtendRequest accepts or rejects the freelancer's extension request.
// Validation failures never reach the backend.
func (s *Service) ResolveExtendRequest(ctx context.Context, req invoicedomain.ResolveExtendRequest) (feedback.Outcome, error) {
	creds, ok := session.CredentialsFromContext(ctx)
	if !ok {
		return feedback.Outcome{}, session.ErrUnauthenticated
	}
	if creds.Role != role.Client {
		s.metrics.RecordOutcome(metrics.WorkflowExtendRequest, metrics.ResultRejected)
		return feedback.Outcome{}, invoicedomain.ErrActionNotAllowed
	}
	action, err := invoicedomain.ParseExtendAction(req.Action)
	if err != nil {
		s.metrics.RecordOutcome(metrics.WorkflowExtendRequest, metrics.ResultRejected)
		return feedback.Outcome{}, err
	}
	invoiceID := strings.TrimSpace(req.InvoiceID)
	if invoiceID == "" {
		return feedback.Outcome{}, invoicedomain.ErrInvalidInvoiceID
	}

	release, acquired, err := s.tracker.Acquire(ctx, inflight.Key(inflight.KindInvoiceExtend, invoiceID))
	if err != nil {
		return feedback.Outcome{}, err
	}
	if !acquired {
		s.metrics.RecordOutcome(metrics.WorkflowExtendRequest, metrics.ResultSkipped)
		s.log.Debug("extend request already in flight", zap.String("invoice_id", invoiceID))
		return feedback.Skipped(), nil
	}
	defer release()

	inv, err := s.find(ctx, creds, invoiceID)
	if err != nil {
		return feedback.Outcome{}, err
	}
	if !invoicedomain.CanTransition(invoicedomain.DeriveExtendState(inv), invoicedomain.ExtendResolved) {
		s.metrics.RecordOutcome(metrics.WorkflowExtendRequest, metrics.ResultRejected)
		return feedback.Outcome{}, invoicedomain.ErrNoExtendRequest
	}

	cfg := s.workflow.Get()
	payload, err := s.backend.ApproveExtendRequest(ctx, invoiceID, action)
	if err != nil {
		return feedback.Outcome{}, s.failure(metrics.WorkflowExtendRequest, invoiceID, err, cfg.Messages.ExtendFailed)
	}
	if !apiresponse.Truthy(payload, "success") {
		return feedback.Outcome{}, s.semanticFailure(metrics.WorkflowExtendRequest, invoiceID,
			apiresponse.Message(payload, cfg.Messages.ExtendFailed))
	}

	outcome := feedback.Outcome{Status: feedback.StatusApplied}
	switch action {
	case invoicedomain.ExtendAccept:
		outcome.Tone = feedback.ToneSuccess
		outcome.Message = successMessage(payload, cfg.Messages.ExtendAccepted)
		outcome = outcome.WithCloseDialogAfter(cfg.AcceptCloseDelay)
	case invoicedomain.ExtendReject:
		outcome.Tone = feedback.ToneInfo
		outcome.Message = successMessage(payload, cfg.Messages.ExtendRejected)
		outcome = outcome.WithCloseDialogAfter(cfg.RejectCloseDelay)
	}

	// the resolution only becomes visible through a fresh list
	if _, err := s.lists.Refetch(ctx, listKey(creds), s.fetch(creds)); err != nil {
		s.log.Warn("refetch after extend resolution failed", zap.String("invoice_id", invoiceID), zap.Error(err))
	} else {
		outcome.Refetched = true
	}

	s.metrics.RecordOutcome(metrics.WorkflowExtendRequest, metrics.ResultApplied)
	s.log.Info("extend request resolved",
		zap.String("invoice_id", invoiceID),
		zap.String("action", string(action)),
	)
	return outcome, nil
}

// Pay asks the backend for a payment page. The page opens in a new browsing
// context so the invoice list stays in place.
func (s *Service) Pay(ctx context.Context, req invoicedomain.PayRequest) (feedback.Outcome, error) {
	creds, ok := session.CredentialsFromContext(ctx)
	if !ok {
		return feedback.Outcome{}, session.ErrUnauthenticated
	}
	if creds.Role != role.Client {
		s.metrics.RecordOutcome(metrics.WorkflowPay, metrics.ResultRejected)
		return feedback.Outcome{}, invoicedomain.ErrActionNotAllowed
	}
	invoiceID := strings.TrimSpace(req.InvoiceID)
	if invoiceID == "" {
		return feedback.Outcome{}, invoicedomain.ErrInvalidInvoiceID
	}

	release, acquired, err := s.tracker.Acquire(ctx, inflight.Key(inflight.KindInvoicePay, invoiceID))
	if err != nil {
		return feedback.Outcome{}, err
	}
	if !acquired {
		s.metrics.RecordOutcome(metrics.WorkflowPay, metrics.ResultSkipped)
		return feedback.Skipped(), nil
	}
	defer release()

	cfg := s.workflow.Get()
	payload, err := s.backend.AcceptRespondInvoice(ctx, invoiceID)
	if err != nil {
		return feedback.Outcome{}, s.failure(metrics.WorkflowPay, invoiceID, err, cfg.Messages.PaymentFailed)
	}

	paymentURL, hasURL := apiresponse.String("data", "url")(payload)
	succeeded := apiresponse.Truthy(payload, "success")
	if !succeeded || !hasURL {
		message := cfg.Messages.PaymentNotProcessed
		if !succeeded {
			message = apiresponse.Message(payload, message)
		}
		return feedback.Outcome{}, s.semanticFailure(metrics.WorkflowPay, invoiceID, message)
	}

	s.metrics.RecordOutcome(metrics.WorkflowPay, metrics.ResultApplied)
	s.log.Info("payment page issued", zap.String("invoice_id", invoiceID))
	return feedback.Outcome{
		Status:  feedback.StatusApplied,
		Tone:    feedback.ToneSuccess,
		OpenURL: paymentURL,
	}, nil
}

func (s *Service) load(ctx context.Context, creds session.Credentials) ([]invoicedomain.Invoice, error) {
	return s.lists.Load(ctx, listKey(creds), s.fetch(creds))
}

func (s *Service) fetch(creds session.Credentials) func(context.Context) ([]invoicedomain.Invoice, error) {
	return func(ctx context.Context) ([]invoicedomain.Invoice, error) {
		return s.backend.ListInvoices(ctx, creds.Role)
	}
}

func (s *Service) find(ctx context.Context, creds session.Credentials, invoiceID string) (invoicedomain.Invoice, error) {
	invoices, err := s.load(ctx, creds)
	if err != nil {
		return invoicedomain.Invoice{}, s.listFailure(err)
	}
	inv, ok := lo.Find(invoices, func(inv invoicedomain.Invoice) bool { return inv.ID == invoiceID })
	if !ok {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceNotFound
	}
	return inv, nil
}

func (s *Service) inFlight(ctx context.Context, invoiceID string) invoicedomain.InFlight {
	return invoicedomain.InFlight{
		Extend: s.tracker.Active(ctx, inflight.Key(inflight.KindInvoiceExtend, invoiceID)),
		Pay:    s.tracker.Active(ctx, inflight.Key(inflight.KindInvoicePay, invoiceID)),
	}
}

func (s *Service) failure(workflow, invoiceID string, err error, fallback string) error {
	s.metrics.RecordOutcome(workflow, metrics.ResultFailed)
	s.log.Warn("invoice workflow failed",
		zap.String("workflow", workflow),
		zap.String("invoice_id", invoiceID),
		zap.Int("status", backend.StatusCodeOf(err)),
		zap.Error(err),
	)
	return &feedback.Error{
		Message:    apiresponse.Message(backend.PayloadOf(err), fallback),
		StatusCode: backend.StatusCodeOf(err),
		Err:        err,
	}
}

func (s *Service) semanticFailure(workflow, invoiceID, message string) error {
	s.metrics.RecordOutcome(workflow, metrics.ResultFailed)
	s.log.Warn("invoice workflow rejected by backend",
		zap.String("workflow", workflow),
		zap.String("invoice_id", invoiceID),
	)
	return &feedback.Error{Message: message}
}

func (s *Service) listFailure(err error) error {
	return &feedback.Error{
		Message:    apiresponse.Message(backend.PayloadOf(err), listFailedMessage),
		StatusCode: backend.StatusCodeOf(err),
		Err:        err,
	}
}

func successMessage(payload apiresponse.Payload, fallback string) string {
	if msg, ok := apiresponse.String("message")(payload); ok {
		return msg
	}
	return fallback
}

func listKey(creds session.Credentials) string {
	return cache.Key("invoices", creds.Role.String(), creds.Token)
}
