package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/megomed/marketplace/internal/apiresponse"
	"github.com/megomed/marketplace/internal/auth/session"
	"github.com/megomed/marketplace/internal/backend"
	"github.com/megomed/marketplace/internal/cache"
	"github.com/megomed/marketplace/internal/clock"
	"github.com/megomed/marketplace/internal/config"
	"github.com/megomed/marketplace/internal/feedback"
	"github.com/megomed/marketplace/internal/inflight"
	"github.com/megomed/marketplace/internal/observability/metrics"
	subscriptiondomain "github.com/megomed/marketplace/internal/subscription/domain"
	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const listFailedMessage = "Failed to load subscriptions"

type Service struct {
	log      *zap.Logger
	clock    clock.Clock
	backend  subscriptiondomain.Backend
	tracker  inflight.Tracker
	workflow *config.WorkflowConfigHolder
	metrics  *metrics.Metrics
	lists    *cache.ListCache[subscriptiondomain.Subscription]
}

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	Backend  subscriptiondomain.Backend
	Tracker  inflight.Tracker
	Workflow *config.WorkflowConfigHolder
	Metrics  *metrics.Metrics `optional:"true"`
}

func NewService(p ServiceParam) subscriptiondomain.Service {
	return &Service{
		log:      p.Log.Named("subscription.service"),
		clock:    p.Clock,
		backend:  p.Backend,
		tracker:  p.Tracker,
		workflow: p.Workflow,
		metrics:  p.Metrics,
		lists: cache.NewListCache[subscriptiondomain.Subscription]("subscriptions", func() time.Duration {
			return p.Workflow.Get().ListCacheTTL
		}, p.Metrics),
	}
}

// List classifies every plan of the caller against the current instant.
func (s *Service) List(ctx context.Context) (subscriptiondomain.ListSubscriptionResponse, error) {
	creds, ok := session.CredentialsFromContext(ctx)
	if !ok {
		return subscriptiondomain.ListSubscriptionResponse{}, session.ErrUnauthenticated
	}

	subs, err := s.load(ctx, creds)
	if err != nil {
		return subscriptiondomain.ListSubscriptionResponse{}, listFailure(err)
	}

	now := s.clock.Now()
	views := lo.Map(subs, func(sub subscriptiondomain.Subscription, _ int) subscriptiondomain.SubscriptionView {
		renewing := s.tracker.Active(ctx, inflight.Key(inflight.KindSubscriptionRenew, sub.ID))
		return subscriptiondomain.BuildView(sub, now, renewing)
	})
	return subscriptiondomain.ListSubscriptionResponse{Subscriptions: views}, nil
}

// Renew renews an expired plan. A redirect URL in the response sends the
// browser to the payment page; otherwise the list is refetched.
func (s *Service) Renew(ctx context.Context, req subscriptiondomain.RenewRequest) (feedback.Outcome, error) {
	creds, ok := session.CredentialsFromContext(ctx)
	if !ok {
		return feedback.Outcome{}, session.ErrUnauthenticated
	}
	subscriptionID := strings.TrimSpace(req.SubscriptionID)
	if subscriptionID == "" {
		return feedback.Outcome{}, subscriptiondomain.ErrInvalidSubscriptionID
	}

	release, acquired, err := s.tracker.Acquire(ctx, inflight.Key(inflight.KindSubscriptionRenew, subscriptionID))
	if err != nil {
		return feedback.Outcome{}, err
	}
	if !acquired {
		s.metrics.RecordOutcome(metrics.WorkflowRenew, metrics.ResultSkipped)
		s.log.Debug("renewal already in flight", zap.String("subscription_id", subscriptionID))
		return feedback.Skipped(), nil
	}
	// released on every path, navigation included
	defer release()

	sub, err := s.find(ctx, creds, subscriptionID)
	if err != nil {
		return feedback.Outcome{}, err
	}
	if subscriptiondomain.Classify(sub.EndDate, s.clock.Now()).IsRunning() {
		s.metrics.RecordOutcome(metrics.WorkflowRenew, metrics.ResultRejected)
		return feedback.Outcome{}, subscriptiondomain.ErrPlanRunning
	}

	cfg := s.workflow.Get()
	payload, err := s.backend.RenewSubscription(ctx, subscriptionID)
	if err != nil {
		s.metrics.RecordOutcome(metrics.WorkflowRenew, metrics.ResultFailed)
		status := backend.StatusCodeOf(err)
		s.log.Warn("subscription renewal failed",
			zap.String("subscription_id", subscriptionID),
			zap.Int("status", status),
			zap.Error(err),
		)
		message := apiresponse.Message(backend.PayloadOf(err), cfg.Messages.RenewFailed)
		if status == http.StatusUnauthorized {
			message = cfg.Messages.SessionExpired
		}
		return feedback.Outcome{}, &feedback.Error{Message: message, StatusCode: status, Err: err}
	}

	// a 2xx with an explicit falsy success flag is still a failed renewal;
	// payloads without the flag are judged by their redirect alone
	if _, flagged := payload["success"]; flagged && !apiresponse.Truthy(payload, "success") {
		s.metrics.RecordOutcome(metrics.WorkflowRenew, metrics.ResultFailed)
		s.log.Warn("subscription renewal declined", zap.String("subscription_id", subscriptionID))
		return feedback.Outcome{}, &feedback.Error{Message: apiresponse.Message(payload, cfg.Messages.RenewFailed)}
	}

	s.metrics.RecordOutcome(metrics.WorkflowRenew, metrics.ResultApplied)
	if redirect, ok := apiresponse.RedirectURL(payload); ok {
		s.log.Info("subscription renewal redirected to payment", zap.String("subscription_id", subscriptionID))
		return feedback.Outcome{
			Status:      feedback.StatusApplied,
			NavigateURL: redirect,
		}, nil
	}

	outcome := feedback.Outcome{
		Status:  feedback.StatusApplied,
		Tone:    feedback.ToneSuccess,
		Message: cfg.Messages.RenewSucceeded,
	}
	if _, err := s.lists.Refetch(ctx, listKey(creds), s.fetch); err != nil {
		s.log.Warn("refetch after renewal failed", zap.String("subscription_id", subscriptionID), zap.Error(err))
	} else {
		outcome.Refetched = true
	}
	s.log.Info("subscription renewed", zap.String("subscription_id", subscriptionID))
	return outcome, nil
}

func (s *Service) load(ctx context.Context, creds session.Credentials) ([]subscriptiondomain.Subscription, error) {
	return s.lists.Load(ctx, listKey(creds), s.fetch)
}

func (s *Service) fetch(ctx context.Context) ([]subscriptiondomain.Subscription, error) {
	return s.backend.ListSubscriptions(ctx)
}

func (s *Service) find(ctx context.Context, creds session.Credentials, subscriptionID string) (subscriptiondomain.Subscription, error) {
	subs, err := s.load(ctx, creds)
	if err != nil {
		return subscriptiondomain.Subscription{}, listFailure(err)
	}
	sub, ok := lo.Find(subs, func(sub subscriptiondomain.Subscription) bool { return sub.ID == subscriptionID })
	if !ok {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrSubscriptionNotFound
	}
	return sub, nil
}

func listFailure(err error) error {
	return &feedback.Error{
		Message:    apiresponse.Message(backend.PayloadOf(err), listFailedMessage),
		StatusCode: backend.StatusCodeOf(err),
		Err:        err,
	}
}

func listKey(creds session.Credentials) string {
	return cache.Key("subscriptions", creds.Token)
}
