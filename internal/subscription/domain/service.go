package domain

import (
	"context"
	"errors"

	"github.com/megomed/marketplace/internal/apiresponse"
	"github.com/megomed/marketplace/internal/feedback"
)

type ListSubscriptionResponse struct {
	Subscriptions []SubscriptionView `json:"subscriptions"`
}

type RenewRequest struct {
	SubscriptionID string
}

type Service interface {
	List(ctx context.Context) (ListSubscriptionResponse, error)
	Renew(ctx context.Context, req RenewRequest) (feedback.Outcome, error)
}

// Backend is the subset of the marketplace REST API the renewal workflow uses.
type Backend interface {
	ListSubscriptions(ctx context.Context) ([]Subscription, error)
	RenewSubscription(ctx context.Context, subscriptionID string) (apiresponse.Payload, error)
}

var (
	ErrSubscriptionNotFound  = errors.New("subscription_not_found")
	ErrInvalidSubscriptionID = errors.New("invalid_subscription_id")
	ErrPlanRunning           = errors.New("plan_running")
)
