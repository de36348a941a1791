package backend

import (
	"context"

	"github.com/megomed/marketplace/internal/apiresponse"
	subscriptiondomain "github.com/megomed/marketplace/internal/subscription/domain"
)

const (
	pathMySubscriptions   = "/subscriptions/my-subscriptions"
	pathRenewSubscription = "/subscriptions/renew"
)

// SubscriptionClient adapts Client to the renewal workflow.
type SubscriptionClient struct {
	*Client
}

func NewSubscriptionClient(c *Client) subscriptiondomain.Backend {
	return &SubscriptionClient{Client: c}
}

func (c *SubscriptionClient) ListSubscriptions(ctx context.Context) ([]subscriptiondomain.Subscription, error) {
	return getList[subscriptiondomain.Subscription](ctx, c.Client, "list_subscriptions", pathMySubscriptions)
}

func (c *SubscriptionClient) RenewSubscription(ctx context.Context, subscriptionID string) (apiresponse.Payload, error) {
	return c.post(ctx, "renew_subscription", pathRenewSubscription, map[string]string{"subscriptionId": subscriptionID})
}
