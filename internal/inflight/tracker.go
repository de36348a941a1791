// Package inflight allows at most one running mutation per record and action.
package inflight

import (
	"context"
	"strings"
	"sync"
)

const (
	KindInvoiceExtend     = "invoice.extend"
	KindInvoicePay        = "invoice.pay"
	KindSubscriptionRenew = "subscription.renew"
)

// Key names one record for one kind of mutation.
func Key(kind, id string) string {
	return kind + ":" + strings.TrimSpace(id)
}

// Tracker marks keys as in flight. Unrelated keys never block each other.
type Tracker interface {
	// Acquire marks key as in flight. ok is false when it already was; release
	// is then nil. release is safe to call more than once.
	Acquire(ctx context.Context, key string) (release func(), ok bool, err error)
	Active(ctx context.Context, key string) bool
}

// LocalTracker tracks keys within one process.
type LocalTracker struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewLocalTracker() *LocalTracker {
	return &LocalTracker{active: make(map[string]struct{})}
}

func (t *LocalTracker) Acquire(_ context.Context, key string) (func(), bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, busy := t.active[key]; busy {
		return nil, false, nil
	}
	t.active[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.active, key)
			t.mu.Unlock()
		})
	}, true, nil
}

func (t *LocalTracker) Active(_ context.Context, key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, busy := t.active[key]
	return busy
}
