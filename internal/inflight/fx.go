package inflight

import (
	"context"
	"strings"
	"time"

	"github.com/megomed/marketplace/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("inflight",
	fx.Provide(NewTracker),
)

type TrackerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Workflow  *config.WorkflowConfigHolder
	Log       *zap.Logger
}

// NewTracker shares markers through Redis when REDIS_ADDR is set and keeps
// them in process otherwise.
func NewTracker(p TrackerParams) Tracker {
	addr := strings.TrimSpace(p.Config.Redis.Addr)
	if addr == "" {
		p.Log.Info("inflight tracker running in process")
		return NewLocalTracker()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(p.Config.Redis.Password),
		DB:       p.Config.Redis.DB,
	})
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	ttl := func() time.Duration { return p.Workflow.Get().InFlightTTL }
	p.Log.Info("inflight tracker using redis", zap.String("addr", addr))
	return NewRedisTracker(client, ttl, p.Log)
}
