package inflight

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

const (
	keyPrefix      = "marketplace:inflight:"
	releaseTimeout = 2 * time.Second
)

// RedisTracker shares in-flight markers across replicas. Markers expire after
// ttl so a crashed replica cannot block a record forever.
type RedisTracker struct {
	client *redis.Client
	script *redis.Script
	ttl    func() time.Duration
	log    *zap.Logger
}

func NewRedisTracker(client *redis.Client, ttl func() time.Duration, log *zap.Logger) *RedisTracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisTracker{
		client: client,
		script: redis.NewScript(releaseScript),
		ttl:    ttl,
		log:    log.Named("inflight.redis"),
	}
}

func (t *RedisTracker) Acquire(ctx context.Context, key string) (func(), bool, error) {
	if t == nil || t.client == nil {
		return nil, false, errors.New("inflight redis client not configured")
	}
	if key == "" {
		return nil, false, errors.New("inflight key is empty")
	}
	ttl := t.ttl()
	if ttl <= 0 {
		return nil, false, errors.New("inflight ttl must be positive")
	}

	token := uuid.NewString()
	ok, err := t.client.SetNX(ctx, keyPrefix+key, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			// the caller's context may already be done once the request finished
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
			defer cancel()
			if err := t.script.Run(releaseCtx, t.client, []string{keyPrefix + key}, token).Err(); err != nil {
				t.log.Warn("failed to release inflight marker", zap.String("key", key), zap.Error(err))
			}
		})
	}
	return release, true, nil
}

func (t *RedisTracker) Active(ctx context.Context, key string) bool {
	if t == nil || t.client == nil {
		return false
	}
	n, err := t.client.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		t.log.Warn("failed to read inflight marker", zap.String("key", key), zap.Error(err))
		return false
	}
	return n > 0
}
