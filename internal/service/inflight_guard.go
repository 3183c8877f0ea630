package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrAlreadyInFlight is returned when the same mutation is still running.
var ErrAlreadyInFlight = errors.New("operation already in flight")

// releaseScript deletes the lock only if it still holds our token, so a lock that expired
// and was taken by another request is left alone.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const inFlightKeyPrefix = "inflight:"

// InFlightGuard rejects a second submission of the same mutation while the first one is pending.
type InFlightGuard interface {
	// Acquire returns a release func, or ErrAlreadyInFlight.
	Acquire(ctx context.Context, key string) (func(), error)
}

type redisInFlightGuard struct {
	redisClient *redis.Client
	ttl         time.Duration
	log         *logrus.Logger
}

func NewInFlightGuard(redisClient *redis.Client, ttl time.Duration, log *logrus.Logger) InFlightGuard {
	return &redisInFlightGuard{
		redisClient: redisClient,
		ttl:         ttl,
		log:         log,
	}
}

// InFlightKey builds the lock key for one action on one resource, e.g. "rdv:r1:validate".
func InFlightKey(resource, id, action string) string {
	return fmt.Sprintf("%s:%s:%s", resource, id, action)
}

func (g *redisInFlightGuard) Acquire(ctx context.Context, key string) (func(), error) {
	lockKey := inFlightKeyPrefix + key
	token := uuid.NewString()

	ok, err := g.redisClient.SetNX(ctx, lockKey, token, g.ttl).Result()
	if err != nil {
		g.log.Warnf("Failed to acquire in-flight lock %s: %+v", key, err)
		return nil, fmt.Errorf("acquire in-flight lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrAlreadyInFlight
	}

	release := func() {
		// the request context may already be cancelled; the lock must still go
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), inFlightReleaseTimeout)
		defer cancel()

		if err := releaseScript.Run(releaseCtx, g.redisClient, []string{lockKey}, token).Err(); err != nil {
			g.log.Warnf("Failed to release in-flight lock %s: %+v", key, err)
		}
	}
	return release, nil
}

const inFlightReleaseTimeout = 5 * time.Second
