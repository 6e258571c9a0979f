package grpc

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/godilite/assessment-server/pkg/cache"
)

type FetchFunc[T any] func(ctx context.Context) (T, error)

const (
	defaultFetchTimeout = 15 * time.Second
	defaultSetTimeout   = 5 * time.Second
	maxTTLJitter        = 15 * time.Second
)

// CachePolicy controls how FindAndCache treats a key.
type CachePolicy struct {
	TTL time.Duration
	// RefreshAhead re-fetches the value in the background on every hit.
	// Leave it off for values that never change once written.
	RefreshAhead bool
}

// addTTLJitter spreads expirations by up to ±15s. Short TTLs are left alone.
func addTTLJitter(ttl time.Duration) time.Duration {
	if ttl <= 2*maxTTLJitter {
		return ttl
	}
	return ttl + rand.N(2*maxTTLJitter+1) - maxTTLJitter
}

// readThrough is one cached read of key.
type readThrough[T any] struct {
	cache  Cacher
	sf     *singleflight.Group
	key    string
	policy CachePolicy
	logger *zap.Logger
}

// FindAndCache implements read-through caching with singleflight. A nil cache
// calls fn directly. Fetch errors are never cached, and a failing cache is
// treated as a miss.
func FindAndCache[T any](
	ctx context.Context,
	c Cacher,
	sf *singleflight.Group,
	key string,
	policy CachePolicy,
	logger *zap.Logger,
	fn FetchFunc[T],
) (T, error) {
	if c == nil {
		return fn(ctx)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := readThrough[T]{cache: c, sf: sf, key: key, policy: policy, logger: logger}

	var cached T
	switch err := c.Get(ctx, key, &cached); {
	case err == nil:
		r.logger.Debug("cache hit", zap.String("key", key))
		if policy.RefreshAhead {
			go r.refresh(fn)
		}
		return cached, nil
	case errors.Is(err, cache.ErrMiss):
		r.logger.Debug("cache miss", zap.String("key", key))
	default:
		r.logger.Warn("cache get error (treating as miss)", zap.String("key", key), zap.Error(err))
	}

	return r.load(ctx, fn)
}

// load fetches once per key across concurrent callers and populates the
// cache without making the caller wait for the write.
func (r readThrough[T]) load(ctx context.Context, fn FetchFunc[T]) (T, error) {
	var zero T

	v, err, shared := r.sf.Do(r.key, func() (any, error) {
		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		go r.put(value, "cache populated on miss")
		return value, nil
	})
	if err != nil {
		return zero, err
	}

	value, ok := v.(T)
	if !ok {
		r.logger.Error("singleflight type mismatch", zap.String("key", r.key))
		return zero, fmt.Errorf("type mismatch for key %q", r.key)
	}
	if shared {
		r.logger.Debug("singleflight shared result", zap.String("key", r.key))
	}
	return value, nil
}

// refresh re-fetches after a short random delay so hits on a hot key do not
// refetch in lockstep.
func (r readThrough[T]) refresh(fn FetchFunc[T]) {
	time.Sleep(rand.N(time.Second))

	_, _, _ = r.sf.Do(r.key+":refresh", func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), defaultFetchTimeout)
		defer cancel()

		value, err := fn(ctx)
		if err != nil {
			r.logger.Warn("background refresh failed", zap.String("key", r.key), zap.Error(err))
			return nil, err
		}
		r.put(value, "cache refreshed in background")
		return value, nil
	})
}

func (r readThrough[T]) put(value T, msg string) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultSetTimeout)
	defer cancel()

	ttl := addTTLJitter(r.policy.TTL)
	if err := r.cache.Set(ctx, r.key, value, ttl); err != nil {
		r.logger.Warn("cache set failed", zap.String("key", r.key), zap.Error(err))
		return
	}
	r.logger.Debug(msg, zap.String("key", r.key), zap.Duration("ttl", ttl))
}

// storeInCache writes a value the caller already holds, for example a result
// that was just computed, so the next read is a hit.
func storeInCache[T any](c Cacher, key string, value T, ttl time.Duration, logger *zap.Logger) {
	if c == nil {
		return
	}
	readThrough[T]{cache: c, key: key, policy: CachePolicy{TTL: ttl}, logger: logger}.put(value, "cache written through")
}
