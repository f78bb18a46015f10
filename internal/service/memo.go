package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/godilite/survey-dashboard/internal/analytics"
	"github.com/godilite/survey-dashboard/pkg/cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type FetchFunc[T any] func(ctx context.Context) (T, error)

const defaultSetTimeout = 5 * time.Second

type memoKind string

const (
	memoDashboard memoKind = "dashboard"
	memoOptions   memoKind = "options"
)

// memoKey identifies a derived result. Datasets are addressed by content, so
// a reloaded dataset with new records never hits stale entries.
func memoKey(kind memoKind, datasetID string, view analytics.View, c analytics.Criteria, extra string) string {
	criteria := strconv.FormatUint(xxhash.Sum64String(c.Key()+"\x1e"+extra), 16)
	return fmt.Sprintf("%s:%s:%s:%s", kind, datasetID, view, criteria)
}

// addTTLJitter adds up to ±15s random jitter to TTL to avoid mass expiration.
func addTTLJitter(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	jitter := time.Duration(rand.IntN(30)-15) * time.Second
	if ttl+jitter <= 0 {
		return ttl
	}
	return ttl + jitter
}

// FindAndCache is a read-through memo: a hit is returned as is, a miss is
// computed once per key across concurrent callers and stored in the
// background.
func FindAndCache[T any](
	ctx context.Context,
	c Cacher,
	sf *singleflight.Group,
	key string,
	ttl time.Duration,
	logger *zap.Logger,
	fn FetchFunc[T],
) (T, error) {
	var zero T
	if logger == nil {
		logger = zap.NewNop()
	}

	var cached T
	err := c.Get(ctx, key, &cached)
	switch {
	case err == nil:
		logger.Debug("cache hit", zap.String("key", key))
		return cached, nil

	case errors.Is(err, cache.ErrMiss):
		logger.Debug("cache miss", zap.String("key", key))

	default:
		logger.Warn("cache get error (treating as miss)", zap.String("key", key), zap.Error(err))
	}

	v, err, shared := sf.Do(key, func() (any, error) {
		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}

		go func(v T) {
			setCtx, cancel := context.WithTimeout(context.Background(), defaultSetTimeout)
			defer cancel()

			ttlWithJitter := addTTLJitter(ttl)
			if err := c.Set(setCtx, key, v, ttlWithJitter); err != nil {
				logger.Warn("failed to set cache on miss", zap.String("key", key), zap.Error(err))
			} else {
				logger.Debug("cache populated on miss", zap.String("key", key), zap.Duration("ttl", ttlWithJitter))
			}
		}(value)

		return value, nil
	})
	if err != nil {
		return zero, err
	}

	value, ok := v.(T)
	if !ok {
		logger.Error("singleflight type mismatch", zap.String("key", key))
		return zero, fmt.Errorf("type mismatch for key %q", key)
	}

	if shared {
		logger.Debug("singleflight shared result", zap.String("key", key))
	}

	return value, nil
}
