package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/route"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "routemap:route:"

// CachedProvider serves identical requests from Redis before calling the
// wrapped provider. Cache failures never fail a request.
type CachedProvider struct {
	next   route.Provider
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedProvider wraps next with a Redis cache.
func NewCachedProvider(next route.Provider, client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *CachedProvider {
	return &CachedProvider{next: next, client: client, ttl: ttl, logger: logger}
}

// Name reports the wrapped provider's name.
func (p *CachedProvider) Name() string { return p.next.Name() }

// CacheKey returns the Redis key for req.
func (p *CachedProvider) CacheKey(req route.Request) string {
	return fmt.Sprintf("%s%s:%s", cacheKeyPrefix, p.next.Name(), req.CacheKey())
}

// CalculateRoute implements route.Provider.
func (p *CachedProvider) CalculateRoute(ctx context.Context, req route.Request) (*route.Route, error) {
	key := p.CacheKey(req)

	cached, err := p.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var r route.Route
		if err := json.Unmarshal([]byte(cached), &r); err == nil {
			p.logger.Debug("route cache hit", zap.String("key", key))
			return &r, nil
		}
		p.logger.Warn("discarding unreadable cached route", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		p.logger.Warn("route cache read failed", zap.String("key", key), zap.Error(err))
	}

	r, err := p.next.CalculateRoute(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		p.logger.Debug("not caching invalid route", zap.String("key", key), zap.Error(err))
		return r, nil
	}

	data, err := json.Marshal(r)
	if err != nil {
		p.logger.Warn("failed to encode route for cache", zap.Error(err))
		return r, nil
	}
	if err := p.client.Set(ctx, key, data, p.ttl).Err(); err != nil {
		p.logger.Warn("route cache write failed", zap.String("key", key), zap.Error(err))
	}
	return r, nil
}
