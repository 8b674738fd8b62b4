package logic

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clashstats_cache_hits_total",
		Help: "Total number of analytics responses served from cache",
	}, []string{"kind"})

	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clashstats_cache_misses_total",
		Help: "Total number of analytics responses computed on demand",
	}, []string{"kind"})

	aggregationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "clashstats_aggregation_duration_seconds",
		Help:    "Duration of fetch plus aggregation per analytics kind",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
)

// RedisCache implements Cache on a Redis client
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a cache whose keys are namespaced by prefix
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.client.Get(ctx, c.prefix+key).Bytes()
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

type refreshKey struct{}

// WithCacheRefresh marks ctx so cached lookups recompute and overwrite their entry
func WithCacheRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, refreshKey{}, true)
}

func refreshing(ctx context.Context) bool {
	v, _ := ctx.Value(refreshKey{}).(bool)
	return v
}

// cacheKey hashes the request so every distinct query gets its own entry
func cacheKey(kind string, req any) string {
	data, _ := json.Marshal(req)
	sum := sha256.Sum256(data)
	return kind + ":" + hex.EncodeToString(sum[:12])
}

// cached serves kind/req from cache or computes, stores and returns it.
// Cache failures never fail the request. A nil cache disables caching.
func cached[T any](ctx context.Context, cache Cache, ttl time.Duration, logger *zap.SugaredLogger, kind string, req any, compute func(context.Context) (T, error)) (T, error) {
	var zero T
	key := cacheKey(kind, req)

	if cache != nil && !refreshing(ctx) {
		data, err := cache.Get(ctx, key)
		switch {
		case err == nil:
			var out T
			if err := json.Unmarshal(data, &out); err == nil {
				cacheHits.WithLabelValues(kind).Inc()
				return out, nil
			}
			logger.Warnw("Discarding undecodable cache entry", "kind", kind, "key", key)
		case !errors.Is(err, redis.Nil):
			logger.Warnw("Cache read failed", "kind", kind, "error", err)
		}
	}
	cacheMisses.WithLabelValues(kind).Inc()

	start := time.Now()
	out, err := compute(ctx)
	aggregationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		return zero, err
	}

	if cache != nil {
		data, err := json.Marshal(out)
		if err != nil {
			return zero, fmt.Errorf("encode %s: %w", kind, err)
		}
		if err := cache.Set(ctx, key, data, ttl); err != nil {
			logger.Warnw("Cache write failed", "kind", kind, "error", err)
		}
	}
	return out, nil
}
