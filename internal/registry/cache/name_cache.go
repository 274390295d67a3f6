package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"sponsorreg/internal/registry/models"
	"sponsorreg/internal/registry/service"
)

var (
	nameCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sponsorreg_name_cache_hits_total",
		Help: "Name existence checks answered from Redis",
	})
	nameCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sponsorreg_name_cache_misses_total",
		Help: "Name existence checks that fell through to the store",
	})
)

const (
	// Redis key prefix for cached name existence markers
	nameKeyPrefix = "sponsorreg:name:"

	defaultTTL = 5 * time.Minute
)

// NameCache decorates a store with a Redis read-through cache for name
// existence checks, the hottest lookup on the admission path. Cache
// failures fall through to the store; a Redis outage costs latency, not
// correctness.
//
// Only positive answers are cached. A cached "name exists" can only go
// stale through a rename, which invalidates the old key, so a hit is
// always trustworthy; a negative answer must always be re-checked.
type NameCache struct {
	service.Store

	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// Option configures a NameCache.
type Option func(*NameCache)

// WithTTL overrides the default expiry for cached markers.
func WithTTL(ttl time.Duration) Option {
	return func(c *NameCache) {
		c.ttl = ttl
	}
}

// WithLogger sets the logger used for cache maintenance warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *NameCache) {
		c.logger = logger
	}
}

// New wraps the given store. The client lifecycle is managed externally.
func New(store service.Store, client *redis.Client, opts ...Option) *NameCache {
	c := &NameCache{
		Store:  store,
		client: client,
		logger: slog.New(slog.DiscardHandler),
		ttl:    defaultTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// NameExists answers from Redis when a marker is present, otherwise asks
// the store and caches a positive answer.
func (c *NameCache) NameExists(ctx context.Context, name string) (bool, error) {
	key := nameKeyPrefix + name

	_, err := c.client.Get(ctx, key).Result()
	if err == nil {
		nameCacheHits.Inc()
		return true, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "name cache read failed", "error", err)
	}
	nameCacheMisses.Inc()

	exists, err := c.Store.NameExists(ctx, name)
	if err != nil {
		return false, err
	}
	if exists {
		c.mark(ctx, name)
	}
	return exists, nil
}

// Create writes through to the store and marks the admitted name.
func (c *NameCache) Create(ctx context.Context, agreement models.Agreement) (uint64, error) {
	id, err := c.Store.Create(ctx, agreement)
	if err != nil {
		return 0, err
	}
	c.mark(ctx, agreement.Name)
	return id, nil
}

// Replace writes through to the store, drops the marker for whatever name
// the agreement held before, and marks the new one. The old key is deleted
// rather than looked up first; deleting an absent key is harmless.
func (c *NameCache) Replace(ctx context.Context, id uint64, agreement models.Agreement, update models.AgreementUpdate) error {
	previous, err := c.Store.Find(ctx, id)
	if err != nil {
		return err
	}

	if err := c.Store.Replace(ctx, id, agreement, update); err != nil {
		return err
	}

	if previous.Name != agreement.Name {
		if err := c.client.Del(ctx, nameKeyPrefix+previous.Name).Err(); err != nil {
			c.logger.WarnContext(ctx, "name cache invalidation failed",
				"name", previous.Name, "error", err)
		}
	}
	c.mark(ctx, agreement.Name)
	return nil
}

func (c *NameCache) mark(ctx context.Context, name string) {
	if err := c.client.Set(ctx, nameKeyPrefix+name, "1", c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "name cache write failed", "name", name, "error", err)
	}
}
