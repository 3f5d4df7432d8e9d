package cache

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kmarfadi/munasaba-backend/pkg/logger"
	"github.com/kmarfadi/munasaba-backend/pkg/redis"
	"github.com/kmarfadi/munasaba-backend/pkg/telemetry"
)

// Store is the subset of the Redis client used by the read path
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) (int64, error)
}

// Cache is what services depend on. It never returns errors: a failed read
// is a miss and a failed write or delete is logged.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
	DeletePattern(ctx context.Context, pattern string)
}

// BreakerConfig configures the circuit breaker in front of the store
type BreakerConfig struct {
	// ConsecutiveFailures trips the breaker
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing
	OpenTimeout time.Duration
	// HalfOpenRequests is the number of trial calls allowed while half-open
	HalfOpenRequests uint32
	// Interval clears the closed-state counts; 0 never clears
	Interval time.Duration
}

// DefaultBreakerConfig returns the breaker settings used when none are configured
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
		HalfOpenRequests:    1,
		Interval:            time.Minute,
	}
}

// ResilientCache guards a Store with a breaker and records hit/miss/error counters
type ResilientCache struct {
	store   Store
	cb      *gobreaker.CircuitBreaker[struct{}]
	log     *logger.Logger
	hits    *telemetry.Counter
	misses  *telemetry.Counter
	errored *telemetry.Counter
}

// NewResilientCache wraps store. A nil log falls back to the global logger.
func NewResilientCache(store Store, cfg BreakerConfig, log *logger.Logger) *ResilientCache {
	if log == nil {
		log = logger.Get()
	}
	log = log.Named("cache")

	def := DefaultBreakerConfig()
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = def.ConsecutiveFailures
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	if cfg.HalfOpenRequests == 0 {
		cfg.HalfOpenRequests = def.HalfOpenRequests
	}

	threshold := cfg.ConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: cfg.HalfOpenRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: countsAsHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("cache circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &ResilientCache{
		store: store,
		cb:    cb,
		log:   log,
		hits: telemetry.MustCounter(telemetry.MetricOpts{
			Name:        "cache_hits_total",
			Description: "Cache-aside reads served from Redis",
		}),
		misses: telemetry.MustCounter(telemetry.MetricOpts{
			Name:        "cache_misses_total",
			Description: "Cache-aside reads that fell through to Postgres",
		}),
		errored: telemetry.MustCounter(telemetry.MetricOpts{
			Name:        "cache_errors_total",
			Description: "Cache operations that failed or were short-circuited",
		}),
	}
}

// State exposes the breaker state for health reporting
func (c *ResilientCache) State() gobreaker.State {
	return c.cb.State()
}

// countsAsHealthy keeps caller cancellations and bad payloads from tripping the breaker;
// neither says anything about whether Redis is reachable.
func countsAsHealthy(err error) bool {
	return err == nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, redis.ErrCodec)
}

func (c *ResilientCache) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func (c *ResilientCache) fail(ctx context.Context, op, key string, err error) {
	c.errored.Inc(ctx, telemetry.CacheKindAttr(op))
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		c.log.DebugContext(ctx, "cache call abandoned by caller", zap.String("op", op), zap.String("key", key))
		return
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.log.DebugContext(ctx, "cache call short-circuited", zap.String("op", op), zap.String("key", key))
		return
	}
	c.log.WarnContext(ctx, "cache call failed", zap.String("op", op), zap.String("key", key), zap.Error(err))
}

// Get decodes the cached value into dest and reports whether it was found
func (c *ResilientCache) Get(ctx context.Context, key string, dest interface{}) bool {
	var found bool
	err := c.run(ctx, func() error {
		var err error
		found, err = c.store.Get(ctx, key, dest)
		return err
	})
	if err != nil {
		c.fail(ctx, "get", key, err)
		c.misses.Inc(ctx, telemetry.CacheResultAttr("error"))
		return false
	}
	if !found {
		c.misses.Inc(ctx, telemetry.CacheResultAttr("miss"))
		return false
	}
	c.hits.Inc(ctx, telemetry.CacheResultAttr("hit"))
	return true
}

// Set stores value under key for ttl
func (c *ResilientCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if err := c.run(ctx, func() error { return c.store.Set(ctx, key, value, ttl) }); err != nil {
		c.fail(ctx, "set", key, err)
	}
}

// Delete removes keys
func (c *ResilientCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.run(ctx, func() error { return c.store.Delete(ctx, keys...) }); err != nil {
		c.fail(ctx, "delete", keys[0], err)
	}
}

// DeletePattern removes every key matching pattern
func (c *ResilientCache) DeletePattern(ctx context.Context, pattern string) {
	err := c.run(ctx, func() error {
		_, err := c.store.DeletePattern(ctx, pattern)
		return err
	})
	if err != nil {
		c.fail(ctx, "delete_pattern", pattern, err)
	}
}

// InvalidateEvent drops the per-event keys and the owner's list pages
func InvalidateEvent(ctx context.Context, c Cache, eventID, organizerID string) {
	if eventID != "" {
		c.Delete(ctx, EventKeys(eventID)...)
	}
	InvalidateLists(ctx, c, organizerID)
}

// InvalidateLists drops every cached list page that may contain the organizer's events
func InvalidateLists(ctx context.Context, c Cache, organizerID string) {
	for _, pattern := range ListPatterns(organizerID) {
		c.DeletePattern(ctx, pattern)
	}
}
