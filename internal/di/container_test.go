package di

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kmarfadi/munasaba-backend/internal/cache"
	"github.com/kmarfadi/munasaba-backend/pkg/config"
)

func TestTTLPolicy_FallsBackPerField(t *testing.T) {
	cfg := &config.Config{Cache: config.CacheConfig{EventListTTL: time.Minute}}

	ttl := TTLPolicy(cfg)
	def := cache.DefaultTTLPolicy()
	assert.Equal(t, time.Minute, ttl.EventList)
	assert.Equal(t, def.Event, ttl.Event)
	assert.Equal(t, def.EventGuests, ttl.EventGuests)
}

func TestBreakerConfig(t *testing.T) {
	cfg := &config.Config{Cache: config.CacheConfig{
		BreakerFailures: 3,
		BreakerOpenFor:  10 * time.Second,
		BreakerHalfOpen: 2,
		BreakerInterval: time.Minute,
	}}

	assert.Equal(t, cache.BreakerConfig{
		ConsecutiveFailures: 3,
		OpenTimeout:         10 * time.Second,
		HalfOpenRequests:    2,
		Interval:            time.Minute,
	}, BreakerConfig(cfg))
}

func TestPostgresConfig(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", DBName: "munasaba", SSLMode: "require", MaxConns: 10,
	}}

	pg := PostgresConfig(cfg)
	assert.Equal(t, "db", pg.Host)
	assert.Equal(t, 5433, pg.Port)
	assert.Equal(t, "munasaba", pg.Database)
	assert.Equal(t, int32(10), pg.MaxConns)
	assert.Equal(t, 5*time.Second, pg.ConnectTimeout)
}

func TestRedisConfig_KeepsDefaultsForZeroValues(t *testing.T) {
	cfg := &config.Config{Redis: config.RedisConfig{Host: "cache", Port: 6380}}

	rc := RedisConfig(cfg)
	assert.Equal(t, "cache:6380", rc.Addr())
	assert.Equal(t, 20, rc.PoolSize)
	assert.Equal(t, int64(100), rc.ScanCount)
}
