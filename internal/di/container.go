package di

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kmarfadi/munasaba-backend/internal/cache"
	"github.com/kmarfadi/munasaba-backend/internal/handler"
	"github.com/kmarfadi/munasaba-backend/internal/repository"
	"github.com/kmarfadi/munasaba-backend/internal/service"
	"github.com/kmarfadi/munasaba-backend/pkg/config"
	"github.com/kmarfadi/munasaba-backend/pkg/database"
	"github.com/kmarfadi/munasaba-backend/pkg/logger"
	"github.com/kmarfadi/munasaba-backend/pkg/middleware"
	"github.com/kmarfadi/munasaba-backend/pkg/redis"
)

// Container holds all dependencies for the API
type Container struct {
	Config *config.Config
	Logger *logger.Logger

	// Infrastructure
	DB          *database.PostgresDB
	Redis       *redis.Client
	Cache       *cache.ResilientCache
	AuthLimiter *middleware.RateLimiter

	// Repositories
	OrganizationRepo repository.OrganizationRepository
	UserRepo         repository.UserRepository
	EventRepo        repository.EventRepository
	GuestRepo        repository.GuestRepository
	AnalyticsRepo    repository.AnalyticsRepository

	// Services
	AuthService         service.AuthService
	OrganizationService service.OrganizationService
	EventService        service.EventService
	GuestService        service.GuestService
	AnalyticsService    service.AnalyticsService

	// Handlers
	Handlers handler.Handlers
}

// NewContainer connects to Postgres and Redis and wires every layer on top of them.
// The caller owns the returned container and must Close it.
func NewContainer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: log}

	db, err := database.NewPostgres(ctx, PostgresConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	c.DB = db

	rdb, err := redis.NewClient(ctx, RedisConfig(cfg))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	c.Redis = rdb

	c.Cache = cache.NewResilientCache(c.Redis, BreakerConfig(cfg), log)

	if cfg.RateLimit.Enabled {
		limit := middleware.DefaultRateLimitConfig()
		limit.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute
		limit.Burst = cfg.RateLimit.Burst
		c.AuthLimiter = middleware.NewRateLimiter(limit)
	}

	c.wire()
	return c, nil
}

func (c *Container) wire() {
	pool := c.DB.Pool()
	cfg := c.Config

	c.OrganizationRepo = repository.NewPostgresOrganizationRepository(pool)
	c.UserRepo = repository.NewPostgresUserRepository(pool)
	c.EventRepo = repository.NewPostgresEventRepository(pool)
	c.GuestRepo = repository.NewPostgresGuestRepository(pool)
	c.AnalyticsRepo = repository.NewPostgresAnalyticsRepository(pool)

	c.AuthService = service.NewAuthService(c.UserRepo, service.AuthConfig{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		AccessTokenTTL: cfg.JWT.AccessTokenTTL,
	})
	c.OrganizationService = service.NewOrganizationService(c.OrganizationRepo, c.UserRepo)
	c.EventService = service.NewEventService(c.EventRepo, c.GuestRepo, c.UserRepo, c.Cache, TTLPolicy(cfg), c.Logger)
	c.GuestService = service.NewGuestService(c.GuestRepo, c.EventRepo, c.EventService, c.Cache, c.Logger)
	c.AnalyticsService = service.NewAnalyticsService(c.AnalyticsRepo, c.EventRepo, c.GuestRepo)

	c.Handlers = handler.Handlers{
		Health: handler.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handler.Checker{
			"postgres": c.DB.HealthCheck,
			"redis":    c.Redis.Ping,
		}),
		Auth:         handler.NewAuthHandler(c.AuthService, c.Logger),
		Organization: handler.NewOrganizationHandler(c.OrganizationService, c.Logger),
		Event:        handler.NewEventHandler(c.EventService, c.Logger),
		Guest:        handler.NewGuestHandler(c.GuestService, c.Logger),
		Analytics:    handler.NewAnalyticsHandler(c.AnalyticsService, c.Logger),
	}
}

// Router builds the HTTP engine for the wired handlers
func (c *Container) Router() *gin.Engine {
	if c.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	cors := middleware.DefaultCORSConfig()
	if len(c.Config.CORS.AllowedOrigins) > 0 {
		cors.AllowOrigins = c.Config.CORS.AllowedOrigins
	}

	return handler.NewRouter(handler.RouterConfig{
		JWT:         &middleware.JWTConfig{Secret: c.Config.JWT.Secret, Issuer: c.Config.JWT.Issuer},
		CORS:        cors,
		Logger:      c.Logger,
		AuthLimiter: c.AuthLimiter,
		Tracing:     c.Config.OTel.Enabled,
	}, c.Handlers)
}

// Close releases connections in reverse order of acquisition
func (c *Container) Close() {
	if c.AuthLimiter != nil {
		c.AuthLimiter.Stop()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}

// PostgresConfig maps application config onto the pool settings
func PostgresConfig(cfg *config.Config) *database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = cfg.Database.Host
	pg.Port = cfg.Database.Port
	pg.User = cfg.Database.User
	pg.Password = cfg.Database.Password
	pg.Database = cfg.Database.DBName
	pg.SSLMode = cfg.Database.SSLMode
	pg.MaxConns = cfg.Database.MaxConns
	pg.MinConns = cfg.Database.MinConns
	pg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime
	if cfg.Database.ConnectTimeout > 0 {
		pg.ConnectTimeout = cfg.Database.ConnectTimeout
	}
	return pg
}

// RedisConfig maps application config onto the redis client settings
func RedisConfig(cfg *config.Config) *redis.Config {
	rc := redis.DefaultConfig()
	rc.Host = cfg.Redis.Host
	rc.Port = cfg.Redis.Port
	rc.Password = cfg.Redis.Password
	rc.DB = cfg.Redis.DB
	if cfg.Redis.PoolSize > 0 {
		rc.PoolSize = cfg.Redis.PoolSize
	}
	if cfg.Redis.MinIdleConns > 0 {
		rc.MinIdleConns = cfg.Redis.MinIdleConns
	}
	if cfg.Redis.DialTimeout > 0 {
		rc.DialTimeout = cfg.Redis.DialTimeout
	}
	if cfg.Redis.ReadTimeout > 0 {
		rc.ReadTimeout = cfg.Redis.ReadTimeout
	}
	if cfg.Redis.WriteTimeout > 0 {
		rc.WriteTimeout = cfg.Redis.WriteTimeout
	}
	return rc
}

// TTLPolicy returns the configured cache lifetimes, falling back to defaults for unset values
func TTLPolicy(cfg *config.Config) cache.TTLPolicy {
	ttl := cache.DefaultTTLPolicy()
	ttl.EventList = orDefault(cfg.Cache.EventListTTL, ttl.EventList)
	ttl.Event = orDefault(cfg.Cache.EventTTL, ttl.Event)
	ttl.EventGuests = orDefault(cfg.Cache.EventGuestsTTL, ttl.EventGuests)
	return ttl
}

// BreakerConfig returns the cache breaker settings
func BreakerConfig(cfg *config.Config) cache.BreakerConfig {
	return cache.BreakerConfig{
		ConsecutiveFailures: cfg.Cache.BreakerFailures,
		OpenTimeout:         cfg.Cache.BreakerOpenFor,
		HalfOpenRequests:    cfg.Cache.BreakerHalfOpen,
		Interval:            cfg.Cache.BreakerInterval,
	}
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
