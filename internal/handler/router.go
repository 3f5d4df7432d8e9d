package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kmarfadi/munasaba-backend/pkg/logger"
	"github.com/kmarfadi/munasaba-backend/pkg/middleware"
	"github.com/kmarfadi/munasaba-backend/pkg/telemetry"
)

// Handlers groups every HTTP handler mounted by the router
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	Organization *OrganizationHandler
	Event        *EventHandler
	Guest        *GuestHandler
	Analytics    *AnalyticsHandler
}

// RouterConfig holds the middleware settings for NewRouter
type RouterConfig struct {
	JWT    *middleware.JWTConfig
	CORS   middleware.CORSConfig
	Logger *logger.Logger
	// AuthLimiter throttles register and login; nil disables it
	AuthLimiter *middleware.RateLimiter
	Tracing     bool
}

// NewRouter builds the gin engine with every route under /api/v1
func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	RegisterValidators()

	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}

	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	if cfg.Tracing {
		router.Use(telemetry.GinMiddleware())
	}
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORSWithConfig(cfg.CORS))

	router.GET("/health", h.Health.Health)
	router.GET("/ready", h.Health.Ready)

	v1 := router.Group("/api/v1")
	requireAuth := middleware.JWTMiddleware(cfg.JWT)

	auth := v1.Group("/auth")
	{
		public := auth.Group("")
		if cfg.AuthLimiter != nil {
			public.Use(cfg.AuthLimiter.Middleware())
		}
		public.POST("/register", h.Auth.Register)
		public.POST("/login", h.Auth.Login)

		auth.POST("/refresh", requireAuth, h.Auth.Refresh)
		auth.GET("/profile", requireAuth, h.Auth.Profile)
	}

	orgs := v1.Group("/organizations", requireAuth)
	{
		orgs.POST("", h.Organization.Create)
		orgs.GET("", h.Organization.List)
		orgs.GET("/slug/:slug", h.Organization.GetBySlug)
		orgs.GET("/:id", h.Organization.GetByID)
		orgs.PUT("/:id", h.Organization.Update)
		orgs.GET("/:id/members", h.Organization.ListMembers)
		orgs.POST("/:id/members", h.Organization.AddMember)
	}

	events := v1.Group("/events", requireAuth)
	{
		events.POST("", h.Event.Create)
		events.GET("", h.Event.List)
		events.GET("/:id", h.Event.Get)
		events.PUT("/:id", h.Event.Update)
		events.DELETE("/:id", h.Event.Delete)
		events.POST("/:id/publish", h.Event.Publish)
		events.GET("/:id/guests", h.Event.Guests)
	}

	guests := v1.Group("/guests", requireAuth)
	{
		guests.POST("", h.Guest.Create)
		guests.GET("", h.Guest.List)
		guests.GET("/:id", h.Guest.Get)
		guests.PUT("/:id", h.Guest.Update)
		guests.DELETE("/:id", h.Guest.Delete)
		guests.PATCH("/:id/check-in", h.Guest.CheckIn)
		guests.PATCH("/:id/check-out", h.Guest.CheckOut)
	}

	analytics := v1.Group("/analytics", requireAuth)
	{
		analytics.GET("/dashboard", h.Analytics.Dashboard)
		analytics.GET("/events/:id", h.Analytics.Event)
		analytics.GET("/attendance-trends", h.Analytics.AttendanceTrends)
		analytics.GET("/event-stats", h.Analytics.EventStats)
		analytics.GET("/guest-stats", h.Analytics.GuestStats)
	}

	return router
}
