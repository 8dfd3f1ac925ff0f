package router

import (
	"time"

	"github.com/Payphone-Digital/hospital-registry/config"
	"github.com/Payphone-Digital/hospital-registry/internal/handler"
	"github.com/Payphone-Digital/hospital-registry/internal/middleware"
	"github.com/Payphone-Digital/hospital-registry/pkg/metrics"
	"github.com/gin-gonic/gin"
)

type Router struct {
	adminHandler    *handler.AdminHandler
	hospitalHandler *handler.HospitalHandler
	authHandler     *handler.AuthHandler
	healthHandler   *handler.HealthHandler
	statusHandler   *handler.StatusHandler

	authMw      *middleware.AuthMiddleware
	rateLimiter *middleware.RateLimiter
	metrics     *metrics.Metrics
	Config      *config.Config
}

func NewRouter(
	admin *handler.AdminHandler,
	hospital *handler.HospitalHandler,
	auth *handler.AuthHandler,
	health *handler.HealthHandler,
	status *handler.StatusHandler,

	authMw *middleware.AuthMiddleware,
	m *metrics.Metrics,
	config *config.Config,
) *Router {
	return &Router{
		adminHandler:    admin,
		hospitalHandler: hospital,
		authHandler:     auth,
		healthHandler:   health,
		statusHandler:   status,

		authMw:      authMw,
		rateLimiter: middleware.NewRateLimiter(config.RateLimit.Request, time.Duration(config.RateLimit.Duration)*time.Second),
		metrics:     m,
		Config:      config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	// Recovery first so a panic anywhere below still gets the JSON envelope
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestContext(r.Config.App.Timeout))
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityLoggingMiddleware())
	router.Use(middleware.Metrics(r.metrics))
	router.Use(middleware.CORS(r.Config.CORS.AllowedOrigins))

	router.GET("/metrics", gin.WrapH(r.metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)
		api.GET("/health/live", r.healthHandler.BasicHealth)
		api.GET("/status", r.statusHandler.Status)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RateLimit(r.rateLimiter))

			r.adminRoutes(v1)
			r.hospitalRoutes(v1)
			r.authRoutes(v1)
		}
	}

	return router
}
