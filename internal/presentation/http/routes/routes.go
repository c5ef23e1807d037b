package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mobelio/mobelio-api/internal/config"
	"github.com/mobelio/mobelio-api/internal/presentation/http/handler"
	"github.com/mobelio/mobelio-api/internal/presentation/http/middleware"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Dashboard *handler.DashboardHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg *config.Config
	Log *logrus.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		v1.Use(rateLimiter.Middleware())

		registerDashboardRoutes(v1, h)
	}

	return router
}

func registerDashboardRoutes(v1 *gin.RouterGroup, h *Handlers) {
	dashboard := v1.Group("/dashboard")
	{
		dashboard.GET("/metrics", h.Dashboard.GetMetrics)
		dashboard.POST("/metrics/refresh", h.Dashboard.RefreshMetrics)
		dashboard.GET("/metrics/validate", h.Dashboard.ValidateMetrics)
	}
}
