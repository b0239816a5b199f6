package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"budong-api/internal/metrics"
	"budong-api/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	sessions  service.SessionService
	search    service.SearchService
	buildings service.BuildingService
	regions   service.RegionService
	limiter   *RateLimiter
	metrics   *metrics.Collector
	gatherer  prometheus.Gatherer
	logger    *logrus.Logger
}

// Deps lists what NewHandler needs. Limiter, Metrics and Gatherer are
// optional.
type Deps struct {
	Users     service.UserService
	Sessions  service.SessionService
	Search    service.SearchService
	Buildings service.BuildingService
	Regions   service.RegionService
	Limiter   *RateLimiter
	Metrics   *metrics.Collector
	Gatherer  prometheus.Gatherer
	Logger    *logrus.Logger
}

func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:     d.Users,
		sessions:  d.Sessions,
		search:    d.Search,
		buildings: d.Buildings,
		regions:   d.Regions,
		limiter:   d.Limiter,
		metrics:   d.Metrics,
		gatherer:  d.Gatherer,
		logger:    logger,
	}
}

// NewRouter returns a gin engine with panic recovery. Forwarding headers
// such as X-Forwarded-For are only honored from trustedProxies; with none,
// the client IP is the socket peer.
func NewRouter(trustedProxies []string) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	if len(trustedProxies) == 0 {
		trustedProxies = nil
	}
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	return router, nil
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger))
	if h.metrics != nil {
		router.Use(h.metrics.Middleware())
	}
	router.Use(corsMiddleware())

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "budong api", "version": "v1"})
	})
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	if h.gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(h.gatherer)))
	}

	api := router.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		limited := authGroup.Group("")
		if h.limiter != nil {
			limited.Use(h.limiter.Middleware())
		}
		limited.POST("/register", h.register)
		limited.POST("/login", h.login)
		limited.POST("/refresh", h.refresh)

		authed := authGroup.Group("", h.requireAuth())
		authed.POST("/logout", h.logout)
		authed.GET("/auth_check", h.authCheck)
		authed.GET("/is_admin", h.requireAdmin(), h.isAdmin)
		authed.POST("/update_password", h.updatePassword)
	}

	api.POST("/search/point", h.searchPoint)
	api.POST("/infrastructure/category", h.infrastructureByCategory)

	api.POST("/buildings/detail", h.buildingDetail)
	api.POST("/buildings/reviews", h.buildingReviews)
	api.POST("/reviews/create", h.requireAuth(), h.createReview)

	user := api.Group("/user", h.requireAuth())
	{
		user.GET("/saved-buildings", h.savedBuildings)
		user.POST("/save-building", h.saveBuilding)
		user.DELETE("/delete-saved-building", h.deleteSavedBuilding)
	}

	api.GET("/region/stats", h.regionStats)
	api.GET("/environment/data", h.environmentData)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}).Info("request")
	}
}
