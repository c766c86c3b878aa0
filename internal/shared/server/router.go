package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-editor/internal/shared/config"
	"resume-editor/internal/shared/metrics"
	"resume-editor/internal/shared/server/middleware"
	"resume-editor/internal/shared/server/respond"
)

// RouteRegistrar attaches a feature's routes to the /api/v1 group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps lists the feature handlers mounted under /api/v1.
type RouterDeps struct {
	Config   config.Config
	Handlers []RouteRegistrar
	// RateLimits overrides DefaultRateLimits when non-nil.
	RateLimits map[string]middleware.RateLimitRule
}

// DefaultRateLimits returns the per-group token buckets applied to the API.
func DefaultRateLimits() map[string]middleware.RateLimitRule {
	return map[string]middleware.RateLimitRule{
		middleware.GroupDefault: {Rate: 10, Burst: 40},
		middleware.GroupEdit:    {Rate: 20, Burst: 60},
		middleware.GroupExport:  {Rate: 0.2, Burst: 3},
	}
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "dev" && deps.Config.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())
	r.GET("/health", health)

	rules := deps.RateLimits
	if rules == nil {
		rules = DefaultRateLimits()
	}
	api := r.Group("/api/v1")
	api.GET("/health", health)
	api.Use(
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    rules,
			GroupFor: middleware.GroupByRoute,
		}),
	)
	api.GET("/me", me)
	for _, h := range deps.Handlers {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}

	return r
}

func health(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{"ok": true})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
