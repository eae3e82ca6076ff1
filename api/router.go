package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/foxread/api/handler"
	"github.com/use-agent/foxread/api/middleware"
	"github.com/use-agent/foxread/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:     Recovery → Logger
//	Extraction: Auth (if enabled) → RateLimit
//
// /, /health and /test stay open so monitoring probes always work.
func NewRouter(ex handler.Extractor, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/", handler.Home())
	r.GET("/health", handler.Health(ex, startTime))
	r.GET("/test", handler.Probe(ex, handler.DefaultProbeTargets))

	protected := r.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.GET("/api", handler.Query(ex))
	protected.GET("/extract/*url", handler.Path(ex))

	return r
}
