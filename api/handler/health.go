package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/foxread/models"
)

// Version is reported by / and /health.
const Version = "1.0.0"

// Health returns a handler for GET /health.
//
// Reports "limited" when the worker executable cannot be found; the
// service still answers, but every extraction would fail fast.
func Health(ex Extractor, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		available := ex.WorkerAvailable()

		status := "healthy"
		if !available {
			status = "limited"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:          status,
			Uptime:          time.Since(startTime).Round(time.Second).String(),
			WorkerAvailable: available,
			WorkerPath:      ex.WorkerPath(),
			Version:         Version,
		})
	}
}

// Home returns a handler for GET /.
func Home() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HomeResponse{
			Service: "FoxRead",
			Version: Version,
			Status:  "running",
			Endpoints: map[string]string{
				"extract": "GET /extract/{url}?format={json|text|markdown}",
				"api":     "GET /api?url={url}&format={json|text|markdown}",
				"test":    "GET /test",
				"health":  "GET /health",
			},
		})
	}
}
