package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/foxread/models"
)

// respondError maps an ExtractError to the correct HTTP status code and
// writes a structured JSON error response.
func respondError(c *gin.Context, err error, start time.Time) {
	var extractErr *models.ExtractError
	if !errors.As(err, &extractErr) {
		extractErr = models.NewExtractError(models.ErrCodeInternal, err.Error(), err)
	}

	status := mapErrorToStatus(extractErr)
	if status >= http.StatusInternalServerError {
		slog.Error("extraction failed", "code", extractErr.Code, "error", err)
	}

	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error:   extractErr.ToDetail(),
		Timing:  &models.TimingInfo{TotalMs: time.Since(start).Milliseconds()},
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ExtractError) int {
	switch e.Code {
	case models.ErrCodeInvalidURL, models.ErrCodeInvalidRequest:
		return http.StatusBadRequest // 400
	case models.ErrCodeTimeout:
		return http.StatusRequestTimeout // 408
	case models.ErrCodeWorkerUnavailable:
		return http.StatusServiceUnavailable // 503
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		// WORKER_CRASHED, MALFORMED_OUTPUT, INTERNAL_ERROR
		return http.StatusInternalServerError // 500
	}
}
