package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/foxread/models"
	"github.com/use-agent/foxread/render"
)

// Extractor is the orchestrator as seen by the HTTP layer.
type Extractor interface {
	Extract(ctx context.Context, url string, timeout time.Duration) (*models.ExtractionRecord, error)
	WorkerAvailable() bool
	WorkerPath() string
}

// Query returns a handler for GET /api?url=…&format=json.
func Query(ex Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ExtractRequest
		if err := bindQuery(c, &req); err != nil {
			respondError(c, err, time.Now())
			return
		}
		req.Defaults(render.FormatJSON)
		serveExtraction(c, ex, &req)
	}
}

// Path returns a handler for GET /extract/*url?format=markdown.
//
// The target URL is everything after /extract/, so both
// /extract/example.com/a and /extract/https://example.com/a work. A
// protocol-relative target arrives as /extract///host/path.
func Path(ex Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ExtractRequest
		if err := bindQuery(c, &req); err != nil {
			respondError(c, err, time.Now())
			return
		}
		req.URL = strings.TrimPrefix(c.Param("url"), "/")
		req.Defaults(render.FormatMarkdown)
		serveExtraction(c, ex, &req)
	}
}

// bindQuery binds format and timeout. url and format are plain strings, so
// only timeout can fail: it must be whole seconds within the allowed range.
func bindQuery(c *gin.Context, req *models.ExtractRequest) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return models.NewExtractError(
			models.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid query parameter \"timeout\" (%q): must be whole seconds between 1 and %d",
				c.Query("timeout"), models.MaxTimeoutSeconds),
			err,
		)
	}
	return nil
}

// serveExtraction runs the orchestrator and renders the result.
//
// Flow:
//  1. Extract (one worker process, hard deadline).
//  2. Hard error → JSON error with mapped status, no content.
//  3. Record → classify → render in the requested format.
//     A soft failure still answers 200 with success=false.
func serveExtraction(c *gin.Context, ex Extractor, req *models.ExtractRequest) {
	start := time.Now()

	// ── 1. Extract ──────────────────────────────────────────────────
	rec, err := ex.Extract(c.Request.Context(), req.URL, time.Duration(req.Timeout)*time.Second)

	// ── 2. Hard errors ──────────────────────────────────────────────
	if err != nil {
		respondError(c, err, start)
		return
	}

	// ── 3. Render ───────────────────────────────────────────────────
	switch req.Format {
	case render.FormatText:
		c.Data(http.StatusOK, render.MIMEText, []byte(render.Text(rec)))
	case render.FormatMarkdown:
		c.Data(http.StatusOK, render.MIMEMarkdown, []byte(render.Markdown(rec)))
	default:
		resp := render.JSON(rec)
		resp.Timing = models.TimingInfo{TotalMs: time.Since(start).Milliseconds()}
		c.JSON(http.StatusOK, resp)
	}
}
