package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/foxread/config"
	"github.com/use-agent/foxread/models"
)

func chain(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/api", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(identityKey))
	})
	return r
}

func get(r http.Handler, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.False(t, resp.Success)
	return resp.Error.Code
}

func TestAuth(t *testing.T) {
	r := chain(Auth([]string{"k1", " k2 "}))

	w := get(r, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.ErrCodeUnauthorized, errorCode(t, w))

	w = get(r, "X-API-Key", "nope")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "X-API-Key", "k1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "k1", w.Body.String())

	w = get(r, "Authorization", "Bearer k2")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "k2", w.Body.String())
}

func TestAuth_NoKeysIsOpen(t *testing.T) {
	w := get(chain(Auth([]string{"", " "})), "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit(t *testing.T) {
	r := chain(Auth([]string{"a", "b"}), RateLimit(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2}))

	assert.Equal(t, http.StatusOK, get(r, "X-API-Key", "a").Code)
	assert.Equal(t, http.StatusOK, get(r, "X-API-Key", "a").Code)

	w := get(r, "X-API-Key", "a")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, models.ErrCodeRateLimited, errorCode(t, w))

	// Separate bucket per key.
	assert.Equal(t, http.StatusOK, get(r, "X-API-Key", "b").Code)
}

func TestBuckets_Sweep(t *testing.T) {
	b := newBuckets(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 1})
	now := time.Now()
	b.allow("old", now.Add(-2*idleAfter))
	b.allow("fresh", now)

	b.sweep(now.Add(-idleAfter))
	assert.NotContains(t, b.entries, "old")
	assert.Contains(t, b.entries, "fresh")
}
