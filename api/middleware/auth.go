package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/foxread/models"
)

// identityKey is where Auth stores the accepted key for RateLimit.
const identityKey = "api_key"

// Auth returns API-key authentication middleware.
//
// Accepted headers, in order:
//
//	X-API-Key: <key>
//	Authorization: Bearer <key>
//
// With no configured keys every request passes.
func Auth(apiKeys []string) gin.HandlerFunc {
	keys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys[k] = struct{}{}
		}
	}
	if len(keys) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := requestKey(c)
		switch _, ok := keys[key]; {
		case key == "":
			deny(c, http.StatusUnauthorized, models.ErrCodeUnauthorized,
				"missing API key: send X-API-Key or Authorization: Bearer <key>")
		case !ok:
			deny(c, http.StatusUnauthorized, models.ErrCodeUnauthorized, "invalid API key")
		default:
			c.Set(identityKey, key)
			c.Next()
		}
	}
}

func requestKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
