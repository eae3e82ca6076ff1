package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/use-agent/foxread/models"
)

// deny aborts the chain with the standard error envelope.
func deny(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Success: false,
		Error:   &models.ErrorDetail{Code: code, Message: message},
	})
}
