package middleware

import (
	"net/http"

	"smsguard/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIKeyHeader is the header clients present their credential in.
const APIKeyHeader = "x-api-key"

// APIKeyAuth creates a Gin middleware that gates a route group behind a valid
// API key. Missing and invalid keys are both 403, matching the single
// "could not validate credentials" outcome of the auth check.
func APIKeyAuth(keys service.KeyService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		presentedKey := c.GetHeader(APIKeyHeader)

		if !keys.Authenticate(c.Request.Context(), presentedKey) {
			logger.Debug("Rejected request with missing or invalid API key", zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Could not validate credentials"})
			return
		}

		c.Next()
	}
}
