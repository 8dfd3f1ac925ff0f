// middleware/cors.go
package middleware

import (
	"net/http"

	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	corsAllowMethods = "POST, GET, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization"
)

// CORS allows the configured origins. A "*" entry allows any origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader(constants.HeaderOrigin)

		if origin != "" {
			_, ok := allowed[origin]
			if ok || allowAll {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
				c.Writer.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
				c.Writer.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
			} else {
				logger.GetLogger().Debug("Middleware: CORS origin not allowed",
					zap.String("origin", origin),
					zap.String("path", c.Request.URL.Path),
				)
			}
			c.Writer.Header().Add("Vary", constants.HeaderOrigin)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
