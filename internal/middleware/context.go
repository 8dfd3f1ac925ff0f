package middleware

import (
	"context"
	"time"

	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	ctxutil "github.com/Payphone-Digital/hospital-registry/pkg/context"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxRequestIDLength = 128

// RequestContext attaches request id, client IP and user agent to the request
// context and bounds it with timeout. An incoming X-Request-ID is reused.
func RequestContext(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		ctx := ctxutil.WithRequestInfo(c.Request.Context(), requestID, c.ClientIP(), c.Request.UserAgent())
		if correlationID := c.GetHeader(constants.HeaderXCorrelationID); correlationID != "" {
			ctx = ctxutil.WithValue(ctx, ctxutil.CorrelationIDKey, correlationID)
		}

		cancel := context.CancelFunc(func() {})
		if timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, timeout)
		}
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Set(constants.GinKeyRequestID, requestID)
		c.Header(constants.HeaderXRequestID, requestID)

		logger.DebugWithContext(ctx, "Request started").
			String("method", c.Request.Method).
			String("path", c.Request.URL.Path).
			Log()

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			logger.WarnWithContext(ctx, "Request exceeded its deadline").
				String("method", c.Request.Method).
				String("path", c.Request.URL.Path).
				Int("status_code", c.Writer.Status()).
				Duration(ctxutil.GetDuration(ctx)).
				Log()
		}
	}
}
