package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/masteryyh/storefront/pkg/utils/response"
)

func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		response.Abort(c, recovered)
	})
}

func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if requestID := c.GetHeader("X-Request-Id"); requestID != "" {
			attrs = append(attrs, "requestId", requestID)
		}
		if c.Writer.Status() >= 500 {
			slog.ErrorContext(c.Request.Context(), "request handled", attrs...)
			return
		}
		slog.DebugContext(c.Request.Context(), "request handled", attrs...)
	}
}
