package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs information about incoming requests using slog. The
// acting user is included once the auth guard has identified one.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		args := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", latency),
			slog.String("request_id", c.Writer.Header().Get(requestIDHeader)),
		}
		if val, ok := c.Get(UserIDContextKey); ok {
			if userID, ok := val.(int64); ok {
				args = append(args, slog.Int64("user_id", userID))
			}
		}
		logger.Info("http request", args...)
	}
}
