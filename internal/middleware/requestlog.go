package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/holvik/staybook/internal/logger"
)

// RequestLog records one line per request with method, path, status and
// duration.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if logger.InfoLogger == nil {
			return
		}
		logger.InfoLogger.WithFields(map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("request")
	}
}
