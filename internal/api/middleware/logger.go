package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbtimate/mbtimate-backend/pkg/logger"
)

// Logger HTTP 요청 로깅 미들웨어.
// 인증된 요청이면 userId를 함께 남기고, 5xx는 에러 레벨로 올린다
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", c.Writer.Status(),
			"latency", latency,
			"ip", c.ClientIP(),
		}
		if userID, exists := c.Get("userId"); exists {
			fields = append(fields, "userId", userID)
		}

		if c.Writer.Status() >= 500 {
			logger.Error("HTTP Request", fields...)
			return
		}
		logger.Info("HTTP Request", fields...)
	}
}
