package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"adisyo-api/logger"
	"adisyo-api/utils/common"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags each request with an id, reusing the caller's header when
// present, and threads it through the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(common.RequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		details := map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"elapsed_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if userID := common.GetUserID(c); userID != nil {
			details["user_id"] = *userID
		}
		log.Info("http_request", "request handled", c.GetString(common.RequestIDKey), details)
	}
}
