package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seth-walker/HRIS/internal/services"
)

// HeaderRequestID carries the per-request correlation id.
const HeaderRequestID = "X-Request-ID"

// AuditContext attaches the caller's address to the request context so audit
// entries written further down can record it.
func AuditContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := services.WithClientIP(c.Request.Context(), c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestLogger logs HTTP requests with method, path, status and duration.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(HeaderRequestID, reqID)

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000.0),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", reqID),
		}
		if userID, ok := GetUserID(c); ok {
			fields = append(fields, zap.String("user_id", userID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("http", fields...)
		case status >= 400:
			log.Warn("http", fields...)
		default:
			log.Info("http", fields...)
		}
	}
}
