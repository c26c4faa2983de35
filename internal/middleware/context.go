package middleware

import (
	"context"
	"time"

	"github.com/centrex/auth-service/internal/constants"
	ctxutil "github.com/centrex/auth-service/pkg/context"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestContextMiddleware seeds the request context with the tracking
// metadata the context-aware logger and the audit sink read back out:
// request id, client ip, host and user agent.
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, ctxutil.RequestIDKey, requestID)
		ctx = context.WithValue(ctx, ctxutil.ClientIPKey, c.ClientIP())
		ctx = context.WithValue(ctx, ctxutil.HostKey, c.Request.Host)
		ctx = context.WithValue(ctx, ctxutil.UserAgentKey, c.Request.UserAgent())
		ctx = context.WithValue(ctx, ctxutil.StartTimeKey, time.Now())

		c.Request = c.Request.WithContext(ctx)
		c.Header(constants.HeaderXRequestID, requestID)

		c.Next()
	}
}

// RequestTimeoutMiddleware bounds each request's context
func RequestTimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctxutil.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
