// Package middleware holds the gin middleware shared by every route.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/events"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
)

const (
	RequestIDHeader = "X-Request-Id"
	RequestIDKey    = "request_id"
)

// RequestID tags the request with an id, taken from the incoming header or
// generated, and attaches a request-scoped logger to the request context.
func RequestID(base *logging.LoggerV2) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(RequestIDKey, reqID)
		c.Header(RequestIDHeader, reqID)

		ctx := logging.WithContext(c.Request.Context(), base.With(logging.Fields{"request_id": reqID}))
		ctx = events.WithCorrelationID(ctx, reqID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// Logging writes one entry per request. Bodies are never logged because
// they carry billing details.
func Logging(fallback *logging.LoggerV2) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger := logging.FromContext(c.Request.Context(), fallback)
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := logging.Fields{
			"method": c.Request.Method,
			"path":   path,
			"status": c.Writer.Status(),
			"dur_ms": time.Since(start).Milliseconds(),
			"remote": c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields["error"] = c.Errors.String()
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("http_request", fields)
			return
		}
		logger.Info("http_request", fields)
	}
}
