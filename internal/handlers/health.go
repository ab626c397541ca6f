package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/commerce"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
)

const serviceName = "storefront"

// Version is set at build time with -ldflags "-X".
var Version = "dev"

var startTime = time.Now()

// Health handles GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}

// Ready handles GET /ready. An unconfigured commerce backend is reported
// but does not make the service unready.
func (h *Handlers) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logging.FromContext(c.Request.Context(), h.logger).Warn("Readiness check failed", logging.Fields{
				"check": name,
				"error": err.Error(),
			})
			checks[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}

	mode := h.mode
	if mode == "" {
		mode = commerce.ModeUnconfigured
	}

	c.JSON(status, gin.H{
		"status":   state,
		"service":  serviceName,
		"commerce": mode,
		"checks":   checks,
	})
}

// Live handles GET /live
func (h *Handlers) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

// Version handles GET /version
func (h *Handlers) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":    Version,
		"service":    serviceName,
		"go_version": runtime.Version(),
		"started_at": startTime.Format(time.RFC3339),
		"uptime_s":   int64(time.Since(startTime).Seconds()),
	})
}
