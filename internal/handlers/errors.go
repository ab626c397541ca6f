package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

const (
	msgNotConfigured = "Commerce backend not configured"
	msgInvalidBody   = "Invalid request body"
)

// handleError writes the JSON error for err. Validation errors become 400
// with their message, not-found becomes 404 with notFound, and everything
// else is logged and becomes 500 with the generic failure message.
func (h *Handlers) handleError(c *gin.Context, err error, notFound, failure string) {
	if v, ok := apperrors.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: v.Message})
		return
	}

	if apperrors.IsNotFound(err) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: notFound})
		return
	}

	logger := logging.FromContext(c.Request.Context(), h.logger)
	logger.Error(failure, logging.Fields{
		"path":  c.FullPath(),
		"error": err.Error(),
	})
	_ = c.Error(err)

	if errors.Is(err, apperrors.ErrNotConfigured) {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: msgNotConfigured})
		return
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: failure})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: message})
}
