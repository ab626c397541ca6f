package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

// ValidateCart handles POST /api/cart/validate
func (h *Handlers) ValidateCart(c *gin.Context) {
	var req models.CartValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Items == nil {
		badRequest(c, "Invalid cart items")
		return
	}

	c.JSON(http.StatusOK, h.cartService.ValidateCart(c.Request.Context(), req.Items))
}
