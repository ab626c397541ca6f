package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

// CreateOrder handles POST /api/orders
func (h *Handlers) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logging.FromContext(c.Request.Context(), h.logger).Debug("Rejected order request", logging.Fields{
			"error": err.Error(),
		})
		badRequest(c, orderBindingMessage(err))
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err, "Order not found", "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, models.OrderResponse{Order: order})
}

// GetOrder handles GET /api/orders/:id
func (h *Handlers) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.handleError(c, err, "Order not found", "Failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, models.OrderResponse{Order: order})
}
