package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

// ListPaymentGateways handles GET /api/payment-gateways
func (h *Handlers) ListPaymentGateways(c *gin.Context) {
	gateways, err := h.paymentService.ListGateways(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "Payment gateways not found", "Failed to fetch payment gateways")
		return
	}

	c.JSON(http.StatusOK, models.GatewaysResponse{Gateways: gateways})
}

// ProcessPayment handles POST /api/payment/process
func (h *Handlers) ProcessPayment(c *gin.Context) {
	var req models.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Order ID is required")
		return
	}

	resp, err := h.paymentService.ProcessPayment(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err, "Order not found", "Failed to process payment")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PaymentWebhook handles POST /api/payment/webhook
func (h *Handlers) PaymentWebhook(c *gin.Context) {
	var payload models.PaymentWebhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, msgInvalidBody)
		return
	}

	c.JSON(http.StatusOK, h.paymentService.HandleWebhook(c.Request.Context(), &payload))
}
