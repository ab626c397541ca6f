package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the storefront API and the probe endpoints.
func (h *Handlers) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/live", h.Live)
	r.GET("/version", h.Version)

	api := r.Group("/api")
	{
		api.GET("/products", h.ListProducts)
		api.GET("/products/:slug", h.GetProduct)
		api.GET("/categories", h.ListCategories)

		api.POST("/cart/validate", h.ValidateCart)
		api.GET("/cart", h.GetCart)
		api.DELETE("/cart", h.ClearCart)
		api.POST("/cart/items", h.AddCartItem)
		api.PATCH("/cart/items/:product_id", h.UpdateCartItem)
		api.DELETE("/cart/items/:product_id", h.RemoveCartItem)

		api.POST("/coupons/validate", h.ValidateCoupon)

		api.POST("/orders", h.CreateOrder)
		api.GET("/orders/:id", h.GetOrder)

		api.GET("/payment-gateways", h.ListPaymentGateways)
		api.POST("/payment/process", h.ProcessPayment)
		api.POST("/payment/webhook", h.PaymentWebhook)
	}
}
