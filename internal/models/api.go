package models

// Response envelopes shared by the HTTP handlers and the API client.

type ErrorResponse struct {
	Error string `json:"error"`
	Valid *bool  `json:"valid,omitempty"`
}

type ProductResponse struct {
	Product         *Product  `json:"product"`
	RelatedProducts []Product `json:"relatedProducts,omitempty"`
}

type CategoriesResponse struct {
	Categories []Category `json:"categories"`
}

type CouponRequest struct {
	Code *string `json:"code"`
}

type CouponResponse struct {
	Coupon *Coupon `json:"coupon"`
	Valid  bool    `json:"valid"`
}

type OrderResponse struct {
	Order *Order `json:"order"`
}

type GatewaysResponse struct {
	Gateways []PaymentGateway `json:"gateways"`
}

type CartValidationItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CartValidationRequest struct {
	Items []CartValidationItem `json:"items"`
}

// ValidatedCartItem reports whether a cart line still resolves to a product.
type ValidatedCartItem struct {
	ProductID int64    `json:"product_id"`
	Name      string   `json:"name,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	Quantity  int      `json:"quantity,omitempty"`
	InStock   bool     `json:"in_stock,omitempty"`
	Valid     bool     `json:"valid"`
	Error     string   `json:"error,omitempty"`
}

type CartValidationResponse struct {
	Items []ValidatedCartItem `json:"items"`
	Valid bool                `json:"valid"`
}

type WebhookAck struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
