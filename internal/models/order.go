package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Default payment method used when a checkout omits one.
const (
	DefaultPaymentMethod      = "paypal"
	DefaultPaymentMethodTitle = "PayPal"
)

// Billing is the customer billing address. Company, Address2 and Phone are
// optional; every other field is required to place an order.
type Billing struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Company   string `json:"company,omitempty"`
	Address1  string `json:"address_1" binding:"required"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	Postcode  string `json:"postcode" binding:"required"`
	Country   string `json:"country" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone,omitempty"`
}

// LineItem is the (product, quantity) pair submitted with an order. Price
// and name are resolved by the commerce platform, never by the client.
type LineItem struct {
	ProductID int64 `json:"product_id" binding:"required,min=1"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// RequiredBillingFields lists the mandatory billing fields by JSON name, in
// the order they are checked.
var RequiredBillingFields = []string{
	"first_name", "last_name", "address_1", "city", "state", "postcode", "country", "email",
}

// MissingField returns the JSON name of the first empty required field, or
// "" when the billing address is complete.
func (b *Billing) MissingField() string {
	values := map[string]string{
		"first_name": b.FirstName,
		"last_name":  b.LastName,
		"address_1":  b.Address1,
		"city":       b.City,
		"state":      b.State,
		"postcode":   b.Postcode,
		"country":    b.Country,
		"email":      b.Email,
	}
	for _, field := range RequiredBillingFields {
		if strings.TrimSpace(values[field]) == "" {
			return field
		}
	}
	return ""
}

type CouponLine struct {
	Code string `json:"code"`
}

// CreateOrderRequest is the checkout payload forwarded to the platform.
type CreateOrderRequest struct {
	Billing            *Billing     `json:"billing" binding:"required"`
	LineItems          []LineItem   `json:"line_items" binding:"required,min=1,dive"`
	PaymentMethod      string       `json:"payment_method"`
	PaymentMethodTitle string       `json:"payment_method_title"`
	CouponLines        []CouponLine `json:"coupon_lines"`
}

// OrderLineItem is a line item as priced by the platform.
type OrderLineItem struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     string          `json:"total"`
}

// Order mirrors the commerce platform's order resource.
type Order struct {
	ID                 int64           `json:"id"`
	Status             string          `json:"status"`
	Currency           string          `json:"currency,omitempty"`
	DateCreated        string          `json:"date_created"`
	Total              string          `json:"total"`
	DiscountTotal      string          `json:"discount_total,omitempty"`
	Billing            *Billing        `json:"billing,omitempty"`
	LineItems          []OrderLineItem `json:"line_items,omitempty"`
	PaymentMethod      string          `json:"payment_method,omitempty"`
	PaymentMethodTitle string          `json:"payment_method_title,omitempty"`
	PaymentURL         string          `json:"payment_url,omitempty"`
	CouponLines        []CouponLine    `json:"coupon_lines,omitempty"`
}
