package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercent      DiscountType = "percent"
	DiscountFixedCart    DiscountType = "fixed_cart"
	DiscountFixedProduct DiscountType = "fixed_product"
)

// Coupon mirrors the commerce platform's coupon resource.
type Coupon struct {
	ID           int64        `json:"id"`
	Code         string       `json:"code"`
	Amount       string       `json:"amount"`
	DiscountType DiscountType `json:"discount_type"`
}

// IsPercent reports whether the coupon discounts a percentage of the
// subtotal. Every other discount type is a fixed amount.
func (c *Coupon) IsPercent() bool {
	return strings.EqualFold(string(c.DiscountType), string(DiscountPercent))
}

// AmountDecimal parses the coupon amount. An empty amount is zero.
func (c *Coupon) AmountDecimal() (decimal.Decimal, error) {
	if c.Amount == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(c.Amount)
}
