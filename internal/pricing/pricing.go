// Package pricing holds the cart and coupon arithmetic. All amounts are
// decimals rounded to cents.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var hundred = decimal.NewFromInt(100)

// Totals is the pricing breakdown shown before checkout. It is advisory:
// the commerce platform computes the charged amount.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Discount computes what coupon takes off subtotal. Percent coupons take
// that share of the subtotal; any other type takes its fixed amount. The
// discount never exceeds the subtotal.
func Discount(subtotal decimal.Decimal, coupon *models.Coupon) (decimal.Decimal, error) {
	if coupon == nil || !subtotal.IsPositive() {
		return decimal.Zero, nil
	}

	amount, err := coupon.AmountDecimal()
	if err != nil {
		return decimal.Zero, fmt.Errorf("coupon %q amount: %w", coupon.Code, err)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("coupon %q has negative amount", coupon.Code)
	}

	var discount decimal.Decimal
	if coupon.IsPercent() {
		discount = subtotal.Mul(amount).Div(hundred)
	} else {
		discount = amount
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return discount.Round(2), nil
}

// Calculate computes the totals for subtotal with an optional coupon.
func Calculate(subtotal decimal.Decimal, coupon *models.Coupon) (Totals, error) {
	discount, err := Discount(subtotal, coupon)
	if err != nil {
		return Totals{}, err
	}
	return Totals{
		Subtotal: subtotal.Round(2),
		Discount: discount,
		Total:    subtotal.Sub(discount).Round(2),
	}, nil
}

// Format renders amount in the currency named by the ISO code, falling back
// to a plain two-decimal string for unknown codes.
func Format(code string, amount decimal.Decimal) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return amount.StringFixed(2)
	}
	p := message.NewPrinter(language.English)
	return p.Sprint(currency.Symbol(unit.Amount(amount.InexactFloat64())))
}
