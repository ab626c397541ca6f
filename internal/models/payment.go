package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PaymentGateway is a payment method enabled on the commerce platform.
type PaymentGateway struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// Payment method identifiers with dedicated customer instructions.
const (
	PaymentMethodPayPal       = "paypal"
	PaymentMethodCreditCard   = "credit-card"
	PaymentMethodStripe       = "stripe"
	PaymentMethodBACS         = "bacs"
	PaymentMethodBankTransfer = "bank-transfer"
	PaymentMethodCOD          = "cod"
)

type ProcessPaymentRequest struct {
	OrderID       int64  `json:"orderId"`
	PaymentMethod string `json:"paymentMethod"`
}

// ProcessPaymentResponse packages what the storefront already knows about
// an order's payment. PaymentURL is nil for methods paid outside a redirect.
type ProcessPaymentResponse struct {
	Success       bool    `json:"success"`
	PaymentURL    *string `json:"paymentUrl"`
	OrderID       int64   `json:"orderId"`
	PaymentMethod string  `json:"paymentMethod"`
	Instructions  string  `json:"instructions"`
	OrderStatus   string  `json:"orderStatus"`
	OrderTotal    string  `json:"orderTotal"`
}

// PaymentWebhook is the payload posted by a payment provider.
type PaymentWebhook struct {
	OrderID       int64  `json:"orderId"`
	Status        string `json:"status"`
	PaymentMethod string `json:"paymentMethod"`
	TransactionID string `json:"transactionId"`
}

// UnmarshalJSON accepts orderId as a number or a numeric string.
func (r *ProcessPaymentRequest) UnmarshalJSON(data []byte) error {
	type plain ProcessPaymentRequest
	aux := struct {
		*plain
		OrderID looseOrderID `json:"orderId"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.OrderID = int64(aux.OrderID)
	return nil
}

// UnmarshalJSON accepts orderId as a number or a numeric string.
func (p *PaymentWebhook) UnmarshalJSON(data []byte) error {
	type plain PaymentWebhook
	aux := struct {
		*plain
		OrderID looseOrderID `json:"orderId"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.OrderID = int64(aux.OrderID)
	return nil
}

// looseOrderID decodes from a JSON number or a string holding one. Payment
// providers and form posts send both. An empty string or null is zero.
type looseOrderID int64

func (id *looseOrderID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*id = 0
			return nil
		}
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("orderId %s is not an integer", data)
	}
	*id = looseOrderID(v)
	return nil
}
