// Package checkout drives a shopper from a filled cart to a placed order
// and its payment handoff.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tm-acme-shop/acme-shop-storefront/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/cart"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/pricing"
)

// API is the subset of the storefront API used during checkout.
type API interface {
	ValidateCoupon(ctx context.Context, code string) (*models.Coupon, error)
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
	ProcessPayment(ctx context.Context, orderID int64, paymentMethod string) (*models.ProcessPaymentResponse, error)
}

var (
	ErrTermsNotAccepted = errors.New("checkout: terms and conditions not accepted")
	ErrEmptyCart        = errors.New("checkout: cart is empty")
)

// pendingPaymentInstructions is shown when the order was placed but the
// payment handoff could not be fetched.
const pendingPaymentInstructions = "Please complete your payment to finalize the order."

// Step is where the shopper goes after a successful submit.
type Step int

const (
	// StepRedirect sends the shopper to the payment provider.
	StepRedirect Step = iota
	// StepInstructions shows offline payment instructions first.
	StepInstructions
	// StepConfirmation goes straight to the order confirmation.
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepRedirect:
		return "redirect"
	case StepInstructions:
		return "instructions"
	case StepConfirmation:
		return "confirmation"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

type Options struct {
	// ShowPaymentInstructions inserts the payment step between order
	// creation and confirmation. When false the cart is cleared as soon as
	// the order exists.
	ShowPaymentInstructions bool
}

func DefaultOptions() Options {
	return Options{ShowPaymentInstructions: true}
}

// Form is the checkout form as submitted by the shopper.
type Form struct {
	Billing            models.Billing
	PaymentMethod      string
	PaymentMethodTitle string
	AcceptTerms        bool
}

// Result is the outcome of a successful submit.
type Result struct {
	Order        *models.Order
	Step         Step
	PaymentURL   string
	Instructions string
}

// Workflow holds the checkout state for one shopper. It is not safe for
// concurrent use.
type Workflow struct {
	api    API
	cart   *cart.Store
	opts   Options
	coupon *models.Coupon
	logger *logging.LoggerV2
}

func NewWorkflow(api API, store *cart.Store, opts Options) *Workflow {
	return &Workflow{
		api:    api,
		cart:   store,
		opts:   opts,
		logger: logging.NewLoggerV2("checkout"),
	}
}

// ApplyCoupon validates code and keeps the coupon for later summaries. Any
// failure drops the previously applied coupon.
func (w *Workflow) ApplyCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	w.RemoveCoupon()

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.NewValidationError("code", "Coupon code is required")
	}

	coupon, err := w.api.ValidateCoupon(ctx, code)
	if err != nil {
		return nil, err
	}
	if _, err := pricing.Discount(w.cart.TotalPrice(), coupon); err != nil {
		return nil, err
	}

	w.coupon = coupon
	return coupon, nil
}

// RemoveCoupon drops the applied coupon so totals revert to the cart subtotal.
func (w *Workflow) RemoveCoupon() {
	w.coupon = nil
}

// Coupon returns the applied coupon, or nil.
func (w *Workflow) Coupon() *models.Coupon {
	return w.coupon
}

// Summary prices the current cart. The discount follows the subtotal, so
// cart edits after ApplyCoupon are reflected.
func (w *Workflow) Summary() (pricing.Totals, error) {
	return pricing.Calculate(w.cart.TotalPrice(), w.coupon)
}

// Submit places the order and fetches its payment handoff. A failure before
// the order exists leaves the cart untouched so the shopper can retry.
func (w *Workflow) Submit(ctx context.Context, form Form) (*Result, error) {
	if !form.AcceptTerms {
		return nil, ErrTermsNotAccepted
	}
	if w.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if field := form.Billing.MissingField(); field != "" {
		return nil, apperrors.NewValidationError(field, "Missing required billing field: "+field)
	}

	req := w.orderRequest(form)
	order, err := w.api.CreateOrder(ctx, req)
	if err != nil {
		w.logger.Warn("Order creation failed", logging.Fields{"error": err.Error()})
		return nil, err
	}
	w.RemoveCoupon()

	if !w.opts.ShowPaymentInstructions {
		if err := w.cart.Clear(); err != nil {
			w.logger.Error("Failed to clear cart", logging.Fields{"order_id": order.ID, "error": err.Error()})
		}
		return &Result{Order: order, Step: StepConfirmation}, nil
	}

	payment, err := w.api.ProcessPayment(ctx, order.ID, req.PaymentMethod)
	if err != nil {
		// The order exists; resubmitting would place a second one.
		w.logger.Warn("Payment handoff failed", logging.Fields{"order_id": order.ID, "error": err.Error()})
		return &Result{Order: order, Step: StepInstructions, Instructions: pendingPaymentInstructions}, nil
	}

	result := &Result{Order: order, Instructions: payment.Instructions}
	if payment.PaymentURL != nil && *payment.PaymentURL != "" {
		result.Step = StepRedirect
		result.PaymentURL = *payment.PaymentURL
	} else {
		result.Step = StepInstructions
	}
	return result, nil
}

// Complete clears the cart and returns where to navigate next.
func (w *Workflow) Complete(result *Result) (string, error) {
	if err := w.cart.Clear(); err != nil {
		return "", err
	}
	if result.Step == StepRedirect {
		return result.PaymentURL, nil
	}
	return ConfirmationPath(result.Order.ID), nil
}

func ConfirmationPath(orderID int64) string {
	return fmt.Sprintf("/order-confirmation/%d", orderID)
}

// orderRequest sends only product ids and quantities. Prices are the
// platform's to compute.
func (w *Workflow) orderRequest(form Form) *models.CreateOrderRequest {
	items := w.cart.Items()
	lineItems := make([]models.LineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, models.LineItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	billing := form.Billing
	req := &models.CreateOrderRequest{
		Billing:            &billing,
		LineItems:          lineItems,
		PaymentMethod:      form.PaymentMethod,
		PaymentMethodTitle: form.PaymentMethodTitle,
		CouponLines:        []models.CouponLine{},
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.DefaultPaymentMethod
		req.PaymentMethodTitle = models.DefaultPaymentMethodTitle
	}
	if w.coupon != nil {
		req.CouponLines = append(req.CouponLines, models.CouponLine{Code: w.coupon.Code})
	}
	return req
}
