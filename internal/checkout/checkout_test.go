package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/cart"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

type fakeAPI struct {
	coupons    map[string]*models.Coupon
	orderErr   error
	paymentErr error
	paymentURL string

	orders   []*models.CreateOrderRequest
	payments []int64
}

func (f *fakeAPI) ValidateCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	if c, ok := f.coupons[code]; ok {
		return c, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeAPI) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	f.orders = append(f.orders, req)
	return &models.Order{ID: int64(1000 + len(f.orders)), Status: "pending"}, nil
}

func (f *fakeAPI) ProcessPayment(ctx context.Context, orderID int64, method string) (*models.ProcessPaymentResponse, error) {
	if f.paymentErr != nil {
		return nil, f.paymentErr
	}
	f.payments = append(f.payments, orderID)
	resp := &models.ProcessPaymentResponse{Success: true, OrderID: orderID, PaymentMethod: method, Instructions: "Pay by bank transfer."}
	if f.paymentURL != "" {
		url := f.paymentURL
		resp.PaymentURL = &url
	}
	return resp, nil
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		coupons: map[string]*models.Coupon{
			"rockvilleversatility5": {Code: "rockvilleversatility5", Amount: "15", DiscountType: models.DiscountPercent},
			"TENOFF":                {Code: "TENOFF", Amount: "10", DiscountType: models.DiscountFixedCart},
		},
	}
}

func newCart(t *testing.T, items ...cart.Item) *cart.Store {
	t.Helper()
	store, err := cart.NewStore(cart.NewMemoryStorage(nil))
	require.NoError(t, err)
	for _, item := range items {
		require.NoError(t, store.AddItem(item))
	}
	return store
}

func fontItem(id int64, price string, qty int) cart.Item {
	return cart.Item{ProductID: id, Name: gofakeit.ProductName(), Price: decimal.RequireFromString(price), Quantity: qty, License: "desktop"}
}

func validForm() Form {
	addr := gofakeit.Address()
	return Form{
		Billing: models.Billing{
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
			Address1:  addr.Street,
			City:      addr.City,
			State:     addr.State,
			Postcode:  addr.Zip,
			Country:   "US",
			Email:     gofakeit.Email(),
		},
		PaymentMethod:      "bacs",
		PaymentMethodTitle: "Direct bank transfer",
		AcceptTerms:        true,
	}
}

func TestApplyCoupon(t *testing.T) {
	api := newFakeAPI()
	w := NewWorkflow(api, newCart(t, fontItem(3, "25", 2), fontItem(12, "19", 1)), DefaultOptions())

	_, err := w.ApplyCoupon(context.Background(), " rockvilleversatility5 ")
	require.NoError(t, err)

	totals, err := w.Summary()
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("69").Equal(totals.Subtotal))
	assert.True(t, decimal.RequireFromString("10.35").Equal(totals.Discount))
	assert.True(t, decimal.RequireFromString("58.65").Equal(totals.Total))

	_, err = w.ApplyCoupon(context.Background(), "BOGUS")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Nil(t, w.Coupon())

	totals, err = w.Summary()
	require.NoError(t, err)
	assert.True(t, totals.Discount.IsZero(), "a failed coupon must not leave a stale discount")

	_, err = w.ApplyCoupon(context.Background(), "")
	_, isValidation := apperrors.AsValidation(err)
	assert.True(t, isValidation)
}

func TestRemoveCoupon(t *testing.T) {
	w := NewWorkflow(newFakeAPI(), newCart(t, fontItem(3, "25", 2)), DefaultOptions())

	_, err := w.ApplyCoupon(context.Background(), "TENOFF")
	require.NoError(t, err)
	require.NotNil(t, w.Coupon())

	w.RemoveCoupon()
	assert.Nil(t, w.Coupon())

	totals, err := w.Summary()
	require.NoError(t, err)
	assert.True(t, totals.Discount.IsZero())
	assert.True(t, decimal.RequireFromString("50").Equal(totals.Total))
}

func TestSummary_FollowsCart(t *testing.T) {
	store := newCart(t, fontItem(1, "25", 1))
	w := NewWorkflow(newFakeAPI(), store, DefaultOptions())

	_, err := w.ApplyCoupon(context.Background(), "TENOFF")
	require.NoError(t, err)

	require.NoError(t, store.AddItem(fontItem(2, "25", 1)))

	totals, err := w.Summary()
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("40").Equal(totals.Total))
}

func TestSubmit_Gates(t *testing.T) {
	api := newFakeAPI()

	form := validForm()
	form.AcceptTerms = false
	_, err := NewWorkflow(api, newCart(t, fontItem(1, "25", 1)), DefaultOptions()).Submit(context.Background(), form)
	assert.ErrorIs(t, err, ErrTermsNotAccepted)

	_, err = NewWorkflow(api, newCart(t), DefaultOptions()).Submit(context.Background(), validForm())
	assert.ErrorIs(t, err, ErrEmptyCart)

	form = validForm()
	form.Billing.Postcode = "  "
	_, err = NewWorkflow(api, newCart(t, fontItem(1, "25", 1)), DefaultOptions()).Submit(context.Background(), form)
	v, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Missing required billing field: postcode", v.Message)

	assert.Empty(t, api.orders)
}

func TestSubmit_Instructions(t *testing.T) {
	api := newFakeAPI()
	store := newCart(t, fontItem(3, "25", 2), fontItem(12, "19", 1))
	w := NewWorkflow(api, store, DefaultOptions())

	_, err := w.ApplyCoupon(context.Background(), "rockvilleversatility5")
	require.NoError(t, err)

	result, err := w.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, StepInstructions, result.Step)
	assert.Equal(t, "Pay by bank transfer.", result.Instructions)
	assert.Empty(t, result.PaymentURL)

	require.Len(t, api.orders, 1)
	req := api.orders[0]
	assert.Equal(t, []models.LineItem{{ProductID: 3, Quantity: 2}, {ProductID: 12, Quantity: 1}}, req.LineItems)
	assert.Equal(t, []models.CouponLine{{Code: "rockvilleversatility5"}}, req.CouponLines)
	assert.Equal(t, []int64{1001}, api.payments)
	assert.Nil(t, w.Coupon(), "the coupon is consumed by the order")

	assert.False(t, store.IsEmpty(), "cart is kept until the shopper continues")

	next, err := w.Complete(result)
	require.NoError(t, err)
	assert.Equal(t, "/order-confirmation/1001", next)
	assert.True(t, store.IsEmpty())
}

func TestSubmit_Redirect(t *testing.T) {
	api := newFakeAPI()
	api.paymentURL = "https://fonts.example.com/checkout/order-pay/1001"
	store := newCart(t, fontItem(3, "25", 1))
	w := NewWorkflow(api, store, DefaultOptions())

	form := validForm()
	form.PaymentMethod = ""
	result, err := w.Submit(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, StepRedirect, result.Step)
	assert.Equal(t, "paypal", api.orders[0].PaymentMethod)

	next, err := w.Complete(result)
	require.NoError(t, err)
	assert.Equal(t, api.paymentURL, next)
	assert.True(t, store.IsEmpty())
}

func TestSubmit_OrderFailureKeepsCart(t *testing.T) {
	api := newFakeAPI()
	api.orderErr = errors.New("HTTP error! status: 500")
	store := newCart(t, fontItem(3, "25", 1))
	w := NewWorkflow(api, store, DefaultOptions())

	_, err := w.Submit(context.Background(), validForm())
	require.Error(t, err)
	assert.Equal(t, 1, store.TotalItems())
	assert.Empty(t, api.payments)
}

func TestSubmit_PaymentFailureAfterOrder(t *testing.T) {
	api := newFakeAPI()
	api.paymentErr = errors.New("HTTP error! status: 502")
	w := NewWorkflow(api, newCart(t, fontItem(3, "25", 1)), DefaultOptions())

	result, err := w.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, StepInstructions, result.Step)
	assert.Equal(t, pendingPaymentInstructions, result.Instructions)
	assert.Equal(t, int64(1001), result.Order.ID)
}

func TestSubmit_WithoutInstructionsStep(t *testing.T) {
	api := newFakeAPI()
	store := newCart(t, fontItem(3, "25", 1))
	w := NewWorkflow(api, store, Options{ShowPaymentInstructions: false})

	result, err := w.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, StepConfirmation, result.Step)
	assert.True(t, store.IsEmpty())
	assert.Empty(t, api.payments)

	next, err := w.Complete(result)
	require.NoError(t, err)
	assert.Equal(t, "/order-confirmation/1001", next)
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "redirect", StepRedirect.String())
	assert.Equal(t, "Step(9)", Step(9).String())
}
