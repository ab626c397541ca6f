package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", srv.Client())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListProducts_Query(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "script", r.URL.Query().Get("category"))
		assert.False(t, r.URL.Query().Has("per_page"))
		writeJSON(w, http.StatusOK, models.ProductList{
			Products:   []models.Product{{ID: 9, Name: "Brittany Signature Script"}},
			Total:      13,
			TotalPages: 2,
		})
	})

	list, err := c.ListProducts(context.Background(), models.ProductListParams{Page: 2, Category: "script"})
	require.NoError(t, err)
	assert.Equal(t, 13, list.Total)
	require.Len(t, list.Products, 1)
	assert.Equal(t, int64(9), list.Products[0].ID)
}

func TestGetProduct_Related(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/kithara-sophisticated", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("related"))
		writeJSON(w, http.StatusOK, models.ProductResponse{
			Product:         &models.Product{ID: 4},
			RelatedProducts: []models.Product{{ID: 3}, {ID: 5}},
		})
	})

	resp, err := c.GetProduct(context.Background(), "kithara-sophisticated", true)
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.Product.ID)
	assert.Len(t, resp.RelatedProducts, 2)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		notFound bool
	}{
		{"server message", http.StatusNotFound, `{"error":"Order not found"}`, "Order not found", true},
		{"validation", http.StatusBadRequest, `{"error":"Missing required billing field: city"}`, "Missing required billing field: city", false},
		{"no body", http.StatusBadGateway, ``, "HTTP error! status: 502", false},
		{"html body", http.StatusInternalServerError, `<html>oops</html>`, "HTTP error! status: 500", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.GetOrder(context.Background(), 42)
			require.Error(t, err)

			apiErr, ok := IsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.notFound, errors.Is(err, apperrors.ErrNotFound))
		})
	}
}

func TestCreateOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Ada", req.Billing.FirstName)
		require.Len(t, req.LineItems, 1)

		writeJSON(w, http.StatusCreated, models.OrderResponse{Order: &models.Order{ID: 1001, Status: "pending"}})
	})

	order, err := c.CreateOrder(context.Background(), &models.CreateOrderRequest{
		Billing:   &models.Billing{FirstName: "Ada"},
		LineItems: []models.LineItem{{ProductID: 3, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1001), order.ID)
}

func TestValidateCoupon(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req models.CouponRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if *req.Code != "rockvilleversatility5" {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{"error": "Invalid coupon code", "valid": false})
			return
		}
		writeJSON(w, http.StatusOK, models.CouponResponse{
			Coupon: &models.Coupon{Code: *req.Code, Amount: "15", DiscountType: models.DiscountPercent},
			Valid:  true,
		})
	})

	coupon, err := c.ValidateCoupon(context.Background(), "rockvilleversatility5")
	require.NoError(t, err)
	assert.Equal(t, "15", coupon.Amount)

	_, err = c.ValidateCoupon(context.Background(), "NOPE")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestProcessPayment(t *testing.T) {
	url := "https://fonts.example.com/checkout/order-pay/1001"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payment/process", r.URL.Path)
		var req models.ProcessPaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(1001), req.OrderID)
		writeJSON(w, http.StatusOK, models.ProcessPaymentResponse{Success: true, OrderID: req.OrderID, PaymentURL: &url})
	})

	resp, err := c.ProcessPayment(context.Background(), 1001, "paypal")
	require.NoError(t, err)
	require.NotNil(t, resp.PaymentURL)
	assert.Equal(t, url, *resp.PaymentURL)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := New(srv.URL, srv.Client())
	srv.Close()

	_, err := c.ListCategories(context.Background())
	require.Error(t, err)
	_, isAPI := IsAPIError(err)
	assert.False(t, isAPI)
}
