package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

func newTestWooClient(t *testing.T, handler http.HandlerFunc) *WooCommerceClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewWooCommerceClient(config.CommerceConfig{
		SiteURL:        srv.URL,
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
		Timeout:        5 * time.Second,
	}, logging.NewLoggerV2("woocommerce-test"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestWooCommerceClient_ListProducts(t *testing.T) {
	client := newTestWooClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "ck_test", q.Get("consumer_key"))
		assert.Equal(t, "cs_test", q.Get("consumer_secret"))

		switch r.URL.Path {
		case "/wp-json/wc/v3/products/categories":
			assert.Equal(t, "serif", q.Get("slug"))
			writeJSON(w, http.StatusOK, []models.Category{{ID: 7, Name: "Serif", Slug: "serif"}})
		case "/wp-json/wc/v3/products":
			assert.Equal(t, "2", q.Get("page"))
			assert.Equal(t, "5", q.Get("per_page"))
			assert.Equal(t, "7", q.Get("category"))
			assert.Equal(t, "rock", q.Get("search"))
			w.Header().Set("X-WP-Total", "6")
			w.Header().Set("X-WP-TotalPages", "2")
			writeJSON(w, http.StatusOK, []models.Product{{ID: 3, Name: "Rockville Versatility Serif", Price: "25"}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	})

	list, err := client.ListProducts(context.Background(), models.ProductListParams{
		Page:     2,
		PerPage:  5,
		Category: "serif",
		Search:   "rock",
	})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, int64(3), list.Products[0].ID)
	assert.Equal(t, 6, list.Total)
	assert.Equal(t, 2, list.TotalPages)
}

func TestWooCommerceClient_ListProducts_UnknownCategory(t *testing.T) {
	client := newTestWooClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wc/v3/products/categories" {
			t.Errorf("products must not be listed for an unknown category, got %s", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, []models.Category{})
	})

	list, err := client.ListProducts(context.Background(), models.ProductListParams{Page: 1, PerPage: 12, Category: "gothic"})
	require.NoError(t, err)
	assert.Empty(t, list.Products)
	assert.NotNil(t, list.Products)
	assert.Zero(t, list.Total)
}

func TestWooCommerceClient_GetProductBySlug(t *testing.T) {
	client := newTestWooClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("slug") == "kithara-sophisticated" {
			writeJSON(w, http.StatusOK, []models.Product{{ID: 4, Slug: "kithara-sophisticated"}})
			return
		}
		writeJSON(w, http.StatusOK, []models.Product{})
	})

	product, err := client.GetProductBySlug(context.Background(), "kithara-sophisticated")
	require.NoError(t, err)
	assert.Equal(t, int64(4), product.ID)

	_, err = client.GetProductBySlug(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestWooCommerceClient_GetOrder_StatusMapping(t *testing.T) {
	client := newTestWooClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wp-json/wc/v3/orders/42":
			writeJSON(w, http.StatusNotFound, map[string]string{"code": "woocommerce_rest_shop_order_invalid_id"})
		case "/wp-json/wc/v3/orders/500":
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "db down"})
		case "/wp-json/wc/v3/orders/7":
			writeJSON(w, http.StatusOK, models.Order{ID: 7, Status: "pending", Total: "25.00", PaymentURL: "https://pay.example.com/7"})
		}
	})

	_, err := client.GetOrder(context.Background(), 42)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = client.GetOrder(context.Background(), 500)
	var upstream *apperrors.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
	assert.Equal(t, "get_order", upstream.Op)

	order, err := client.GetOrder(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/7", order.PaymentURL)
}

func TestWooCommerceClient_CreateOrder(t *testing.T) {
	client := newTestWooClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/wp-json/wc/v3/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "paypal", req.PaymentMethod)
		require.Len(t, req.LineItems, 1)

		writeJSON(w, http.StatusCreated, models.Order{ID: 321, Status: "pending", Total: "50.00"})
	})

	order, err := client.CreateOrder(context.Background(), &models.CreateOrderRequest{
		Billing:       &models.Billing{FirstName: "Ada", City: "London"},
		LineItems:     []models.LineItem{{ProductID: 3, Quantity: 2}},
		PaymentMethod: "paypal",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(321), order.ID)
}

func TestWooCommerceClient_CreateOrder_MissingRoute(t *testing.T) {
	client := newTestWooClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"code": "rest_no_route"})
	})

	_, err := client.CreateOrder(context.Background(), &models.CreateOrderRequest{
		LineItems: []models.LineItem{{ProductID: 3, Quantity: 1}},
	})
	require.Error(t, err)
	assert.False(t, apperrors.IsNotFound(err))

	var upstream *apperrors.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
	assert.Equal(t, "create_order", upstream.Op)
}

func TestWooCommerceClient_GetProductBySlug_ObjectMetaData(t *testing.T) {
	client := newTestWooClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":9,"slug":"aurora","meta_data":[
			{"id":1,"key":"_license","value":{"seats":5,"web":true}},
			{"id":2,"key":"_styles","value":["regular","bold"]},
			{"id":3,"key":"_weight","value":400},
			{"id":4,"key":"_designer","value":"Ada"}
		]}]`))
	})

	product, err := client.GetProductBySlug(context.Background(), "aurora")
	require.NoError(t, err)
	require.Len(t, product.MetaData, 4)
	assert.Equal(t, "_license", product.MetaData[0].Key)
	assert.JSONEq(t, `{"seats":5,"web":true}`, string(product.MetaData[0].Value))
	assert.JSONEq(t, `["regular","bold"]`, string(product.MetaData[1].Value))
	assert.JSONEq(t, `400`, string(product.MetaData[2].Value))
	assert.JSONEq(t, `"Ada"`, string(product.MetaData[3].Value))
}

func TestWooCommerceClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewWooCommerceClient(config.CommerceConfig{
		SiteURL:        srv.URL,
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		Timeout:        time.Second,
	}, logging.NewLoggerV2("woocommerce-test"))

	_, err := client.ListCategories(context.Background())
	var upstream *apperrors.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Zero(t, upstream.StatusCode)
}

func TestWooCommerceClient_RelatedProducts(t *testing.T) {
	client := newTestWooClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("category"))
		assert.Equal(t, "3", q.Get("exclude"))
		writeJSON(w, http.StatusOK, []models.Product{{ID: 3}, {ID: 4}, {ID: 5}, {ID: 7}})
	})

	product := &models.Product{ID: 3, Categories: []models.Category{{ID: 2, Slug: "serif"}}}
	related, err := client.RelatedProducts(context.Background(), product, 2)
	require.NoError(t, err)
	require.Len(t, related, 2)
	assert.Equal(t, int64(4), related[0].ID)
	assert.Equal(t, int64(5), related[1].ID)
}
