package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/apiclient"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/cart"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/commerce"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/events"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/handlers"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/service"
)

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gw := commerce.NewGateway(commerce.Unconfigured{SampleData: true})
	publisher := events.NoopPublisher{}
	h := handlers.NewHandlers(
		service.NewCatalogService(gw),
		service.NewCartService(gw),
		service.NewCouponService(gw),
		service.NewOrderService(gw, publisher),
		service.NewPaymentService(gw, publisher),
		sessions.NewCookieStore([]byte("cli-test-session-key-0123456789ab")),
		commerce.ModeSample,
		&config.Config{},
	)
	router := gin.New()
	h.RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	store, err := cart.NewStore(cart.NewFileStorage(filepath.Join(t.TempDir(), "cart.json")))
	require.NoError(t, err)

	var out bytes.Buffer
	return &app{
		api:      apiclient.New(srv.URL, srv.Client()),
		cart:     store,
		currency: "USD",
		out:      &out,
	}, &out
}

func TestNewApp_FromConfig(t *testing.T) {
	t.Setenv("STOREFRONT_CLIENT__CART_FILE", filepath.Join(t.TempDir(), "cart.json"))
	t.Setenv("STOREFRONT_COMMERCE__CURRENCY", "EUR")

	cfg, err := config.Load()
	require.NoError(t, err)

	var out bytes.Buffer
	a, err := newApp(cfg, &out)
	require.NoError(t, err)
	assert.Equal(t, "EUR", a.currency)
	assert.NotNil(t, a.api)
	assert.True(t, a.cart.IsEmpty())
}

func TestCheckoutFlow(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.run(ctx, "add", []string{"-slug", "rockville-versatility-serif", "-qty", "2"}))
	require.NoError(t, a.run(ctx, "add", []string{"-slug", "barcelony-signature", "-license", "web"}))
	assert.Equal(t, 3, a.cart.TotalItems())

	out.Reset()
	require.NoError(t, a.run(ctx, "cart", []string{"-coupon", "rockvilleversatility5"}))
	assert.Contains(t, out.String(), "Discount")
	assert.Contains(t, out.String(), "58.65")

	out.Reset()
	err := a.run(ctx, "checkout", []string{
		"-first-name", "Ada", "-last-name", "Lovelace", "-address", "12 St James's Square",
		"-city", "London", "-state", "LND", "-postcode", "SW1Y 4JH", "-country", "GB",
		"-email", "ada@example.com", "-payment", "bacs", "-coupon", "rockvilleversatility5",
		"-accept-terms",
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Order #1001 placed")
	assert.Contains(t, out.String(), "bank transfer")
	assert.Contains(t, out.String(), "/order-confirmation/1001")
	assert.True(t, a.cart.IsEmpty())

	out.Reset()
	require.NoError(t, a.run(ctx, "order", []string{"-id", "1001"}))
	assert.Contains(t, out.String(), "Order #1001: pending")
}

func TestCheckout_RequiresTerms(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.run(ctx, "add", []string{"-slug", "bentley-monoline"}))
	err := a.run(ctx, "checkout", []string{"-first-name", "Ada"})
	require.Error(t, err)
	assert.Equal(t, 1, a.cart.TotalItems())
}

func TestCommands(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.run(ctx, "products", []string{"-category", "script", "-orderby", "price", "-order", "asc"}))
	assert.Contains(t, out.String(), "barcelony-signature")
	assert.Contains(t, out.String(), "4 products, 1 pages")

	out.Reset()
	require.NoError(t, a.run(ctx, "product", []string{"-slug", "kithara-sophisticated"}))
	assert.Contains(t, out.String(), "You may also like")

	out.Reset()
	require.NoError(t, a.run(ctx, "gateways", nil))
	assert.Contains(t, out.String(), "bacs")

	assert.Error(t, a.run(ctx, "order", []string{"-id", "42"}))
	assert.Error(t, a.run(ctx, "order", []string{"-id", "abc"}))
	assert.Error(t, a.run(ctx, "dance", nil))

	require.NoError(t, a.run(ctx, "add", []string{"-slug", "bentley-monoline"}))
	require.NoError(t, a.run(ctx, "update", []string{"-id", "8", "-qty", "0"}))
	assert.True(t, a.cart.IsEmpty())
}
