package handlers

import (
	"context"

	"github.com/gorilla/sessions"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/commerce"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/service"
)

// ReadinessCheck reports whether a dependency is usable.
type ReadinessCheck func(ctx context.Context) error

// Handlers holds all HTTP handlers for the storefront API.
type Handlers struct {
	catalogService *service.CatalogService
	cartService    *service.CartService
	couponService  *service.CouponService
	orderService   *service.OrderService
	paymentService *service.PaymentService
	sessionStore   sessions.Store
	mode           commerce.Mode
	checks         map[string]ReadinessCheck
	config         *config.Config
	logger         *logging.LoggerV2
}

// NewHandlers creates a new handlers instance.
func NewHandlers(
	catalogService *service.CatalogService,
	cartService *service.CartService,
	couponService *service.CouponService,
	orderService *service.OrderService,
	paymentService *service.PaymentService,
	sessionStore sessions.Store,
	mode commerce.Mode,
	cfg *config.Config,
) *Handlers {
	registerValidation()

	return &Handlers{
		catalogService: catalogService,
		cartService:    cartService,
		couponService:  couponService,
		orderService:   orderService,
		paymentService: paymentService,
		sessionStore:   sessionStore,
		mode:           mode,
		checks:         make(map[string]ReadinessCheck),
		config:         cfg,
		logger:         logging.NewLoggerV2("handlers"),
	}
}

// AddReadinessCheck registers a dependency probed by GET /ready.
func (h *Handlers) AddReadinessCheck(name string, check ReadinessCheck) {
	h.checks[name] = check
}
