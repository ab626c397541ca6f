// Package commerce selects how the storefront reaches its commerce backend.
//
// The connection is resolved once at startup into either a Configured
// client or an Unconfigured marker. NewGateway is the single place that
// branches on it; everything downstream depends on the Gateway interface.
package commerce

import (
	"context"

	"github.com/tm-acme-shop/acme-shop-storefront/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/clients"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

// Gateway is the set of commerce operations the storefront uses.
type Gateway interface {
	ListProducts(ctx context.Context, params models.ProductListParams) (*models.ProductList, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	RelatedProducts(ctx context.Context, product *models.Product, limit int) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCoupon(ctx context.Context, code string) (*models.Coupon, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
	ListPaymentGateways(ctx context.Context) ([]models.PaymentGateway, error)
}

var (
	_ Gateway = (*clients.WooCommerceClient)(nil)
	_ Gateway = (*clients.SampleCatalog)(nil)
	_ Gateway = notConfiguredGateway{}
)

// Mode names how a Gateway reaches the backend.
type Mode string

const (
	ModeLive         Mode = "live"
	ModeSample       Mode = "sample"
	ModeUnconfigured Mode = "unconfigured"
)

// Connection is either Configured or Unconfigured.
type Connection interface {
	Mode() Mode
	isConnection()
}

// Configured carries a live commerce client.
type Configured struct {
	Client Gateway
}

func (Configured) Mode() Mode    { return ModeLive }
func (Configured) isConnection() {}

// Unconfigured means credentials are absent. SampleData selects between the
// static sample catalog and failing every call with ErrNotConfigured.
type Unconfigured struct {
	SampleData bool
}

func (u Unconfigured) Mode() Mode {
	if u.SampleData {
		return ModeSample
	}
	return ModeUnconfigured
}

func (Unconfigured) isConnection() {}

// Resolve inspects the commerce configuration once.
func Resolve(cfg config.CommerceConfig) Connection {
	logger := logging.NewLoggerV2("commerce")
	if !cfg.Configured() {
		logger.Warn("Commerce credentials not set", logging.Fields{
			"sample_data": cfg.SampleData,
		})
		return Unconfigured{SampleData: cfg.SampleData}
	}

	logger.Info("Using live commerce platform", logging.Fields{
		"site_url":    cfg.SiteURL,
		"api_version": cfg.APIVersion,
	})
	return Configured{Client: clients.NewWooCommerceClient(cfg, logging.NewLoggerV2("woocommerce"))}
}

// NewGateway turns a resolved connection into a Gateway.
func NewGateway(conn Connection) Gateway {
	switch c := conn.(type) {
	case Configured:
		return c.Client
	case Unconfigured:
		if c.SampleData {
			return clients.NewSampleCatalog(logging.NewLoggerV2("sample-catalog"))
		}
	}
	return notConfiguredGateway{}
}

type notConfiguredGateway struct{}

func (notConfiguredGateway) ListProducts(context.Context, models.ProductListParams) (*models.ProductList, error) {
	return nil, apperrors.ErrNotConfigured
}

func (notConfiguredGateway) GetProductBySlug(context.Context, string) (*models.Product, error) {
	return nil, apperrors.ErrNotConfigured
}

func (notConfiguredGateway) GetProductByID(context.Context, int64) (*models.Product, error) {
	return nil, apperrors.ErrNotConfigured
}

func (notConfiguredGateway) RelatedProducts(context.Context, *models.Product, int) ([]models.Product, error) {
	return nil, apperrors.ErrNotConfigured
}

func (notConfiguredGateway) ListCategories(context.Context) ([]models.Category, error) {
	return nil, apperrors.ErrNotConfigured
}

func (notConfiguredGateway) FindCoupon(context.Context, string) (*models.Coupon, error) {
	return nil, apperrors.ErrNotConfigured
}

func (notConfiguredGateway) GetOrder(context.Context, int64) (*models.Order, error) {
	return nil, apperrors.ErrNotConfigured
}

func (notConfiguredGateway) CreateOrder(context.Context, *models.CreateOrderRequest) (*models.Order, error) {
	return nil, apperrors.ErrNotConfigured
}

func (notConfiguredGateway) ListPaymentGateways(context.Context) ([]models.PaymentGateway, error) {
	return nil, apperrors.ErrNotConfigured
}
