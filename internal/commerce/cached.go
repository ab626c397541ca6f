package commerce

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

// Cache is the subset of cache.RedisCache the gateway decorator needs.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// CachedGateway serves catalog reads from a cache. Coupons and orders always
// go to the inner gateway. Cache failures fall through to it as well.
type CachedGateway struct {
	Gateway
	cache  Cache
	logger *logging.LoggerV2
}

// NewCachedGateway decorates inner with cache.
func NewCachedGateway(inner Gateway, cache Cache) *CachedGateway {
	return &CachedGateway{
		Gateway: inner,
		cache:   cache,
		logger:  logging.NewLoggerV2("commerce-cache"),
	}
}

func (g *CachedGateway) ListProducts(ctx context.Context, params models.ProductListParams) (*models.ProductList, error) {
	key := productListKey(params)
	var list models.ProductList
	if g.lookup(ctx, key, &list) {
		return &list, nil
	}
	result, err := g.Gateway.ListProducts(ctx, params)
	if err != nil {
		return nil, err
	}
	g.store(ctx, key, result)
	return result, nil
}

func (g *CachedGateway) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	key := "product:slug:" + slug
	var product models.Product
	if g.lookup(ctx, key, &product) {
		return &product, nil
	}
	result, err := g.Gateway.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	g.store(ctx, key, result)
	return result, nil
}

func (g *CachedGateway) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	key := fmt.Sprintf("product:id:%d", id)
	var product models.Product
	if g.lookup(ctx, key, &product) {
		return &product, nil
	}
	result, err := g.Gateway.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	g.store(ctx, key, result)
	return result, nil
}

func (g *CachedGateway) ListCategories(ctx context.Context) ([]models.Category, error) {
	const key = "categories"
	var categories []models.Category
	if g.lookup(ctx, key, &categories) {
		return categories, nil
	}
	result, err := g.Gateway.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	g.store(ctx, key, result)
	return result, nil
}

func (g *CachedGateway) ListPaymentGateways(ctx context.Context) ([]models.PaymentGateway, error) {
	const key = "payment_gateways"
	var gateways []models.PaymentGateway
	if g.lookup(ctx, key, &gateways) {
		return gateways, nil
	}
	result, err := g.Gateway.ListPaymentGateways(ctx)
	if err != nil {
		return nil, err
	}
	g.store(ctx, key, result)
	return result, nil
}

// productListKey escapes every parameter so free-text values cannot collide.
func productListKey(params models.ProductListParams) string {
	return "products:" + url.Values{
		"page":     {strconv.Itoa(params.Page)},
		"per_page": {strconv.Itoa(params.PerPage)},
		"category": {params.Category},
		"search":   {params.Search},
		"orderby":  {params.OrderBy},
		"order":    {params.Order},
	}.Encode()
}

func (g *CachedGateway) lookup(ctx context.Context, key string, dest interface{}) bool {
	hit, err := g.cache.Get(ctx, key, dest)
	if err != nil {
		g.logger.Warn("Cache lookup failed, calling backend", logging.Fields{
			"key":   key,
			"error": err.Error(),
		})
		return false
	}
	return hit
}

func (g *CachedGateway) store(ctx context.Context, key string, value interface{}) {
	if err := g.cache.Set(ctx, key, value); err != nil {
		g.logger.Warn("Cache store failed", logging.Fields{
			"key":   key,
			"error": err.Error(),
		})
	}
}
