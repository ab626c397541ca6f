package service

import (
	"context"

	"github.com/tm-acme-shop/acme-shop-storefront/internal/commerce"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

// RelatedProductsLimit caps the related products on a detail page.
const RelatedProductsLimit = 4

// CatalogService serves product listings, product details and categories.
type CatalogService struct {
	gateway commerce.Gateway
	logger  *logging.LoggerV2
}

func NewCatalogService(gateway commerce.Gateway) *CatalogService {
	return &CatalogService{
		gateway: gateway,
		logger:  logging.NewLoggerV2("catalog-service"),
	}
}

// ListProducts returns one page of products.
func (s *CatalogService) ListProducts(ctx context.Context, params models.ProductListParams) (*models.ProductList, error) {
	if err := NormalizeProductListParams(&params); err != nil {
		return nil, err
	}

	s.logger.Debug("Listing products", logging.Fields{
		"page":     params.Page,
		"per_page": params.PerPage,
		"category": params.Category,
		"search":   params.Search,
	})

	list, err := s.gateway.ListProducts(ctx, params)
	if err != nil {
		s.logger.Error("Failed to list products", logging.Fields{"error": err.Error()})
		return nil, err
	}
	if list.Products == nil {
		list.Products = []models.Product{}
	}
	return list, nil
}

// GetProduct returns the product with slug and, when includeRelated is set,
// up to RelatedProductsLimit related products. A related-products failure is
// logged and yields an empty list.
func (s *CatalogService) GetProduct(ctx context.Context, slug string, includeRelated bool) (*models.Product, []models.Product, error) {
	product, err := s.gateway.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	if !includeRelated {
		return product, nil, nil
	}

	related, err := s.gateway.RelatedProducts(ctx, product, RelatedProductsLimit)
	if err != nil {
		s.logger.Warn("Failed to fetch related products", logging.Fields{
			"product_id": product.ID,
			"error":      err.Error(),
		})
		return product, []models.Product{}, nil
	}
	return product, related, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.gateway.ListCategories(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", logging.Fields{"error": err.Error()})
		return nil, err
	}
	return categories, nil
}

// GetProductByID returns the product with id.
func (s *CatalogService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	return s.gateway.GetProductByID(ctx, id)
}
