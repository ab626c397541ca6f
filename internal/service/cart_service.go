package service

import (
	"context"

	"github.com/tm-acme-shop/acme-shop-storefront/internal/commerce"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

const productNotFound = "Product not found"

// CartService checks cart contents against the live catalog. It never
// mutates a cart.
type CartService struct {
	gateway commerce.Gateway
	logger  *logging.LoggerV2
}

func NewCartService(gateway commerce.Gateway) *CartService {
	return &CartService{
		gateway: gateway,
		logger:  logging.NewLoggerV2("cart-service"),
	}
}

// ValidateCart resolves every item. An item whose product cannot be
// resolved, for any reason, is invalid; the cart is valid only when every
// item is.
func (s *CartService) ValidateCart(ctx context.Context, items []models.CartValidationItem) *models.CartValidationResponse {
	resp := &models.CartValidationResponse{
		Items: make([]models.ValidatedCartItem, 0, len(items)),
		Valid: true,
	}

	for _, item := range items {
		validated := s.validateItem(ctx, item)
		if !validated.Valid {
			resp.Valid = false
		}
		resp.Items = append(resp.Items, validated)
	}

	return resp
}

func (s *CartService) validateItem(ctx context.Context, item models.CartValidationItem) models.ValidatedCartItem {
	product, err := s.gateway.GetProductByID(ctx, item.ProductID)
	if err != nil {
		s.logger.Debug("Cart item did not resolve", logging.Fields{
			"product_id": item.ProductID,
			"error":      err.Error(),
		})
		return models.ValidatedCartItem{
			ProductID: item.ProductID,
			Valid:     false,
			Error:     productNotFound,
		}
	}

	validated := models.ValidatedCartItem{
		ProductID: item.ProductID,
		Name:      product.Name,
		Quantity:  item.Quantity,
		InStock:   true,
		Valid:     true,
	}
	if price, err := product.PriceDecimal(); err == nil {
		f := price.InexactFloat64()
		validated.Price = &f
	}
	return validated
}
