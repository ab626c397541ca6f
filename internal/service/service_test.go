package service

import (
	"context"
	"errors"

	"github.com/tm-acme-shop/acme-shop-storefront/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/commerce"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

func newSampleGateway() commerce.Gateway {
	return commerce.NewGateway(commerce.Unconfigured{SampleData: true})
}

// stubGateway overrides selected sample-gateway calls.
type stubGateway struct {
	commerce.Gateway
	orders     map[int64]*models.Order
	relatedErr error
	productErr error
	created    []*models.CreateOrderRequest
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		Gateway: newSampleGateway(),
		orders:  make(map[int64]*models.Order),
	}
}

func (g *stubGateway) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	if order, ok := g.orders[id]; ok {
		return order, nil
	}
	return nil, apperrors.ErrNotFound
}

func (g *stubGateway) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	g.created = append(g.created, req)
	return g.Gateway.CreateOrder(ctx, req)
}

func (g *stubGateway) RelatedProducts(ctx context.Context, product *models.Product, limit int) ([]models.Product, error) {
	if g.relatedErr != nil {
		return nil, g.relatedErr
	}
	return g.Gateway.RelatedProducts(ctx, product, limit)
}

func (g *stubGateway) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	if g.productErr != nil {
		return nil, g.productErr
	}
	return g.Gateway.GetProductByID(ctx, id)
}

var errUpstream = apperrors.NewUpstreamError("test", 502, errors.New("bad gateway"))

func completeBilling() *models.Billing {
	return &models.Billing{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Address1:  "12 St James's Square",
		City:      "London",
		State:     "LND",
		Postcode:  "SW1Y 4JH",
		Country:   "GB",
		Email:     "ada@example.com",
	}
}
