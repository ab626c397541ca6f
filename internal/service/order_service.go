package service

import (
	"context"

	"github.com/tm-acme-shop/acme-shop-storefront/internal/commerce"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/events"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

// OrderService places and retrieves orders. Pricing and stock checks are
// the commerce platform's job.
type OrderService struct {
	gateway        commerce.Gateway
	eventPublisher events.Publisher
	logger         *logging.LoggerV2
}

// NewOrderService creates a new order service.
func NewOrderService(gateway commerce.Gateway, eventPublisher events.Publisher) *OrderService {
	return &OrderService{
		gateway:        gateway,
		eventPublisher: eventPublisher,
		logger:         logging.NewLoggerV2("order-service"),
	}
}

// CreateOrder validates req, fills the default payment method and submits
// it. Concurrent submissions are not deduplicated.
func (s *OrderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	if err := ValidateCreateOrderRequest(req); err != nil {
		return nil, err
	}

	s.logger.Info("Creating order", logging.Fields{
		"item_count":     len(req.LineItems),
		"payment_method": req.PaymentMethod,
		"coupon_count":   len(req.CouponLines),
	})

	order, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		s.logger.Error("Failed to create order", logging.Fields{
			"error": err.Error(),
		})
		return nil, err
	}

	if err := s.eventPublisher.PublishOrderPlaced(ctx, order); err != nil {
		// Log but don't fail
		s.logger.Error("Failed to publish order placed event", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
	}

	s.logger.Info("Order created", logging.Fields{
		"order_id": order.ID,
		"status":   order.Status,
		"total":    order.Total,
	})

	return order, nil
}

// GetOrder retrieves an order by id.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	s.logger.Debug("Getting order", logging.Fields{"order_id": id})
	return s.gateway.GetOrder(ctx, id)
}
