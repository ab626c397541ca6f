package service

import (
	"context"

	"github.com/tm-acme-shop/acme-shop-storefront/internal/commerce"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

type CouponService struct {
	gateway commerce.Gateway
	logger  *logging.LoggerV2
}

func NewCouponService(gateway commerce.Gateway) *CouponService {
	return &CouponService{
		gateway: gateway,
		logger:  logging.NewLoggerV2("coupon-service"),
	}
}

// Validate resolves code. Unknown codes return apperrors.ErrNotFound.
func (s *CouponService) Validate(ctx context.Context, code *string) (*models.Coupon, error) {
	trimmed, err := ValidateCouponCode(code)
	if err != nil {
		return nil, err
	}

	coupon, err := s.gateway.FindCoupon(ctx, trimmed)
	if err != nil {
		s.logger.Info("Coupon lookup failed", logging.Fields{
			"code":  trimmed,
			"error": err.Error(),
		})
		return nil, err
	}
	return coupon, nil
}
