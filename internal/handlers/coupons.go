package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

// ValidateCoupon handles POST /api/coupons/validate
func (h *Handlers) ValidateCoupon(c *gin.Context) {
	var req models.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Coupon code is required")
		return
	}

	coupon, err := h.couponService.Validate(c.Request.Context(), req.Code)
	if err == nil {
		c.JSON(http.StatusOK, models.CouponResponse{Coupon: coupon, Valid: true})
		return
	}

	invalid := false
	switch {
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Invalid coupon code", Valid: &invalid})
	case isValidation(err):
		h.handleError(c, err, "", "")
	default:
		logging.FromContext(c.Request.Context(), h.logger).Error("Failed to validate coupon", logging.Fields{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to validate coupon", Valid: &invalid})
	}
}

func isValidation(err error) bool {
	_, ok := apperrors.AsValidation(err)
	return ok
}
