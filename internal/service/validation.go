package service

import (
	"strings"

	"github.com/tm-acme-shop/acme-shop-storefront/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

// Listing defaults and limits.
const (
	DefaultPage    = 1
	DefaultPerPage = 12
	MaxPerPage     = 100
	DefaultOrderBy = "date"
	DefaultOrder   = models.SortDesc
)

// sortable lists the orderby values WooCommerce accepts for products.
var sortable = map[string]bool{
	"date":       true,
	"id":         true,
	"include":    true,
	"title":      true,
	"slug":       true,
	"price":      true,
	"popularity": true,
	"rating":     true,
	"menu_order": true,
}

// NormalizeProductListParams fills defaults, maps the "all" category to no
// filter and rejects out-of-range values.
func NormalizeProductListParams(params *models.ProductListParams) error {
	if params.Page == 0 {
		params.Page = DefaultPage
	}
	if params.PerPage == 0 {
		params.PerPage = DefaultPerPage
	}
	if params.OrderBy == "" {
		params.OrderBy = DefaultOrderBy
	}
	if params.Order == "" {
		params.Order = DefaultOrder
	}

	params.Category = strings.TrimSpace(params.Category)
	if strings.EqualFold(params.Category, models.CategoryAll) {
		params.Category = ""
	}
	params.Search = strings.TrimSpace(params.Search)
	params.Order = strings.ToLower(params.Order)

	if params.Page < 1 {
		return apperrors.NewValidationError("page", "page must be a positive integer")
	}
	if params.PerPage < 1 || params.PerPage > MaxPerPage {
		return apperrors.NewValidationError("per_page", "per_page must be between 1 and 100")
	}
	if !sortable[params.OrderBy] {
		return apperrors.NewValidationError("orderby", "orderby is not a supported sort field")
	}
	if params.Order != models.SortAsc && params.Order != models.SortDesc {
		return apperrors.NewValidationError("order", "order must be asc or desc")
	}

	return nil
}

// ValidateCreateOrderRequest checks an order request and fills the default
// payment method. Handlers bind the request first; this covers callers that
// build the request themselves.
func ValidateCreateOrderRequest(req *models.CreateOrderRequest) error {
	if req.Billing == nil {
		return apperrors.NewValidationError("billing", "Missing required field: billing")
	}
	if len(req.LineItems) == 0 {
		return apperrors.NewValidationError("line_items", "Missing required field: line_items")
	}
	if field := req.Billing.MissingField(); field != "" {
		return apperrors.NewValidationError(field, "Missing required billing field: "+field)
	}

	for _, item := range req.LineItems {
		if item.ProductID <= 0 {
			return apperrors.NewValidationError("line_items", "line item product_id must be a positive integer")
		}
		if item.Quantity <= 0 {
			return apperrors.NewValidationError("line_items", "line item quantity must be a positive integer")
		}
	}

	for _, cl := range req.CouponLines {
		if strings.TrimSpace(cl.Code) == "" {
			return apperrors.NewValidationError("coupon_lines", "coupon code cannot be empty")
		}
	}

	if req.PaymentMethod == "" {
		req.PaymentMethod = models.DefaultPaymentMethod
	}
	if req.PaymentMethodTitle == "" {
		req.PaymentMethodTitle = models.DefaultPaymentMethodTitle
	}
	if req.CouponLines == nil {
		req.CouponLines = []models.CouponLine{}
	}

	return nil
}

// ValidateCouponCode trims and checks a coupon code.
func ValidateCouponCode(code *string) (string, error) {
	if code == nil || strings.TrimSpace(*code) == "" {
		return "", apperrors.NewValidationError("code", "Coupon code is required")
	}
	return strings.TrimSpace(*code), nil
}
