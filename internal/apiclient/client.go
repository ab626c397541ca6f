// Package apiclient is a typed client for the storefront HTTP API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tm-acme-shop/acme-shop-storefront/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

// Error is a non-2xx response from the storefront API.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// Is lets a 404 match apperrors.ErrNotFound.
func (e *Error) Is(target error) bool {
	return target == apperrors.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsAPIError reports whether err is an API error response and returns it.
func IsAPIError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.LoggerV2
}

// New creates a client for the API served at baseURL. A nil httpClient
// means http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logging.NewLoggerV2("apiclient"),
	}
}

// ListProducts fetches a product page. Zero-valued params are left to the
// server defaults.
func (c *Client) ListProducts(ctx context.Context, params models.ProductListParams) (*models.ProductList, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(params.PerPage))
	}
	if params.Category != "" {
		query.Set("category", params.Category)
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.OrderBy != "" {
		query.Set("orderby", params.OrderBy)
	}
	if params.Order != "" {
		query.Set("order", params.Order)
	}

	var list models.ProductList
	if err := c.do(ctx, http.MethodGet, "/api/products", query, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetProduct fetches a product by slug, with its related products when
// includeRelated is set.
func (c *Client) GetProduct(ctx context.Context, slug string, includeRelated bool) (*models.ProductResponse, error) {
	var query url.Values
	if includeRelated {
		query = url.Values{"related": {"true"}}
	}

	var resp models.ProductResponse
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(slug), query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var resp models.CategoriesResponse
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

func (c *Client) ValidateCart(ctx context.Context, items []models.CartValidationItem) (*models.CartValidationResponse, error) {
	var resp models.CartValidationResponse
	req := models.CartValidationRequest{Items: items}
	if err := c.do(ctx, http.MethodPost, "/api/cart/validate", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateCoupon returns the coupon for code. An unknown code is an *Error
// with status 404.
func (c *Client) ValidateCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	var resp models.CouponResponse
	req := models.CouponRequest{Code: &code}
	if err := c.do(ctx, http.MethodPost, "/api/coupons/validate", nil, req, &resp); err != nil {
		return nil, err
	}
	return resp.Coupon, nil
}

func (c *Client) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	var resp models.OrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", nil, req, &resp); err != nil {
		return nil, err
	}
	return resp.Order, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var resp models.OrderResponse
	path := "/api/orders/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Order, nil
}

func (c *Client) ListPaymentGateways(ctx context.Context) ([]models.PaymentGateway, error) {
	var resp models.GatewaysResponse
	if err := c.do(ctx, http.MethodGet, "/api/payment-gateways", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Gateways, nil
}

func (c *Client) ProcessPayment(ctx context.Context, orderID int64, paymentMethod string) (*models.ProcessPaymentResponse, error) {
	var resp models.ProcessPaymentResponse
	req := models.ProcessPaymentRequest{OrderID: orderID, PaymentMethod: paymentMethod}
	if err := c.do(ctx, http.MethodPost, "/api/payment/process", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Storefront request failed", logging.Fields{
			"method": method,
			"path":   path,
			"error":  err.Error(),
		})
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// decodeError reads the server's error field, falling back to the status
// code when the body carries none.
func decodeError(resp *http.Response) error {
	apiErr := &Error{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("HTTP error! status: %d", resp.StatusCode),
	}
	var body models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}
