package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

var (
	commerceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_commerce_requests_total",
			Help: "Requests sent to the commerce platform",
		},
		[]string{"operation", "status"},
	)

	commerceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_commerce_request_duration_seconds",
			Help:    "Latency of commerce platform requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Headers carrying listing totals on WooCommerce collection responses.
const (
	headerTotal      = "X-WP-Total"
	headerTotalPages = "X-WP-TotalPages"
)

// WooCommerceClient talks to the WooCommerce REST API with query-string
// authentication.
type WooCommerceClient struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
	logger         *logging.LoggerV2
}

// NewWooCommerceClient creates a client for {site_url}/wp-json/{api_version}.
func NewWooCommerceClient(cfg config.CommerceConfig, logger *logging.LoggerV2) *WooCommerceClient {
	version := cfg.APIVersion
	if version == "" {
		version = "wc/v3"
	}
	return &WooCommerceClient{
		baseURL:        fmt.Sprintf("%s/wp-json/%s", cfg.SiteURL, version),
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// ListProducts fetches one page of products.
func (c *WooCommerceClient) ListProducts(ctx context.Context, params models.ProductListParams) (*models.ProductList, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("per_page", strconv.Itoa(params.PerPage))
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.OrderBy != "" {
		query.Set("orderby", params.OrderBy)
	}
	if params.Order != "" {
		query.Set("order", params.Order)
	}

	if params.Category != "" {
		categoryID, err := c.resolveCategoryID(ctx, params.Category)
		if apperrors.IsNotFound(err) {
			return &models.ProductList{Products: []models.Product{}}, nil
		}
		if err != nil {
			return nil, err
		}
		query.Set("category", strconv.FormatInt(categoryID, 10))
	}

	var products []models.Product
	header, err := c.get(ctx, "list_products", "products", query, &products)
	if err != nil {
		return nil, err
	}

	total, _ := strconv.Atoi(header.Get(headerTotal))
	totalPages, _ := strconv.Atoi(header.Get(headerTotalPages))

	return &models.ProductList{
		Products:   nonNilProducts(products),
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// resolveCategoryID accepts either a numeric id or a category slug.
func (c *WooCommerceClient) resolveCategoryID(ctx context.Context, category string) (int64, error) {
	if id, err := strconv.ParseInt(category, 10, 64); err == nil {
		return id, nil
	}

	var categories []models.Category
	query := url.Values{"slug": {category}}
	if _, err := c.get(ctx, "resolve_category", "products/categories", query, &categories); err != nil {
		return 0, err
	}
	if len(categories) == 0 {
		return 0, apperrors.ErrNotFound
	}
	return categories[0].ID, nil
}

// GetProductBySlug fetches the product with slug.
func (c *WooCommerceClient) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var products []models.Product
	if _, err := c.get(ctx, "get_product_by_slug", "products", url.Values{"slug": {slug}}, &products); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &products[0], nil
}

// GetProductByID fetches the product with id.
func (c *WooCommerceClient) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	path := fmt.Sprintf("products/%d", id)
	if _, err := c.get(ctx, "get_product", path, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// RelatedProducts fetches up to limit products sharing the primary category
// of product, excluding product itself.
func (c *WooCommerceClient) RelatedProducts(ctx context.Context, product *models.Product, limit int) ([]models.Product, error) {
	primary, ok := product.PrimaryCategory()
	if !ok {
		return []models.Product{}, nil
	}

	query := url.Values{}
	query.Set("category", strconv.FormatInt(primary.ID, 10))
	query.Set("exclude", strconv.FormatInt(product.ID, 10))
	query.Set("per_page", strconv.Itoa(limit+1))

	var products []models.Product
	if _, err := c.get(ctx, "related_products", "products", query, &products); err != nil {
		return nil, err
	}

	related := make([]models.Product, 0, limit)
	for _, p := range products {
		if p.ID == product.ID {
			continue
		}
		related = append(related, p)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

// ListCategories fetches every non-empty product category.
func (c *WooCommerceClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	query := url.Values{"per_page": {"100"}, "hide_empty": {"true"}}
	if _, err := c.get(ctx, "list_categories", "products/categories", query, &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

// FindCoupon fetches the coupon with code.
func (c *WooCommerceClient) FindCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	var coupons []models.Coupon
	if _, err := c.get(ctx, "find_coupon", "coupons", url.Values{"code": {code}}, &coupons); err != nil {
		return nil, err
	}
	if len(coupons) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &coupons[0], nil
}

// GetOrder fetches the order with id.
func (c *WooCommerceClient) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	path := fmt.Sprintf("orders/%d", id)
	if _, err := c.get(ctx, "get_order", path, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder submits a new order. The platform prices the line items.
func (c *WooCommerceClient) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	var order models.Order
	if _, err := c.do(ctx, "create_order", http.MethodPost, "orders", nil, bytes.NewReader(body), &order); err != nil {
		return nil, err
	}

	c.logger.Info("Order created on commerce platform", logging.Fields{
		"order_id": order.ID,
		"status":   order.Status,
		"total":    order.Total,
	})

	return &order, nil
}

// ListPaymentGateways fetches the platform's payment gateways.
func (c *WooCommerceClient) ListPaymentGateways(ctx context.Context) ([]models.PaymentGateway, error) {
	var gateways []models.PaymentGateway
	if _, err := c.get(ctx, "list_payment_gateways", "payment_gateways", nil, &gateways); err != nil {
		return nil, err
	}
	if gateways == nil {
		gateways = []models.PaymentGateway{}
	}
	return gateways, nil
}

func (c *WooCommerceClient) get(ctx context.Context, op, path string, query url.Values, out interface{}) (http.Header, error) {
	return c.do(ctx, op, http.MethodGet, path, query, nil, out)
}

func (c *WooCommerceClient) do(ctx context.Context, op, method, path string, query url.Values, body io.Reader, out interface{}) (http.Header, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("consumer_key", c.consumerKey)
	query.Set("consumer_secret", c.consumerSecret)

	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, path, query.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, apperrors.NewUpstreamError(op, 0, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("Calling commerce platform", logging.Fields{
		"operation": op,
		"method":    method,
		"path":      path,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	commerceDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		commerceRequests.WithLabelValues(op, "error").Inc()
		c.logger.Error("Commerce request failed", logging.Fields{
			"operation": op,
			"error":     err.Error(),
		})
		return nil, apperrors.NewUpstreamError(op, 0, err)
	}
	defer resp.Body.Close()

	commerceRequests.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	// A 404 on a write means the route is missing, not the resource.
	if resp.StatusCode == http.StatusNotFound && method == http.MethodGet {
		return nil, apperrors.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Commerce request returned error", logging.Fields{
			"operation":   op,
			"status_code": resp.StatusCode,
		})
		return nil, apperrors.NewUpstreamError(op, resp.StatusCode, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, apperrors.NewUpstreamError(op, 0, fmt.Errorf("decode response: %w", err))
	}

	return resp.Header, nil
}

func nonNilProducts(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	return products
}
