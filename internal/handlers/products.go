package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

// ListProducts handles GET /api/products
func (h *Handlers) ListProducts(c *gin.Context) {
	if c.Query("action") == "categories" {
		h.ListCategories(c)
		return
	}

	params := models.ProductListParams{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		OrderBy:  c.Query("orderby"),
		Order:    c.Query("order"),
	}

	var err error
	if params.Page, err = positiveQueryInt(c, "page"); err != nil {
		h.handleError(c, err, "", "Failed to fetch products")
		return
	}
	if params.PerPage, err = positiveQueryInt(c, "per_page"); err != nil {
		h.handleError(c, err, "", "Failed to fetch products")
		return
	}

	list, err := h.catalogService.ListProducts(c.Request.Context(), params)
	if err != nil {
		h.handleError(c, err, "Products not found", "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, list)
}

// ListCategories handles GET /api/categories
func (h *Handlers) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "Categories not found", "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, models.CategoriesResponse{Categories: categories})
}

// GetProduct handles GET /api/products/:slug
func (h *Handlers) GetProduct(c *gin.Context) {
	includeRelated := c.Query("related") == "true"

	product, related, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("slug"), includeRelated)
	if err != nil {
		h.handleError(c, err, "Product not found", "Failed to fetch product")
		return
	}

	if includeRelated {
		// relatedProducts is always present when asked for, even when empty.
		c.JSON(http.StatusOK, gin.H{"product": product, "relatedProducts": related})
		return
	}
	c.JSON(http.StatusOK, models.ProductResponse{Product: product})
}

// positiveQueryInt parses an optional positive integer query parameter.
// An absent parameter is zero.
func positiveQueryInt(c *gin.Context, name string) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperrors.NewValidationError(name, "Invalid "+name+" parameter: must be a positive integer")
	}
	return n, nil
}
