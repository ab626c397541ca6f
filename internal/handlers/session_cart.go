package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/cart"
)

// The session cart serves clients that cannot keep a cart themselves. It
// has the same semantics as a locally stored cart.

type sessionCartResponse struct {
	Items      []cart.Item     `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type addCartItemRequest struct {
	ProductID int64  `json:"product_id" binding:"required,min=1"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1"`
	License   string `json:"license"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *Handlers) sessionCart(c *gin.Context) (*cart.Store, bool) {
	store, err := cart.NewStore(cart.NewSessionStorage(h.sessionStore, c.Request, c.Writer))
	if err != nil {
		h.handleError(c, err, "", "Failed to load cart")
		return nil, false
	}
	return store, true
}

func writeCart(c *gin.Context, store *cart.Store) {
	c.JSON(http.StatusOK, sessionCartResponse{
		Items:      store.Items(),
		TotalItems: store.TotalItems(),
		TotalPrice: store.TotalPrice(),
	})
}

// GetCart handles GET /api/cart
func (h *Handlers) GetCart(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}
	writeCart(c, store)
}

// ClearCart handles DELETE /api/cart
func (h *Handlers) ClearCart(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}
	if err := store.Clear(); err != nil {
		h.handleError(c, err, "", "Failed to update cart")
		return
	}
	writeCart(c, store)
}

// AddCartItem handles POST /api/cart/items. Name and price come from the
// catalog, not the request.
func (h *Handlers) AddCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid cart item")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.catalogService.GetProductByID(c.Request.Context(), req.ProductID)
	if err != nil {
		h.handleError(c, err, "Product not found", "Failed to update cart")
		return
	}
	price, err := product.PriceDecimal()
	if err != nil {
		h.handleError(c, err, "", "Failed to update cart")
		return
	}

	item := cart.Item{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     price,
		Quantity:  req.Quantity,
		License:   req.License,
		Slug:      product.Slug,
	}
	if len(product.Images) > 0 {
		item.Image = product.Images[0].Src
	}

	store, ok := h.sessionCart(c)
	if !ok {
		return
	}
	if err := store.AddItem(item); err != nil {
		h.handleError(c, err, "", "Failed to update cart")
		return
	}
	writeCart(c, store)
}

// UpdateCartItem handles PATCH /api/cart/items/:product_id
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid product ID")
		return
	}
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Missing required field: quantity")
		return
	}

	store, ok := h.sessionCart(c)
	if !ok {
		return
	}
	if err := store.UpdateQuantity(productID, *req.Quantity); err != nil {
		h.handleError(c, err, "", "Failed to update cart")
		return
	}
	writeCart(c, store)
}

// RemoveCartItem handles DELETE /api/cart/items/:product_id. Every license
// variant of the product is removed.
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid product ID")
		return
	}

	store, ok := h.sessionCart(c)
	if !ok {
		return
	}
	if err := store.RemoveItem(productID); err != nil {
		h.handleError(c, err, "", "Failed to update cart")
		return
	}
	writeCart(c, store)
}
