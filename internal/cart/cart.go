// Package cart is the shopper's cart: an ordered item list with derived
// totals, persisted as a single serialized entry after every change.
package cart

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
)

// StorageKey names the persisted cart entry.
const StorageKey = "cart"

// Item is one cart line. ProductID and License together identify it.
type Item struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
	License   string          `json:"license,omitempty"`
	Slug      string          `json:"slug,omitempty"`
}

// Subtotal is price times quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Storage holds the serialized item list. Load returns nil data when
// nothing has been saved yet.
type Storage interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Store is a cart backed by a Storage. A mutation is committed in memory
// only once it has been saved.
type Store struct {
	mu      sync.Mutex
	items   []Item
	storage Storage
	logger  *logging.LoggerV2
}

// NewStore rehydrates a cart from storage. Unparseable data is logged and
// yields an empty cart.
func NewStore(storage Storage) (*Store, error) {
	s := &Store{
		items:   []Item{},
		storage: storage,
		logger:  logging.NewLoggerV2("cart"),
	}

	data, err := storage.Load()
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("Discarding unreadable cart", logging.Fields{"error": err.Error()})
		return s, nil
	}
	if items != nil {
		s.items = items
	}
	return s, nil
}

// AddItem appends item, or increases the quantity of the line with the
// same product and license.
func (s *Store) AddItem(item Item) error {
	if item.Quantity <= 0 {
		return apperrors.NewValidationError("quantity", "quantity must be a positive integer")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot()
	for i := range next {
		if next[i].ProductID == item.ProductID && next[i].License == item.License {
			next[i].Quantity += item.Quantity
			return s.commit(next)
		}
	}
	return s.commit(append(next, item))
}

// RemoveItem drops every line for productID, whatever its license.
func (s *Store) RemoveItem(productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(s.without(productID))
}

// UpdateQuantity sets the quantity of the first line for productID. A
// quantity of zero or less removes the product.
func (s *Store) UpdateQuantity(productID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return s.commit(s.without(productID))
	}

	next := s.snapshot()
	for i := range next {
		if next[i].ProductID == productID {
			next[i].Quantity = quantity
			return s.commit(next)
		}
	}
	return nil
}

// Clear empties the cart.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit([]Item{})
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// TotalItems is the sum of quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of price times quantity. It is advisory; the
// commerce platform prices the order.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

func (s *Store) snapshot() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) without(productID int64) []Item {
	out := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		if item.ProductID != productID {
			out = append(out, item)
		}
	}
	return out
}

// commit persists items and, on success, makes them the cart contents.
func (s *Store) commit(items []Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.storage.Save(data); err != nil {
		s.logger.Error("Failed to persist cart", logging.Fields{"error": err.Error()})
		return fmt.Errorf("save cart: %w", err)
	}
	s.items = items
	return nil
}
