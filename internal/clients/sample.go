package clients

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/pricing"
)

const (
	sampleCouponCode   = "rockvilleversatility5"
	firstSampleOrderID = 1001
	sampleCurrency     = "USD"
)

var sampleCategories = []models.Category{
	{ID: 1, Name: "Display", Slug: "display"},
	{ID: 2, Name: "Serif", Slug: "serif"},
	{ID: 3, Name: "Sans Serif", Slug: "sans-serif"},
	{ID: 4, Name: "Script", Slug: "script"},
	{ID: 5, Name: "Brush", Slug: "brush"},
}

func sampleProduct(id int64, name, slug, price string, category int, image, description, short string) models.Product {
	return models.Product{
		ID:               id,
		Name:             name,
		Slug:             slug,
		Price:            price,
		RegularPrice:     price,
		SalePrice:        "",
		Images:           []models.Image{{ID: id, Src: image, Alt: strings.Fields(name)[0]}},
		Categories:       []models.Category{sampleCategories[category-1]},
		Description:      "<p>" + description + "</p>",
		ShortDescription: short,
		Attributes:       []models.Attribute{},
		MetaData:         []models.MetaData{},
	}
}

var sampleProducts = []models.Product{
	sampleProduct(1, "Elanor Retro Display Font", "elanor-retro-display-font", "25", 1,
		"https://ext.same-assets.com/1839301121/2981467988.png",
		"A retro display font perfect for vintage designs.", "Retro display font for vintage designs"),
	sampleProduct(2, "Ravioli Whimsical Font", "ravioli-whimsical-font", "25", 1,
		"https://ext.same-assets.com/1839301121/1908426588.png",
		"A whimsical display font for creative projects.", "Whimsical display font"),
	sampleProduct(3, "Rockville Versatility Serif", "rockville-versatility-serif", "25", 2,
		"https://ext.same-assets.com/1839301121/550509967.png",
		"A versatile serif font for professional designs.", "Versatile serif font"),
	sampleProduct(4, "Kithara Sophisticated", "kithara-sophisticated", "25", 2,
		"https://ext.same-assets.com/1839301121/1998126962.png",
		"Sophisticated serif font for elegant designs.", "Sophisticated serif font"),
	sampleProduct(5, "Astragon Modern Serif", "astragon-modern-serif", "25", 2,
		"https://ext.same-assets.com/1839301121/1833752454.png",
		"Modern serif font with clean lines.", "Modern serif font"),
	sampleProduct(6, "Marline Beautiful Sans", "marline-beautiful-sans", "25", 3,
		"https://ext.same-assets.com/1839301121/2500002024.png",
		"Beautiful sans serif font for modern designs.", "Beautiful sans serif"),
	sampleProduct(7, "Baginks Birkin Serif", "baginks-birkin-serif", "25", 2,
		"https://ext.same-assets.com/1839301121/2577966116.png",
		"Elegant serif font with distinctive character.", "Elegant serif font"),
	sampleProduct(8, "Bentley Monoline", "bentley-monoline", "25", 3,
		"https://ext.same-assets.com/1839301121/1951798213.png",
		"Monoline sans serif for clean typography.", "Monoline sans serif"),
	sampleProduct(9, "Brittany Signature Script", "brittany-signature-script", "29", 4,
		"https://ext.same-assets.com/1839301121/1103957144.jpeg",
		"Elegant signature script for personal branding.", "Signature script font"),
	sampleProduct(10, "Gistesy Signature", "gistesy-signature", "25", 4,
		"https://ext.same-assets.com/1839301121/3774480499.png",
		"Stylish signature font for creative projects.", "Stylish signature font"),
	sampleProduct(11, "Halimun Script Style", "halimun-script-style", "25", 4,
		"https://ext.same-assets.com/1839301121/1342859359.png",
		"Beautiful script style font.", "Script style font"),
	sampleProduct(12, "Barcelony Signature", "barcelony-signature", "19", 4,
		"https://ext.same-assets.com/1839301121/1850557146.jpeg",
		"Elegant signature font for logos.", "Signature font for logos"),
}

var sampleGateways = []models.PaymentGateway{
	{ID: "bacs", Title: "Direct bank transfer", Description: "Make your payment directly into our bank account.", Enabled: true},
	{ID: "cod", Title: "Cash on delivery", Description: "Pay with cash upon delivery.", Enabled: true},
	{ID: "paypal", Title: "PayPal", Description: "Pay via PayPal.", Enabled: true},
}

// SampleCatalog serves a fixed font catalog for local development when no
// commerce credentials are configured. Orders are kept in memory for the
// life of the process.
type SampleCatalog struct {
	mu     sync.Mutex
	orders map[int64]*models.Order
	nextID int64
	now    func() time.Time
	logger *logging.LoggerV2
}

// NewSampleCatalog creates an empty sample order book over the fixed catalog.
func NewSampleCatalog(logger *logging.LoggerV2) *SampleCatalog {
	return &SampleCatalog{
		orders: make(map[int64]*models.Order),
		nextID: firstSampleOrderID,
		now:    time.Now,
		logger: logger,
	}
}

// ListProducts filters by category slug and name substring, then pages the
// result locally. Ordering is not the platform's ranking.
func (s *SampleCatalog) ListProducts(ctx context.Context, params models.ProductListParams) (*models.ProductList, error) {
	filtered := make([]models.Product, 0, len(sampleProducts))
	search := strings.ToLower(params.Search)
	for _, p := range sampleProducts {
		if params.Category != "" && !p.InCategory(params.Category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		filtered = append(filtered, p)
	}

	sortSampleProducts(filtered, params.OrderBy, params.Order)

	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage < 1 {
		perPage = 12
	}

	totalPages := len(filtered) / perPage
	if len(filtered)%perPage != 0 {
		totalPages++
	}

	// Compare page counts before multiplying so huge pages cannot overflow.
	start, end := len(filtered), len(filtered)
	if page-1 < totalPages {
		start = (page - 1) * perPage
		if perPage < end-start {
			end = start + perPage
		}
	}

	return &models.ProductList{
		Products:   filtered[start:end],
		Total:      len(filtered),
		TotalPages: totalPages,
	}, nil
}

// sortSampleProducts orders by name, price or id. The catalog has no
// creation dates, so "date" uses the id as a proxy.
func sortSampleProducts(products []models.Product, orderBy, order string) {
	less := func(a, b models.Product) bool { return a.ID < b.ID }
	switch orderBy {
	case "title", "name":
		less = func(a, b models.Product) bool { return a.Name < b.Name }
	case "price":
		less = func(a, b models.Product) bool {
			pa, _ := a.PriceDecimal()
			pb, _ := b.PriceDecimal()
			if pa.Equal(pb) {
				return a.ID < b.ID
			}
			return pa.LessThan(pb)
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		if order == models.SortDesc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

func (s *SampleCatalog) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	for i := range sampleProducts {
		if sampleProducts[i].Slug == slug {
			p := sampleProducts[i]
			return &p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *SampleCatalog) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	for i := range sampleProducts {
		if sampleProducts[i].ID == id {
			p := sampleProducts[i]
			return &p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// RelatedProducts returns up to limit products sharing the primary category
// of product, excluding product itself.
func (s *SampleCatalog) RelatedProducts(ctx context.Context, product *models.Product, limit int) ([]models.Product, error) {
	related := make([]models.Product, 0, limit)
	primary, ok := product.PrimaryCategory()
	if !ok {
		return related, nil
	}
	for _, p := range sampleProducts {
		if len(related) == limit {
			break
		}
		if p.ID == product.ID || !p.InCategory(primary.Slug) {
			continue
		}
		related = append(related, p)
	}
	return related, nil
}

func (s *SampleCatalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, len(sampleCategories))
	copy(out, sampleCategories)
	return out, nil
}

// FindCoupon knows a single 15 percent coupon.
func (s *SampleCatalog) FindCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	if !strings.EqualFold(code, sampleCouponCode) {
		return nil, apperrors.ErrNotFound
	}
	return &models.Coupon{
		ID:           1,
		Code:         code,
		Amount:       "15",
		DiscountType: models.DiscountPercent,
	}, nil
}

func (s *SampleCatalog) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

// CreateOrder prices the line items from the catalog, applies any known
// coupon and stores the order as pending.
func (s *SampleCatalog) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	lineItems := make([]models.OrderLineItem, 0, len(req.LineItems))
	subtotal := decimal.Zero
	for i, li := range req.LineItems {
		product, err := s.GetProductByID(ctx, li.ProductID)
		if err != nil {
			return nil, apperrors.NewValidationError("line_items",
				fmt.Sprintf("Invalid product in line item %d: %d", i, li.ProductID))
		}
		price, err := product.PriceDecimal()
		if err != nil {
			return nil, fmt.Errorf("sample product %d price: %w", product.ID, err)
		}
		lineTotal := price.Mul(decimal.NewFromInt(int64(li.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		lineItems = append(lineItems, models.OrderLineItem{
			ID:        int64(i + 1),
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  li.Quantity,
			Price:     price,
			Total:     lineTotal.StringFixed(2),
		})
	}

	discount := decimal.Zero
	for _, cl := range req.CouponLines {
		coupon, err := s.FindCoupon(ctx, cl.Code)
		if err != nil {
			return nil, apperrors.NewValidationError("coupon_lines",
				fmt.Sprintf("Coupon %q does not exist", cl.Code))
		}
		d, err := pricing.Discount(subtotal.Sub(discount), coupon)
		if err != nil {
			return nil, err
		}
		discount = discount.Add(d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order := &models.Order{
		ID:                 s.nextID,
		Status:             "pending",
		Currency:           sampleCurrency,
		DateCreated:        s.now().UTC().Format("2006-01-02T15:04:05"),
		Total:              subtotal.Sub(discount).StringFixed(2),
		DiscountTotal:      discount.StringFixed(2),
		Billing:            req.Billing,
		LineItems:          lineItems,
		PaymentMethod:      req.PaymentMethod,
		PaymentMethodTitle: req.PaymentMethodTitle,
		CouponLines:        req.CouponLines,
	}
	s.orders[order.ID] = order
	s.nextID++

	s.logger.Warn("Commerce platform not configured, stored sample order", logging.Fields{
		"order_id": order.ID,
		"total":    order.Total,
	})

	cp := *order
	return &cp, nil
}

func (s *SampleCatalog) ListPaymentGateways(ctx context.Context) ([]models.PaymentGateway, error) {
	out := make([]models.PaymentGateway, len(sampleGateways))
	copy(out, sampleGateways)
	return out, nil
}
