package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product mirrors the commerce platform's product resource. Prices are
// decimal strings exactly as the platform sends them.
type Product struct {
	ID               int64       `json:"id"`
	Name             string      `json:"name"`
	Slug             string      `json:"slug"`
	Price            string      `json:"price"`
	RegularPrice     string      `json:"regular_price"`
	SalePrice        string      `json:"sale_price"`
	Images           []Image     `json:"images"`
	Categories       []Category  `json:"categories"`
	Description      string      `json:"description"`
	ShortDescription string      `json:"short_description"`
	Attributes       []Attribute `json:"attributes"`
	MetaData         []MetaData  `json:"meta_data"`
}

type Image struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Attribute struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// MetaData values are arbitrary JSON: plugins store strings, numbers,
// objects and arrays under the same field.
type MetaData struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// PriceDecimal parses the current price. An empty price is zero.
func (p *Product) PriceDecimal() (decimal.Decimal, error) {
	if p.Price == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(p.Price)
}

// PrimaryCategory returns the first category, if any.
func (p *Product) PrimaryCategory() (Category, bool) {
	if len(p.Categories) == 0 {
		return Category{}, false
	}
	return p.Categories[0], true
}

// InCategory reports whether the product carries the category slug.
func (p *Product) InCategory(slug string) bool {
	for _, c := range p.Categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}

// Sort directions accepted by product listings.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// CategoryAll is the listing filter value meaning "no category filter".
const CategoryAll = "all"

// ProductListParams filters and pages a product listing.
type ProductListParams struct {
	Page     int
	PerPage  int
	Category string
	Search   string
	OrderBy  string
	Order    string
}

// ProductList is one page of a product listing.
type ProductList struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	TotalPages int       `json:"totalPages"`
}
