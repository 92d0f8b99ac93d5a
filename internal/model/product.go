package model

import (
	"time"

	"github.com/google/uuid"
)

// Product categories offered by the storefront.
const (
	CategoryMechanical  = "Mechanical"
	CategoryIndustrial  = "Industrial"
	CategoryConsulting  = "Consulting"
	CategoryMaintenance = "Maintenance"
)

// ValidCategories lists the accepted product categories.
var ValidCategories = []string{
	CategoryMechanical,
	CategoryIndustrial,
	CategoryConsulting,
	CategoryMaintenance,
}

// Product represents a sellable catalogue item. Rating and NumReviews are
// derived from reviews and must only be written by the rating recompute.
type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Brand         string    `json:"brand" db:"brand"`
	Description   string    `json:"description" db:"description"`
	Price         float64   `json:"price" db:"price"`
	Category      string    `json:"category" db:"category"`
	Stock         int       `json:"stock" db:"stock"`
	Rating        float64   `json:"rating" db:"rating"`
	NumReviews    int       `json:"numReviews" db:"num_reviews"`
	Discount      int       `json:"discount" db:"discount"`
	Featured      bool      `json:"featured" db:"featured"`
	Images        []string  `json:"images" db:"images"`
	Tags          []string  `json:"tags" db:"tags"`
	Season        string    `json:"season,omitempty" db:"season"`
	Occasion      string    `json:"occasion,omitempty" db:"occasion"`
	Views         int       `json:"views" db:"views"`
	WishlistCount int       `json:"wishlistCount" db:"wishlist_count"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// FinalPrice returns the price after applying the product's discount.
func (p *Product) FinalPrice() float64 {
	if p.Discount > 0 {
		return p.Price - p.Price*float64(p.Discount)/100
	}
	return p.Price
}

// ProductFilter holds the optional catalogue query parameters.
type ProductFilter struct {
	Search   string
	Category string
	Brands   []string
	MinPrice *float64
	MaxPrice *float64
	Rating   *float64
	Featured bool
	InStock  bool
	Discount bool
	Season   string
	Occasion string
	Sort     string
	Page     int
	Limit    int
}

// Offset returns the number of rows to skip for the requested page.
func (f *ProductFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ProductPage is a single page of catalogue results.
type ProductPage struct {
	Products    []Product `json:"products"`
	Total       int       `json:"total"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
}

// ProductDetail is a product together with its most recent reviews.
type ProductDetail struct {
	Product
	Reviews []Review `json:"reviews"`
}

// ProductInput is the create/update payload for a product.
type ProductInput struct {
	Title       string   `json:"title"`
	Brand       string   `json:"brand"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Stock       int      `json:"stock"`
	Discount    int      `json:"discount"`
	Featured    bool     `json:"featured"`
	Images      []string `json:"images"`
	Tags        []string `json:"tags"`
	Season      string   `json:"season"`
	Occasion    string   `json:"occasion"`
}

// CategoryStat aggregates product counts and average price per category.
type CategoryStat struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	AvgPrice float64 `json:"avgPrice"`
}

// BrandStat aggregates product counts per brand.
type BrandStat struct {
	Brand string `json:"brand"`
	Count int    `json:"count"`
}

// ProductStats is the admin catalogue statistics payload.
type ProductStats struct {
	TotalProducts int            `json:"totalProducts"`
	OutOfStock    int            `json:"outOfStock"`
	LowStock      int            `json:"lowStock"`
	CategoryStats []CategoryStat `json:"categoryStats"`
	TopBrands     []BrandStat    `json:"topBrands"`
}
