package product

import (
	"time"

	"storefront-be/internal/category"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Price is the live price; placed orders keep
// their own copy.
type Product struct {
	ID           uint            `json:"id"`
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	CategorySlug string          `json:"category_slug"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	Available    bool            `json:"available"`
	Featured     bool            `json:"featured"`
	CreatedAt    time.Time       `json:"created_at"`
}

type CreateProductInput struct {
	CategoryID  uint            `json:"category_id" validate:"required"`
	Name        string          `json:"name" validate:"required,max=200"`
	Slug        string          `json:"slug" validate:"omitempty,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Available   *bool           `json:"available"`
	Featured    bool            `json:"featured"`
}

// UpdateProductInput patches the editable fields. Nil fields are left as is.
type UpdateProductInput struct {
	Price     *decimal.Decimal `json:"price"`
	Stock     *int             `json:"stock" validate:"omitempty,gte=0"`
	Available *bool            `json:"available"`
	Featured  *bool            `json:"featured"`
}

func (in UpdateProductInput) empty() bool {
	return in.Price == nil && in.Stock == nil && in.Available == nil && in.Featured == nil
}

// Listing is the browse page: the selected category (nil for all), every
// category for navigation, and the products on display.
type Listing struct {
	Category   *category.Category   `json:"category"`
	Categories []*category.Category `json:"categories"`
	Products   []*Product           `json:"products"`
}

type HomePage struct {
	Featured   []*Product           `json:"featured_products"`
	Categories []*category.Category `json:"categories"`
}

const homeSectionSize = 6
