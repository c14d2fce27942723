package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart belongs to exactly one of a user or an anonymous session.
type Cart struct {
	ID         uint      `json:"id"`
	UserID     *uint     `json:"user_id,omitempty"`
	SessionKey *string   `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

type CartItem struct {
	ID        uint      `json:"id"`
	CartID    uint      `json:"cart_id"`
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ProductName is filled in by the service for display.
	ProductName string `json:"product_name,omitempty"`
}

// Line is a cart item joined with its product's live name and price.
type Line struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSlug string          `json:"product_slug"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot is a read-only view of a cart at one point in time. Totals are
// always derived from it, never stored.
type Snapshot struct {
	Cart  Cart
	Lines []Line
}

type Summary struct {
	Cart       *Cart           `json:"cart"`
	Lines      []Line          `json:"lines"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type AddItemInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"min=1"`
	Override  bool `json:"override"`
}
