package cart

import (
	"context"

	"storefront-be/internal/identity"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/product"
	"storefront-be/internal/validation"

	"go.uber.org/zap"
)

// ProductLookup resolves the product a cart line points at.
type ProductLookup interface {
	GetByID(ctx context.Context, id uint) (*product.Product, error)
}

type Service interface {
	ResolveOrCreate(ctx context.Context, owner identity.OwnerKey) (*Cart, error)
	AddItem(ctx context.Context, c *Cart, input AddItemInput) (*CartItem, error)
	RemoveItem(ctx context.Context, c *Cart, productID uint) (*CartItem, error)
	Summary(ctx context.Context, owner identity.OwnerKey) (*Summary, error)
	Count(ctx context.Context, owner identity.OwnerKey) int
}

type service struct {
	repo     Repository
	products ProductLookup
	metrics  *metrics.Metrics
}

func NewService(repo Repository, products ProductLookup, m *metrics.Metrics) Service {
	return &service{repo: repo, products: products, metrics: m}
}

func (s *service) ResolveOrCreate(ctx context.Context, owner identity.OwnerKey) (*Cart, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, owner)
}

// AddItem puts quantity units of a product into the cart. An existing line
// is replaced when Override is set and accumulated otherwise. Stock is not
// checked.
func (s *service) AddItem(ctx context.Context, c *Cart, input AddItemInput) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.Uint("cart_id", c.ID),
		zap.Uint("product_id", input.ProductID),
	)

	if err := validation.Struct(input); err != nil {
		log.Info("rejected add to cart", zap.Error(err))
		s.metrics.CartOp("add", metrics.ResultRejected)
		return nil, err
	}

	p, err := s.products.GetByID(ctx, input.ProductID)
	if err != nil {
		log.Info("product lookup failed", zap.Error(err))
		s.metrics.CartOp("add", metrics.ResultRejected)
		return nil, err
	}

	item, err := s.repo.UpsertItem(ctx, c.ID, input.ProductID, input.Quantity, input.Override)
	if err != nil {
		s.metrics.CartOp("add", metrics.ResultError)
		return nil, err
	}

	item.ProductName = p.Name
	s.metrics.CartOp("add", metrics.ResultOK)
	log.Info("cart item added",
		zap.Int("quantity", item.Quantity),
		zap.Bool("override", input.Override),
	)
	return item, nil
}

// RemoveItem drops the product's line from the cart and returns it. A
// product that is not in the cart is not an error; the result is then nil.
func (s *service) RemoveItem(ctx context.Context, c *Cart, productID uint) (*CartItem, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		s.metrics.CartOp("remove", metrics.ResultRejected)
		return nil, err
	}

	removed, err := s.repo.RemoveItem(ctx, c.ID, productID)
	if err != nil {
		s.metrics.CartOp("remove", metrics.ResultError)
		return nil, err
	}

	s.metrics.CartOp("remove", metrics.ResultOK)
	if !removed {
		return nil, nil
	}
	return &CartItem{CartID: c.ID, ProductID: productID, ProductName: p.Name}, nil
}

func (s *service) Summary(ctx context.Context, owner identity.OwnerKey) (*Summary, error) {
	c, err := s.ResolveOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.Lines(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	snap := Snapshot{Cart: *c, Lines: lines}
	return &Summary{
		Cart:       c,
		Lines:      lines,
		TotalItems: TotalItems(snap),
		TotalPrice: TotalPrice(snap),
	}, nil
}

// Count is the cart badge: the number of units in the owner's cart, or 0
// when there is no cart or it cannot be read.
func (s *service) Count(ctx context.Context, owner identity.OwnerKey) int {
	if owner.Validate() != nil {
		return 0
	}

	n, err := s.repo.CountItems(ctx, owner)
	if err != nil {
		logger.FromCtx(ctx).Warn("cart count failed", zap.Stringer("owner", owner), zap.Error(err))
		return 0
	}
	return n
}
