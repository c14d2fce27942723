package order

import (
	"context"

	"storefront-be/internal/cart"
	"storefront-be/internal/identity"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/validation"

	"go.uber.org/zap"
)

// CartResolver finds or creates the cart an order is placed from.
type CartResolver interface {
	ResolveOrCreate(ctx context.Context, owner identity.OwnerKey) (*cart.Cart, error)
}

type Service interface {
	CreateOrder(ctx context.Context, userID uint, input CreateOrderInput) (*Order, error)
	GetOrder(ctx context.Context, orderID, userID uint) (*Order, error)
	ListOrders(ctx context.Context, userID uint) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID uint, input UpdateStatusInput) (*Order, error)
}

type service struct {
	repo    Repository
	carts   CartResolver
	metrics *metrics.Metrics
}

func NewService(repo Repository, carts CartResolver, m *metrics.Metrics) Service {
	return &service{repo: repo, carts: carts, metrics: m}
}

// CreateOrder places an order from the user's cart. An empty cart still
// produces an order, with a zero total and no items.
func (s *service) CreateOrder(ctx context.Context, userID uint, input CreateOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Uint("user_id", userID),
	)

	if userID == 0 {
		return nil, ErrLoginRequired
	}
	if err := validation.Struct(input); err != nil {
		log.Info("order input rejected", zap.Error(err))
		return nil, err
	}

	c, err := s.carts.ResolveOrCreate(ctx, identity.User(userID))
	if err != nil {
		log.Error("failed to resolve cart", zap.Error(err))
		return nil, err
	}

	o, err := s.repo.CreateFromCart(ctx, c.ID, &Order{
		UserID:     userID,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		Address:    input.Address,
		PostalCode: input.PostalCode,
		City:       input.City,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderCreated(o.TotalAmount)
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, orderID, userID uint) (*Order, error) {
	if userID == 0 {
		return nil, ErrLoginRequired
	}
	return s.repo.GetForUser(ctx, orderID, userID)
}

func (s *service) ListOrders(ctx context.Context, userID uint) ([]*Order, error) {
	if userID == 0 {
		return nil, ErrLoginRequired
	}
	return s.repo.ListByUser(ctx, userID)
}

// UpdateStatus is the admin status edit. Only the forward transitions and
// cancellation before shipping are accepted.
func (s *service) UpdateStatus(ctx context.Context, orderID uint, input UpdateStatusInput) (*Order, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(current.Status, input.Status) {
		return nil, invalidTransition(current.Status, input.Status)
	}

	return s.repo.UpdateStatus(ctx, orderID, current.Status, input.Status)
}
