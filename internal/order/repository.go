package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/cart"
	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	CreateFromCart(ctx context.Context, cartID uint, o *Order) (*Order, error)
	GetForUser(ctx context.Context, orderID, userID uint) (*Order, error)
	GetByID(ctx context.Context, orderID uint) (*Order, error)
	ListByUser(ctx context.Context, userID uint) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID uint, from, to Status) (*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, user_id, status, total_amount, first_name, last_name, email,
	address, postal_code, city, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.Status, &o.TotalAmount,
		&o.FirstName, &o.LastName, &o.Email,
		&o.Address, &o.PostalCode, &o.City,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateFromCart turns the cart's current lines into an order in one
// transaction: lines are read at today's prices, the order and its items
// are inserted, and the cart is emptied. Any failure leaves the cart as it
// was.
func (r *repository) CreateFromCart(ctx context.Context, cartID uint, o *Order) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateFromCart"),
		zap.Uint("cart_id", cartID),
		zap.Uint("user_id", o.UserID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			} else {
				log.Debug("transaction rolled back")
			}
		}
	}()

	// Inserting a cart line takes a key-share lock on its cart, so holding
	// the cart row blocks adds until the order is committed and the delete
	// below only ever removes lines that made it into the order.
	var lockedID uint
	err = tx.QueryRowContext(ctx, `SELECT id FROM carts WHERE id = $1 FOR UPDATE`, cartID).Scan(&lockedID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cart.ErrCartNotFound
	}
	if err != nil {
		log.Error("failed to lock cart", zap.Error(err))
		return nil, err
	}

	lines, err := cart.LoadLines(ctx, tx, cartID, true)
	if err != nil {
		log.Error("failed to load cart lines", zap.Error(err))
		return nil, err
	}

	created := *o
	created.Status = StatusPending
	created.TotalAmount = cart.TotalPrice(cart.Snapshot{Lines: lines})

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			user_id, status, total_amount, first_name, last_name, email,
			address, postal_code, city
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at`,
		created.UserID, created.Status, created.TotalAmount,
		created.FirstName, created.LastName, created.Email,
		created.Address, created.PostalCode, created.City,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return nil, err
	}

	created.Items = make([]OrderItem, 0, len(lines))
	for _, l := range lines {
		item := OrderItem{
			OrderID:     created.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Price:       l.UnitPrice,
			Quantity:    l.Quantity,
		}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, price, quantity)
			VALUES ($1,$2,$3,$4)
			RETURNING id`,
			item.OrderID, item.ProductID, item.Price, item.Quantity,
		).Scan(&item.ID)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Uint("product_id", l.ProductID),
				zap.Error(err),
			)
			return nil, err
		}
		created.Items = append(created.Items, item)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		log.Error("failed to empty cart", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return nil, err
	}
	committed = true

	log.Info("order created",
		zap.Uint("order_id", created.ID),
		zap.Int("item_count", len(created.Items)),
		zap.String("total", created.TotalAmount.StringFixed(2)),
	)
	return &created, nil
}

// GetForUser filters on the owner in SQL, so another user's order is
// indistinguishable from a missing one.
func (r *repository) GetForUser(ctx context.Context, orderID, userID uint) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `
		SELECT`+orderColumns+`
		FROM orders
		WHERE id = $1 AND user_id = $2`, orderID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	if o.Items, err = r.items(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) GetByID(ctx context.Context, orderID uint) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `
		SELECT`+orderColumns+`
		FROM orders
		WHERE id = $1`, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *repository) items(ctx context.Context, orderID uint) ([]OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.price, oi.quantity
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	items := make([]OrderItem, 0)
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Price, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListByUser"),
		zap.Uint("user_id", userID),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT`+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

// UpdateStatus moves the order from one status to another. It only applies
// when the order is still in from, so two admins cannot both act on the
// same state.
func (r *repository) UpdateStatus(ctx context.Context, orderID uint, from, to Status) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING`+orderColumns, orderID, from, to))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatusChanged
	}
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	logger.FromCtx(ctx).Info("order status updated",
		zap.Uint("order_id", orderID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return o, nil
}
