package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/db"
	"storefront-be/internal/identity"
	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetByOwner(ctx context.Context, owner identity.OwnerKey) (*Cart, error)
	GetOrCreate(ctx context.Context, owner identity.OwnerKey) (*Cart, error)
	UpsertItem(ctx context.Context, cartID, productID uint, quantity int, override bool) (*CartItem, error)
	RemoveItem(ctx context.Context, cartID, productID uint) (bool, error)
	Lines(ctx context.Context, cartID uint) ([]Line, error)
	CountItems(ctx context.Context, owner identity.OwnerKey) (int, error)
}

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func ownerFilter(owner identity.OwnerKey) (string, any) {
	if owner.IsUser() {
		return "user_id = $1", owner.UserID
	}
	return "session_key = $1", owner.SessionKey
}

func (r *repository) GetByOwner(ctx context.Context, owner identity.OwnerKey) (*Cart, error) {
	where, arg := ownerFilter(owner)

	var c Cart
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, session_key, created_at
		FROM carts
		WHERE `+where, arg,
	).Scan(&c.ID, &c.UserID, &c.SessionKey, &c.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &c, nil
}

// GetOrCreate returns the owner's cart, inserting it when missing. A
// concurrent insert for the same owner loses to the unique constraint and
// re-reads the winner's row, so both callers see the same cart.
func (r *repository) GetOrCreate(ctx context.Context, owner identity.OwnerKey) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetOrCreate"),
		zap.Stringer("owner", owner),
	)

	c, err := r.GetByOwner(ctx, owner)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrCartNotFound) {
		log.Error("lookup failed", zap.Error(err))
		return nil, err
	}

	userID, sessionKey := owner.Args()

	var created Cart
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO carts (user_id, session_key)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
		RETURNING id, user_id, session_key, created_at`,
		userID, sessionKey,
	).Scan(&created.ID, &created.UserID, &created.SessionKey, &created.CreatedAt)

	switch {
	case err == nil:
		log.Info("cart created", zap.Uint("cart_id", created.ID))
		return &created, nil
	case errors.Is(err, sql.ErrNoRows), db.IsUniqueViolation(err):
		log.Debug("cart created concurrently, re-reading")
	default:
		log.Error("insert failed", zap.Error(err))
		return nil, fmt.Errorf("create cart: %w", err)
	}

	c, err = r.GetByOwner(ctx, owner)
	if errors.Is(err, ErrCartNotFound) {
		return nil, ErrCartRace
	}
	return c, err
}

// UpsertItem inserts the line or, when it exists, replaces (override) or
// adds to its quantity in the same statement.
func (r *repository) UpsertItem(ctx context.Context, cartID, productID uint, quantity int, override bool) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpsertItem"),
		zap.Uint("cart_id", cartID),
		zap.Uint("product_id", productID),
	)

	var item CartItem
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id) DO UPDATE
		SET quantity = CASE WHEN $4 THEN EXCLUDED.quantity
		                    ELSE cart_items.quantity + EXCLUDED.quantity END,
		    updated_at = NOW()
		RETURNING id, cart_id, product_id, quantity, created_at, updated_at`,
		cartID, productID, quantity, override,
	).Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		log.Error("upsert failed", zap.Error(err))
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}

	log.Debug("cart item saved", zap.Int("quantity", item.Quantity))
	return &item, nil
}

func (r *repository) RemoveItem(ctx context.Context, cartID, productID uint) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = $1 AND product_id = $2`,
		cartID, productID,
	)
	if err != nil {
		return false, fmt.Errorf("remove cart item: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repository) Lines(ctx context.Context, cartID uint) ([]Line, error) {
	return LoadLines(ctx, r.db, cartID, false)
}

// LoadLines reads a cart's lines joined with the current product prices.
// With lock set the cart item rows are locked until the transaction ends.
func LoadLines(ctx context.Context, q Querier, cartID uint, lock bool) ([]Line, error) {
	query := `
		SELECT ci.product_id, p.name, p.slug, p.price, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id`
	if lock {
		query += ` FOR UPDATE OF ci`
	}

	rows, err := q.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("load cart lines: %w", err)
	}
	defer rows.Close()

	lines := make([]Line, 0)
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.ProductSlug, &l.UnitPrice, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}
	return lines, nil
}

// CountItems sums the quantities in the owner's cart without creating one.
func (r *repository) CountItems(ctx context.Context, owner identity.OwnerKey) (int, error) {
	where, arg := ownerFilter(owner)

	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(ci.quantity), 0)
		FROM carts c
		JOIN cart_items ci ON ci.cart_id = c.id
		WHERE c.`+where, arg,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count cart items: %w", err)
	}
	return n, nil
}
