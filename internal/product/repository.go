package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetBySlug(ctx context.Context, slug string, onlyAvailable bool) (*Product, error)
	ListAvailable(ctx context.Context, categoryID *uint) ([]*Product, error)
	ListFeatured(ctx context.Context, limit int) ([]*Product, error)
	Create(ctx context.Context, p *Product) (*Product, error)
	Update(ctx context.Context, id uint, input UpdateProductInput) (*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	p.id, p.category_id, c.name, c.slug, p.name, p.slug, p.description,
	p.price, p.stock, p.available, p.featured, p.created_at`

const selectProducts = `SELECT` + productColumns + `
	FROM products p
	JOIN categories c ON c.id = p.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.CategoryName, &p.CategorySlug,
		&p.Name, &p.Slug, &p.Description,
		&p.Price, &p.Stock, &p.Available, &p.Featured, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, selectProducts+`
		WHERE p.id = $1`, id))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return p, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string, onlyAvailable bool) (*Product, error) {
	query := selectProducts + `
		WHERE p.slug = $1`
	if onlyAvailable {
		query += ` AND p.available`
	}

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return p, nil
}

// ListAvailable returns products that are both flagged available and in
// stock, optionally limited to one category.
func (r *repository) ListAvailable(ctx context.Context, categoryID *uint) ([]*Product, error) {
	query := selectProducts + `
		WHERE p.available AND p.stock > 0`
	args := []any{}
	if categoryID != nil {
		query += ` AND p.category_id = $1`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY p.name ASC`

	return r.list(ctx, "ListAvailable", query, args...)
}

func (r *repository) ListFeatured(ctx context.Context, limit int) ([]*Product, error) {
	return r.list(ctx, "ListFeatured", selectProducts+`
		WHERE p.available AND p.featured
		ORDER BY p.created_at DESC
		LIMIT $1`, limit)
}

func (r *repository) list(ctx context.Context, method, query string, args ...any) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", method),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	products := make([]*Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	log.Debug("products listed", zap.Int("count", len(products)))
	return products, nil
}

func (r *repository) Create(ctx context.Context, p *Product) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("slug", p.Slug),
	)

	created, err := scanProduct(r.db.QueryRowContext(ctx, `
		WITH p AS (
			INSERT INTO products (category_id, name, slug, description, price, stock, available, featured)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *
		)
		SELECT`+productColumns+`
		FROM p
		JOIN categories c ON c.id = p.category_id`,
		p.CategoryID, p.Name, p.Slug, p.Description, p.Price, p.Stock, p.Available, p.Featured,
	))

	switch {
	case db.IsUniqueViolation(err):
		log.Warn("product slug taken")
		return nil, ErrProductSlugTaken
	case db.IsForeignKeyViolation(err):
		log.Warn("unknown category", zap.Uint("category_id", p.CategoryID))
		return nil, ErrUnknownCategory
	case err != nil:
		log.Error("insert failed", zap.Error(err))
		return nil, fmt.Errorf("add product failed: %w", err)
	}

	log.Info("product created", zap.Uint("product_id", created.ID))
	return created, nil
}

// Update patches price, stock and flags. Orders already placed keep the
// price they were created with.
func (r *repository) Update(ctx context.Context, id uint, input UpdateProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Update"),
		zap.Uint("product_id", id),
	)

	updated, err := scanProduct(r.db.QueryRowContext(ctx, `
		WITH p AS (
			UPDATE products SET
				price     = COALESCE($2, price),
				stock     = COALESCE($3, stock),
				available = COALESCE($4, available),
				featured  = COALESCE($5, featured)
			WHERE id = $1
			RETURNING *
		)
		SELECT`+productColumns+`
		FROM p
		JOIN categories c ON c.id = p.category_id`,
		id, input.Price, input.Stock, input.Available, input.Featured,
	))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		log.Error("update failed", zap.Error(err))
		return nil, fmt.Errorf("update product failed: %w", err)
	}

	log.Info("product updated")
	return updated, nil
}
