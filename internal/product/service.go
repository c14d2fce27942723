package product

import (
	"context"
	"strconv"

	"storefront-be/internal/category"
	"storefront-be/internal/logger"
	"storefront-be/internal/utils"
	"storefront-be/internal/validation"

	"go.uber.org/zap"
)

// CategoryReader is the part of the category service the catalog needs.
type CategoryReader interface {
	List(ctx context.Context, limit int) ([]*category.Category, error)
	GetBySlug(ctx context.Context, slug string) (*category.Category, error)
}

type Service interface {
	GetProduct(ctx context.Context, idOrSlug string) (*Product, error)
	GetAvailableBySlug(ctx context.Context, slug string) (*Product, error)
	ListAvailable(ctx context.Context, categorySlug *string) (*Listing, error)
	Home(ctx context.Context) (*HomePage, error)
	Create(ctx context.Context, input CreateProductInput) (*Product, error)
	Update(ctx context.Context, id uint, input UpdateProductInput) (*Product, error)
}

type service struct {
	repo       Repository
	categories CategoryReader
}

func NewService(repo Repository, categories CategoryReader) Service {
	return &service{repo: repo, categories: categories}
}

// GetProduct looks a product up by numeric id, falling back to slug.
func (s *service) GetProduct(ctx context.Context, idOrSlug string) (*Product, error) {
	if idOrSlug == "" {
		return nil, ErrProductNotFound
	}
	if id, err := strconv.ParseUint(idOrSlug, 10, 64); err == nil {
		if id > utils.MaxID {
			return nil, ErrProductNotFound
		}
		return s.repo.GetByID(ctx, uint(id))
	}
	return s.repo.GetBySlug(ctx, idOrSlug, false)
}

func (s *service) GetAvailableBySlug(ctx context.Context, slug string) (*Product, error) {
	if slug == "" {
		return nil, ErrProductNotFound
	}
	return s.repo.GetBySlug(ctx, slug, true)
}

func (s *service) ListAvailable(ctx context.Context, categorySlug *string) (*Listing, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ListAvailable"),
	)

	listing := &Listing{}

	var categoryID *uint
	if categorySlug != nil {
		c, err := s.categories.GetBySlug(ctx, *categorySlug)
		if err != nil {
			log.Info("category lookup failed", zap.String("slug", *categorySlug), zap.Error(err))
			return nil, err
		}
		listing.Category = c
		categoryID = &c.ID
	}

	categories, err := s.categories.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	listing.Categories = categories

	products, err := s.repo.ListAvailable(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	listing.Products = products

	return listing, nil
}

func (s *service) Home(ctx context.Context) (*HomePage, error) {
	featured, err := s.repo.ListFeatured(ctx, homeSectionSize)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.List(ctx, homeSectionSize)
	if err != nil {
		return nil, err
	}

	return &HomePage{Featured: featured, Categories: categories}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*Product, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if !utils.ValidID(input.CategoryID) {
		return nil, ErrUnknownCategory
	}
	if input.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	slug := utils.Slugify(input.Slug)
	if slug == "" {
		slug = utils.Slugify(input.Name)
	}
	if slug == "" {
		return nil, ErrInvalidSlug
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}

	return s.repo.Create(ctx, &Product{
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
		Price:       input.Price.Round(2),
		Stock:       input.Stock,
		Available:   available,
		Featured:    input.Featured,
	})
}

func (s *service) Update(ctx context.Context, id uint, input UpdateProductInput) (*Product, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if input.empty() {
		return nil, ErrEmptyUpdate
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, ErrNegativePrice
		}
		rounded := input.Price.Round(2)
		input.Price = &rounded
	}

	return s.repo.Update(ctx, id, input)
}
