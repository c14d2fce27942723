package category

import (
	"context"

	"storefront-be/internal/apperror"
	"storefront-be/internal/utils"
	"storefront-be/internal/validation"
)

type Service interface {
	List(ctx context.Context, limit int) ([]*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	Create(ctx context.Context, input CreateCategoryInput) (*Category, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, limit int) ([]*Category, error) {
	return s.repo.List(ctx, limit)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	if slug == "" {
		return nil, ErrCategoryNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}

// Create stores a new category. The slug defaults to the slugified name.
func (s *service) Create(ctx context.Context, input CreateCategoryInput) (*Category, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	slug := utils.Slugify(input.Slug)
	if slug == "" {
		slug = utils.Slugify(input.Name)
	}
	if slug == "" {
		return nil, apperror.Invalid("slug", "slug must contain letters or digits")
	}

	return s.repo.Create(ctx, &Category{
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
	})
}
