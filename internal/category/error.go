package category

import (
	"fmt"

	"storefront-be/internal/apperror"
)

var (
	ErrCategoryNotFound  = fmt.Errorf("category %w", apperror.ErrNotFound)
	ErrCategorySlugTaken = fmt.Errorf("category slug already in use: %w", apperror.ErrConflict)
)
