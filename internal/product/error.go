package product

import (
	"fmt"

	"storefront-be/internal/apperror"
)

var (
	ErrProductNotFound  = fmt.Errorf("product %w", apperror.ErrNotFound)
	ErrProductSlugTaken = fmt.Errorf("product slug already in use: %w", apperror.ErrConflict)
	ErrUnknownCategory  = apperror.Invalid("category_id", "category does not exist")
	ErrNegativePrice    = apperror.Invalid("price", "price must not be negative")
	ErrEmptyUpdate      = apperror.Invalid("product", "nothing to update")
	ErrInvalidSlug      = apperror.Invalid("slug", "slug must contain letters or digits")
)
