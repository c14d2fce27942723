package cart

import (
	"errors"
	"fmt"

	"storefront-be/internal/apperror"
)

var (
	ErrCartNotFound = fmt.Errorf("cart %w", apperror.ErrNotFound)

	// ErrCartRace means the conflicting cart vanished between insert and re-read.
	ErrCartRace = errors.New("cart get-or-create lost its conflicting row")
)
