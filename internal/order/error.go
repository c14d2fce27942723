package order

import (
	"fmt"

	"storefront-be/internal/apperror"
)

var (
	ErrOrderNotFound = fmt.Errorf("order %w", apperror.ErrNotFound)
	ErrLoginRequired = fmt.Errorf("placing an order: %w", apperror.ErrUnauthenticated)
	ErrStatusChanged = fmt.Errorf("order status changed concurrently: %w", apperror.ErrConflict)
)

func invalidTransition(from, to Status) error {
	return apperror.Invalid("status", fmt.Sprintf("cannot move order from %s to %s", from, to))
}
