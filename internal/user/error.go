package user

import (
	"errors"
	"fmt"

	"storefront-be/internal/apperror"
)

var (
	ErrUsernameTaken      = fmt.Errorf("username already registered: %w", apperror.ErrConflict)
	ErrUserNotFound       = fmt.Errorf("user %w", apperror.ErrNotFound)
	ErrInvalidCredentials = fmt.Errorf("invalid username or password: %w", apperror.ErrUnauthenticated)
	ErrInvalidToken       = fmt.Errorf("invalid token: %w", apperror.ErrUnauthenticated)
	ErrMissingSecret      = errors.New("jwt secret is not set")
)
