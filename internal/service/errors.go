package service

import (
	"errors"
	"fmt"

	"frutolandia/internal/auth"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	// It is returned both for unknown emails and for wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateEmail is returned when registering or renaming to an email already in use.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidToken is returned when a bearer token fails validation or its subject no longer exists.
	ErrInvalidToken = auth.ErrInvalidToken
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("insufficient permissions")

	ErrUserNotFound      = errors.New("user not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrItemNotFound      = errors.New("cart item not found")
	ErrFavoriteNotFound  = errors.New("favorite not found")
	ErrDuplicateFavorite = errors.New("product already in favorites")

	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrInvalidInput    = errors.New("invalid input")

	// ErrStorageUnavailable is returned by image operations when no object store is configured.
	ErrStorageUnavailable = errors.New("image storage not configured")
	// ErrInternal marks unexpected store, hashing or signing failures.
	ErrInternal = errors.New("internal error")
)

func internalError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
