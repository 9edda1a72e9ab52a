package repository

import (
	"context"

	"frutolandia/internal/domain"
)

// CartRepository stores cart lines keyed by (user, product).
type CartRepository interface {
	// Get returns the line without product details.
	Get(ctx context.Context, userID, productID int64) (*domain.CartLine, error)
	// Save inserts the line when ID is zero and updates it otherwise.
	Save(ctx context.Context, line *domain.CartLine) error
	Delete(ctx context.Context, userID, productID int64) error
	DeleteByUser(ctx context.Context, userID int64) error
	// ListByUser returns lines with Product populated.
	ListByUser(ctx context.Context, userID int64) ([]domain.CartLine, error)
}
