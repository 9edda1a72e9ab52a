package repository

import (
	"context"

	"frutolandia/internal/domain"
)

// FavoriteRepository stores favorite markers keyed by (user, product).
type FavoriteRepository interface {
	Get(ctx context.Context, userID, productID int64) (*domain.Favorite, error)
	Create(ctx context.Context, fav *domain.Favorite) (int64, error)
	Delete(ctx context.Context, id int64) error
	ListProductsByUser(ctx context.Context, userID int64) ([]domain.Product, error)
}
