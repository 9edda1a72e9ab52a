package repository

import (
	"context"

	"frutolandia/internal/domain"
)

// ProductRepository exposes persistence operations for the catalog.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (int64, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Product, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]domain.Product, error)
	SearchByName(ctx context.Context, fragment string) ([]domain.Product, error)
}
