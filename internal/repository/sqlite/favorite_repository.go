package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"frutolandia/internal/domain"
	"frutolandia/internal/repository"
)

type FavoriteRepository struct {
	db *sql.DB
}

func NewFavoriteRepository(db *sql.DB) repository.FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Get(ctx context.Context, userID, productID int64) (*domain.Favorite, error) {
	var fav domain.Favorite
	err := conn(ctx, r.db).QueryRowContext(ctx, `
SELECT id, user_id, product_id, created_at
FROM favorites
WHERE user_id = ? AND product_id = ?`,
		userID,
		productID,
	).Scan(&fav.ID, &fav.UserID, &fav.ProductID, &fav.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("favorite: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan favorite: %w", err)
	}
	return &fav, nil
}

func (r *FavoriteRepository) Create(ctx context.Context, fav *domain.Favorite) (int64, error) {
	fav.CreatedAt = time.Now().UTC()
	res, err := conn(ctx, r.db).ExecContext(ctx, `
INSERT INTO favorites (user_id, product_id, created_at)
VALUES (?, ?, ?)`,
		fav.UserID,
		fav.ProductID,
		fav.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("favorite (%d, %d): %w", fav.UserID, fav.ProductID, repository.ErrConflict)
		}
		return 0, fmt.Errorf("insert favorite: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("favorite last insert id: %w", err)
	}
	fav.ID = id
	return id, nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM favorites WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return expectAffected(res, "delete favorite")
}

func (r *FavoriteRepository) ListProductsByUser(ctx context.Context, userID int64) ([]domain.Product, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
SELECT `+productColumns+`
FROM favorites f
JOIN products p ON p.id = f.product_id
WHERE f.user_id = ?
ORDER BY f.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return collectProducts(rows)
}
