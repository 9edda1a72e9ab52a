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

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) repository.CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) Get(ctx context.Context, userID, productID int64) (*domain.CartLine, error) {
	var line domain.CartLine
	err := conn(ctx, r.db).QueryRowContext(ctx, `
SELECT id, user_id, product_id, quantity, created_at, updated_at
FROM cart_items
WHERE user_id = ? AND product_id = ?`,
		userID,
		productID,
	).Scan(
		&line.ID,
		&line.UserID,
		&line.ProductID,
		&line.Quantity,
		&line.CreatedAt,
		&line.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cart line: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan cart line: %w", err)
	}
	return &line, nil
}

func (r *CartRepository) Save(ctx context.Context, line *domain.CartLine) error {
	now := time.Now().UTC()
	line.UpdatedAt = now

	if line.ID == 0 {
		line.CreatedAt = now
		res, err := conn(ctx, r.db).ExecContext(ctx, `
INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
			line.UserID,
			line.ProductID,
			line.Quantity,
			line.CreatedAt,
			line.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("cart line (%d, %d): %w", line.UserID, line.ProductID, repository.ErrConflict)
			}
			return fmt.Errorf("insert cart line: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("cart line last insert id: %w", err)
		}
		line.ID = id
		return nil
	}

	res, err := conn(ctx, r.db).ExecContext(ctx, `
UPDATE cart_items
SET quantity=?, updated_at=?
WHERE id=?`,
		line.Quantity,
		line.UpdatedAt,
		line.ID,
	)
	if err != nil {
		return fmt.Errorf("update cart line: %w", err)
	}
	return expectAffected(res, "update cart line")
}

// Delete removes the line for (userID, productID). Deleting a missing line is not an error.
func (r *CartRepository) Delete(ctx context.Context, userID, productID int64) error {
	if _, err := conn(ctx, r.db).ExecContext(ctx, `
DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`,
		userID,
		productID,
	); err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	return nil
}

func (r *CartRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (r *CartRepository) ListByUser(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
SELECT `+productColumns+`, c.id, c.user_id, c.quantity, c.created_at, c.updated_at
FROM cart_items c
JOIN products p ON p.id = c.product_id
WHERE c.user_id = ?
ORDER BY c.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		var line domain.CartLine
		product, err := scanProduct(rows,
			&line.ID,
			&line.UserID,
			&line.Quantity,
			&line.CreatedAt,
			&line.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		line.ProductID = product.ID
		line.Product = *product
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart: %w", err)
	}
	return lines, nil
}
