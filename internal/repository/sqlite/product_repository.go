package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"frutolandia/internal/domain"
	"frutolandia/internal/repository"
)

const productColumns = `p.id, p.name, p.price, p.ingredients, p.description, p.stock_quantity, p.image_key, p.created_at, p.updated_at`

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (int64, error) {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	res, err := conn(ctx, r.db).ExecContext(ctx, `
INSERT INTO products (name, price, ingredients, description, stock_quantity, image_key, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		product.Name,
		product.Price,
		product.Ingredients,
		product.Description,
		product.StockQuantity,
		product.ImageKey,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("product last insert id: %w", err)
	}
	product.ID = id
	return id, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = time.Now().UTC()
	res, err := conn(ctx, r.db).ExecContext(ctx, `
UPDATE products
SET name=?, price=?, ingredients=?, description=?, stock_quantity=?, image_key=?, updated_at=?
WHERE id=?`,
		product.Name,
		product.Price,
		product.Ingredients,
		product.Description,
		product.StockQuantity,
		product.ImageKey,
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return expectAffected(res, "update product")
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return expectAffected(res, "delete product")
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, `
SELECT `+productColumns+`
FROM products p
WHERE p.id = ?`,
		id,
	)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return product, nil
}

func (r *ProductRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, conn(ctx, r.db), `SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)`, id)
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
SELECT `+productColumns+`
FROM products p
ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

// SearchByName matches products whose name contains fragment, ignoring case.
func (r *ProductRepository) SearchByName(ctx context.Context, fragment string) ([]domain.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(fragment)) + "%"
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
SELECT `+productColumns+`
FROM products p
WHERE lower(p.name) LIKE ? ESCAPE '\'
ORDER BY p.id`,
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return collectProducts(rows)
}

func collectProducts(rows *sql.Rows) ([]domain.Product, error) {
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func scanProduct(row scanner, extra ...any) (*domain.Product, error) {
	var product domain.Product
	dest := []any{
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Ingredients,
		&product.Description,
		&product.StockQuantity,
		&product.ImageKey,
		&product.CreatedAt,
		&product.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &product, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
