package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frutolandia/internal/domain"
	"frutolandia/internal/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func seedUser(t *testing.T, db *sql.DB, email string) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, PasswordHash: "hash", Name: "Test", Role: domain.RoleUser}
	_, err := NewUserRepository(db).Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func seedProduct(t *testing.T, db *sql.DB, name string) *domain.Product {
	t.Helper()
	product := &domain.Product{Name: name, Price: 1.5, StockQuantity: 10}
	_, err := NewProductRepository(db).Create(context.Background(), product)
	require.NoError(t, err)
	return product
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, Migrate(db))
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "tx@example.com")
	product := seedProduct(t, db, "Mango")
	carts := NewCartRepository(db)

	boom := errors.New("boom")
	err := NewTransactor(db).WithinTx(ctx, func(ctx context.Context) error {
		if err := carts.Save(ctx, &domain.CartLine{UserID: user.ID, ProductID: product.ID, Quantity: 3}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = carts.Get(ctx, user.ID, product.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTransactor_CommitsAndNests(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "tx@example.com")
	product := seedProduct(t, db, "Mango")
	carts := NewCartRepository(db)
	tx := NewTransactor(db)

	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		return tx.WithinTx(ctx, func(ctx context.Context) error {
			return carts.Save(ctx, &domain.CartLine{UserID: user.ID, ProductID: product.ID, Quantity: 2})
		})
	})
	require.NoError(t, err)

	line, err := carts.Get(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)
}

func TestOpen_EnforcesForeignKeysOnEveryConnection(t *testing.T) {
	db := newTestDB(t)
	// drop idle connections so each query dials a fresh one
	db.SetMaxIdleConns(0)

	for i := 0; i < 3; i++ {
		var enabled int
		require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&enabled))
		assert.Equal(t, 1, enabled)
	}

	_, err := db.Exec(`INSERT INTO favorites (user_id, product_id, created_at) VALUES (404, 404, CURRENT_TIMESTAMP)`)
	assert.Error(t, err)
}
