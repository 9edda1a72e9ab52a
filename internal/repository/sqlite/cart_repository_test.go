package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frutolandia/internal/domain"
	"frutolandia/internal/repository"
)

func TestCartRepository_OneLinePerUserAndProduct(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "ana@example.com")
	product := seedProduct(t, db, "Mango")

	require.NoError(t, repo.Save(ctx, &domain.CartLine{UserID: user.ID, ProductID: product.ID, Quantity: 1}))
	err := repo.Save(ctx, &domain.CartLine{UserID: user.ID, ProductID: product.ID, Quantity: 4})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestCartRepository_SaveUpdatesExistingLine(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "ana@example.com")
	product := seedProduct(t, db, "Mango")

	line := &domain.CartLine{UserID: user.ID, ProductID: product.ID, Quantity: 1}
	require.NoError(t, repo.Save(ctx, line))
	line.Quantity = 7
	require.NoError(t, repo.Save(ctx, line))

	got, err := repo.Get(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, line.ID, got.ID)
	assert.Equal(t, 7, got.Quantity)
}

func TestCartRepository_RejectsNonPositiveQuantity(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)
	user := seedUser(t, db, "ana@example.com")
	product := seedProduct(t, db, "Mango")

	err := repo.Save(context.Background(), &domain.CartLine{UserID: user.ID, ProductID: product.ID, Quantity: 0})
	assert.Error(t, err)
}

func TestCartRepository_ListDeleteAndCascade(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "ana@example.com")
	other := seedUser(t, db, "bea@example.com")
	mango := seedProduct(t, db, "Mango")
	kiwi := seedProduct(t, db, "Kiwi")

	require.NoError(t, repo.Save(ctx, &domain.CartLine{UserID: user.ID, ProductID: mango.ID, Quantity: 2}))
	require.NoError(t, repo.Save(ctx, &domain.CartLine{UserID: user.ID, ProductID: kiwi.ID, Quantity: 1}))
	require.NoError(t, repo.Save(ctx, &domain.CartLine{UserID: other.ID, ProductID: kiwi.ID, Quantity: 9}))

	lines, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Mango", lines[0].Product.Name)
	assert.Equal(t, mango.ID, lines[0].ProductID)
	assert.Equal(t, user.ID, lines[0].UserID)

	require.NoError(t, repo.Delete(ctx, user.ID, mango.ID))
	require.NoError(t, repo.Delete(ctx, user.ID, mango.ID))

	require.NoError(t, NewProductRepository(db).Delete(ctx, kiwi.ID))
	lines, err = repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	lines, err = repo.ListByUser(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
