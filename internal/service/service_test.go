package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"frutolandia/internal/auth"
	"frutolandia/internal/domain"
	"frutolandia/internal/repository"
	"frutolandia/internal/repository/sqlite"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testEnv struct {
	users     repository.UserRepository
	products  repository.ProductRepository
	carts     repository.CartRepository
	favorites repository.FavoriteRepository
	tx        repository.Transactor
	tokens    *auth.TokenService
	logger    logrus.FieldLogger
	logs      *test.Hook
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(db))

	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: testSecret, TTL: time.Hour})
	require.NoError(t, err)

	logger, hook := test.NewNullLogger()
	return &testEnv{
		users:     sqlite.NewUserRepository(db),
		products:  sqlite.NewProductRepository(db),
		carts:     sqlite.NewCartRepository(db),
		favorites: sqlite.NewFavoriteRepository(db),
		tx:        sqlite.NewTransactor(db),
		tokens:    tokens,
		logger:    logger,
		logs:      hook,
	}
}

func (e *testEnv) addUser(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	user, err := NewUserService(e.users, e.logger).Create(context.Background(), CreateUserInput{
		Name:     "Test User",
		Email:    email,
		Password: "secret123",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) addProduct(t *testing.T, name string) *domain.Product {
	t.Helper()
	product, err := NewProductService(e.products, ProductServiceConfig{Logger: e.logger}).Create(context.Background(), ProductInput{
		Name:          name,
		Price:         2.5,
		StockQuantity: 10,
	})
	require.NoError(t, err)
	return product
}

// staleEmailCheck reports every email as free, like a concurrent register
// that checked before the other insert committed.
type staleEmailCheck struct {
	repository.UserRepository
}

func (staleEmailCheck) ExistsByEmail(context.Context, string) (bool, error) {
	return false, nil
}

// staleFavoriteCheck never sees an existing marker.
type staleFavoriteCheck struct {
	repository.FavoriteRepository
}

func (staleFavoriteCheck) Get(context.Context, int64, int64) (*domain.Favorite, error) {
	return nil, repository.ErrNotFound
}

type failingProductUpdate struct {
	repository.ProductRepository
}

func (failingProductUpdate) Update(context.Context, *domain.Product) error {
	return errors.New("disk I/O error")
}
