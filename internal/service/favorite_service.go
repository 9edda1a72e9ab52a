package service

import (
	"context"
	"errors"
	"strings"

	"frutolandia/internal/domain"
	"frutolandia/internal/repository"
)

// FavoriteService keeps at most one favorite marker per (user, product).
// Users are addressed by the email carried in their token.
type FavoriteService interface {
	List(ctx context.Context, email string) ([]domain.Product, error)
	Add(ctx context.Context, email string, productID int64) (*domain.Product, error)
	Remove(ctx context.Context, email string, productID int64) error
}

type favoriteService struct {
	favorites repository.FavoriteRepository
	users     repository.UserRepository
	products  repository.ProductRepository
}

func NewFavoriteService(favorites repository.FavoriteRepository, users repository.UserRepository, products repository.ProductRepository) FavoriteService {
	return &favoriteService{
		favorites: favorites,
		users:     users,
		products:  products,
	}
}

func (s *favoriteService) List(ctx context.Context, email string) ([]domain.Product, error) {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	products, err := s.favorites.ListProductsByUser(ctx, user.ID)
	if err != nil {
		return nil, internalError("list favorites", err)
	}
	return products, nil
}

// Add rejects a second marker for the same product. The lookup gives the
// common case a clean error; the UNIQUE(user_id, product_id) constraint
// settles concurrent inserts and maps to the same error.
func (s *favoriteService) Add(ctx context.Context, email string, productID int64) (*domain.Product, error) {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, productLookupError(err)
	}

	_, err = s.favorites.Get(ctx, user.ID, productID)
	switch {
	case err == nil:
		return nil, ErrDuplicateFavorite
	case !errors.Is(err, repository.ErrNotFound):
		return nil, internalError("favorite lookup", err)
	}

	if _, err := s.favorites.Create(ctx, &domain.Favorite{UserID: user.ID, ProductID: productID}); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateFavorite
		}
		return nil, internalError("create favorite", err)
	}
	return product, nil
}

func (s *favoriteService) Remove(ctx context.Context, email string, productID int64) error {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}

	fav, err := s.favorites.Get(ctx, user.ID, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFavoriteNotFound
		}
		return internalError("favorite lookup", err)
	}

	if err := s.favorites.Delete(ctx, fav.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFavoriteNotFound
		}
		return internalError("delete favorite", err)
	}
	return nil
}

func (s *favoriteService) userByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, userLookupError(err)
	}
	return user, nil
}
