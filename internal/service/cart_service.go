package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"frutolandia/internal/domain"
	"frutolandia/internal/repository"
)

// CartService keeps at most one line per (user, product). Add merges into
// an existing line; Update replaces its quantity.
type CartService interface {
	List(ctx context.Context, userID int64) ([]domain.CartLine, error)
	Add(ctx context.Context, userID, productID int64, quantity int) (*domain.CartLine, error)
	// Update sets the quantity of an existing line. A quantity of zero or
	// less deletes the line and returns a nil line with a nil error.
	Update(ctx context.Context, userID, productID int64, quantity int) (*domain.CartLine, error)
	Remove(ctx context.Context, userID, productID int64) error
	Clear(ctx context.Context, userID int64) error
}

type cartService struct {
	tx       repository.Transactor
	lines    repository.CartRepository
	users    repository.UserRepository
	products repository.ProductRepository
}

func NewCartService(tx repository.Transactor, lines repository.CartRepository, users repository.UserRepository, products repository.ProductRepository) CartService {
	return &cartService{
		tx:       tx,
		lines:    lines,
		users:    users,
		products: products,
	}
}

func (s *cartService) List(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	lines, err := s.lines.ListByUser(ctx, userID)
	if err != nil {
		return nil, internalError("list cart", err)
	}
	return lines, nil
}

func (s *cartService) Add(ctx context.Context, userID, productID int64, quantity int) (*domain.CartLine, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var line *domain.CartLine
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		found, err := s.users.ExistsByID(ctx, userID)
		if err != nil {
			return internalError("cart user lookup", err)
		}
		if !found {
			return ErrUserNotFound
		}

		product, err := s.products.Get(ctx, productID)
		if err != nil {
			return productLookupError(err)
		}

		line, err = s.lines.Get(ctx, userID, productID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			line = &domain.CartLine{UserID: userID, ProductID: productID}
		case err != nil:
			return internalError("cart line lookup", err)
		}

		if line.Quantity > math.MaxInt-quantity {
			return fmt.Errorf("%w: line total too large", ErrInvalidQuantity)
		}
		line.Quantity += quantity
		line.Product = *product
		if err := s.lines.Save(ctx, line); err != nil {
			return internalError("save cart line", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (s *cartService) Update(ctx context.Context, userID, productID int64, quantity int) (*domain.CartLine, error) {
	var line *domain.CartLine
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.lines.Get(ctx, userID, productID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrItemNotFound
			}
			return internalError("cart line lookup", err)
		}

		if quantity <= 0 {
			if err := s.lines.Delete(ctx, userID, productID); err != nil {
				return internalError("delete cart line", err)
			}
			return nil
		}

		product, err := s.products.Get(ctx, productID)
		if err != nil {
			return productLookupError(err)
		}

		existing.Quantity = quantity
		existing.Product = *product
		if err := s.lines.Save(ctx, existing); err != nil {
			return internalError("save cart line", err)
		}
		line = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (s *cartService) Remove(ctx context.Context, userID, productID int64) error {
	if err := s.lines.Delete(ctx, userID, productID); err != nil {
		return internalError("remove cart line", err)
	}
	return nil
}

func (s *cartService) Clear(ctx context.Context, userID int64) error {
	if err := s.lines.DeleteByUser(ctx, userID); err != nil {
		return internalError("clear cart", err)
	}
	return nil
}
