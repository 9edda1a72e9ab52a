package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"frutolandia/internal/domain"
	"frutolandia/internal/repository"
	"frutolandia/internal/storage"
)

const (
	maxProductNameLen   = 100
	maxIngredientsLen   = 500
	maxDescriptionLen   = 1000
	defaultImageURLTTL  = 15 * time.Minute
	defaultImagesPrefix = "products"
)

type ProductInput struct {
	Name          string
	Price         float64
	Ingredients   string
	Description   string
	StockQuantity int
}

// ProductPatch carries a partial update; nil fields are left unchanged.
type ProductPatch struct {
	Name          *string
	Price         *float64
	Ingredients   *string
	Description   *string
	StockQuantity *int
}

// ImageUpload is a product image received from a client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ProductService manages the catalog and product images.
type ProductService interface {
	Create(ctx context.Context, in ProductInput) (*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Search(ctx context.Context, name string) ([]domain.Product, error)
	Update(ctx context.Context, id int64, patch ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	SetImage(ctx context.Context, id int64, img ImageUpload) (*domain.Product, error)
	ImageURL(ctx context.Context, id int64) (string, error)
}

type ProductServiceConfig struct {
	Images       storage.Service
	ImagesPrefix string
	ImageURLTTL  time.Duration
	Logger       logrus.FieldLogger
}

type productService struct {
	products repository.ProductRepository
	images   storage.Service
	prefix   string
	urlTTL   time.Duration
	logger   logrus.FieldLogger
}

func NewProductService(products repository.ProductRepository, cfg ProductServiceConfig) ProductService {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.ImageURLTTL <= 0 {
		cfg.ImageURLTTL = defaultImageURLTTL
	}
	prefix := strings.Trim(cfg.ImagesPrefix, "/")
	if prefix == "" {
		prefix = defaultImagesPrefix
	}
	return &productService{
		products: products,
		images:   cfg.Images,
		prefix:   prefix,
		urlTTL:   cfg.ImageURLTTL,
		logger:   cfg.Logger.WithField("component", "products"),
	}
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	product := &domain.Product{
		Name:          strings.TrimSpace(in.Name),
		Price:         in.Price,
		Ingredients:   in.Ingredients,
		Description:   in.Description,
		StockQuantity: in.StockQuantity,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if _, err := s.products.Create(ctx, product); err != nil {
		return nil, internalError("create product", err)
	}
	return product, nil
}

func (s *productService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, productLookupError(err)
	}
	return product, nil
}

func (s *productService) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, internalError("list products", err)
	}
	return products, nil
}

func (s *productService) Search(ctx context.Context, name string) ([]domain.Product, error) {
	products, err := s.products.SearchByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, internalError("search products", err)
	}
	return products, nil
}

func (s *productService) Update(ctx context.Context, id int64, patch ProductPatch) (*domain.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, productLookupError(err)
	}

	if patch.Name != nil {
		product.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Ingredients != nil {
		product.Ingredients = *patch.Ingredients
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.StockQuantity != nil {
		product.StockQuantity = *patch.StockQuantity
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, productLookupError(err)
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return productLookupError(err)
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return productLookupError(err)
	}

	if product.ImageKey != "" && s.images != nil {
		if err := s.images.Delete(ctx, product.ImageKey); err != nil {
			s.logger.WithError(err).WithField("product_id", id).Warn("delete product image")
		}
	}
	return nil
}

func (s *productService) SetImage(ctx context.Context, id int64, img ImageUpload) (*domain.Product, error) {
	if s.images == nil {
		return nil, ErrStorageUnavailable
	}
	if !strings.HasPrefix(img.ContentType, "image/") {
		return nil, invalidInput("content type %q is not an image", img.ContentType)
	}

	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, productLookupError(err)
	}

	key := fmt.Sprintf("%s/%d/%s%s", s.prefix, id, uuid.NewString(), strings.ToLower(path.Ext(img.Filename)))
	if err := s.images.Put(ctx, storage.Object{Key: key, Body: img.Body, ContentType: img.ContentType}); err != nil {
		return nil, internalError("upload product image", err)
	}

	previous := product.ImageKey
	product.ImageKey = key
	if err := s.products.Update(ctx, product); err != nil {
		if delErr := s.images.Delete(ctx, key); delErr != nil {
			s.logger.WithError(delErr).WithField("key", key).Warn("delete orphaned product image")
		}
		return nil, productLookupError(err)
	}

	if previous != "" {
		if err := s.images.Delete(ctx, previous); err != nil {
			s.logger.WithError(err).WithField("key", previous).Warn("delete replaced product image")
		}
	}
	return product, nil
}

func (s *productService) ImageURL(ctx context.Context, id int64) (string, error) {
	if s.images == nil {
		return "", ErrStorageUnavailable
	}
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return "", productLookupError(err)
	}
	if product.ImageKey == "" {
		return "", fmt.Errorf("%w: product %d has no image", ErrProductNotFound, id)
	}
	url, err := s.images.PresignGet(ctx, product.ImageKey, s.urlTTL)
	if err != nil {
		return "", internalError("presign product image", err)
	}
	return url, nil
}

func productLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProductNotFound
	}
	return internalError("product lookup", err)
}

func validateProduct(p *domain.Product) error {
	if n := utf8.RuneCountInString(p.Name); n < minNameLen || n > maxProductNameLen {
		return invalidInput("name must be between %d and %d characters", minNameLen, maxProductNameLen)
	}
	if p.Price < 0.01 {
		return invalidInput("price must be greater than zero")
	}
	if utf8.RuneCountInString(p.Ingredients) > maxIngredientsLen {
		return invalidInput("ingredients must not exceed %d characters", maxIngredientsLen)
	}
	if utf8.RuneCountInString(p.Description) > maxDescriptionLen {
		return invalidInput("description must not exceed %d characters", maxDescriptionLen)
	}
	if p.StockQuantity < 0 {
		return invalidInput("stock quantity must not be negative")
	}
	return nil
}
