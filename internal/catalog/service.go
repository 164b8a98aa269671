package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hanbit-mall/storefront-api/internal/pricing"
)

// ErrInvalidInput is returned when an admin payload fails validation.
var ErrInvalidInput = errors.New("invalid input")

// Store captures the product persistence methods used by the service.
type Store interface {
	ListProducts(ctx context.Context) ([]pricing.Product, error)
	GetProduct(ctx context.Context, id string) (pricing.Product, error)
	CreateProduct(ctx context.Context, product pricing.Product) error
	UpdateProduct(ctx context.Context, product pricing.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// Service orchestrates product queries, admin mutations, and list caching.
type Service struct {
	store    Store
	cache    *Cache
	validate *validator.Validate
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store Store
	Cache *Cache
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("catalog store is required")
	}
	return &Service{
		store:    cfg.Store,
		cache:    cfg.Cache,
		validate: validator.New(),
	}, nil
}

// ProductInput is the admin payload for creating or updating a product.
// Tier rates are fractions in [0,1), not percentages.
type ProductInput struct {
	Name      string      `json:"name" validate:"required"`
	Price     int64       `json:"price" validate:"gte=0"`
	Stock     int         `json:"stock" validate:"gte=0"`
	Discounts []TierInput `json:"discounts" validate:"dive"`
}

// TierInput is one discount tier in an admin payload.
type TierInput struct {
	Quantity int     `json:"quantity" validate:"gt=0"`
	Rate     float64 `json:"rate" validate:"gte=0,lt=1"`
}

// List returns the catalog, served from cache when possible.
func (s *Service) List(ctx context.Context) ([]pricing.Product, error) {
	var cached []pricing.Product
	if hit, err := s.cache.GetJSON(ctx, productListKey, &cached); err == nil && hit {
		return cached, nil
	}
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJSON(ctx, productListKey, products)
	return products, nil
}

// Get returns a single product.
func (s *Service) Get(ctx context.Context, id string) (pricing.Product, error) {
	return s.store.GetProduct(ctx, id)
}

// Create validates the payload and inserts a product with a generated id.
func (s *Service) Create(ctx context.Context, input ProductInput) (pricing.Product, error) {
	product, err := s.buildProduct(uuid.NewString(), input)
	if err != nil {
		return pricing.Product{}, err
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return pricing.Product{}, err
	}
	_ = s.cache.Invalidate(ctx, productListKey)
	return product, nil
}

// Update validates the payload and replaces an existing product.
func (s *Service) Update(ctx context.Context, id string, input ProductInput) (pricing.Product, error) {
	product, err := s.buildProduct(id, input)
	if err != nil {
		return pricing.Product{}, err
	}
	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return pricing.Product{}, err
	}
	_ = s.cache.Invalidate(ctx, productListKey)
	return product, nil
}

// Delete removes a product from the catalog.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Invalidate(ctx, productListKey)
	return nil
}

func (s *Service) buildProduct(id string, input ProductInput) (pricing.Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return pricing.Product{}, fmt.Errorf("%s: %w", validationMessage(err), ErrInvalidInput)
	}
	product := pricing.Product{
		ID:    id,
		Name:  strings.TrimSpace(input.Name),
		Price: input.Price,
		Stock: input.Stock,
	}
	for _, tier := range input.Discounts {
		product.Discounts = append(product.Discounts, pricing.DiscountTier{
			Quantity: tier.Quantity,
			Rate:     tier.Rate,
		})
	}
	return product, nil
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fmt.Sprintf("field %s failed on %s", fieldErrs[0].Field(), fieldErrs[0].Tag())
	}
	return "validation failed"
}
