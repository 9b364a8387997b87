package service

import (
	"context"
	"fmt"

	"shopapp/internal/domain"
	"shopapp/internal/repository"
	"shopapp/internal/validation"
)

// ProductService defines the interface for product business logic
type ProductService interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	ListByShop(ctx context.Context, shopID int64, page, pageSize int) ([]*domain.Product, int, error)
	ListByShopAndCategory(ctx context.Context, shopID, categoryID int64, page, pageSize int) ([]*domain.Product, int, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// Create validates and persists a new product. A shop reference is mandatory
// at creation time; products only become shop-less when their shop is
// deleted.
func (s *productService) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := validateProduct(product, true); err != nil {
		return nil, err
	}
	return s.productRepo.Create(ctx, product)
}

// Update fully replaces the product, its localized texts, and its category
// links.
func (s *productService) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if _, err := s.productRepo.FindByID(ctx, product.ID); err != nil {
		return nil, err
	}
	if err := validateProduct(product, false); err != nil {
		return nil, err
	}
	return s.productRepo.Update(ctx, product)
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	return s.productRepo.Delete(ctx, id)
}

func (s *productService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *productService) ListByShop(ctx context.Context, shopID int64, page, pageSize int) ([]*domain.Product, int, error) {
	return s.productRepo.ListByShop(ctx, shopID, page, pageSize)
}

func (s *productService) ListByShopAndCategory(ctx context.Context, shopID, categoryID int64, page, pageSize int) ([]*domain.Product, int, error) {
	return s.productRepo.ListByShopAndCategory(ctx, shopID, categoryID, page, pageSize)
}

// validateProduct collects every constraint violation: tag constraints,
// non-negative price, shop presence on create, and locale membership in the
// supported set.
func validateProduct(product *domain.Product, requireShop bool) error {
	violations := validation.Struct(product)

	if product.Price.IsNegative() {
		violations = append(violations, domain.FieldViolation{
			Field:   "price",
			Message: "Price must be positive",
		})
	}

	if requireShop && product.ShopID == nil {
		violations = append(violations, domain.FieldViolation{
			Field:   "shopId",
			Message: "This field is required",
		})
	}

	for i, lp := range product.LocalizedProducts {
		field := fmt.Sprintf("localizedProducts[%d].locale", i)
		if v := validation.StringEnum(field, lp.Locale, domain.SupportedLocales); v != nil {
			violations = append(violations, *v)
		}
	}

	if len(violations) > 0 {
		return &domain.ValidationError{Violations: violations}
	}
	return nil
}
