package service

import (
	"context"
	"fmt"
	"time"

	"shopapp/internal/domain"
	"shopapp/internal/repository"
	"shopapp/internal/validation"
)

// ShopListParams are the optional sort/filter parameters of a shop listing.
// A present SortBy wins over any filter.
type ShopListParams struct {
	SortBy        *string
	InVacations   *bool
	CreatedBefore *time.Time
	CreatedAfter  *time.Time
}

// ShopService defines the interface for shop business logic
type ShopService interface {
	Create(ctx context.Context, shop *domain.Shop) (*domain.Shop, error)
	Update(ctx context.Context, shop *domain.Shop) (*domain.Shop, error)
	DeleteByID(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Shop, error)
	List(ctx context.Context, params ShopListParams, page, pageSize int) ([]*domain.Shop, int, error)
}

type shopService struct {
	shopRepo repository.ShopRepository
}

// NewShopService creates a new instance of ShopService
func NewShopService(shopRepo repository.ShopRepository) ShopService {
	return &shopService{shopRepo: shopRepo}
}

// Create validates the shop and persists it together with its opening hours.
// The returned shop is the row read back by the store, derived counts
// included.
func (s *shopService) Create(ctx context.Context, shop *domain.Shop) (*domain.Shop, error) {
	violations := validation.Struct(shop)
	violations = append(violations, overlapViolations(shop.OpeningHours)...)
	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	return s.shopRepo.Save(ctx, shop)
}

// Update replaces the complete shop state, opening hours included. Callers
// must supply the full desired state; this is not a partial patch.
func (s *shopService) Update(ctx context.Context, shop *domain.Shop) (*domain.Shop, error) {
	if _, err := s.shopRepo.FindByID(ctx, shop.ID); err != nil {
		return nil, err
	}
	return s.Create(ctx, shop)
}

// DeleteByID removes a shop. Owned products are detached, not deleted.
func (s *shopService) DeleteByID(ctx context.Context, id int64) error {
	return s.shopRepo.Delete(ctx, id)
}

func (s *shopService) GetByID(ctx context.Context, id int64) (*domain.Shop, error) {
	return s.shopRepo.FindByID(ctx, id)
}

// List resolves the sort/filter parameters to exactly one query plan and
// fetches the page.
func (s *shopService) List(ctx context.Context, params ShopListParams, page, pageSize int) ([]*domain.Shop, int, error) {
	return s.shopRepo.List(ctx, resolveShopListQuery(params), page, pageSize)
}

// resolveShopListQuery dispatches the optional parameters onto the closed set
// of query plans. SortBy takes precedence; otherwise the first matching
// non-empty filter subset wins; otherwise the default id ordering.
func resolveShopListQuery(params ShopListParams) repository.ShopListQuery {
	if params.SortBy != nil {
		switch *params.SortBy {
		case "name":
			return repository.ShopListQuery{Plan: repository.ShopListSortByName}
		case "createdAt":
			return repository.ShopListQuery{Plan: repository.ShopListSortByCreatedAt}
		default:
			return repository.ShopListQuery{Plan: repository.ShopListSortByProductCount}
		}
	}

	query := repository.ShopListQuery{Plan: repository.ShopListDefault}
	if params.InVacations != nil {
		query.InVacations = *params.InVacations
	}
	if params.CreatedBefore != nil {
		query.CreatedBefore = *params.CreatedBefore
	}
	if params.CreatedAfter != nil {
		query.CreatedAfter = *params.CreatedAfter
	}

	switch {
	case params.InVacations != nil && params.CreatedBefore != nil && params.CreatedAfter != nil:
		query.Plan = repository.ShopListFilterVacationsCreatedBetween
	case params.InVacations != nil && params.CreatedBefore != nil:
		query.Plan = repository.ShopListFilterVacationsCreatedBefore
	case params.InVacations != nil && params.CreatedAfter != nil:
		query.Plan = repository.ShopListFilterVacationsCreatedAfter
	case params.InVacations != nil:
		query.Plan = repository.ShopListFilterVacations
	case params.CreatedBefore != nil && params.CreatedAfter != nil:
		query.Plan = repository.ShopListFilterCreatedBetween
	case params.CreatedBefore != nil:
		query.Plan = repository.ShopListFilterCreatedBefore
	case params.CreatedAfter != nil:
		query.Plan = repository.ShopListFilterCreatedAfter
	}

	return query
}

// overlapViolations checks every pair of distinct same-day slots under
// half-open interval semantics. Touching endpoints are legal; equal-valued
// slots are still distinct entries and do conflict.
func overlapViolations(hours []domain.OpeningHours) []domain.FieldViolation {
	var violations []domain.FieldViolation
	for i := 0; i < len(hours); i++ {
		for j := i + 1; j < len(hours); j++ {
			if hours[i].Overlaps(hours[j]) {
				violations = append(violations, domain.FieldViolation{
					Field: fmt.Sprintf("openingHours[%d]", j),
					Message: fmt.Sprintf("overlaps the %s-%s slot on day %d",
						hours[i].OpenAt, hours[i].CloseAt, hours[i].Day),
				})
			}
		}
	}
	return violations
}
