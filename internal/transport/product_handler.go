package transport

import (
	"net/http"
	"strconv"

	"shopapp/internal/domain"
	"shopapp/internal/middleware"
	"shopapp/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LocalizedProductRequest is one per-locale name/description pair
type LocalizedProductRequest struct {
	Locale      string `json:"locale"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ProductRequest represents the create/update product payload
type ProductRequest struct {
	Price             decimal.Decimal           `json:"price"`
	ShopID            *int64                    `json:"shopId"`
	CategoryIDs       []int64                   `json:"categoryIds"`
	LocalizedProducts []LocalizedProductRequest `json:"localizedProducts"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	r.Get("/api/shops/{shopID}/products", h.ListByShop)
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		h.logger.Debug("Product decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Create(r.Context(), req.toDomain(0))
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Product created", zap.Int64("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// GetByID handles fetching a single product
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Update handles a full product replacement
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req ProductRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		h.logger.Debug("Product decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Update(r.Context(), req.toDomain(id))
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Product updated", zap.Int64("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Product deleted", zap.Int64("product_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// ListByShop handles the paginated listing of a shop's products, optionally
// intersected with a category
func (h *ProductHandler) ListByShop(w http.ResponseWriter, r *http.Request) {
	shopID, err := parseIDParam(r, "shopID")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid shop id")
		return
	}
	page, pageSize := parsePagination(r)

	var (
		products []*domain.Product
		total    int
	)
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid categoryId parameter")
			return
		}
		products, total, err = h.productService.ListByShopAndCategory(r.Context(), shopID, categoryID, page, pageSize)
		if err != nil {
			middleware.RespondWithDomainError(w, h.logger, err)
			return
		}
	} else {
		products, total, err = h.productService.ListByShop(r.Context(), shopID, page, pageSize)
		if err != nil {
			middleware.RespondWithDomainError(w, h.logger, err)
			return
		}
	}

	middleware.RespondWithJSON(w, http.StatusOK, PagedResponse{
		Items:    products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (req *ProductRequest) toDomain(id int64) *domain.Product {
	categories := make([]domain.Category, 0, len(req.CategoryIDs))
	for _, categoryID := range req.CategoryIDs {
		categories = append(categories, domain.Category{ID: categoryID})
	}
	localized := make([]domain.LocalizedProduct, 0, len(req.LocalizedProducts))
	for _, lp := range req.LocalizedProducts {
		localized = append(localized, domain.LocalizedProduct{
			Locale:      lp.Locale,
			Name:        lp.Name,
			Description: lp.Description,
		})
	}
	return &domain.Product{
		ID:                id,
		Price:             req.Price,
		ShopID:            req.ShopID,
		Categories:        categories,
		LocalizedProducts: localized,
	}
}
