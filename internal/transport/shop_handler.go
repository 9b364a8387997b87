package transport

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"shopapp/internal/domain"
	"shopapp/internal/middleware"
	"shopapp/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OpeningHoursRequest is one weekly opening slot in a shop payload
type OpeningHoursRequest struct {
	Day     int    `json:"day"`
	OpenAt  string `json:"openAt"`
	CloseAt string `json:"closeAt"`
}

// ShopRequest represents the create/update shop payload. Updates are full
// replacements: the opening hours supplied here become the complete set.
type ShopRequest struct {
	Name         string                `json:"name"`
	InVacations  bool                  `json:"inVacations"`
	OpeningHours []OpeningHoursRequest `json:"openingHours"`
}

// ShopHandler handles HTTP requests for shop operations
type ShopHandler struct {
	shopService service.ShopService
	logger      *zap.Logger
}

// NewShopHandler creates a new ShopHandler
func NewShopHandler(shopService service.ShopService, logger *zap.Logger) *ShopHandler {
	return &ShopHandler{
		shopService: shopService,
		logger:      logger,
	}
}

// RegisterRoutes registers all shop routes
func (h *ShopHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/shops", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles the filtered/sorted shop listing
func (h *ShopHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := parseShopListParams(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, pageSize := parsePagination(r)

	shops, total, err := h.shopService.List(r.Context(), params, page, pageSize)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, PagedResponse{
		Items:    shops,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Create handles shop creation
func (h *ShopHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ShopRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		h.logger.Debug("Shop decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shop, err := h.shopService.Create(r.Context(), req.toDomain(0))
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Shop created", zap.Int64("shop_id", shop.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, shop)
}

// GetByID handles fetching a single shop
func (h *ShopHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid shop id")
		return
	}

	shop, err := h.shopService.GetByID(r.Context(), id)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, shop)
}

// Update handles a full shop replacement
func (h *ShopHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid shop id")
		return
	}

	var req ShopRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		h.logger.Debug("Shop decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shop, err := h.shopService.Update(r.Context(), req.toDomain(id))
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Shop updated", zap.Int64("shop_id", shop.ID))
	middleware.RespondWithJSON(w, http.StatusOK, shop)
}

// Delete handles shop deletion; owned products are detached, not removed
func (h *ShopHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid shop id")
		return
	}

	if err := h.shopService.DeleteByID(r.Context(), id); err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Shop deleted", zap.Int64("shop_id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (req *ShopRequest) toDomain(id int64) *domain.Shop {
	hours := make([]domain.OpeningHours, 0, len(req.OpeningHours))
	for _, oh := range req.OpeningHours {
		hours = append(hours, domain.OpeningHours{
			Day:     oh.Day,
			OpenAt:  oh.OpenAt,
			CloseAt: oh.CloseAt,
		})
	}
	return &domain.Shop{
		ID:           id,
		Name:         req.Name,
		InVacations:  req.InVacations,
		OpeningHours: hours,
	}
}

func parseShopListParams(r *http.Request) (service.ShopListParams, error) {
	var params service.ShopListParams
	query := r.URL.Query()

	if query.Has("sortBy") {
		sortBy := query.Get("sortBy")
		params.SortBy = &sortBy
	}
	if raw := query.Get("inVacations"); raw != "" {
		inVacations, err := parseBoolParam("inVacations", raw)
		if err != nil {
			return params, err
		}
		params.InVacations = inVacations
	}
	if raw := query.Get("createdBefore"); raw != "" {
		createdBefore, err := parseDateParam("createdBefore", raw)
		if err != nil {
			return params, err
		}
		params.CreatedBefore = createdBefore
	}
	if raw := query.Get("createdAfter"); raw != "" {
		createdAfter, err := parseDateParam("createdAfter", raw)
		if err != nil {
			return params, err
		}
		params.CreatedAfter = createdAfter
	}

	return params, nil
}

func parseBoolParam(name, raw string) (*bool, error) {
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s parameter", name)
	}
	return &v, nil
}

func parseDateParam(name, raw string) (*time.Time, error) {
	v, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s parameter, expected YYYY-MM-DD", name)
	}
	return &v, nil
}
