package products

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/currency"

	"github.com/troveretail/trove-console/internal/backend"
	"github.com/troveretail/trove-console/internal/catalog/discounts"
	"github.com/troveretail/trove-console/internal/catalog/variants"
	"github.com/troveretail/trove-console/internal/platform/httpx"
	"github.com/troveretail/trove-console/internal/shared"
)

// Handler serves the product and lifecycle endpoints.
type Handler struct {
	logger    *slog.Logger
	lifecycle *Lifecycle
	variants  *variants.Service
	discounts *discounts.Service
	unit      currency.Unit
}

// NewHandler constructs the products HTTP handler.
func NewHandler(logger *slog.Logger, lifecycle *Lifecycle, variantSvc *variants.Service, discountSvc *discounts.Service, unit currency.Unit) *Handler {
	return &Handler{
		logger:    logger,
		lifecycle: lifecycle,
		variants:  variantSvc,
		discounts: discountSvc,
		unit:      unit,
	}
}

// MountRoutes attaches product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{productID}", h.get)
	r.Post("/{productID}/restore", h.restore)
}

type productView struct {
	backend.Product
	Suspended bool                `json:"suspended"`
	Price     discounts.PriceView `json:"priceView"`
	Variants  []backend.Variant   `json:"variants"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := backend.ProductFilters{
		Search:         r.URL.Query().Get("search"),
		IncludeDeleted: r.URL.Query().Get("include_deleted") == "true",
	}
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		isActive := raw == "true"
		filters.IsActive = &isActive
	}
	items, err := h.lifecycle.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list products failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	product, err := h.lifecycle.Load(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	percentage := 0.0
	if binding := h.discounts.CurrentBinding(r.Context(), id); binding != nil {
		percentage = binding.Percentage
	}
	httpx.JSON(w, http.StatusOK, productView{
		Product:   product,
		Suspended: product.Suspended(),
		Price:     discounts.Price(product.Price, percentage, h.unit),
		Variants:  h.variants.List(r.Context(), id),
	})
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	product, productVariants, err := h.lifecycle.Restore(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"product":  product,
		"variants": productVariants,
	})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrProductSuspended):
		httpx.Problem(w, http.StatusConflict, "Product Suspended", "restore the product before mutating it")
	case errors.Is(err, backend.ErrRejected):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, backend.ErrServer):
		httpx.Problem(w, http.StatusBadGateway, "Backend Unavailable", "")
	default:
		httpx.RespondError(w, err)
	}
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid product id")
		return 0, false
	}
	return id, true
}
