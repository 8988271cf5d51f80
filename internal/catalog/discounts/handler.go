package discounts

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/troveretail/trove-console/internal/backend"
	"github.com/troveretail/trove-console/internal/platform/httpx"
	"github.com/troveretail/trove-console/internal/shared"
)

// Handler serves the discount catalog and binding endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the discounts HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches the discount catalog route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.available)
}

// MountBindingRoutes attaches the per-product binding routes.
func (h *Handler) MountBindingRoutes(r chi.Router) {
	r.Get("/", h.currentBinding)
	r.Put("/", h.apply)
	r.Delete("/", h.remove)
}

func (h *Handler) available(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.Available(r.Context()))
}

func (h *Handler) currentBinding(w http.ResponseWriter, r *http.Request) {
	id, ok := bindingProductID(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"binding": h.service.CurrentBinding(r.Context(), id),
	})
}

type applyRequest struct {
	DiscountID int64 `json:"discountId"`
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	id, ok := bindingProductID(w, r)
	if !ok {
		return
	}
	var req applyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed discount payload")
		return
	}
	binding, err := h.service.Apply(r.Context(), id, req.DiscountID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"binding": binding})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := bindingProductID(w, r)
	if !ok {
		return
	}
	if err := h.service.Remove(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"binding": nil})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrIncompleteMapping):
		httpx.Problem(w, http.StatusBadRequest, "Incomplete Mapping", err.Error())
	case errors.Is(err, shared.ErrProductSuspended):
		httpx.Problem(w, http.StatusConflict, "Product Suspended", "restore the product before changing its discount")
	case errors.Is(err, backend.ErrRejected):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, backend.ErrServer):
		h.logger.Error("discount mutation failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Backend Unavailable", "")
	default:
		httpx.RespondError(w, err)
	}
}

func bindingProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid product id")
		return 0, false
	}
	return id, true
}
