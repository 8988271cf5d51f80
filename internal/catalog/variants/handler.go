package variants

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

// Handler serves the variant registry and stock ledger endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the variants HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches variant routes under a product.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.add)
	r.Post("/{variantID}/activate", h.setActive(true))
	r.Post("/{variantID}/deactivate", h.setActive(false))
	r.Post("/{variantID}/stock/add", h.adjustStock(true))
	r.Post("/{variantID}/stock/remove", h.adjustStock(false))
}

type variantListView struct {
	Variants []variantView `json:"variants"`
}

type variantView struct {
	backend.Variant
	SizeLabel string `json:"sizeLabel,omitempty"`
}

func listView(items []backend.Variant) variantListView {
	view := variantListView{Variants: make([]variantView, 0, len(items))}
	for _, v := range items {
		view.Variants = append(view.Variants, variantView{Variant: v, SizeLabel: SizeLabel(v.Size)})
	}
	return view
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "productID")
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, listView(h.service.List(r.Context(), id)))
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "productID")
	if !ok {
		return
	}
	var spec backend.VariantSpec
	if err := httpx.DecodeJSON(r, &spec); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed variant payload")
		return
	}
	created, items, err := h.service.Add(r.Context(), id, spec)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"variant":  variantView{Variant: created, SizeLabel: SizeLabel(created.Size)},
		"variants": listView(items).Variants,
	})
}

func (h *Handler) setActive(desired bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, ok := pathID(w, r, "productID")
		if !ok {
			return
		}
		variantID, ok := pathID(w, r, "variantID")
		if !ok {
			return
		}
		items, err := h.service.SetActive(r.Context(), productID, variantID, desired)
		if err != nil {
			h.respondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, listView(items))
	}
}

type stockRequest struct {
	Amount int `json:"amount"`
}

func (h *Handler) adjustStock(add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, ok := pathID(w, r, "productID")
		if !ok {
			return
		}
		variantID, ok := pathID(w, r, "variantID")
		if !ok {
			return
		}
		var req stockRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed stock payload")
			return
		}
		var items []backend.Variant
		var err error
		if add {
			items, err = h.service.AddStock(r.Context(), productID, variantID, req.Amount)
		} else {
			items, err = h.service.RemoveStock(r.Context(), productID, variantID, req.Amount)
		}
		if err != nil {
			h.respondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, listView(items))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrProductSuspended):
		httpx.Problem(w, http.StatusConflict, "Product Suspended", "restore the product before mutating its variants")
	case errors.Is(err, ErrInvalidAmount):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Amount", err.Error())
	case errors.Is(err, ErrInsufficientStock):
		httpx.Problem(w, http.StatusConflict, "Insufficient Stock", err.Error())
	case errors.Is(err, ErrInvalidSpec), errors.Is(err, backend.ErrRejected):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, backend.ErrServer):
		h.logger.Error("variant mutation failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Backend Unavailable", "")
	default:
		httpx.RespondError(w, err)
	}
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid "+name)
		return 0, false
	}
	return id, true
}
