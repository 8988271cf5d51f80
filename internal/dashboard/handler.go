package dashboard

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/troveretail/trove-console/internal/platform/httpx"
)

// Handler serves the dashboard snapshot.
type Handler struct {
	logger  *slog.Logger
	service *CachedService
}

// NewHandler constructs the dashboard HTTP handler.
func NewHandler(logger *slog.Logger, service *CachedService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.snapshot)
	r.Post("/refresh", h.refresh)
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}

// refresh bypasses the cache for an explicit operator re-trigger.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Warm(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrAggregationFailed) {
		h.logger.Error("dashboard aggregation failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Aggregation Failed", "all dashboard queries failed")
		return
	}
	httpx.RespondError(w, err)
}
