package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/troveretail/trove-console/internal/platform/httpx"
)

// Handler serves the audit timeline.
type Handler struct {
	logger   *slog.Logger
	timeline *Timeline
}

// NewHandler constructs the audit HTTP handler.
func NewHandler(logger *slog.Logger, timeline *Timeline) *Handler {
	return &Handler{logger: logger, timeline: timeline}
}

// MountRoutes attaches audit routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	result, err := h.timeline.List(r.Context(), TimelineFilters{
		Entity:   r.URL.Query().Get("entity"),
		EntityID: r.URL.Query().Get("entityId"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.logger.Error("audit timeline failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
