package orders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/troveretail/trove-console/internal/backend"
	"github.com/troveretail/trove-console/internal/platform/httpx"
)

// Handler serves the order browser endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the orders HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	query, ok := parseQuery(w, r)
	if !ok {
		return
	}
	page, err := h.service.Browse(r.Context(), query)
	if err != nil {
		h.logger.Error("browse orders failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func parseQuery(w http.ResponseWriter, r *http.Request) (Query, bool) {
	q := Query{Search: r.URL.Query().Get("search")}
	var ok bool
	if q.Page, ok = intParam(w, r, "page"); !ok {
		return Query{}, false
	}
	if q.PageSize, ok = intParam(w, r, "pageSize"); !ok {
		return Query{}, false
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		code, err := strconv.Atoi(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid status code")
			return Query{}, false
		}
		q.Status = &code
	}
	return q, true
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid "+name)
		return 0, false
	}
	return value, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, backend.ErrRejected):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, backend.ErrServer):
		httpx.Problem(w, http.StatusBadGateway, "Backend Unavailable", "")
	default:
		httpx.RespondError(w, err)
	}
}
