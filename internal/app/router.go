package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/troveretail/trove-console/internal/audit"
	"github.com/troveretail/trove-console/internal/catalog/discounts"
	"github.com/troveretail/trove-console/internal/catalog/products"
	"github.com/troveretail/trove-console/internal/catalog/variants"
	"github.com/troveretail/trove-console/internal/dashboard"
	"github.com/troveretail/trove-console/internal/observability"
	"github.com/troveretail/trove-console/internal/orders"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	ProductHandler   *products.Handler
	VariantHandler   *variants.Handler
	DiscountHandler  *discounts.Handler
	DashboardHandler *dashboard.Handler
	OrderHandler     *orders.Handler
	AuditHandler     *audit.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with console defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			params.ProductHandler.MountRoutes(r)
			r.Route("/{productID}/variants", params.VariantHandler.MountRoutes)
			r.Route("/{productID}/discount", params.DiscountHandler.MountBindingRoutes)
		})
		r.Route("/discounts", params.DiscountHandler.MountRoutes)
		r.Route("/dashboard", params.DashboardHandler.MountRoutes)
		r.Route("/orders", params.OrderHandler.MountRoutes)
		r.Route("/audit", params.AuditHandler.MountRoutes)
	})

	return r
}
