// Package dashboard recomputes the operator dashboard from read-only
// backend queries.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/troveretail/trove-console/internal/backend"
	"github.com/troveretail/trove-console/internal/catalog/status"
)

// ErrAggregationFailed indicates every dashboard query failed. A single
// failing query only zeroes its own tile.
var ErrAggregationFailed = errors.New("dashboard: all dashboard queries failed")

const (
	orderPageSize      = 50
	bestsellerPageSize = 10
)

// BackendPort is the slice of the commerce API the aggregator reads from.
type BackendPort interface {
	CountProducts(ctx context.Context, filters backend.ProductCountFilters) (int, error)
	CountOrders(ctx context.Context, statusCode *int) (int, error)
	RevenueTotal(ctx context.Context) (float64, error)
	ListOrders(ctx context.Context, filters backend.OrderFilters) ([]backend.Order, int, error)
	Bestsellers(ctx context.Context, page, pageSize int) ([]backend.ProductWithSales, error)
}

// Service aggregates dashboard reads.
type Service struct {
	api    BackendPort
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a Service.
func NewService(api BackendPort, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Refresh issues the dashboard queries concurrently and combines them
// into one snapshot. Each query fails independently: a failure contributes
// the zero default for its tile and marks the snapshot partial. Only when
// every query fails does Refresh report ErrAggregationFailed.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	var (
		totalProducts int
		totalOrders   int
		pendingOrders int
		revenue       float64
		orders        []backend.Order
		bestsellers   []backend.ProductWithSales
	)
	failures := make([]error, 6)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		yes, no := true, false
		totalProducts, failures[0] = s.api.CountProducts(gctx, backend.ProductCountFilters{
			IsActive: &yes,
			IsDelete: &no,
			InStock:  &yes,
		})
		return nil
	})
	g.Go(func() error {
		totalOrders, failures[1] = s.api.CountOrders(gctx, nil)
		return nil
	})
	g.Go(func() error {
		// The "Pending" tile has always counted Confirmed orders; the
		// filter is kept literal to match the backend's order views.
		code := status.Code(status.Confirmed)
		pendingOrders, failures[2] = s.api.CountOrders(gctx, &code)
		return nil
	})
	g.Go(func() error {
		revenue, failures[3] = s.api.RevenueTotal(gctx)
		return nil
	})
	g.Go(func() error {
		orders, _, failures[4] = s.api.ListOrders(gctx, backend.OrderFilters{Page: 1, PageSize: orderPageSize})
		return nil
	})
	g.Go(func() error {
		bestsellers, failures[5] = s.api.Bestsellers(gctx, 1, bestsellerPageSize)
		return nil
	})
	_ = g.Wait()

	failed := 0
	for _, err := range failures {
		if err != nil {
			failed++
			s.logger.Warn("dashboard query failed", slog.Any("error", err))
		}
	}
	if failed == len(failures) {
		return Snapshot{}, ErrAggregationFailed
	}

	return Snapshot{
		TotalProducts: totalProducts,
		TotalOrders:   totalOrders,
		PendingOrders: pendingOrders,
		TotalRevenue:  revenue,
		RecentOrders:  projectRecentOrders(orders),
		Bestsellers:   projectBestsellers(bestsellers),
		Partial:       failed > 0,
		RefreshedAt:   s.now(),
	}, nil
}
