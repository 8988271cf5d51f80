package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/troveretail/trove-console/internal/backend"
	"github.com/troveretail/trove-console/internal/catalog/status"
)

type fakeAPI struct {
	productCount int
	orderCount   int
	pendingCount int
	revenue      float64
	orders       []backend.Order
	bestsellers  []backend.ProductWithSales

	productCountErr error
	orderCountErr   error
	pendingErr      error
	revenueErr      error
	ordersErr       error
	bestsellersErr  error

	pendingStatus *int
}

func (f *fakeAPI) CountProducts(_ context.Context, _ backend.ProductCountFilters) (int, error) {
	return f.productCount, f.productCountErr
}

func (f *fakeAPI) CountOrders(_ context.Context, statusCode *int) (int, error) {
	if statusCode == nil {
		return f.orderCount, f.orderCountErr
	}
	f.pendingStatus = statusCode
	return f.pendingCount, f.pendingErr
}

func (f *fakeAPI) RevenueTotal(_ context.Context) (float64, error) {
	return f.revenue, f.revenueErr
}

func (f *fakeAPI) ListOrders(_ context.Context, _ backend.OrderFilters) ([]backend.Order, int, error) {
	return f.orders, len(f.orders), f.ordersErr
}

func (f *fakeAPI) Bestsellers(_ context.Context, _, _ int) ([]backend.ProductWithSales, error) {
	return f.bestsellers, f.bestsellersErr
}

func newTestService(api *fakeAPI) *Service {
	svc := NewService(api, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestRefreshCombinesQueries(t *testing.T) {
	api := &fakeAPI{
		productCount: 42,
		orderCount:   120,
		pendingCount: 7,
		revenue:      9876.54,
	}
	svc := newTestService(api)

	snap, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, snap.TotalProducts)
	require.Equal(t, 120, snap.TotalOrders)
	require.Equal(t, 7, snap.PendingOrders)
	require.InDelta(t, 9876.54, snap.TotalRevenue, 0.0001)
	require.False(t, snap.Partial)

	// The pending tile counts Confirmed orders.
	require.NotNil(t, api.pendingStatus)
	require.Equal(t, status.Code(status.Confirmed), *api.pendingStatus)
}

func TestRefreshToleratesSingleFailure(t *testing.T) {
	api := &fakeAPI{
		productCount: 42,
		orderCount:   120,
		pendingCount: 7,
		revenueErr:   errors.New("revenue query down"),
	}
	svc := newTestService(api)

	snap, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Zero(t, snap.TotalRevenue)
	require.Equal(t, 42, snap.TotalProducts)
	require.True(t, snap.Partial)
}

func TestRefreshAllQueriesFailed(t *testing.T) {
	down := errors.New("backend down")
	api := &fakeAPI{
		productCountErr: down,
		orderCountErr:   down,
		pendingErr:      down,
		revenueErr:      down,
		ordersErr:       down,
		bestsellersErr:  down,
	}
	svc := newTestService(api)

	_, err := svc.Refresh(context.Background())
	require.ErrorIs(t, err, ErrAggregationFailed)
}

func TestRecentOrdersProjection(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	orders := make([]backend.Order, 0, 50)
	for i := 0; i < 50; i++ {
		// Unsorted input: interleave timestamps, with a tie pair at the top.
		at := base.Add(time.Duration((i*37)%48) * time.Hour)
		orders = append(orders, backend.Order{
			ID:        int64(i + 1),
			Total:     float64(i),
			CreatedAt: at,
		})
	}
	rows := projectRecentOrders(orders)
	require.Len(t, rows, recentOrderLimit)
	for i := 1; i < len(rows); i++ {
		require.False(t, rows[i].CreatedAt.After(rows[i-1].CreatedAt), "rows must be newest first")
	}
}

func TestRecentOrdersStableTies(t *testing.T) {
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	orders := []backend.Order{
		{ID: 1, CreatedAt: at},
		{ID: 2, CreatedAt: at},
		{ID: 3, CreatedAt: at},
	}
	rows := projectRecentOrders(orders)
	require.Equal(t, int64(1), rows[0].ID)
	require.Equal(t, int64(2), rows[1].ID)
	require.Equal(t, int64(3), rows[2].ID)
}

func TestRecentOrdersDefaultsAndStatus(t *testing.T) {
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	orders := []backend.Order{
		{ID: 1, CustomerName: "", Status: []byte(`1`), CreatedAt: at},
		{ID: 2, CustomerName: "Ada", Status: []byte(`"shipped"`), CreatedAt: at},
	}
	rows := projectRecentOrders(orders)
	require.Equal(t, "Guest", rows[0].Customer)
	require.Equal(t, status.Confirmed, rows[0].Status)
	require.Equal(t, "Ada", rows[1].Customer)
	require.Equal(t, status.Shipped, rows[1].Status)
}

func TestBestsellerProjection(t *testing.T) {
	final := 79.99
	items := []backend.ProductWithSales{
		{
			Product: backend.Product{
				ID:    1,
				Name:  "Wide Leg Jean",
				Price: 99.99,
				Images: []backend.Image{
					{URL: "side.jpg"},
					{URL: "front.jpg", IsMain: true},
				},
			},
			TotalSold:  31,
			FinalPrice: &final,
		},
		{
			Product: backend.Product{
				ID:     2,
				Name:   "Boxy Tee",
				Price:  35,
				Images: []backend.Image{{URL: "tee.jpg"}},
			},
		},
		{
			Product: backend.Product{ID: 3, Name: "Gift Card", Price: 25},
		},
	}
	rows := projectBestsellers(items)
	require.Len(t, rows, 3)

	require.InDelta(t, 79.99, rows[0].Price, 0.0001, "final price wins over list price")
	require.Equal(t, "front.jpg", rows[0].Image, "main-flagged image wins")
	require.Equal(t, 31, rows[0].SoldCount)

	require.InDelta(t, 35.0, rows[1].Price, 0.0001)
	require.Equal(t, "tee.jpg", rows[1].Image, "first image when none is main")
	require.Zero(t, rows[1].SoldCount, "missing sold count defaults to zero")

	require.Empty(t, rows[2].Image, "no images yields no image")
}
