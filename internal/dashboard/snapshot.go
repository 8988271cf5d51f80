package dashboard

import (
	"sort"
	"time"

	"github.com/troveretail/trove-console/internal/backend"
	"github.com/troveretail/trove-console/internal/catalog/status"
)

const recentOrderLimit = 5

// Snapshot is a fully recomputed aggregation for the dashboard. It holds
// no incremental state; every refresh rebuilds it from scratch. Partial is
// set when at least one source query failed and contributed its zero
// default.
type Snapshot struct {
	TotalProducts int             `json:"totalProducts"`
	TotalOrders   int             `json:"totalOrders"`
	PendingOrders int             `json:"pendingOrders"`
	TotalRevenue  float64         `json:"totalRevenue"`
	RecentOrders  []OrderRow      `json:"recentOrders"`
	Bestsellers   []BestsellerRow `json:"bestsellers"`
	Partial       bool            `json:"partial"`
	RefreshedAt   time.Time       `json:"refreshedAt"`
}

// OrderRow is one row of the recent-orders table.
type OrderRow struct {
	ID          int64        `json:"id"`
	OrderNumber string       `json:"orderNumber"`
	Customer    string       `json:"customer"`
	Total       float64      `json:"total"`
	Status      status.Label `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// BestsellerRow is one row of the bestseller ranking.
type BestsellerRow struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	SoldCount int     `json:"soldCount"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
}

// projectRecentOrders sorts a page of orders by creation time descending
// (stable, so ties keep input order) and keeps the newest five.
func projectRecentOrders(orders []backend.Order) []OrderRow {
	sorted := make([]backend.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > recentOrderLimit {
		sorted = sorted[:recentOrderLimit]
	}
	rows := make([]OrderRow, 0, len(sorted))
	for _, o := range sorted {
		customer := o.CustomerName
		if customer == "" {
			customer = "Guest"
		}
		rows = append(rows, OrderRow{
			ID:          o.ID,
			OrderNumber: o.OrderNumber,
			Customer:    customer,
			Total:       o.Total,
			Status:      status.NormalizeJSON(o.Status),
			CreatedAt:   o.CreatedAt,
		})
	}
	return rows
}

// projectBestsellers maps the backend's pre-ranked page to display rows:
// final price wins over list price, the main-flagged image wins over the
// first image.
func projectBestsellers(items []backend.ProductWithSales) []BestsellerRow {
	rows := make([]BestsellerRow, 0, len(items))
	for _, p := range items {
		price := p.Price
		if p.FinalPrice != nil {
			price = *p.FinalPrice
		}
		rows = append(rows, BestsellerRow{
			ID:        p.ID,
			Name:      p.Name,
			SoldCount: p.TotalSold,
			Price:     price,
			Image:     primaryImage(p.Images),
		})
	}
	return rows
}

func primaryImage(images []backend.Image) string {
	for _, img := range images {
		if img.IsMain {
			return img.URL
		}
	}
	if len(images) > 0 {
		return images[0].URL
	}
	return ""
}
