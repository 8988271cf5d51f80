// Package orders serves the paged order browser: a read-only, filterable
// view over the backend's order list.
package orders

import (
	"context"
	"time"

	"github.com/troveretail/trove-console/internal/backend"
	"github.com/troveretail/trove-console/internal/catalog/status"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// BackendPort is the slice of the commerce API the order browser reads.
type BackendPort interface {
	ListOrders(ctx context.Context, filters backend.OrderFilters) ([]backend.Order, int, error)
}

// Query selects which page of orders to browse. Status filters by the
// numeric status code; Search matches order number or customer name on
// the backend side.
type Query struct {
	Page     int
	PageSize int
	Status   *int
	Search   string
}

// Row is one row of the order browser.
type Row struct {
	ID          int64        `json:"id"`
	OrderNumber string       `json:"orderNumber"`
	Customer    string       `json:"customer"`
	Total       float64      `json:"total"`
	Status      status.Label `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Page is one browsed page plus the paging metadata the pager needs.
type Page struct {
	Rows       []Row `json:"rows"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalCount int   `json:"totalCount"`
}

// Service backs the order browser.
type Service struct {
	api BackendPort
}

// NewService constructs a Service.
func NewService(api BackendPort) *Service {
	return &Service{api: api}
}

// Browse fetches one page of orders. Page defaults to 1, page size to
// ten rows and is capped at fifty; the status and search filters pass
// through to the backend untouched.
func (s *Service) Browse(ctx context.Context, q Query) (Page, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	items, total, err := s.api.ListOrders(ctx, backend.OrderFilters{
		Page:     page,
		PageSize: size,
		Status:   q.Status,
		Search:   q.Search,
	})
	if err != nil {
		return Page{}, err
	}

	rows := make([]Row, 0, len(items))
	for _, o := range items {
		customer := o.CustomerName
		if customer == "" {
			customer = "Anonymous Customer"
		}
		rows = append(rows, Row{
			ID:          o.ID,
			OrderNumber: o.OrderNumber,
			Customer:    customer,
			Total:       o.Total,
			Status:      status.NormalizeJSON(o.Status),
			CreatedAt:   o.CreatedAt,
		})
	}
	return Page{Rows: rows, Page: page, PageSize: size, TotalCount: total}, nil
}
