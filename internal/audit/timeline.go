package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TimelineFilters narrows the audit listing.
type TimelineFilters struct {
	Entity   string
	EntityID string
	Page     int
	PageSize int
}

// TimelineRow is one rendered row of the trail.
type TimelineRow struct {
	Action   string         `json:"action"`
	Entity   string         `json:"entity"`
	EntityID string         `json:"entityId"`
	Meta     map[string]any `json:"meta,omitempty"`
	At       time.Time      `json:"at"`
}

// Result bundles timeline rows with paging info.
type Result struct {
	Rows     []TimelineRow `json:"rows"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
	HasNext  bool          `json:"hasNext"`
}

// Timeline reads the trail back, newest first, with page/pageSize paging.
type Timeline struct {
	pool *pgxpool.Pool
}

// NewTimeline returns a new Timeline reader.
func NewTimeline(pool *pgxpool.Pool) *Timeline {
	return &Timeline{pool: pool}
}

// List fetches one page of the trail.
func (t *Timeline) List(ctx context.Context, filters TimelineFilters) (Result, error) {
	if t == nil || t.pool == nil {
		return Result{}, fmt.Errorf("audit: timeline not configured")
	}
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 50 {
		pageSize = 50
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	rows, err := t.pool.Query(ctx,
		`SELECT action, entity, entity_id, meta, occurred_at
		 FROM console_audit
		 WHERE ($1 = '' OR entity = $1) AND ($2 = '' OR entity_id = $2)
		 ORDER BY occurred_at DESC
		 OFFSET $3 LIMIT $4`,
		filters.Entity, filters.EntityID, offset, pageSize+1)
	if err != nil {
		return Result{}, err
	}
	defer rows.Close()

	result := Result{Page: page, PageSize: pageSize}
	for rows.Next() {
		var row TimelineRow
		var metaJSON []byte
		if err := rows.Scan(&row.Action, &row.Entity, &row.EntityID, &metaJSON, &row.At); err != nil {
			return Result{}, err
		}
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &row.Meta)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return Result{}, err
	}
	if len(result.Rows) > pageSize {
		result.Rows = result.Rows[:pageSize]
		result.HasNext = true
	}
	return result, nil
}
