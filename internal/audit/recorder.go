// Package audit persists the operator mutation trail: variant creation,
// stock adjustments, activation toggles, discount bindings, restores.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one record of the operator trail.
type Entry struct {
	ID       uuid.UUID
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

// Recorder writes entries into console_audit.
type Recorder struct {
	pool *pgxpool.Pool
}

// NewRecorder returns a new Recorder.
func NewRecorder(pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool}
}

// Record persists the entry. Callers treat failures as diagnostics: a
// mutation that already succeeded is never rolled back over its trail.
func (r *Recorder) Record(ctx context.Context, action, entity, entityID string, meta map[string]any) error {
	if r == nil || r.pool == nil {
		return errors.New("audit: recorder not initialised")
	}
	if action == "" || entity == "" || entityID == "" {
		return errors.New("audit: entry requires action/entity/entity_id")
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO console_audit (id, action, entity, entity_id, meta, occurred_at) VALUES ($1, $2, $3, $4, $5, NOW())`,
		uuid.New(), action, entity, entityID, metaJSON)
	return err
}
