// Package products owns the product lifecycle: every product is either
// Active or Suspended (soft-deleted), and the suspended state gates all
// variant and discount mutations.
package products

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/troveretail/trove-console/internal/backend"
	"github.com/troveretail/trove-console/internal/shared"
)

// State is the lifecycle state derived from the soft-delete marker.
type State int

const (
	// StateActive allows variant and discount mutation.
	StateActive State = iota
	// StateSuspended blocks variant and discount mutation until restore.
	StateSuspended
)

// BackendPort is the slice of the commerce API the lifecycle needs.
type BackendPort interface {
	GetProduct(ctx context.Context, id int64) (backend.Product, error)
	ListProducts(ctx context.Context, filters backend.ProductFilters) ([]backend.Product, error)
	RestoreProduct(ctx context.Context, id int64) error
	ListVariants(ctx context.Context, productID int64) ([]backend.Variant, error)
}

// AuditPort records accepted operator mutations.
type AuditPort interface {
	Record(ctx context.Context, action, entity, entityID string, meta map[string]any) error
}

// Lifecycle tracks per-product state and exposes the restore transition.
// There is no suspend transition here: soft deletes originate elsewhere,
// this layer only reacts to them.
type Lifecycle struct {
	api    BackendPort
	audit  AuditPort
	logger *slog.Logger

	mu     sync.RWMutex
	states map[int64]State
}

// NewLifecycle constructs a Lifecycle.
func NewLifecycle(api BackendPort, audit AuditPort, logger *slog.Logger) *Lifecycle {
	return &Lifecycle{
		api:    api,
		audit:  audit,
		logger: logger,
		states: make(map[int64]State),
	}
}

// Load fetches a product and refreshes its cached lifecycle state.
func (l *Lifecycle) Load(ctx context.Context, id int64) (backend.Product, error) {
	if id <= 0 {
		return backend.Product{}, errors.New("products: invalid product ID")
	}
	product, err := l.api.GetProduct(ctx, id)
	if err != nil {
		return backend.Product{}, err
	}
	l.setState(id, stateOf(product))
	return product, nil
}

// List fetches products matching the filters and refreshes cached states.
func (l *Lifecycle) List(ctx context.Context, filters backend.ProductFilters) ([]backend.Product, error) {
	items, err := l.api.ListProducts(ctx, filters)
	if err != nil {
		return nil, err
	}
	for _, p := range items {
		l.setState(p.ID, stateOf(p))
	}
	return items, nil
}

// Guard fails fast with shared.ErrProductSuspended when the product is suspended. The
// cached state is used when present; otherwise the product is loaded. No
// backend write may be issued before Guard passes.
func (l *Lifecycle) Guard(ctx context.Context, id int64) error {
	l.mu.RLock()
	state, ok := l.states[id]
	l.mu.RUnlock()
	if !ok {
		if _, err := l.Load(ctx, id); err != nil {
			return err
		}
		l.mu.RLock()
		state = l.states[id]
		l.mu.RUnlock()
	}
	if state == StateSuspended {
		return shared.ErrProductSuspended
	}
	return nil
}

// MarkSuspended records backend truth when a mutation on a product we
// believed active is rejected as gone.
func (l *Lifecycle) MarkSuspended(id int64) {
	l.setState(id, StateSuspended)
}

// Restore clears the product's soft delete, then reloads the product and
// its variants so the console reflects backend truth. A failed variant
// reload is logged, not surfaced: the restore itself already succeeded.
func (l *Lifecycle) Restore(ctx context.Context, id int64) (backend.Product, []backend.Variant, error) {
	if id <= 0 {
		return backend.Product{}, nil, errors.New("products: invalid product ID")
	}
	if err := l.api.RestoreProduct(ctx, id); err != nil {
		return backend.Product{}, nil, err
	}
	product, err := l.Load(ctx, id)
	if err != nil {
		return backend.Product{}, nil, err
	}
	variants, err := l.api.ListVariants(ctx, id)
	if err != nil {
		l.logger.Warn("variant reload after restore failed", slog.Int64("product_id", id), slog.Any("error", err))
		variants = nil
	}
	if l.audit != nil {
		if err := l.audit.Record(ctx, "product:restore", "product", formatID(id), nil); err != nil {
			l.logger.Warn("audit record failed", slog.Any("error", err))
		}
	}
	return product, variants, nil
}

func (l *Lifecycle) setState(id int64, state State) {
	l.mu.Lock()
	l.states[id] = state
	l.mu.Unlock()
}

func stateOf(p backend.Product) State {
	if p.Suspended() {
		return StateSuspended
	}
	return StateActive
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
