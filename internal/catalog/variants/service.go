// Package variants manages a product's sellable configurations and their
// stock ledgers. All mutations are gated on the product lifecycle and
// every accepted mutation is followed by a refetch: the backend is the
// source of truth for quantities, never a locally adjusted copy.
package variants

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/troveretail/trove-console/internal/backend"
	"github.com/troveretail/trove-console/internal/shared"
)

var (
	// ErrInvalidAmount indicates a non-positive stock delta. Rejected
	// locally, before any backend call.
	ErrInvalidAmount = errors.New("variants: amount must be a positive integer")
	// ErrInsufficientStock indicates the backend refused a removal that
	// would drive the quantity negative.
	ErrInsufficientStock = errors.New("variants: insufficient stock")
	// ErrInvalidSpec indicates a malformed variant payload.
	ErrInvalidSpec = errors.New("variants: invalid variant spec")
)

// BackendPort is the slice of the commerce API the registry needs.
type BackendPort interface {
	ListVariants(ctx context.Context, productID int64) ([]backend.Variant, error)
	AddVariant(ctx context.Context, productID int64, spec backend.VariantSpec) (backend.Variant, error)
	AddQuantity(ctx context.Context, productID, variantID int64, amount int) error
	RemoveQuantity(ctx context.Context, productID, variantID int64, amount int) error
	ActivateVariant(ctx context.Context, productID, variantID int64) error
	DeactivateVariant(ctx context.Context, productID, variantID int64) error
}

// LifecyclePort gates mutation on the owning product's state.
type LifecyclePort interface {
	Guard(ctx context.Context, productID int64) error
	MarkSuspended(productID int64)
}

// AuditPort records accepted operator mutations.
type AuditPort interface {
	Record(ctx context.Context, action, entity, entityID string, meta map[string]any) error
}

// Service is the variant registry and stock ledger.
type Service struct {
	api       BackendPort
	lifecycle LifecyclePort
	audit     AuditPort
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewService constructs a Service.
func NewService(api BackendPort, lifecycle LifecyclePort, audit AuditPort, logger *slog.Logger) *Service {
	return &Service{
		api:       api,
		lifecycle: lifecycle,
		audit:     audit,
		validate:  validator.New(),
		logger:    logger,
	}
}

// List returns the product's variants in backend order. This is a
// supplementary read: a fetch failure degrades to an empty list with a
// logged diagnostic rather than blocking the view.
func (s *Service) List(ctx context.Context, productID int64) []backend.Variant {
	items, err := s.api.ListVariants(ctx, productID)
	if err != nil {
		s.logger.Warn("variant list fetch failed", slog.Int64("product_id", productID), slog.Any("error", err))
		return nil
	}
	return items
}

// Add creates a variant under a non-suspended product and returns the
// created variant together with the refetched registry.
func (s *Service) Add(ctx context.Context, productID int64, spec backend.VariantSpec) (backend.Variant, []backend.Variant, error) {
	if err := s.validate.Struct(spec); err != nil {
		return backend.Variant{}, nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	if err := s.lifecycle.Guard(ctx, productID); err != nil {
		return backend.Variant{}, nil, err
	}
	created, err := s.api.AddVariant(ctx, productID, spec)
	if err != nil {
		return backend.Variant{}, nil, s.remapGone(productID, err)
	}
	s.record(ctx, "variant:add", created.ID, map[string]any{
		"product_id": productID,
		"quantity":   spec.Quantity,
	})
	return created, s.List(ctx, productID), nil
}

// SetActive toggles a variant's sellable flag. Redundant toggles are
// forwarded as-is; the backend acks them and we simply refetch.
func (s *Service) SetActive(ctx context.Context, productID, variantID int64, desired bool) ([]backend.Variant, error) {
	if err := s.lifecycle.Guard(ctx, productID); err != nil {
		return nil, err
	}
	var err error
	if desired {
		err = s.api.ActivateVariant(ctx, productID, variantID)
	} else {
		err = s.api.DeactivateVariant(ctx, productID, variantID)
	}
	if err != nil {
		return nil, s.remapGone(productID, err)
	}
	s.record(ctx, "variant:set_active", variantID, map[string]any{
		"product_id": productID,
		"active":     desired,
	})
	return s.List(ctx, productID), nil
}

// AddStock increases a variant's quantity by a positive amount.
func (s *Service) AddStock(ctx context.Context, productID, variantID int64, amount int) ([]backend.Variant, error) {
	return s.adjustStock(ctx, productID, variantID, amount, true)
}

// RemoveStock decreases a variant's quantity by a positive amount. The
// backend decides whether the removal is permitted; a conflict rejection
// surfaces as ErrInsufficientStock together with a re-read of the
// unchanged ledger.
func (s *Service) RemoveStock(ctx context.Context, productID, variantID int64, amount int) ([]backend.Variant, error) {
	return s.adjustStock(ctx, productID, variantID, amount, false)
}

func (s *Service) adjustStock(ctx context.Context, productID, variantID int64, amount int, add bool) ([]backend.Variant, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := s.lifecycle.Guard(ctx, productID); err != nil {
		return nil, err
	}
	var err error
	if add {
		err = s.api.AddQuantity(ctx, productID, variantID, amount)
	} else {
		err = s.api.RemoveQuantity(ctx, productID, variantID, amount)
		if errors.Is(err, backend.ErrConflict) {
			// Re-read so the caller renders the authoritative quantity,
			// never a locally decremented one.
			return s.List(ctx, productID), fmt.Errorf("%w: %d requested", ErrInsufficientStock, amount)
		}
	}
	if err != nil {
		return nil, s.remapGone(productID, err)
	}
	action := "stock:remove"
	if add {
		action = "stock:add"
	}
	s.record(ctx, action, variantID, map[string]any{
		"product_id": productID,
		"amount":     amount,
	})
	return s.List(ctx, productID), nil
}

// remapGone reconciles a stale active belief: the backend rejecting a
// variant mutation with 404 means the product was soft-deleted under us.
func (s *Service) remapGone(productID int64, err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		s.lifecycle.MarkSuspended(productID)
		return shared.ErrProductSuspended
	}
	return err
}

func (s *Service) record(ctx context.Context, action string, variantID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, action, "variant", fmt.Sprintf("%d", variantID), meta); err != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
