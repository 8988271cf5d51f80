// Package discounts manages the exclusive product-discount binding and
// effective price display.
package discounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/troveretail/trove-console/internal/backend"
	"github.com/troveretail/trove-console/internal/shared"
)

// ErrIncompleteMapping indicates an apply call missing the product or the
// discount identifier. Rejected locally, before any backend call.
var ErrIncompleteMapping = errors.New("discounts: product and discount required")

// BackendPort is the slice of the commerce API the binder needs.
type BackendPort interface {
	ListDiscounts(ctx context.Context) ([]backend.Discount, error)
	GetProductDiscount(ctx context.Context, productID int64) (*backend.Discount, error)
	ApplyDiscount(ctx context.Context, productID, discountID int64) error
	RemoveDiscount(ctx context.Context, productID int64) error
}

// LifecyclePort gates mutation on the product's state.
type LifecyclePort interface {
	Guard(ctx context.Context, productID int64) error
}

// AuditPort records accepted operator mutations.
type AuditPort interface {
	Record(ctx context.Context, action, entity, entityID string, meta map[string]any) error
}

// Service is the discount binder. A product has at most one live binding;
// applying a new discount replaces the prior one.
type Service struct {
	api       BackendPort
	lifecycle LifecyclePort
	audit     AuditPort
	logger    *slog.Logger
}

// NewService constructs a Service.
func NewService(api BackendPort, lifecycle LifecyclePort, audit AuditPort, logger *slog.Logger) *Service {
	return &Service{api: api, lifecycle: lifecycle, audit: audit, logger: logger}
}

// Available lists the discounts an operator can bind. A fetch failure
// degrades to an empty list with a logged diagnostic.
func (s *Service) Available(ctx context.Context) []backend.Discount {
	items, err := s.api.ListDiscounts(ctx)
	if err != nil {
		s.logger.Warn("discount list fetch failed", slog.Any("error", err))
		return nil
	}
	return items
}

// Apply binds a discount to a product, replacing any existing binding,
// and returns the refreshed binding.
func (s *Service) Apply(ctx context.Context, productID, discountID int64) (*backend.Discount, error) {
	if productID <= 0 || discountID <= 0 {
		return nil, ErrIncompleteMapping
	}
	if err := s.lifecycle.Guard(ctx, productID); err != nil {
		return nil, err
	}
	if err := s.api.ApplyDiscount(ctx, productID, discountID); err != nil {
		return nil, err
	}
	s.record(ctx, "discount:apply", productID, map[string]any{"discount_id": discountID})
	return s.CurrentBinding(ctx, productID), nil
}

// Remove clears the product's binding. Removing when no binding exists is
// a no-op, not a failure.
func (s *Service) Remove(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return ErrIncompleteMapping
	}
	if err := s.lifecycle.Guard(ctx, productID); err != nil {
		return err
	}
	if err := s.api.RemoveDiscount(ctx, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	s.record(ctx, "discount:remove", productID, nil)
	return nil
}

// CurrentBinding returns the discount bound to the product, or nil when
// none is bound. Absence is never an error; fetch failures degrade to nil
// with a logged diagnostic.
func (s *Service) CurrentBinding(ctx context.Context, productID int64) *backend.Discount {
	binding, err := s.api.GetProductDiscount(ctx, productID)
	if err != nil {
		s.logger.Warn("discount fetch failed", slog.Int64("product_id", productID), slog.Any("error", err))
		return nil
	}
	return binding
}

func (s *Service) record(ctx context.Context, action string, productID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, action, "product", fmt.Sprintf("%d", productID), meta); err != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
