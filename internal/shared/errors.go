package shared

import "errors"

var (
	// ErrNotFound indicates the backend knows nothing about the entity.
	ErrNotFound = errors.New("not found")
	// ErrProductSuspended indicates a mutation was attempted on a
	// soft-deleted product. The product must be restored first.
	ErrProductSuspended = errors.New("product is suspended")
)
