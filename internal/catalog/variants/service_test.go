package variants

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/troveretail/trove-console/internal/backend"
	"github.com/troveretail/trove-console/internal/shared"
)

type fakeAPI struct {
	variants map[int64][]backend.Variant
	nextID   int64

	writes      int
	removeErr   error
	mutationErr error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{variants: make(map[int64][]backend.Variant)}
}

func (f *fakeAPI) ListVariants(_ context.Context, productID int64) ([]backend.Variant, error) {
	return f.variants[productID], nil
}

func (f *fakeAPI) AddVariant(_ context.Context, productID int64, spec backend.VariantSpec) (backend.Variant, error) {
	f.writes++
	if f.mutationErr != nil {
		return backend.Variant{}, f.mutationErr
	}
	f.nextID++
	v := backend.Variant{
		ID:        f.nextID,
		ProductID: productID,
		Color:     spec.Color,
		Size:      spec.Size,
		Quantity:  spec.Quantity,
		IsActive:  true,
	}
	f.variants[productID] = append(f.variants[productID], v)
	return v, nil
}

func (f *fakeAPI) AddQuantity(_ context.Context, productID, variantID int64, amount int) error {
	f.writes++
	if f.mutationErr != nil {
		return f.mutationErr
	}
	f.adjust(productID, variantID, amount)
	return nil
}

func (f *fakeAPI) RemoveQuantity(_ context.Context, productID, variantID int64, amount int) error {
	f.writes++
	if f.removeErr != nil {
		return f.removeErr
	}
	if f.mutationErr != nil {
		return f.mutationErr
	}
	f.adjust(productID, variantID, -amount)
	return nil
}

func (f *fakeAPI) ActivateVariant(_ context.Context, productID, variantID int64) error {
	f.writes++
	if f.mutationErr != nil {
		return f.mutationErr
	}
	f.setActive(productID, variantID, true)
	return nil
}

func (f *fakeAPI) DeactivateVariant(_ context.Context, productID, variantID int64) error {
	f.writes++
	if f.mutationErr != nil {
		return f.mutationErr
	}
	f.setActive(productID, variantID, false)
	return nil
}

func (f *fakeAPI) adjust(productID, variantID int64, delta int) {
	for i, v := range f.variants[productID] {
		if v.ID == variantID {
			f.variants[productID][i].Quantity += delta
		}
	}
}

func (f *fakeAPI) setActive(productID, variantID int64, active bool) {
	for i, v := range f.variants[productID] {
		if v.ID == variantID {
			f.variants[productID][i].IsActive = active
		}
	}
}

type fakeLifecycle struct {
	suspended  map[int64]bool
	guardCalls int
}

func newFakeLifecycle() *fakeLifecycle {
	return &fakeLifecycle{suspended: make(map[int64]bool)}
}

func (f *fakeLifecycle) Guard(_ context.Context, productID int64) error {
	f.guardCalls++
	if f.suspended[productID] {
		return shared.ErrProductSuspended
	}
	return nil
}

func (f *fakeLifecycle) MarkSuspended(productID int64) {
	f.suspended[productID] = true
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(api *fakeAPI, lc *fakeLifecycle) *Service {
	return NewService(api, lc, nil, testLogger())
}

func intPtr(v int) *int { return &v }

func TestAddGatedOnSuspendedProduct(t *testing.T) {
	api := newFakeAPI()
	lc := newFakeLifecycle()
	lc.suspended[7] = true
	svc := newTestService(api, lc)

	_, _, err := svc.Add(context.Background(), 7, backend.VariantSpec{Quantity: 2})
	require.ErrorIs(t, err, shared.ErrProductSuspended)
	require.Zero(t, api.writes, "no backend write may be issued while suspended")
}

func TestAddRefetchesRegistry(t *testing.T) {
	api := newFakeAPI()
	lc := newFakeLifecycle()
	svc := newTestService(api, lc)

	color := "indigo"
	created, items, err := svc.Add(context.Background(), 7, backend.VariantSpec{Color: &color, Size: intPtr(3), Quantity: 5})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
	require.Len(t, items, 1)
	require.Equal(t, 5, items[0].Quantity)
}

func TestAddRejectsInvalidSpec(t *testing.T) {
	api := newFakeAPI()
	svc := newTestService(api, newFakeLifecycle())

	_, _, err := svc.Add(context.Background(), 7, backend.VariantSpec{Size: intPtr(9)})
	require.ErrorIs(t, err, ErrInvalidSpec)
	require.Zero(t, api.writes)

	_, _, err = svc.Add(context.Background(), 7, backend.VariantSpec{Quantity: -1})
	require.ErrorIs(t, err, ErrInvalidSpec)
	require.Zero(t, api.writes)
}

func TestStockAmountValidatedLocally(t *testing.T) {
	api := newFakeAPI()
	svc := newTestService(api, newFakeLifecycle())

	_, err := svc.AddStock(context.Background(), 7, 1, 0)
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.RemoveStock(context.Background(), 7, 1, -4)
	require.ErrorIs(t, err, ErrInvalidAmount)
	require.Zero(t, api.writes, "invalid amounts must not reach the backend")
}

func TestStockLedgerRoundTrip(t *testing.T) {
	api := newFakeAPI()
	lc := newFakeLifecycle()
	svc := newTestService(api, lc)

	_, _, err := svc.Add(context.Background(), 7, backend.VariantSpec{Quantity: 10})
	require.NoError(t, err)

	items, err := svc.AddStock(context.Background(), 7, 1, 5)
	require.NoError(t, err)
	require.Equal(t, 15, items[0].Quantity)

	items, err = svc.RemoveStock(context.Background(), 7, 1, 8)
	require.NoError(t, err)
	require.Equal(t, 7, items[0].Quantity)
}

func TestRemoveStockInsufficient(t *testing.T) {
	api := newFakeAPI()
	lc := newFakeLifecycle()
	svc := newTestService(api, lc)

	_, _, err := svc.Add(context.Background(), 7, backend.VariantSpec{Quantity: 3})
	require.NoError(t, err)

	api.removeErr = backend.ErrConflict
	items, err := svc.RemoveStock(context.Background(), 7, 1, 10)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// The rejected removal re-reads the ledger: the caller gets the
	// authoritative, unchanged quantity alongside the error.
	require.Len(t, items, 1)
	require.Equal(t, 3, items[0].Quantity)
}

func TestMutationRemapsGoneProductToSuspended(t *testing.T) {
	api := newFakeAPI()
	lc := newFakeLifecycle()
	svc := newTestService(api, lc)

	api.mutationErr = shared.ErrNotFound
	_, _, err := svc.Add(context.Background(), 7, backend.VariantSpec{Quantity: 1})
	require.ErrorIs(t, err, shared.ErrProductSuspended)
	require.True(t, lc.suspended[7], "stale active belief must be reconciled")
}

func TestSetActiveRedundantToggle(t *testing.T) {
	api := newFakeAPI()
	lc := newFakeLifecycle()
	svc := newTestService(api, lc)

	_, _, err := svc.Add(context.Background(), 7, backend.VariantSpec{Quantity: 1})
	require.NoError(t, err)

	items, err := svc.SetActive(context.Background(), 7, 1, true)
	require.NoError(t, err)
	require.True(t, items[0].IsActive)

	items, err = svc.SetActive(context.Background(), 7, 1, false)
	require.NoError(t, err)
	require.False(t, items[0].IsActive)
}

func TestSizeLabel(t *testing.T) {
	require.Equal(t, "XS", SizeLabel(intPtr(0)))
	require.Equal(t, "XXXL", SizeLabel(intPtr(6)))
	require.Equal(t, "", SizeLabel(intPtr(7)))
	require.Equal(t, "", SizeLabel(nil))
}
