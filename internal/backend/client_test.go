package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/troveretail/trove-console/internal/shared"
)

func envelopeBody(data any) string {
	raw, _ := json.Marshal(map[string]any{"responseBody": map[string]any{"data": data}})
	return string(raw)
}

func TestClientForwardsToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(envelopeBody(3)))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "opaque-token")
	count, err := client.CountProducts(context.Background(), ProductCountFilters{})
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.Equal(t, "Bearer opaque-token", gotAuth)
}

func TestClientMissingDataDecodesToZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responseBody":{}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")

	count, err := client.CountOrders(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, count)

	revenue, err := client.RevenueTotal(context.Background())
	require.NoError(t, err)
	require.Zero(t, revenue)

	orders, total, err := client.ListOrders(context.Background(), OrderFilters{Page: 1, PageSize: 50})
	require.NoError(t, err)
	require.Empty(t, orders)
	require.Zero(t, total)
}

func TestClientStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, shared.ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusBadRequest, ErrRejected},
		{http.StatusUnprocessableEntity, ErrRejected},
		{http.StatusInternalServerError, ErrServer},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		client := NewClient(srv.URL, "")
		err := client.AddQuantity(context.Background(), 7, 1, 5)
		require.ErrorIs(t, err, tc.want, "status %d", tc.status)
		srv.Close()
	}
}

func TestClientDiscountAbsenceIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	binding, err := client.GetProductDiscount(context.Background(), 7)
	require.NoError(t, err)
	require.Nil(t, binding)
}

func TestClientCountFilters(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(envelopeBody(10)))
	}))
	defer srv.Close()

	yes, no := true, false
	client := NewClient(srv.URL, "")
	_, err := client.CountProducts(context.Background(), ProductCountFilters{IsActive: &yes, IsDelete: &no, InStock: &yes})
	require.NoError(t, err)
	require.Contains(t, gotQuery, "isActive=true")
	require.Contains(t, gotQuery, "isDelete=false")
	require.Contains(t, gotQuery, "inStock=true")
}

func TestClientVariantRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/api/Products/7/variants"))
		var spec VariantSpec
		require.NoError(t, json.NewDecoder(r.Body).Decode(&spec))
		_, _ = w.Write([]byte(envelopeBody(Variant{ID: 1, ProductID: 7, Quantity: spec.Quantity})))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	created, err := client.AddVariant(context.Background(), 7, VariantSpec{Quantity: 4})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
	require.Equal(t, 4, created.Quantity)
}

func TestClientOrderFiltersAndTotalCount(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"responseBody":{"data":[{"id":1,"total":10}],"totalCount":37}}`))
	}))
	defer srv.Close()

	pending := 1
	client := NewClient(srv.URL, "")
	orders, total, err := client.ListOrders(context.Background(), OrderFilters{
		Page:     2,
		PageSize: 10,
		Status:   &pending,
		Search:   "ORD-42",
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, 37, total)
	require.Contains(t, gotQuery, "page=2")
	require.Contains(t, gotQuery, "pageSize=10")
	require.Contains(t, gotQuery, "status=1")
	require.Contains(t, gotQuery, "searchTerm=ORD-42")
}

func TestClientProductFilterIncludeDeleted(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(envelopeBody([]Product{})))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.ListProducts(context.Background(), ProductFilters{IncludeDeleted: true})
	require.NoError(t, err)
	require.Contains(t, gotQuery, "includeDeleted=true")

	_, err = client.ListProducts(context.Background(), ProductFilters{})
	require.NoError(t, err)
	require.NotContains(t, gotQuery, "includeDeleted")
}

func TestClientHeterogeneousOrderStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responseBody":{"data":[
			{"id":1,"status":3,"total":10},
			{"id":2,"status":"Delivered","total":20}
		]}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	orders, _, err := client.ListOrders(context.Background(), OrderFilters{Page: 1, PageSize: 50})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, json.RawMessage(`3`), orders[0].Status)
	require.JSONEq(t, `"Delivered"`, string(orders[1].Status))
}
