// Package backend is the HTTP client for the commerce API the console
// operates against. It owns envelope decoding and the mapping from HTTP
// statuses to the error classes the catalog layer reasons about.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/troveretail/trove-console/internal/shared"
)

var (
	// ErrServer covers transport failures and 5xx responses.
	ErrServer = errors.New("backend: server error")
	// ErrRejected indicates the backend refused the payload (4xx validation).
	ErrRejected = errors.New("backend: request rejected")
	// ErrConflict indicates the backend refused a mutation that would
	// violate one of its own business rules.
	ErrConflict = errors.New("backend: conflict")
)

// Client talks to the commerce API. The operator token is an opaque
// credential forwarded as-is on every request.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient constructs a backend client.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("backend: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServer, err)
	}
	if err := statusError(resp.StatusCode); err != nil {
		_ = resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func statusError(code int) error {
	switch {
	case code < 400:
		return nil
	case code == http.StatusNotFound:
		return shared.ErrNotFound
	case code == http.StatusConflict:
		return ErrConflict
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: status %d", ErrRejected, code)
	default:
		return fmt.Errorf("%w: status %d", ErrServer, code)
	}
}

func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var zero T
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return zero, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return decodeEnvelope[T](resp.Body)
}

func getJSONCounted[T any](ctx context.Context, c *Client, path string, query url.Values) (T, int, error) {
	var zero T
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return zero, 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return decodeCountedEnvelope[T](resp.Body)
}

func postJSON[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var zero T
	resp, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return zero, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return decodeEnvelope[T](resp.Body)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	resp, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func productPath(id int64, suffix string) string {
	return "/api/Products/" + strconv.FormatInt(id, 10) + suffix
}

func variantPath(productID, variantID int64, suffix string) string {
	return productPath(productID, "/variants/"+strconv.FormatInt(variantID, 10)+suffix)
}

// GetProduct fetches a single product.
func (c *Client) GetProduct(ctx context.Context, id int64) (Product, error) {
	return getJSON[Product](ctx, c, productPath(id, ""), nil)
}

// ListProducts fetches products matching the filters.
func (c *Client) ListProducts(ctx context.Context, filters ProductFilters) ([]Product, error) {
	query := url.Values{}
	if filters.IsActive != nil {
		query.Set("isActive", strconv.FormatBool(*filters.IsActive))
	}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}
	if filters.IncludeDeleted {
		query.Set("includeDeleted", "true")
	}
	return getJSON[[]Product](ctx, c, "/api/Products", query)
}

// CountProducts counts products matching the filters.
func (c *Client) CountProducts(ctx context.Context, filters ProductCountFilters) (int, error) {
	query := url.Values{}
	if filters.IsActive != nil {
		query.Set("isActive", strconv.FormatBool(*filters.IsActive))
	}
	if filters.IsDelete != nil {
		query.Set("isDelete", strconv.FormatBool(*filters.IsDelete))
	}
	if filters.InStock != nil {
		query.Set("inStock", strconv.FormatBool(*filters.InStock))
	}
	return getJSON[int](ctx, c, "/api/Products/Count", query)
}

// Bestsellers fetches a page of pre-ranked bestseller products.
func (c *Client) Bestsellers(ctx context.Context, page, pageSize int) ([]ProductWithSales, error) {
	return getJSON[[]ProductWithSales](ctx, c, "/api/Products/bestsellers", pageQuery(page, pageSize))
}

// GetProductDiscount fetches the discount currently bound to a product.
// A product without a binding yields (nil, nil).
func (c *Client) GetProductDiscount(ctx context.Context, productID int64) (*Discount, error) {
	d, err := getJSON[*Discount](ctx, c, productPath(productID, "/discount"), nil)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return d, err
}

// ApplyDiscount binds a discount to a product, replacing any prior binding.
func (c *Client) ApplyDiscount(ctx context.Context, productID, discountID int64) error {
	return c.post(ctx, productPath(productID, "/discount"), map[string]int64{"discountId": discountID})
}

// RemoveDiscount clears the product's discount binding.
func (c *Client) RemoveDiscount(ctx context.Context, productID int64) error {
	resp, err := c.do(ctx, http.MethodDelete, productPath(productID, "/discount"), nil, nil)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// RestoreProduct clears the product's soft delete.
func (c *Client) RestoreProduct(ctx context.Context, id int64) error {
	return c.post(ctx, productPath(id, "/restore"), nil)
}

// ListVariants fetches all variants of a product.
func (c *Client) ListVariants(ctx context.Context, productID int64) ([]Variant, error) {
	return getJSON[[]Variant](ctx, c, productPath(productID, "/variants"), nil)
}

// AddVariant creates a variant under a product. The backend answers 404
// when the product is soft-deleted.
func (c *Client) AddVariant(ctx context.Context, productID int64, spec VariantSpec) (Variant, error) {
	return postJSON[Variant](ctx, c, productPath(productID, "/variants"), spec)
}

// AddQuantity increases a variant's stock.
func (c *Client) AddQuantity(ctx context.Context, productID, variantID int64, amount int) error {
	return c.post(ctx, variantPath(productID, variantID, "/quantity/add"), map[string]int{"amount": amount})
}

// RemoveQuantity decreases a variant's stock. The backend rejects removals
// that would drive the quantity negative.
func (c *Client) RemoveQuantity(ctx context.Context, productID, variantID int64, amount int) error {
	return c.post(ctx, variantPath(productID, variantID, "/quantity/remove"), map[string]int{"amount": amount})
}

// ActivateVariant marks a variant sellable.
func (c *Client) ActivateVariant(ctx context.Context, productID, variantID int64) error {
	return c.post(ctx, variantPath(productID, variantID, "/activate"), nil)
}

// DeactivateVariant marks a variant not sellable.
func (c *Client) DeactivateVariant(ctx context.Context, productID, variantID int64) error {
	return c.post(ctx, variantPath(productID, variantID, "/deactivate"), nil)
}

// ListDiscounts fetches the available discounts.
func (c *Client) ListDiscounts(ctx context.Context) ([]Discount, error) {
	return getJSON[[]Discount](ctx, c, "/api/Discounts", nil)
}

// ListOrders fetches a page of orders matching the filters, along with
// the total count across all pages.
func (c *Client) ListOrders(ctx context.Context, filters OrderFilters) ([]Order, int, error) {
	query := pageQuery(filters.Page, filters.PageSize)
	if filters.Status != nil {
		query.Set("status", strconv.Itoa(*filters.Status))
	}
	if filters.Search != "" {
		query.Set("searchTerm", filters.Search)
	}
	return getJSONCounted[[]Order](ctx, c, "/api/Order", query)
}

// CountOrders counts orders, optionally filtered by a numeric status code.
func (c *Client) CountOrders(ctx context.Context, status *int) (int, error) {
	query := url.Values{}
	if status != nil {
		query.Set("status", strconv.Itoa(*status))
	}
	return getJSON[int](ctx, c, "/api/Order/Count", query)
}

// RevenueTotal fetches the all-time revenue total.
func (c *Client) RevenueTotal(ctx context.Context) (float64, error) {
	return getJSON[float64](ctx, c, "/api/Order/revenue", nil)
}

func pageQuery(page, pageSize int) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))
	return query
}
