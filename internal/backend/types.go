package backend

import (
	"encoding/json"
	"time"
)

// Image is one entry of a product's ordered image collection.
type Image struct {
	URL    string `json:"url"`
	IsMain bool   `json:"isMain"`
}

// Product mirrors the commerce API product payload. A non-nil DeletedAt
// marks the product soft-deleted; the catalog layer treats it as suspended.
type Product struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Price         float64    `json:"price"`
	IsActive      bool       `json:"isActive"`
	DeletedAt     *time.Time `json:"deletedAt"`
	SubCategoryID int64      `json:"subCategoryId"`
	Images        []Image    `json:"images"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Suspended reports whether the product is soft-deleted.
func (p Product) Suspended() bool {
	return p.DeletedAt != nil
}

// Variant is a sellable configuration of a product.
type Variant struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"productId"`
	Color     *string `json:"color"`
	Size      *int    `json:"size"`
	Waist     *int    `json:"waist"`
	Length    *int    `json:"length"`
	Quantity  int     `json:"quantity"`
	IsActive  bool    `json:"isActive"`
}

// VariantSpec is the creation payload for a variant. All attribute fields
// are optional; quantity defaults to zero.
type VariantSpec struct {
	Color    *string `json:"color,omitempty" validate:"omitempty,min=1"`
	Size     *int    `json:"size,omitempty" validate:"omitempty,min=0,max=6"`
	Waist    *int    `json:"waist,omitempty" validate:"omitempty,min=0"`
	Length   *int    `json:"length,omitempty" validate:"omitempty,min=0"`
	Quantity int     `json:"quantity" validate:"min=0"`
}

// Discount is a named percentage promotion.
type Discount struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// Order is read-only to the console. Status arrives either as a numeric
// code or free text depending on the backend revision, so it is kept raw
// and normalized at projection time.
type Order struct {
	ID           int64           `json:"id"`
	OrderNumber  string          `json:"orderNumber"`
	CustomerName string          `json:"customerName"`
	Total        float64         `json:"total"`
	Status       json.RawMessage `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ProductWithSales is the bestsellers projection returned by the backend.
type ProductWithSales struct {
	Product
	TotalSold  int      `json:"totalSold"`
	FinalPrice *float64 `json:"finalPrice"`
}

// ProductCountFilters narrows Products.Count.
type ProductCountFilters struct {
	IsActive *bool
	IsDelete *bool
	InStock  *bool
}

// ProductFilters narrows Products.GetAll. IncludeDeleted asks the
// backend to return soft-deleted products too, which is how an operator
// finds a suspended product to restore.
type ProductFilters struct {
	IsActive       *bool
	Search         string
	IncludeDeleted bool
}

// OrderFilters narrows Orders.List. Status filters by the numeric
// status code; Search matches order number or customer name.
type OrderFilters struct {
	Page     int
	PageSize int
	Status   *int
	Search   string
}
