package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name           string           `json:"name"            validate:"required,min=2,max=120"`
	Brand          string           `json:"brand"           validate:"required,max=120"`
	Barcode        *string          `json:"barcode"         validate:"omitempty,min=8,max=18"`
	Price          decimal.Decimal  `json:"price"           validate:"required,min=0"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price" validate:"omitempty,min=0"`
	// Category may be left empty: the enrichment worker then asks the vision
	// sidecar for a suggestion.
	Category   string `json:"category"`
	Stock      int    `json:"stock"        validate:"min=0"`
	LowStockAt int    `json:"low_stock_at" validate:"min=0"`
	Unit       string `json:"unit"         validate:"required"`
	ImageURL   string `json:"image_url"`
}

type UpdateProductRequest struct {
	Name           *string          `json:"name"            validate:"omitempty,min=2,max=120"`
	Brand          *string          `json:"brand"           validate:"omitempty,max=120"`
	Barcode        *string          `json:"barcode"         validate:"omitempty,min=8,max=18"`
	Price          *decimal.Decimal `json:"price"           validate:"omitempty,min=0"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price" validate:"omitempty,min=0"`
	Category       *string          `json:"category"`
	LowStockAt     *int             `json:"low_stock_at"    validate:"omitempty,min=0"`
	Unit           *string          `json:"unit"`
	ImageURL       *string          `json:"image_url"`
}

// AdjustStockRequest changes stock by a signed delta with an audit reason.
type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Name     string `form:"name"`
	Brand    string `form:"brand"`
	Category string `form:"category"`
	Barcode  string `form:"barcode"`
	Active   string `form:"active"` // "false" = inactive, "all" = everything, default active
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Brand          string           `json:"brand"`
	Barcode        *string          `json:"barcode"`
	Price          decimal.Decimal  `json:"price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
	Category       string           `json:"category"`
	Stock          int              `json:"stock"`
	LowStockAt     int              `json:"low_stock_at"`
	Unit           string           `json:"unit"`
	ImageURL       string           `json:"image_url"`
	Active         bool             `json:"active"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// PriceCheckResponse is returned by the public barcode price check (no auth).
type PriceCheckResponse struct {
	Name     string          `json:"name"`
	Brand    string          `json:"brand"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Category string          `json:"category"`
	Unit     string          `json:"unit"`
}

// StockMovementResponse is one row of a product's movement audit trail.
type StockMovementResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Quantity    int     `json:"quantity"`
	StockBefore int     `json:"stock_before"`
	StockAfter  int     `json:"stock_after"`
	Reason      string  `json:"reason"`
	ReferenceID *string `json:"reference_id"`
	CreatedAt   string  `json:"created_at"`
}
