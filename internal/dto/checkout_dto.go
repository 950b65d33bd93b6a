package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CartLineRequest is one line of the cashier's working cart.
// Wholesale toggles the per-line price mode; it only takes effect when the
// product actually defines a positive wholesale price.
type CartLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
	Wholesale bool   `json:"wholesale"`
}

type CheckoutRequest struct {
	Items         []CartLineRequest `json:"items"          validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=Cash Card M-Pesa 'On Credit'"`
	// CustomerID attaches a loyalty member; empty = walk-in sale.
	CustomerID *string `json:"customer_id" validate:"omitempty,uuid"`
	// CustomerEmail: optional — when present, the receipt worker mails the PDF.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	Items         []SaleItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	CustomerID    *string            `json:"customer_id"`
	CustomerName  string             `json:"customer_name"`
	PointsEarned  int                `json:"points_earned"`
	CreatedAt     string             `json:"created_at"`
}
