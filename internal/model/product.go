package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item sold at the register.
// WholesalePrice is optional: when nil (or zero) the retail Price always applies.
type Product struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name  string    `gorm:"index;not null"`
	Brand string    `gorm:"not null"`
	// Barcode is optional; unique when present (used by the public price check).
	Barcode        *string          `gorm:"uniqueIndex"`
	Price          decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	WholesalePrice *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Category       string           `gorm:"index"`
	// Stock is guarded by a CHECK (stock >= 0) constraint; the checkout
	// transaction additionally uses a conditional decrement so it can abort
	// cleanly instead of tripping the constraint.
	Stock int `gorm:"not null;default:0"`
	// LowStockAt is the threshold for the low-stock digest and report.
	LowStockAt int    `gorm:"not null;default:5"`
	Unit       string `gorm:"not null;default:'pcs'"`
	ImageURL   string
	// ImageHint is the search hint stored alongside AI-generated images.
	ImageHint string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
