package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement is the audit trail for every stock change.
// One row is written per sale line (inside the checkout transaction) and per
// manual adjustment.
type StockMovement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"not null"` // "sale" | "manual_adjustment" | "restock"
	Quantity  int       `gorm:"not null"` // positive = in, negative = out
	StockBefore int     `gorm:"not null"`
	StockAfter  int     `gorm:"not null"`
	Reason    string
	// ReferenceID points at the Sale for movements of type "sale".
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
