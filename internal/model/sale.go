package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalkInCustomer is the sentinel customer name recorded on sales with no
// loyalty member attached.
const WalkInCustomer = "Walk-in"

// Payment methods accepted at the register.
const (
	PaymentCash     = "Cash"
	PaymentCard     = "Card"
	PaymentMPesa    = "M-Pesa"
	PaymentOnCredit = "On Credit"
)

// Sale statuses.
const (
	SaleStatusPaid     = "Paid"
	SaleStatusRefunded = "Refunded"
	SaleStatusUnpaid   = "Unpaid"
)

// Sale is the immutable record of a completed checkout. There is no edit or
// reversal path: rows are only ever inserted, inside the checkout transaction.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Items         []SaleItem      `gorm:"foreignKey:SaleID"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	Status        string          `gorm:"type:varchar(10);not null;default:'Paid'"`
	// CustomerID is nil for walk-in sales; CustomerName then holds the
	// Walk-in sentinel so receipts and listings need no join.
	CustomerID   *uuid.UUID `gorm:"type:uuid;index"`
	CustomerName string     `gorm:"not null"`
	CashierID    uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt    time.Time  `gorm:"index"`

	Customer *LoyaltyMember `gorm:"foreignKey:CustomerID"`
}

// SaleItem snapshots the product at the instant of sale; later catalog edits
// never change historical sales.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"not null"`
	Brand     string          `gorm:"not null"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
