package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a logged business cost (rent, restocking, utilities, ...).
type Expense struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string          `gorm:"not null"`
	Category string          `gorm:"index;not null"`
	Amount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date     time.Time       `gorm:"index;not null"`

	CreatedAt time.Time
}
