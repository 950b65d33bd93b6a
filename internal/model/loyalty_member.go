package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoyaltyMember accrues points at checkout (1 point per KSH 100 spent) and
// carries outstanding debt for "On Credit" sales.
// Points only ever grow through checkout; there is no reversal path.
type LoyaltyMember struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name   string          `gorm:"index;not null"`
	Email  string          `gorm:""`
	Phone  string          `gorm:"not null"`
	Points int             `gorm:"not null;default:0"`
	Debt   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
