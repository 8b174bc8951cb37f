package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Commission rule kinds
const (
	CommissionTypePercentage = "percentage"
	CommissionTypeFixed      = "fixed"
)

// CommissionRule maps a transaction type and amount range to a fee. MinAmount
// and MaxAmount are in minor units; a nil MaxAmount means the range is
// unbounded above. For percentage rules CommissionValue is the percent
// (2.5 means 2.5%), for fixed rules it is the fee itself in minor units.
type CommissionRule struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	TransactionType string          `gorm:"size:20;not null;index" json:"transaction_type"`
	MinAmount       int64           `gorm:"not null;default:0" json:"min_amount"`
	MaxAmount       *int64          `json:"max_amount"`
	CommissionType  string          `gorm:"size:16;not null" json:"commission_type"`
	CommissionValue decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"commission_value"`
	IsActive        bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Matches reports whether amount falls inside the rule's range.
func (r *CommissionRule) Matches(amount int64) bool {
	if amount < r.MinAmount {
		return false
	}
	if r.MaxAmount != nil && amount > *r.MaxAmount {
		return false
	}
	return true
}
