package models

import (
	"time"

	"gorm.io/gorm"
)

// User types a wallet can belong to. A (UserID, UserType) pair identifies
// exactly one wallet; the same numeric id may exist for both a patient and
// a doctor.
const (
	UserTypePatient = "patient"
	UserTypeDoctor  = "doctor"
	UserTypeAdmin   = "admin"
)

// Wallet holds the running balance for one identity. Amounts are stored in
// minor units of the wallet currency, never as floats.
type Wallet struct {
	ID                uint       `gorm:"primarykey" json:"id"`
	UserID            uint       `gorm:"not null;uniqueIndex:idx_wallet_identity" json:"user_id"`
	UserType          string     `gorm:"size:16;not null;default:'patient';uniqueIndex:idx_wallet_identity" json:"user_type"`
	Balance           int64      `gorm:"not null;default:0;check:balance >= 0" json:"balance"`
	Currency          string     `gorm:"size:3;not null;default:'MRU'" json:"currency"`
	IsActive          bool       `gorm:"not null;default:true" json:"is_active"`
	LastTransactionAt *time.Time `json:"last_transaction_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	// Wallets always start empty; funds arrive only through the ledger.
	w.Balance = 0
	if w.UserType == "" {
		w.UserType = UserTypePatient
	}
	return nil
}

func IsValidUserType(t string) bool {
	switch t {
	case UserTypePatient, UserTypeDoctor, UserTypeAdmin:
		return true
	}
	return false
}
