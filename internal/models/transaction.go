package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Transaction types
const (
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypePayment    = "payment"
	TransactionTypeRefund     = "refund"
	TransactionTypeTransfer   = "transfer"
	TransactionTypeCommission = "commission"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusCancelled = "cancelled"
)

// Payment methods
const (
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodMobileMoney  = "mobile_money"
	PaymentMethodCash         = "cash"
	PaymentMethodWallet       = "wallet"
)

// Transaction is one immutable ledger entry. Amount is the net effect applied
// to the wallet balance, in minor units; BalanceBefore and BalanceAfter are
// snapshots taken inside the same database transaction that moved the money.
type Transaction struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	Reference     string              `gorm:"size:50;not null;uniqueIndex" json:"reference"`
	WalletID      uint                `gorm:"not null;index" json:"wallet_id"`
	Type          string              `gorm:"size:20;not null" json:"type"`
	Amount        int64               `gorm:"not null" json:"amount"`
	Currency      string              `gorm:"size:3;not null;default:'MRU'" json:"currency"`
	BalanceBefore int64               `gorm:"not null" json:"balance_before"`
	BalanceAfter  int64               `gorm:"not null" json:"balance_after"`
	Status        string              `gorm:"size:20;not null;default:'pending'" json:"status"`
	PaymentMethod string              `gorm:"size:20;not null;default:'wallet'" json:"payment_method"`
	Description   string              `json:"description"`
	Metadata      TransactionMetadata `gorm:"type:jsonb" json:"metadata"`
	CreatedAt     time.Time           `json:"created_at"`
	ProcessedAt   *time.Time          `json:"processed_at"`
}

// TransactionMetadata is the closed value object stored alongside each ledger
// entry. Keeping it a struct instead of an open map means schema drift shows
// up at compile time.
type TransactionMetadata struct {
	GrossAmount         int64  `json:"gross_amount,omitempty"`
	Fee                 int64  `json:"fee,omitempty"`
	NetAmount           int64  `json:"net_amount,omitempty"`
	TotalDeduction      int64  `json:"total_deduction,omitempty"`
	PaymentMethod       string `json:"payment_method,omitempty"`
	PhoneNumber         string `json:"phone_number,omitempty"`
	WithdrawalRequestID uint   `json:"withdrawal_request_id,omitempty"`
	ReversedReference   string `json:"reversed_reference,omitempty"`
}

// Value implements the driver.Valuer interface.
func (m TransactionMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface.
func (m *TransactionMetadata) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("unsupported metadata column type")
	}
	return json.Unmarshal(bytes, m)
}

func IsValidTransactionType(t string) bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypePayment,
		TransactionTypeRefund, TransactionTypeTransfer, TransactionTypeCommission:
		return true
	}
	return false
}

func IsValidTransactionStatus(s string) bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted,
		TransactionStatusFailed, TransactionStatusCancelled:
		return true
	}
	return false
}
