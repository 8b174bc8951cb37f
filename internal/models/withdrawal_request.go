package models

import "time"

// Withdrawal request statuses. Transitions past pending are driven by the
// back-office; rejection flows back through the ledger as a refund.
const (
	WithdrawalStatusPending   = "pending"
	WithdrawalStatusApproved  = "approved"
	WithdrawalStatusRejected  = "rejected"
	WithdrawalStatusCompleted = "completed"
)

// Withdrawal methods
const (
	WithdrawalMethodBankTransfer = "bank_transfer"
	WithdrawalMethodMobileMoney  = "mobile_money"
)

// WithdrawalRequest is a pending payout instruction. The funds are already
// reserved: the linked Transaction deducted amount plus fee when the request
// was created. Destination fields are mutually exclusive by Method.
type WithdrawalRequest struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	WalletID          uint      `gorm:"not null;index" json:"wallet_id"`
	Amount            int64     `gorm:"not null" json:"amount"`
	Currency          string    `gorm:"size:3;not null;default:'MRU'" json:"currency"`
	Method            string    `gorm:"size:20;not null" json:"method"`
	BankName          string    `json:"bank_name,omitempty"`
	AccountNumber     string    `json:"account_number,omitempty"`
	AccountHolderName string    `json:"account_holder_name,omitempty"`
	MobileMoneyNumber string    `json:"mobile_money_number,omitempty"`
	Status            string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	TransactionID     *uint     `gorm:"uniqueIndex" json:"transaction_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
