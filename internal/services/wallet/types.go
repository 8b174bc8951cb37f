package wallet

import (
	"time"

	"clinicpay/internal/models"
	"clinicpay/internal/repositories"
)

// Config holds wallet service configuration. Amounts are minor units.
type Config struct {
	DefaultCurrency   string
	CurrencySymbol    string
	DefaultUserType   string
	MinWithdrawal     int64
	ProcessingTimeout time.Duration
}

// DepositInput describes incoming funds for one identity.
type DepositInput struct {
	UserID        uint
	UserType      string
	Amount        int64
	PaymentMethod string
	Description   string
	PhoneNumber   string
}

// DepositResult reports what the deposit did to the wallet.
type DepositResult struct {
	TransactionID uint   `json:"id"`
	Reference     string `json:"reference"`
	Amount        int64  `json:"amount"`
	Fee           int64  `json:"fee"`
	GrossAmount   int64  `json:"gross_amount"`
	BalanceBefore int64  `json:"balance_before"`
	BalanceAfter  int64  `json:"balance_after"`
	Currency      string `json:"currency"`
}

// WithdrawInput describes a payout request. Destination fields depend on
// Method: bank fields for bank_transfer, mobile number for mobile_money.
type WithdrawInput struct {
	UserID            uint
	UserType          string
	Amount            int64
	Method            string
	BankName          string
	AccountNumber     string
	AccountHolderName string
	MobileMoneyNumber string
}

// WithdrawResult reports the created request and its reservation.
type WithdrawResult struct {
	RequestID      uint   `json:"id"`
	TransactionID  uint   `json:"transaction_id"`
	Reference      string `json:"reference"`
	Amount         int64  `json:"amount"`
	Fee            int64  `json:"fee"`
	TotalDeduction int64  `json:"total_deduction"`
	BalanceAfter   int64  `json:"balance_after"`
	Status         string `json:"status"`
	Currency       string `json:"currency"`
}

// RejectResult reports the compensating refund for a rejected withdrawal.
type RejectResult struct {
	RequestID       uint   `json:"id"`
	RefundReference string `json:"refund_reference"`
	RefundedAmount  int64  `json:"refunded_amount"`
	BalanceAfter    int64  `json:"balance_after"`
	Status          string `json:"status"`
	Currency        string `json:"currency"`
}

// BalanceResult is the read-side view of one wallet.
type BalanceResult struct {
	Wallet         *models.Wallet
	Stats          repositories.WalletStats
	CurrencySymbol string
	DisplayName    string
}

// ListInput narrows and pages a transaction listing.
type ListInput struct {
	UserID   uint
	UserType string
	Type     string
	Status   string
	Limit    int
	Offset   int
}

// Page is one page of ledger history, newest first.
type Page struct {
	Transactions []models.Transaction
	Total        int64
	Limit        int
	Offset       int
	HasMore      bool
}
