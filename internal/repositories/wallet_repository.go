package repositories

import (
	"context"
	"errors"
	"time"

	"clinicpay/internal/models"
)

var (
	ErrWalletNotFound            = errors.New("wallet not found")
	ErrTransactionNotFound       = errors.New("transaction not found")
	ErrWithdrawalRequestNotFound = errors.New("withdrawal request not found")
	ErrCommissionRuleNotFound    = errors.New("commission rule not found")
	ErrDuplicateReference        = errors.New("duplicate transaction reference")
	ErrLockTimeout               = errors.New("row lock wait timed out")
)

// TransactionFilter narrows a ledger listing. Empty fields match everything.
type TransactionFilter struct {
	Type   string
	Status string
}

// WalletStats are lifetime aggregates over completed transactions of one
// wallet, in minor units.
type WalletStats struct {
	TotalTransactions int64
	TotalDeposits     int64
	TotalWithdrawals  int64
	TotalPayments     int64
}

// WalletRepository is the storage boundary for the wallet ledger. Methods
// suffixed ForUpdate take an exclusive row lock and must only be called
// inside ExecuteInTransaction; the lock is held until that unit commits or
// rolls back.
type WalletRepository interface {
	// Wallet rows
	GetByIdentity(ctx context.Context, userID uint, userType string) (*models.Wallet, error)
	GetByIdentityForUpdate(ctx context.Context, userID uint, userType string) (*models.Wallet, error)
	GetOrCreateForUpdate(ctx context.Context, userID uint, userType, currency string) (*models.Wallet, error)
	GetByIDForUpdate(ctx context.Context, walletID uint) (*models.Wallet, error)
	UpdateBalance(ctx context.Context, walletID uint, newBalance int64, at time.Time) error

	// Ledger
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	GetTransactionByID(ctx context.Context, id uint) (*models.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, id uint, status string, processedAt time.Time) error
	ListTransactions(ctx context.Context, walletID uint, filter TransactionFilter, limit, offset int) ([]models.Transaction, int64, error)
	GetWalletStats(ctx context.Context, walletID uint) (*WalletStats, error)

	// Withdrawal requests
	CreateWithdrawalRequest(ctx context.Context, req *models.WithdrawalRequest) error
	GetWithdrawalRequestForUpdate(ctx context.Context, id uint) (*models.WithdrawalRequest, error)
	UpdateWithdrawalRequest(ctx context.Context, req *models.WithdrawalRequest) error

	// Commission rules
	FindActiveCommissionRule(ctx context.Context, transactionType string, amount int64) (*models.CommissionRule, error)

	// ExecuteInTransaction runs fn inside a single database transaction with
	// a bounded lock wait. All repository calls made through the argument
	// commit or roll back together.
	ExecuteInTransaction(ctx context.Context, fn func(WalletRepository) error) error
}
