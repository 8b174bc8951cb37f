package wallet

import "context"

// Service is the wallet ledger surface consumed by the HTTP handlers and by
// the booking surfaces elsewhere in the backend. Deposit, Withdraw and
// RejectWithdrawal are the only mutators; each runs as one atomic unit.
type Service interface {
	Deposit(ctx context.Context, in DepositInput) (*DepositResult, error)
	Withdraw(ctx context.Context, in WithdrawInput) (*WithdrawResult, error)
	RejectWithdrawal(ctx context.Context, requestID uint) (*RejectResult, error)

	GetBalance(ctx context.Context, userID uint, userType string) (*BalanceResult, error)
	ListTransactions(ctx context.Context, in ListInput) (*Page, error)
}
