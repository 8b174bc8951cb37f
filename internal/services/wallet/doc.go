/*
Package wallet implements the clinic wallet ledger.

The service tracks one balance per (user id, user type) identity and records
every movement as an immutable transaction. Deposits and withdrawals are the
only mutators; each runs inside a single database transaction that holds an
exclusive lock on the wallet row, so concurrent operations on the same wallet
serialize and the balance write and ledger insert commit together or not at
all.

Usage:

	svc := wallet.NewService(repo, resolver, ledger.NewWriter(), dir, cache, wallet.Config{})

	res, err := svc.Deposit(ctx, wallet.DepositInput{
	    UserID:        42,
	    UserType:      "patient",
	    Amount:        1000,
	    PaymentMethod: "card",
	})

All amounts are int64 minor units of the wallet currency. Fees come from the
commission resolver; the net effect on the balance is what lands in the
ledger, with the gross amount and fee preserved in the transaction metadata.

Withdrawals reserve funds at request time: amount plus fee is deducted
immediately and a pending WithdrawalRequest is created for the back-office.
RejectWithdrawal is the compensating path that refunds the reservation.
*/
package wallet
