// Package commission resolves the fee charged on a wallet transaction.
package commission

import (
	"context"

	"clinicpay/internal/models"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// RuleFinder is the slice of the repository the resolver needs.
type RuleFinder interface {
	FindActiveCommissionRule(ctx context.Context, transactionType string, amount int64) (*models.CommissionRule, error)
}

// Resolver computes fees from the active commission rules. Resolution is a
// pure lookup: the same (type, amount, method) always yields the same fee.
type Resolver interface {
	Resolve(ctx context.Context, transactionType string, amount int64, paymentMethod string) int64
}

type resolver struct {
	rules RuleFinder
}

func NewResolver(rules RuleFinder) Resolver {
	if rules == nil {
		panic("rule finder is required")
	}
	return &resolver{rules: rules}
}

// Resolve returns the fee in minor units. Deposit fees apply only to card
// payments; withdrawal fees apply regardless of method. Missing rule tables
// and unmatched amounts degrade to a zero fee rather than an error.
func (r *resolver) Resolve(ctx context.Context, transactionType string, amount int64, paymentMethod string) int64 {
	if transactionType == models.TransactionTypeDeposit && paymentMethod != models.PaymentMethodCard {
		return 0
	}

	rule, err := r.rules.FindActiveCommissionRule(ctx, transactionType, amount)
	if err != nil {
		// No matching rule, or rule storage unavailable: charge nothing.
		return 0
	}

	return FeeFor(rule, amount)
}

// FeeFor applies a single rule to an amount. Percentage fees are computed
// with exact decimal arithmetic and rounded half-up to the minor unit.
func FeeFor(rule *models.CommissionRule, amount int64) int64 {
	switch rule.CommissionType {
	case models.CommissionTypePercentage:
		fee := decimal.NewFromInt(amount).
			Mul(rule.CommissionValue).
			Div(oneHundred).
			Round(0)
		return fee.IntPart()
	case models.CommissionTypeFixed:
		return rule.CommissionValue.Round(0).IntPart()
	default:
		return 0
	}
}
