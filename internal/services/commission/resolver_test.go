package commission

import (
	"context"
	"errors"
	"testing"

	"clinicpay/internal/models"
	"clinicpay/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRuleFinder struct {
	mock.Mock
}

func (m *MockRuleFinder) FindActiveCommissionRule(ctx context.Context, transactionType string, amount int64) (*models.CommissionRule, error) {
	args := m.Called(ctx, transactionType, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommissionRule), args.Error(1)
}

func percentageRule(value string) *models.CommissionRule {
	return &models.CommissionRule{
		TransactionType: models.TransactionTypeDeposit,
		CommissionType:  models.CommissionTypePercentage,
		CommissionValue: decimal.RequireFromString(value),
		IsActive:        true,
	}
}

func TestResolve_DepositFeeOnlyForCard(t *testing.T) {
	finder := new(MockRuleFinder)
	r := NewResolver(finder)

	// Non-card deposits never consult the rule table.
	for _, method := range []string{
		models.PaymentMethodWallet,
		models.PaymentMethodBankTransfer,
		models.PaymentMethodMobileMoney,
		models.PaymentMethodCash,
	} {
		fee := r.Resolve(context.Background(), models.TransactionTypeDeposit, 1000, method)
		assert.Zero(t, fee, "method %s", method)
	}
	finder.AssertNotCalled(t, "FindActiveCommissionRule")

	finder.On("FindActiveCommissionRule", mock.Anything, models.TransactionTypeDeposit, int64(1000)).
		Return(percentageRule("2"), nil)
	fee := r.Resolve(context.Background(), models.TransactionTypeDeposit, 1000, models.PaymentMethodCard)
	assert.Equal(t, int64(20), fee)
}

func TestResolve_WithdrawalFeeAppliesRegardlessOfMethod(t *testing.T) {
	finder := new(MockRuleFinder)
	rule := &models.CommissionRule{
		TransactionType: models.TransactionTypeWithdrawal,
		CommissionType:  models.CommissionTypeFixed,
		CommissionValue: decimal.NewFromInt(5),
		IsActive:        true,
	}
	finder.On("FindActiveCommissionRule", mock.Anything, models.TransactionTypeWithdrawal, int64(100)).
		Return(rule, nil)

	r := NewResolver(finder)
	for _, method := range []string{models.WithdrawalMethodBankTransfer, models.WithdrawalMethodMobileMoney} {
		fee := r.Resolve(context.Background(), models.TransactionTypeWithdrawal, 100, method)
		assert.Equal(t, int64(5), fee, "method %s", method)
	}
}

func TestResolve_NoRuleDegradesToZero(t *testing.T) {
	finder := new(MockRuleFinder)
	finder.On("FindActiveCommissionRule", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, repositories.ErrCommissionRuleNotFound)

	r := NewResolver(finder)
	fee := r.Resolve(context.Background(), models.TransactionTypeDeposit, 500, models.PaymentMethodCard)
	assert.Zero(t, fee)
}

func TestResolve_StorageFailureDegradesToZero(t *testing.T) {
	finder := new(MockRuleFinder)
	finder.On("FindActiveCommissionRule", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("relation commission_rules does not exist"))

	r := NewResolver(finder)
	fee := r.Resolve(context.Background(), models.TransactionTypeWithdrawal, 500, models.WithdrawalMethodBankTransfer)
	assert.Zero(t, fee)
}

func TestResolve_Idempotent(t *testing.T) {
	finder := new(MockRuleFinder)
	finder.On("FindActiveCommissionRule", mock.Anything, models.TransactionTypeDeposit, int64(333)).
		Return(percentageRule("2.5"), nil)

	r := NewResolver(finder)
	first := r.Resolve(context.Background(), models.TransactionTypeDeposit, 333, models.PaymentMethodCard)
	second := r.Resolve(context.Background(), models.TransactionTypeDeposit, 333, models.PaymentMethodCard)
	assert.Equal(t, first, second)
}

func TestFeeFor_PercentageHalfUpRounding(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		amount int64
		want   int64
	}{
		{"exact", "2", 1000, 20},
		{"rounds up at half", "1", 50, 1},                 // 0.50 -> 1
		{"rounds up above half", "2.5", 101, 3},           // 2.525 -> 3
		{"rounds down below half", "1.5", 30, 0},          // 0.45 -> 0
		{"large amount stays exact", "2", 1234567, 24691}, // 24691.34 -> 24691
		{"tenth of a percent", "0.1", 2500, 3},            // 2.5 -> 3
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FeeFor(percentageRule(tt.value), tt.amount)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFeeFor_FixedVerbatim(t *testing.T) {
	rule := &models.CommissionRule{
		CommissionType:  models.CommissionTypeFixed,
		CommissionValue: decimal.NewFromInt(25),
	}
	assert.Equal(t, int64(25), FeeFor(rule, 100))
	assert.Equal(t, int64(25), FeeFor(rule, 1000000))
}

func TestCommissionRule_Matches(t *testing.T) {
	max := int64(5000)
	bounded := &models.CommissionRule{MinAmount: 100, MaxAmount: &max}
	assert.False(t, bounded.Matches(99))
	assert.True(t, bounded.Matches(100))
	assert.True(t, bounded.Matches(5000))
	assert.False(t, bounded.Matches(5001))

	unbounded := &models.CommissionRule{MinAmount: 100}
	assert.True(t, unbounded.Matches(100))
	assert.True(t, unbounded.Matches(1<<40))
}
