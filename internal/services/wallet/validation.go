package wallet

import (
	domainerr "clinicpay/internal/errors"
	"clinicpay/internal/models"
)

func (s *service) validateDeposit(in DepositInput) error {
	if in.UserID == 0 {
		return domainerr.Validation("user_id is required")
	}
	if in.Amount <= 0 {
		return domainerr.Validation("amount must be greater than zero")
	}
	if in.UserType != "" && !models.IsValidUserType(in.UserType) {
		return domainerr.Validation("unknown user type")
	}
	return nil
}

// validateWithdrawal also checks that the destination fields match the chosen
// method; the two destination shapes are mutually exclusive.
func (s *service) validateWithdrawal(in WithdrawInput) error {
	if in.UserID == 0 {
		return domainerr.Validation("user_id is required")
	}
	if in.Amount <= 0 {
		return domainerr.Validation("amount must be greater than zero")
	}
	if in.Amount < s.config.MinWithdrawal {
		return domainerr.Validation("amount is below the minimum withdrawal")
	}
	if in.UserType != "" && !models.IsValidUserType(in.UserType) {
		return domainerr.Validation("unknown user type")
	}

	switch in.Method {
	case models.WithdrawalMethodBankTransfer:
		if in.BankName == "" || in.AccountNumber == "" || in.AccountHolderName == "" {
			return domainerr.Validation("bank destination details are required")
		}
		if in.MobileMoneyNumber != "" {
			return domainerr.Validation("mobile money number does not apply to bank transfers")
		}
	case models.WithdrawalMethodMobileMoney:
		if in.MobileMoneyNumber == "" {
			return domainerr.Validation("mobile money number is required")
		}
		if in.BankName != "" || in.AccountNumber != "" || in.AccountHolderName != "" {
			return domainerr.Validation("bank details do not apply to mobile money")
		}
	default:
		return domainerr.Validation("unknown withdrawal method")
	}
	return nil
}
