// Package handlers contains the fiber HTTP handlers for the wallet API.
package handlers

import (
	"errors"
	"strconv"

	"clinicpay/internal/models"
	"clinicpay/internal/services/wallet"
	"clinicpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

var (
	errUnauthenticated = errors.New("missing authenticated claims")
	errForbiddenTarget = errors.New("claims cannot act for target identity")
)

// identityFromRequest resolves the target identity of a wallet operation,
// defaulting to the caller. Admins may target other identities.
func identityFromRequest(c *fiber.Ctx, userID uint, userType string) (uint, string, error) {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return 0, "", errUnauthenticated
	}
	if userID == 0 {
		userID = claims.UserID
	}
	if userType == "" {
		userType = claims.UserType
	}
	if !claims.CanActFor(userID, userType) {
		return 0, "", errForbiddenTarget
	}
	return userID, userType, nil
}

// identityError renders identity failures in the standard response shape.
func identityError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errForbiddenTarget) {
		return utils.Forbidden(c, "cannot act for another user")
	}
	return utils.Unauthorized(c, "authentication required")
}

type depositRequest struct {
	UserID        uint   `json:"user_id"`
	UserType      string `json:"user_type"`
	Amount        int64  `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	Description   string `json:"description"`
	PhoneNumber   string `json:"phone_number"`
}

func (h *WalletHandler) Deposit(c *fiber.Ctx) error {
	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	userID, userType, err := identityFromRequest(c, req.UserID, req.UserType)
	if err != nil {
		return identityError(c, err)
	}

	result, err := h.walletService.Deposit(c.Context(), wallet.DepositInput{
		UserID:        userID,
		UserType:      userType,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
		PhoneNumber:   req.PhoneNumber,
	})
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.Success(c, fiber.Map{
		"success":     true,
		"transaction": result,
	})
}

type withdrawRequest struct {
	UserID            uint   `json:"user_id"`
	UserType          string `json:"user_type"`
	Amount            int64  `json:"amount"`
	WithdrawalMethod  string `json:"withdrawal_method"`
	BankName          string `json:"bank_name"`
	AccountNumber     string `json:"account_number"`
	AccountHolderName string `json:"account_holder_name"`
	MobileMoneyNumber string `json:"mobile_money_number"`
}

func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	var req withdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	userID, userType, err := identityFromRequest(c, req.UserID, req.UserType)
	if err != nil {
		return identityError(c, err)
	}

	result, err := h.walletService.Withdraw(c.Context(), wallet.WithdrawInput{
		UserID:            userID,
		UserType:          userType,
		Amount:            req.Amount,
		Method:            req.WithdrawalMethod,
		BankName:          req.BankName,
		AccountNumber:     req.AccountNumber,
		AccountHolderName: req.AccountHolderName,
		MobileMoneyNumber: req.MobileMoneyNumber,
	})
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.Success(c, fiber.Map{
		"success":            true,
		"withdrawal_request": result,
	})
}

func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	rawUserID := c.QueryInt("user_id")
	if rawUserID < 0 {
		return utils.BadRequest(c, "invalid user_id")
	}
	userID := uint(rawUserID)
	userType := c.Query("user_type")

	userID, userType, err := identityFromRequest(c, userID, userType)
	if err != nil {
		return identityError(c, err)
	}

	result, err := h.walletService.GetBalance(c.Context(), userID, userType)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	w := result.Wallet
	return utils.Success(c, fiber.Map{
		"success": true,
		"wallet": fiber.Map{
			"id":                  w.ID,
			"user_id":             w.UserID,
			"user_type":           w.UserType,
			"balance":             w.Balance,
			"currency":            w.Currency,
			"currency_symbol":     result.CurrencySymbol,
			"is_active":           w.IsActive,
			"last_transaction_at": w.LastTransactionAt,
			"created_at":          w.CreatedAt,
		},
		"statistics": fiber.Map{
			"total_transactions": result.Stats.TotalTransactions,
			"total_deposits":     result.Stats.TotalDeposits,
			"total_withdrawals":  result.Stats.TotalWithdrawals,
			"total_payments":     result.Stats.TotalPayments,
		},
		"user": fiber.Map{
			"full_name": result.DisplayName,
			"user_type": userType,
		},
	})
}

func (h *WalletHandler) ListTransactions(c *fiber.Ctx) error {
	rawUserID := c.QueryInt("user_id")
	if rawUserID < 0 {
		return utils.BadRequest(c, "invalid user_id")
	}
	userID := uint(rawUserID)
	userType := c.Query("user_type")

	userID, userType, err := identityFromRequest(c, userID, userType)
	if err != nil {
		return identityError(c, err)
	}

	page, err := h.walletService.ListTransactions(c.Context(), wallet.ListInput{
		UserID:   userID,
		UserType: userType,
		Type:     c.Query("type"),
		Status:   c.Query("status"),
		Limit:    c.QueryInt("limit", wallet.DefaultListLimit),
		Offset:   c.QueryInt("offset"),
	})
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.Success(c, fiber.Map{
		"success":      true,
		"transactions": page.Transactions,
		"pagination": fiber.Map{
			"total":    page.Total,
			"limit":    page.Limit,
			"offset":   page.Offset,
			"has_more": page.HasMore,
		},
	})
}

// RejectWithdrawal is the back-office hook that reverses a pending payout.
// Only admins may call it.
func (h *WalletHandler) RejectWithdrawal(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "authentication required")
	}
	if claims.UserType != models.UserTypeAdmin {
		return utils.Forbidden(c, "admin access required")
	}

	requestID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || requestID == 0 {
		return utils.BadRequest(c, "invalid withdrawal request id")
	}

	result, err := h.walletService.RejectWithdrawal(c.Context(), uint(requestID))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.Success(c, fiber.Map{
		"success":            true,
		"withdrawal_request": result,
	})
}
