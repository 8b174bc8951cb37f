package wallet

import (
	"context"
	"errors"
	"log"
	"time"

	"clinicpay/internal/directory"
	domainerr "clinicpay/internal/errors"
	"clinicpay/internal/models"
	"clinicpay/internal/repositories"
	"clinicpay/internal/services/commission"
	"clinicpay/internal/services/ledger"
)

// WalletCache is the read cache consumed by the service. Mutators only
// invalidate; reads refresh.
type WalletCache interface {
	GetWallet(ctx context.Context, userID uint, userType string) (*models.Wallet, bool, error)
	SetWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, userID uint, userType string) error
}

type service struct {
	repo       repositories.WalletRepository
	commission commission.Resolver
	writer     *ledger.Writer
	dir        directory.ProfileDirectory
	cache      WalletCache
	config     Config
}

// NewService wires the wallet ledger together. cache and dir are optional;
// everything else is required.
func NewService(
	repo repositories.WalletRepository,
	resolver commission.Resolver,
	writer *ledger.Writer,
	dir directory.ProfileDirectory,
	cache WalletCache,
	config Config,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if resolver == nil {
		panic("commission resolver is required")
	}
	if writer == nil {
		panic("ledger writer is required")
	}

	if config.DefaultCurrency == "" {
		config.DefaultCurrency = DefaultCurrency
	}
	if config.CurrencySymbol == "" {
		config.CurrencySymbol = DefaultCurrencySymbol
	}
	if config.DefaultUserType == "" {
		config.DefaultUserType = DefaultUserType
	}
	if config.MinWithdrawal <= 0 {
		config.MinWithdrawal = DefaultMinWithdrawal
	}
	if config.ProcessingTimeout <= 0 {
		config.ProcessingTimeout = DefaultTimeout
	}

	return &service{
		repo:       repo,
		commission: resolver,
		writer:     writer,
		dir:        dir,
		cache:      cache,
		config:     config,
	}
}

// mapStorageError normalizes repository failures into the domain taxonomy.
func mapStorageError(err error) error {
	var derr *domainerr.DomainError
	if errors.As(err, &derr) {
		return err
	}
	if errors.Is(err, repositories.ErrLockTimeout) {
		return domainerr.ErrWalletBusy
	}
	return domainerr.Persistence(err)
}

// opContext bounds one unit of work, lock waits included.
func (s *service) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.config.ProcessingTimeout)
}

func (s *service) invalidateCache(ctx context.Context, userID uint, userType string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateWallet(ctx, userID, userType); err != nil {
		log.Printf("failed to invalidate wallet cache for %s/%d: %v", userType, userID, err)
	}
}

func (s *service) Deposit(ctx context.Context, in DepositInput) (*DepositResult, error) {
	if in.UserType == "" {
		in.UserType = s.config.DefaultUserType
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentMethodCard
	}
	if err := s.validateDeposit(in); err != nil {
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var result *DepositResult
	err := s.repo.ExecuteInTransaction(ctx, func(r repositories.WalletRepository) error {
		wallet, err := r.GetOrCreateForUpdate(ctx, in.UserID, in.UserType, s.config.DefaultCurrency)
		if err != nil {
			return err
		}

		balanceBefore := wallet.Balance
		fee := s.commission.Resolve(ctx, models.TransactionTypeDeposit, in.Amount, in.PaymentMethod)
		net := in.Amount - fee
		balanceAfter := balanceBefore + net
		now := time.Now().UTC()

		if err := r.UpdateBalance(ctx, wallet.ID, balanceAfter, now); err != nil {
			return err
		}

		txn := &models.Transaction{
			WalletID:      wallet.ID,
			Type:          models.TransactionTypeDeposit,
			Amount:        net,
			Currency:      wallet.Currency,
			BalanceBefore: balanceBefore,
			BalanceAfter:  balanceAfter,
			Status:        models.TransactionStatusCompleted,
			PaymentMethod: in.PaymentMethod,
			Description:   in.Description,
			ProcessedAt:   &now,
			Metadata: models.TransactionMetadata{
				GrossAmount:   in.Amount,
				Fee:           fee,
				NetAmount:     net,
				PaymentMethod: in.PaymentMethod,
				PhoneNumber:   in.PhoneNumber,
			},
		}
		if err := s.writer.Append(ctx, r, txn, ledger.PrefixDeposit); err != nil {
			return err
		}

		result = &DepositResult{
			TransactionID: txn.ID,
			Reference:     txn.Reference,
			Amount:        net,
			Fee:           fee,
			GrossAmount:   in.Amount,
			BalanceBefore: balanceBefore,
			BalanceAfter:  balanceAfter,
			Currency:      wallet.Currency,
		}
		return nil
	})
	if err != nil {
		return nil, mapStorageError(err)
	}

	s.invalidateCache(ctx, in.UserID, in.UserType)
	return result, nil
}

func (s *service) Withdraw(ctx context.Context, in WithdrawInput) (*WithdrawResult, error) {
	if in.UserType == "" {
		in.UserType = s.config.DefaultUserType
	}
	if in.Method == "" {
		in.Method = models.WithdrawalMethodBankTransfer
	}
	if err := s.validateWithdrawal(in); err != nil {
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var result *WithdrawResult
	err := s.repo.ExecuteInTransaction(ctx, func(r repositories.WalletRepository) error {
		// Withdrawals never create a wallet: nothing to pay out of.
		wallet, err := r.GetByIdentityForUpdate(ctx, in.UserID, in.UserType)
		if err != nil {
			if errors.Is(err, repositories.ErrWalletNotFound) {
				return domainerr.ErrWalletNotFound
			}
			return err
		}

		balanceBefore := wallet.Balance
		fee := s.commission.Resolve(ctx, models.TransactionTypeWithdrawal, in.Amount, in.Method)
		totalDeduction := in.Amount + fee
		if balanceBefore < totalDeduction {
			return domainerr.InsufficientBalance(balanceBefore, wallet.Currency)
		}

		request := &models.WithdrawalRequest{
			WalletID:          wallet.ID,
			Amount:            in.Amount,
			Currency:          wallet.Currency,
			Method:            in.Method,
			BankName:          in.BankName,
			AccountNumber:     in.AccountNumber,
			AccountHolderName: in.AccountHolderName,
			MobileMoneyNumber: in.MobileMoneyNumber,
			Status:            models.WithdrawalStatusPending,
		}
		if err := r.CreateWithdrawalRequest(ctx, request); err != nil {
			return err
		}

		balanceAfter := balanceBefore - totalDeduction
		now := time.Now().UTC()
		if err := r.UpdateBalance(ctx, wallet.ID, balanceAfter, now); err != nil {
			return err
		}

		txn := &models.Transaction{
			WalletID:      wallet.ID,
			Type:          models.TransactionTypeWithdrawal,
			Amount:        totalDeduction,
			Currency:      wallet.Currency,
			BalanceBefore: balanceBefore,
			BalanceAfter:  balanceAfter,
			Status:        models.TransactionStatusPending,
			PaymentMethod: in.Method,
			Description:   "withdrawal request",
			Metadata: models.TransactionMetadata{
				Fee:                 fee,
				NetAmount:           in.Amount,
				TotalDeduction:      totalDeduction,
				PaymentMethod:       in.Method,
				WithdrawalRequestID: request.ID,
			},
		}
		if err := s.writer.Append(ctx, r, txn, ledger.PrefixWithdrawal); err != nil {
			return err
		}

		request.TransactionID = &txn.ID
		if err := r.UpdateWithdrawalRequest(ctx, request); err != nil {
			return err
		}

		result = &WithdrawResult{
			RequestID:      request.ID,
			TransactionID:  txn.ID,
			Reference:      txn.Reference,
			Amount:         in.Amount,
			Fee:            fee,
			TotalDeduction: totalDeduction,
			BalanceAfter:   balanceAfter,
			Status:         request.Status,
			Currency:       wallet.Currency,
		}
		return nil
	})
	if err != nil {
		return nil, mapStorageError(err)
	}

	s.invalidateCache(ctx, in.UserID, in.UserType)
	return result, nil
}

// RejectWithdrawal is the compensating path for a request the back-office
// turned down: the full deduction (amount plus fee) flows back to the wallet
// as a refund transaction, the request moves to rejected, and the original
// pending transaction is cancelled, all in one atomic unit.
func (s *service) RejectWithdrawal(ctx context.Context, requestID uint) (*RejectResult, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var result *RejectResult
	var owner *models.Wallet

	err := s.repo.ExecuteInTransaction(ctx, func(r repositories.WalletRepository) error {
		request, err := r.GetWithdrawalRequestForUpdate(ctx, requestID)
		if err != nil {
			if errors.Is(err, repositories.ErrWithdrawalRequestNotFound) {
				return domainerr.ErrWithdrawalRequestNotFound
			}
			return err
		}
		if request.Status != models.WithdrawalStatusPending {
			return domainerr.ErrWithdrawalNotPending
		}
		if request.TransactionID == nil {
			return domainerr.ErrWithdrawalRequestNotFound
		}

		original, err := r.GetTransactionByID(ctx, *request.TransactionID)
		if err != nil {
			return err
		}

		wallet, err := r.GetByIDForUpdate(ctx, request.WalletID)
		if err != nil {
			return err
		}
		owner = wallet

		refund := original.Amount // amount + fee, reserved at request time
		balanceBefore := wallet.Balance
		balanceAfter := balanceBefore + refund
		now := time.Now().UTC()

		if err := r.UpdateBalance(ctx, wallet.ID, balanceAfter, now); err != nil {
			return err
		}

		txn := &models.Transaction{
			WalletID:      wallet.ID,
			Type:          models.TransactionTypeRefund,
			Amount:        refund,
			Currency:      wallet.Currency,
			BalanceBefore: balanceBefore,
			BalanceAfter:  balanceAfter,
			Status:        models.TransactionStatusCompleted,
			PaymentMethod: request.Method,
			Description:   "withdrawal request rejected",
			ProcessedAt:   &now,
			Metadata: models.TransactionMetadata{
				NetAmount:           refund,
				WithdrawalRequestID: request.ID,
				ReversedReference:   original.Reference,
			},
		}
		if err := s.writer.Append(ctx, r, txn, ledger.PrefixRefund); err != nil {
			return err
		}

		if err := r.UpdateTransactionStatus(ctx, original.ID, models.TransactionStatusCancelled, now); err != nil {
			return err
		}

		request.Status = models.WithdrawalStatusRejected
		if err := r.UpdateWithdrawalRequest(ctx, request); err != nil {
			return err
		}

		result = &RejectResult{
			RequestID:       request.ID,
			RefundReference: txn.Reference,
			RefundedAmount:  refund,
			BalanceAfter:    balanceAfter,
			Status:          request.Status,
			Currency:        wallet.Currency,
		}
		return nil
	})
	if err != nil {
		return nil, mapStorageError(err)
	}

	if owner != nil {
		s.invalidateCache(ctx, owner.UserID, owner.UserType)
	}
	return result, nil
}

func (s *service) GetBalance(ctx context.Context, userID uint, userType string) (*BalanceResult, error) {
	if userType == "" {
		userType = s.config.DefaultUserType
	}
	if userID == 0 {
		return nil, domainerr.Validation("user_id is required")
	}
	if !models.IsValidUserType(userType) {
		return nil, domainerr.Validation("unknown user type")
	}

	var wallet *models.Wallet
	var stats *repositories.WalletStats
	err := s.repo.ExecuteInTransaction(ctx, func(r repositories.WalletRepository) error {
		w, err := r.GetOrCreateForUpdate(ctx, userID, userType, s.config.DefaultCurrency)
		if err != nil {
			return err
		}
		st, err := r.GetWalletStats(ctx, w.ID)
		if err != nil {
			return err
		}
		wallet, stats = w, st
		return nil
	})
	if err != nil {
		return nil, mapStorageError(err)
	}

	if s.cache != nil {
		if err := s.cache.SetWallet(ctx, wallet); err != nil {
			log.Printf("failed to cache wallet %s/%d: %v", userType, userID, err)
		}
	}

	return &BalanceResult{
		Wallet:         wallet,
		Stats:          *stats,
		CurrencySymbol: s.config.CurrencySymbol,
		DisplayName:    directory.Resolve(ctx, s.dir, userID, userType),
	}, nil
}

func (s *service) ListTransactions(ctx context.Context, in ListInput) (*Page, error) {
	if in.UserID == 0 {
		return nil, domainerr.Validation("user_id is required")
	}
	if in.UserType == "" {
		in.UserType = s.config.DefaultUserType
	}
	if in.Type != "" && !models.IsValidTransactionType(in.Type) {
		return nil, domainerr.Validation("unknown transaction type")
	}
	if in.Status != "" && !models.IsValidTransactionStatus(in.Status) {
		return nil, domainerr.Validation("unknown transaction status")
	}
	if in.Limit <= 0 {
		in.Limit = DefaultListLimit
	}
	if in.Limit > MaxListLimit {
		in.Limit = MaxListLimit
	}
	if in.Offset < 0 {
		in.Offset = 0
	}

	wallet, err := s.lookupWallet(ctx, in.UserID, in.UserType)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			// No wallet yet means no history either.
			return &Page{Transactions: []models.Transaction{}, Limit: in.Limit, Offset: in.Offset}, nil
		}
		return nil, mapStorageError(err)
	}

	// The ledger is keyed by wallet, not by raw user id: the same user id may
	// own both a patient and a doctor wallet.
	transactions, total, err := s.repo.ListTransactions(ctx, wallet.ID, repositories.TransactionFilter{
		Type:   in.Type,
		Status: in.Status,
	}, in.Limit, in.Offset)
	if err != nil {
		return nil, mapStorageError(err)
	}

	return &Page{
		Transactions: transactions,
		Total:        total,
		Limit:        in.Limit,
		Offset:       in.Offset,
		HasMore:      int64(in.Offset+in.Limit) < total,
	}, nil
}

// lookupWallet is the non-locking read path, served from cache when warm.
func (s *service) lookupWallet(ctx context.Context, userID uint, userType string) (*models.Wallet, error) {
	if s.cache != nil {
		if wallet, ok, err := s.cache.GetWallet(ctx, userID, userType); err == nil && ok {
			return wallet, nil
		}
	}

	wallet, err := s.repo.GetByIdentity(ctx, userID, userType)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetWallet(ctx, wallet); err != nil {
			log.Printf("failed to cache wallet %s/%d: %v", userType, userID, err)
		}
	}
	return wallet, nil
}
