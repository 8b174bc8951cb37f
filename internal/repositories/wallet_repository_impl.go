package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicpay/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	pgCodeLockNotAvailable  = "55P03"
	defaultLockWaitDuration = 3 * time.Second
)

type walletRepository struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewWalletRepository builds the gorm-backed repository. lockTimeout bounds
// how long a unit of work may wait on a wallet row lock before failing with
// ErrLockTimeout; zero selects the default.
func NewWalletRepository(db *gorm.DB, lockTimeout time.Duration) WalletRepository {
	if lockTimeout <= 0 {
		lockTimeout = defaultLockWaitDuration
	}
	return &walletRepository{db: db, lockTimeout: lockTimeout}
}

func isLockNotAvailable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgCodeLockNotAvailable
}

func (r *walletRepository) GetByIdentity(ctx context.Context, userID uint, userType string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND user_type = ?", userID, userType).
		First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByIdentityForUpdate(ctx context.Context, userID uint, userType string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND user_type = ?", userID, userType).
		First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		if isLockNotAvailable(err) {
			return nil, ErrLockTimeout
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetOrCreateForUpdate(ctx context.Context, userID uint, userType, currency string) (*models.Wallet, error) {
	wallet, err := r.GetByIdentityForUpdate(ctx, userID, userType)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, ErrWalletNotFound) {
		return nil, err
	}

	// ON CONFLICT DO NOTHING keeps the losing side of a creation race from
	// aborting the surrounding transaction: either this insert wins or a
	// concurrent one did, and in both cases the row exists to be locked.
	fresh := &models.Wallet{
		UserID:   userID,
		UserType: userType,
		Currency: currency,
		IsActive: true,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "user_type"}},
			DoNothing: true,
		}).
		Create(fresh).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return r.GetByIdentityForUpdate(ctx, userID, userType)
}

func (r *walletRepository) GetByIDForUpdate(ctx context.Context, walletID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&wallet, walletID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		if isLockNotAvailable(err) {
			return nil, ErrLockTimeout
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) UpdateBalance(ctx context.Context, walletID uint, newBalance int64, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Updates(map[string]interface{}{
			"balance":             newBalance,
			"last_transaction_at": at,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (r *walletRepository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	// A reference collision must not abort the surrounding transaction, so
	// it is detected as zero inserted rows rather than a raised error; the
	// caller retries with a fresh reference.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reference"}},
			DoNothing: true,
		}).
		Create(txn)
	if result.Error != nil {
		return fmt.Errorf("failed to create transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDuplicateReference
	}
	return nil
}

func (r *walletRepository) GetTransactionByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.WithContext(ctx).First(&txn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

func (r *walletRepository) UpdateTransactionStatus(ctx context.Context, id uint, status string, processedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"processed_at": processedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *walletRepository) ListTransactions(ctx context.Context, walletID uint, filter TransactionFilter, limit, offset int) ([]models.Transaction, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("wallet_id = ?", walletID)
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var transactions []models.Transaction
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, total, nil
}

func (r *walletRepository) GetWalletStats(ctx context.Context, walletID uint) (*WalletStats, error) {
	var stats WalletStats
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("wallet_id = ? AND status = ?", walletID, models.TransactionStatusCompleted).
		Select(`
			COUNT(*) as total_transactions,
			COALESCE(SUM(CASE WHEN type = 'deposit' THEN amount ELSE 0 END), 0) as total_deposits,
			COALESCE(SUM(CASE WHEN type = 'withdrawal' THEN amount ELSE 0 END), 0) as total_withdrawals,
			COALESCE(SUM(CASE WHEN type = 'payment' THEN amount ELSE 0 END), 0) as total_payments
		`).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet stats: %w", err)
	}
	return &stats, nil
}

func (r *walletRepository) CreateWithdrawalRequest(ctx context.Context, req *models.WithdrawalRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create withdrawal request: %w", err)
	}
	return nil
}

func (r *walletRepository) GetWithdrawalRequestForUpdate(ctx context.Context, id uint) (*models.WithdrawalRequest, error) {
	var req models.WithdrawalRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWithdrawalRequestNotFound
		}
		if isLockNotAvailable(err) {
			return nil, ErrLockTimeout
		}
		return nil, fmt.Errorf("failed to lock withdrawal request: %w", err)
	}
	return &req, nil
}

func (r *walletRepository) UpdateWithdrawalRequest(ctx context.Context, req *models.WithdrawalRequest) error {
	if err := r.db.WithContext(ctx).Save(req).Error; err != nil {
		return fmt.Errorf("failed to update withdrawal request: %w", err)
	}
	return nil
}

func (r *walletRepository) FindActiveCommissionRule(ctx context.Context, transactionType string, amount int64) (*models.CommissionRule, error) {
	var rule models.CommissionRule
	err := r.db.WithContext(ctx).
		Where("transaction_type = ? AND is_active = ?", transactionType, true).
		Where("min_amount <= ?", amount).
		Where("(max_amount IS NULL OR max_amount >= ?)", amount).
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommissionRuleNotFound
		}
		return nil, fmt.Errorf("failed to find commission rule: %w", err)
	}
	return &rule, nil
}

func (r *walletRepository) ExecuteInTransaction(ctx context.Context, fn func(WalletRepository) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// SET LOCAL scopes the lock wait bound to this transaction only.
		timeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if err := tx.Exec(timeout).Error; err != nil {
			return fmt.Errorf("failed to set lock timeout: %w", err)
		}
		return fn(&walletRepository{db: tx, lockTimeout: r.lockTimeout})
	})
	if isLockNotAvailable(err) {
		return ErrLockTimeout
	}
	return err
}
