package wallet

import (
	"context"
	"sort"
	"sync"
	"time"

	"clinicpay/internal/models"
	"clinicpay/internal/repositories"
)

// fakeRepo is an in-memory repositories.WalletRepository. ExecuteInTransaction
// serializes atomic units behind one mutex, the way row locks do in Postgres,
// and rolls the whole state back when the unit fails.
type fakeRepo struct {
	mu sync.Mutex

	wallets      map[uint]*models.Wallet
	transactions map[uint]*models.Transaction
	requests     map[uint]*models.WithdrawalRequest
	rules        []models.CommissionRule

	nextWalletID uint
	nextTxnID    uint
	nextReqID    uint

	failCreateTransaction error
	collideTransactions   int
	lockTimeout           bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		wallets:      make(map[uint]*models.Wallet),
		transactions: make(map[uint]*models.Transaction),
		requests:     make(map[uint]*models.WithdrawalRequest),
	}
}

func (f *fakeRepo) snapshot() *fakeRepo {
	clone := newFakeRepo()
	for id, w := range f.wallets {
		cw := *w
		clone.wallets[id] = &cw
	}
	for id, t := range f.transactions {
		ct := *t
		clone.transactions[id] = &ct
	}
	for id, r := range f.requests {
		cr := *r
		clone.requests[id] = &cr
	}
	clone.nextWalletID = f.nextWalletID
	clone.nextTxnID = f.nextTxnID
	clone.nextReqID = f.nextReqID
	return clone
}

func (f *fakeRepo) restore(s *fakeRepo) {
	f.wallets = s.wallets
	f.transactions = s.transactions
	f.requests = s.requests
	f.nextWalletID = s.nextWalletID
	f.nextTxnID = s.nextTxnID
	f.nextReqID = s.nextReqID
}

func (f *fakeRepo) ExecuteInTransaction(ctx context.Context, fn func(repositories.WalletRepository) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lockTimeout {
		return repositories.ErrLockTimeout
	}
	before := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(before)
		return err
	}
	return nil
}

func (f *fakeRepo) GetByIdentity(ctx context.Context, userID uint, userType string) (*models.Wallet, error) {
	for _, w := range f.wallets {
		if w.UserID == userID && w.UserType == userType {
			cw := *w
			return &cw, nil
		}
	}
	return nil, repositories.ErrWalletNotFound
}

func (f *fakeRepo) GetByIdentityForUpdate(ctx context.Context, userID uint, userType string) (*models.Wallet, error) {
	return f.GetByIdentity(ctx, userID, userType)
}

func (f *fakeRepo) GetOrCreateForUpdate(ctx context.Context, userID uint, userType, currency string) (*models.Wallet, error) {
	if w, err := f.GetByIdentity(ctx, userID, userType); err == nil {
		return w, nil
	}
	f.nextWalletID++
	w := &models.Wallet{
		ID:       f.nextWalletID,
		UserID:   userID,
		UserType: userType,
		Currency: currency,
		IsActive: true,
	}
	f.wallets[w.ID] = w
	cw := *w
	return &cw, nil
}

func (f *fakeRepo) GetByIDForUpdate(ctx context.Context, walletID uint) (*models.Wallet, error) {
	w, ok := f.wallets[walletID]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	cw := *w
	return &cw, nil
}

func (f *fakeRepo) UpdateBalance(ctx context.Context, walletID uint, newBalance int64, at time.Time) error {
	w, ok := f.wallets[walletID]
	if !ok {
		return repositories.ErrWalletNotFound
	}
	w.Balance = newBalance
	w.LastTransactionAt = &at
	return nil
}

func (f *fakeRepo) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	if f.failCreateTransaction != nil {
		return f.failCreateTransaction
	}
	if f.collideTransactions > 0 {
		f.collideTransactions--
		return repositories.ErrDuplicateReference
	}
	for _, existing := range f.transactions {
		if existing.Reference == txn.Reference {
			return repositories.ErrDuplicateReference
		}
	}
	f.nextTxnID++
	txn.ID = f.nextTxnID
	txn.CreatedAt = time.Now().UTC()
	ct := *txn
	f.transactions[txn.ID] = &ct
	return nil
}

func (f *fakeRepo) GetTransactionByID(ctx context.Context, id uint) (*models.Transaction, error) {
	t, ok := f.transactions[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	ct := *t
	return &ct, nil
}

func (f *fakeRepo) UpdateTransactionStatus(ctx context.Context, id uint, status string, processedAt time.Time) error {
	t, ok := f.transactions[id]
	if !ok {
		return repositories.ErrTransactionNotFound
	}
	t.Status = status
	t.ProcessedAt = &processedAt
	return nil
}

func (f *fakeRepo) ListTransactions(ctx context.Context, walletID uint, filter repositories.TransactionFilter, limit, offset int) ([]models.Transaction, int64, error) {
	var matched []models.Transaction
	for _, t := range f.transactions {
		if t.WalletID != walletID {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		matched = append(matched, *t)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	if offset >= len(matched) {
		return []models.Transaction{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeRepo) GetWalletStats(ctx context.Context, walletID uint) (*repositories.WalletStats, error) {
	stats := &repositories.WalletStats{}
	for _, t := range f.transactions {
		if t.WalletID != walletID || t.Status != models.TransactionStatusCompleted {
			continue
		}
		stats.TotalTransactions++
		switch t.Type {
		case models.TransactionTypeDeposit:
			stats.TotalDeposits += t.Amount
		case models.TransactionTypeWithdrawal:
			stats.TotalWithdrawals += t.Amount
		case models.TransactionTypePayment:
			stats.TotalPayments += t.Amount
		}
	}
	return stats, nil
}

func (f *fakeRepo) CreateWithdrawalRequest(ctx context.Context, req *models.WithdrawalRequest) error {
	f.nextReqID++
	req.ID = f.nextReqID
	req.CreatedAt = time.Now().UTC()
	cr := *req
	f.requests[req.ID] = &cr
	return nil
}

func (f *fakeRepo) GetWithdrawalRequestForUpdate(ctx context.Context, id uint) (*models.WithdrawalRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, repositories.ErrWithdrawalRequestNotFound
	}
	cr := *r
	return &cr, nil
}

func (f *fakeRepo) UpdateWithdrawalRequest(ctx context.Context, req *models.WithdrawalRequest) error {
	if _, ok := f.requests[req.ID]; !ok {
		return repositories.ErrWithdrawalRequestNotFound
	}
	cr := *req
	f.requests[req.ID] = &cr
	return nil
}

func (f *fakeRepo) FindActiveCommissionRule(ctx context.Context, transactionType string, amount int64) (*models.CommissionRule, error) {
	for i := range f.rules {
		rule := &f.rules[i]
		if rule.IsActive && rule.TransactionType == transactionType && rule.Matches(amount) {
			cr := *rule
			return &cr, nil
		}
	}
	return nil, repositories.ErrCommissionRuleNotFound
}

// seedWallet installs a wallet directly, bypassing the service.
func (f *fakeRepo) seedWallet(userID uint, userType string, balance int64) *models.Wallet {
	f.nextWalletID++
	w := &models.Wallet{
		ID:       f.nextWalletID,
		UserID:   userID,
		UserType: userType,
		Balance:  balance,
		Currency: "MRU",
		IsActive: true,
	}
	f.wallets[w.ID] = w
	return w
}

// walletByIdentity reads current state for assertions.
func (f *fakeRepo) walletByIdentity(userID uint, userType string) *models.Wallet {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.wallets {
		if w.UserID == userID && w.UserType == userType {
			cw := *w
			return &cw
		}
	}
	return nil
}
