package wallet

import (
	"context"
	"fmt"
	"testing"

	"clinicpay/internal/models"
	"clinicpay/internal/services/commission"
	"clinicpay/internal/services/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	entries map[string]*models.Wallet
	hits    int
	misses  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*models.Wallet)}
}

func cacheKey(userID uint, userType string) string {
	return fmt.Sprintf("%s:%d", userType, userID)
}

func (c *fakeCache) GetWallet(ctx context.Context, userID uint, userType string) (*models.Wallet, bool, error) {
	w, ok := c.entries[cacheKey(userID, userType)]
	if !ok {
		c.misses++
		return nil, false, nil
	}
	c.hits++
	cw := *w
	return &cw, true, nil
}

func (c *fakeCache) SetWallet(ctx context.Context, wallet *models.Wallet) error {
	cw := *wallet
	c.entries[cacheKey(wallet.UserID, wallet.UserType)] = &cw
	return nil
}

func (c *fakeCache) InvalidateWallet(ctx context.Context, userID uint, userType string) error {
	delete(c.entries, cacheKey(userID, userType))
	return nil
}

func newCachedService(repo *fakeRepo, cache *fakeCache) Service {
	return NewService(repo, commission.NewResolver(repo), ledger.NewWriter(), nil, cache, Config{
		MinWithdrawal: 100,
	})
}

func TestGetBalance_WarmsCache(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeCache()
	svc := newCachedService(repo, cache)

	_, err := svc.GetBalance(context.Background(), 7, models.UserTypePatient)
	require.NoError(t, err)

	cached, ok := cache.entries[cacheKey(7, models.UserTypePatient)]
	require.True(t, ok)
	assert.Equal(t, int64(0), cached.Balance)
}

func TestDeposit_InvalidatesCache(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeCache()
	svc := newCachedService(repo, cache)

	_, err := svc.GetBalance(context.Background(), 7, models.UserTypePatient)
	require.NoError(t, err)
	require.Contains(t, cache.entries, cacheKey(7, models.UserTypePatient))

	_, err = svc.Deposit(context.Background(), DepositInput{
		UserID: 7, UserType: models.UserTypePatient, Amount: 100,
		PaymentMethod: models.PaymentMethodWallet,
	})
	require.NoError(t, err)

	// A stale balance must not survive a mutation.
	assert.NotContains(t, cache.entries, cacheKey(7, models.UserTypePatient))
}

func TestRejectWithdrawal_InvalidatesOwnerCache(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeCache()
	svc := newCachedService(repo, cache)

	_, err := svc.Deposit(context.Background(), DepositInput{
		UserID: 7, UserType: models.UserTypeDoctor, Amount: 1000,
		PaymentMethod: models.PaymentMethodWallet,
	})
	require.NoError(t, err)
	withdrawal, err := svc.Withdraw(context.Background(), WithdrawInput{
		UserID: 7, UserType: models.UserTypeDoctor, Amount: 100,
		Method:            models.WithdrawalMethodMobileMoney,
		MobileMoneyNumber: "22212345",
	})
	require.NoError(t, err)

	_, err = svc.GetBalance(context.Background(), 7, models.UserTypeDoctor)
	require.NoError(t, err)
	require.Contains(t, cache.entries, cacheKey(7, models.UserTypeDoctor))

	_, err = svc.RejectWithdrawal(context.Background(), withdrawal.RequestID)
	require.NoError(t, err)
	assert.NotContains(t, cache.entries, cacheKey(7, models.UserTypeDoctor))
}

func TestListTransactions_ServedFromCacheWhenWarm(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeCache()
	svc := newCachedService(repo, cache)

	_, err := svc.Deposit(context.Background(), DepositInput{
		UserID: 7, UserType: models.UserTypePatient, Amount: 100,
		PaymentMethod: models.PaymentMethodWallet,
	})
	require.NoError(t, err)

	// Cold: the miss falls through to storage and refills the cache.
	_, err = svc.ListTransactions(context.Background(), ListInput{UserID: 7, UserType: models.UserTypePatient})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.misses)

	// Warm: the wallet lookup is a hit.
	_, err = svc.ListTransactions(context.Background(), ListInput{UserID: 7, UserType: models.UserTypePatient})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
}
