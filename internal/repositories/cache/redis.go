// Package cache provides the Redis-backed read cache for wallet lookups.
// Cached values are informational only; the atomic mutators always read the
// locked database row and invalidate the cache on commit.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clinicpay/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewRedisClient(cfg *RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// WalletCache caches wallet rows by identity pair.
type WalletCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewWalletCache(client *redis.Client, ttl time.Duration) *WalletCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &WalletCache{client: client, ttl: ttl}
}

func walletKey(userID uint, userType string) string {
	return fmt.Sprintf("wallet:%s:%d", userType, userID)
}

// GetWallet returns the cached wallet or (nil, false, nil) on a miss.
func (c *WalletCache) GetWallet(ctx context.Context, userID uint, userType string) (*models.Wallet, bool, error) {
	data, err := c.client.Get(ctx, walletKey(userID, userType)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached wallet: %w", err)
	}

	var wallet models.Wallet
	if err := json.Unmarshal(data, &wallet); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached wallet: %w", err)
	}
	return &wallet, true, nil
}

func (c *WalletCache) SetWallet(ctx context.Context, wallet *models.Wallet) error {
	data, err := json.Marshal(wallet)
	if err != nil {
		return fmt.Errorf("failed to marshal wallet: %w", err)
	}
	return c.client.Set(ctx, walletKey(wallet.UserID, wallet.UserType), data, c.ttl).Err()
}

func (c *WalletCache) InvalidateWallet(ctx context.Context, userID uint, userType string) error {
	return c.client.Del(ctx, walletKey(userID, userType)).Err()
}

func (c *WalletCache) HealthCheck(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

func (c *WalletCache) Close() error {
	return c.client.Close()
}
