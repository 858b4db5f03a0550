package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"atlaspay/internal/models"
)

// WalletCache is a read-through cache for wallet rows. Every balance
// mutation must invalidate the entry; stale balances are worse than misses.
type WalletCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewWalletCache(client *redis.Client, ttl time.Duration) *WalletCache {
	return &WalletCache{client: client, ttl: ttl}
}

func walletKey(id uuid.UUID) string {
	return fmt.Sprintf("wallet:%s", id)
}

// GetWallet returns the cached wallet, or (nil, nil) on a miss.
func (c *WalletCache) GetWallet(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	val, err := c.client.Get(ctx, walletKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached wallet: %w", err)
	}

	var wallet models.Wallet
	if err := json.Unmarshal([]byte(val), &wallet); err != nil {
		return nil, fmt.Errorf("decode cached wallet: %w", err)
	}
	return &wallet, nil
}

func (c *WalletCache) SetWallet(ctx context.Context, wallet *models.Wallet) error {
	data, err := json.Marshal(wallet)
	if err != nil {
		return fmt.Errorf("encode wallet: %w", err)
	}
	return c.client.Set(ctx, walletKey(wallet.ID), data, c.ttl).Err()
}

func (c *WalletCache) InvalidateWallet(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, walletKey(id)).Err()
}
