package cache

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPStore issues and verifies single-use numeric codes for transfer
// confirmation. Codes live in redis under the issuing user's id and expire
// after the configured TTL.
type OTPStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOTPStore(client *redis.Client, ttl time.Duration) *OTPStore {
	return &OTPStore{client: client, ttl: ttl}
}

func otpKey(userID uint) string {
	return fmt.Sprintf("otp:%d", userID)
}

// Issue generates a fresh 6-digit code for the user, replacing any
// outstanding one.
func (s *OTPStore) Issue(ctx context.Context, userID uint) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	if err := s.client.Set(ctx, otpKey(userID), code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return code, nil
}

// Verify checks the code and consumes it on success. A wrong or expired
// code returns false without error.
func (s *OTPStore) Verify(ctx context.Context, userID uint, code string) (bool, error) {
	key := otpKey(userID)
	stored, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("get otp: %w", err)
	}
	if stored != code {
		return false, nil
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return true, nil
}
