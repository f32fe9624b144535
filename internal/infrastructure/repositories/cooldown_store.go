package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/codeclip-inc/lastly-auth/domain"
)

// CooldownStoreImpl implements domain.CooldownStore using Redis key expiry
type CooldownStoreImpl struct {
	client *redis.Client
	prefix string
}

// NewCooldownStore creates a new cooldown store
func NewCooldownStore(client *redis.Client) domain.CooldownStore {
	return &CooldownStoreImpl{
		client: client,
		prefix: "otp:res:",
	}
}

// Acquire implements domain.CooldownStore. It reports false while a previous
// acquisition for phone is still inside its window.
func (s *CooldownStoreImpl) Acquire(ctx context.Context, phone string, window time.Duration) (bool, error) {
	return s.client.SetNX(ctx, s.prefix+phone, 1, window).Result()
}

// Release implements domain.CooldownStore
func (s *CooldownStoreImpl) Release(ctx context.Context, phone string) error {
	return s.client.Del(ctx, s.prefix+phone).Err()
}
