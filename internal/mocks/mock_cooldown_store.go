package mocks

import (
	"context"
	"time"

	"github.com/codeclip-inc/lastly-auth/domain"
)

// MockCooldownStore implements domain.CooldownStore interface for testing
type MockCooldownStore struct {
	AcquireFunc func(ctx context.Context, phone string, window time.Duration) (bool, error)
	ReleaseFunc func(ctx context.Context, phone string) error

	ReleaseCalls int
}

// NewMockCooldownStore creates a new MockCooldownStore
func NewMockCooldownStore() *MockCooldownStore {
	return &MockCooldownStore{}
}

// Acquire takes the cooldown slot for phone
func (m *MockCooldownStore) Acquire(ctx context.Context, phone string, window time.Duration) (bool, error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, phone, window)
	}
	return true, nil
}

// Release frees the cooldown slot for phone
func (m *MockCooldownStore) Release(ctx context.Context, phone string) error {
	m.ReleaseCalls++
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, phone)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.CooldownStore = (*MockCooldownStore)(nil)
