package mocks

import (
	"context"
	"time"

	"github.com/codeclip-inc/lastly-auth/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc                  func(ctx context.Context, user *domain.User) error
	FindByPhoneFunc             func(ctx context.Context, phone string, provider domain.Provider) (*domain.User, error)
	FindByIDFunc                func(ctx context.Context, id int64) (*domain.User, error)
	FindByIDAndRefreshTokenFunc func(ctx context.Context, id int64, refreshToken string) (*domain.User, error)
	ExistsByPhoneFunc           func(ctx context.Context, phone string) (bool, error)
	UpdateLastLoginFunc         func(ctx context.Context, id int64, at time.Time) error
	RotateRefreshTokenFunc      func(ctx context.Context, id int64, current, next string) error
	ClearRefreshTokenFunc       func(ctx context.Context, id int64) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	// Default behavior: success
	return nil
}

// FindByPhone finds a user by phone number and provider
func (m *MockUserRepository) FindByPhone(ctx context.Context, phone string, provider domain.Provider) (*domain.User, error) {
	if m.FindByPhoneFunc != nil {
		return m.FindByPhoneFunc(ctx, phone, provider)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindByIDAndRefreshToken finds a user holding the given refresh token
func (m *MockUserRepository) FindByIDAndRefreshToken(ctx context.Context, id int64, refreshToken string) (*domain.User, error) {
	if m.FindByIDAndRefreshTokenFunc != nil {
		return m.FindByIDAndRefreshTokenFunc(ctx, id, refreshToken)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// ExistsByPhone reports whether any user has the phone number
func (m *MockUserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	if m.ExistsByPhoneFunc != nil {
		return m.ExistsByPhoneFunc(ctx, phone)
	}
	return false, nil
}

// UpdateLastLogin records a login time
func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, id, at)
	}
	return nil
}

// RotateRefreshToken replaces the stored refresh token
func (m *MockUserRepository) RotateRefreshToken(ctx context.Context, id int64, current, next string) error {
	if m.RotateRefreshTokenFunc != nil {
		return m.RotateRefreshTokenFunc(ctx, id, current, next)
	}
	return nil
}

// ClearRefreshToken removes the stored refresh token
func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, id int64) error {
	if m.ClearRefreshTokenFunc != nil {
		return m.ClearRefreshTokenFunc(ctx, id)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)
