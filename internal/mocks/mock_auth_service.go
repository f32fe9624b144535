package mocks

import (
	"context"
	"time"

	"github.com/codeclip-inc/lastly-auth/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RequestCodeFunc    func(ctx context.Context, phone string) (*domain.CodeRequestResult, error)
	LoginFunc          func(ctx context.Context, phone, code string) (*domain.AuthResult, error)
	SignupFunc         func(ctx context.Context, phone, code string) (*domain.AuthResult, error)
	RefreshFunc        func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	LogoutFunc         func(ctx context.Context, userID int64) error
	GetUserProfileFunc func(ctx context.Context, userID int64) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func mockAuthResult(phone string) *domain.AuthResult {
	now := time.Now()
	return &domain.AuthResult{
		User: &domain.User{
			ID:            1,
			Phone:         phone,
			Provider:      domain.ProviderPhone,
			Name:          phone,
			CreateDate:    now,
			LastLoginDate: now,
		},
		Tokens: domain.TokenPair{
			AccessToken:  "mock_access_token",
			RefreshToken: "mock_refresh_token",
		},
	}
}

// RequestCode issues a verification code
func (m *MockAuthService) RequestCode(ctx context.Context, phone string) (*domain.CodeRequestResult, error) {
	if m.RequestCodeFunc != nil {
		return m.RequestCodeFunc(ctx, phone)
	}
	return &domain.CodeRequestResult{IsUser: false}, nil
}

// Login authenticates an existing user
func (m *MockAuthService) Login(ctx context.Context, phone, code string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, phone, code)
	}
	return mockAuthResult(phone), nil
}

// Signup registers a new user
func (m *MockAuthService) Signup(ctx context.Context, phone, code string) (*domain.AuthResult, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, phone, code)
	}
	return mockAuthResult(phone), nil
}

// Refresh rotates a refresh token
func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	if refreshToken == "" {
		return nil, domain.ErrUnauthorized
	}
	return mockAuthResult("01012345678"), nil
}

// Logout revokes the stored refresh token
func (m *MockAuthService) Logout(ctx context.Context, userID int64) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, userID)
	}
	return nil
}

// GetUserProfile loads a user
func (m *MockAuthService) GetUserProfile(ctx context.Context, userID int64) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
