package mocks

import (
	"context"

	"github.com/codeclip-inc/lastly-auth/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	RequestCodeFunc func(ctx context.Context, phone string) (*domain.CodeRequestResult, error)
	VerifyCodeFunc  func(ctx context.Context, phone, code string, purpose domain.CodePurpose) error
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// RequestCode issues a code
func (m *MockOTPService) RequestCode(ctx context.Context, phone string) (*domain.CodeRequestResult, error) {
	if m.RequestCodeFunc != nil {
		return m.RequestCodeFunc(ctx, phone)
	}
	return &domain.CodeRequestResult{IsUser: false}, nil
}

// VerifyCode checks a code
func (m *MockOTPService) VerifyCode(ctx context.Context, phone, code string, purpose domain.CodePurpose) error {
	if m.VerifyCodeFunc != nil {
		return m.VerifyCodeFunc(ctx, phone, code, purpose)
	}
	// Default behavior: "123456" is the valid code
	if code == "123456" {
		return nil
	}
	return domain.ErrCodeMismatch
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
