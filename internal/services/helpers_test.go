package services

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/codeclip-inc/lastly-auth/domain"
	"github.com/codeclip-inc/lastly-auth/internal/clock"
	"github.com/codeclip-inc/lastly-auth/internal/mocks"
)

// testNow is 10:00 service time on 2024-03-01
var testNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func createTestOTPConfig(t *testing.T) OTPConfig {
	t.Helper()

	return OTPConfig{
		DailyLimit:      10,
		MessageTemplate: "[LastLy]\n인증번호는 %s 입니다.",
	}
}

// otpDeps groups the collaborators of an OTP service under test
type otpDeps struct {
	history  *mocks.MockAuthHistoryRepository
	users    *mocks.MockUserRepository
	notifier *mocks.MockNotificationService
	cooldown *mocks.MockCooldownStore
}

func newOTPDeps() *otpDeps {
	return &otpDeps{
		history:  mocks.NewMockAuthHistoryRepository(),
		users:    mocks.NewMockUserRepository(),
		notifier: mocks.NewMockNotificationService(),
		cooldown: mocks.NewMockCooldownStore(),
	}
}

// createOTPServiceForTest builds an OTP service with a fixed code generator
func createOTPServiceForTest(t *testing.T, deps *otpDeps, policy VerificationPolicy, config OTPConfig, code string) *OTPServiceImpl {
	t.Helper()

	svc := NewOTPService(deps.history, deps.users, deps.notifier, deps.cooldown, policy, clock.Fixed(testNow), zap.NewNop(), config).(*OTPServiceImpl)
	if code != "" {
		svc.generateCode = func() (string, error) { return code, nil }
	}
	return svc
}

func productionPolicyForTest(history domain.AuthHistoryRepository, now time.Time) ProductionPolicy {
	return ProductionPolicy{
		History:  history,
		Clock:    clock.Fixed(now),
		Validity: 5 * time.Minute,
	}
}

// createAuthServiceForTest creates an AuthService with mock dependencies for testing
func createAuthServiceForTest(t *testing.T,
	userRepo domain.UserRepository,
	otpSvc domain.OTPService,
	tokenSvc domain.TokenService,
	auditLogger domain.AuditLogger) domain.AuthService {
	t.Helper()

	// Use provided mocks or create defaults
	if userRepo == nil {
		userRepo = mocks.NewMockUserRepository()
	}
	if otpSvc == nil {
		otpSvc = mocks.NewMockOTPService()
	}
	if tokenSvc == nil {
		tokenSvc = mocks.NewMockTokenService()
	}
	if auditLogger == nil {
		auditLogger = mocks.NewMockAuditLogger()
	}

	return NewAuthService(userRepo, otpSvc, tokenSvc, auditLogger, clock.Fixed(testNow), zap.NewNop())
}

// createValidUser creates a valid user entity for testing
func createValidUser(t *testing.T) *domain.User {
	t.Helper()

	return &domain.User{
		ID:            1001,
		Phone:         "010-0000-0000",
		Provider:      domain.ProviderPhone,
		Name:          "010-0000-0000",
		CreateDate:    testNow.Add(-24 * time.Hour),
		LastLoginDate: testNow.Add(-24 * time.Hour),
	}
}

// assertAuthResult validates the structure and content of an AuthResult
func assertAuthResult(t *testing.T, result *domain.AuthResult, expectedUser *domain.User) {
	t.Helper()

	if result == nil {
		t.Fatal("AuthResult is nil")
	}
	if result.User == nil {
		t.Fatal("AuthResult.User is nil")
	}
	if result.User.ID != expectedUser.ID {
		t.Errorf("expected user ID %d, got %d", expectedUser.ID, result.User.ID)
	}
	if result.User.Phone != expectedUser.Phone {
		t.Errorf("expected user phone %s, got %s", expectedUser.Phone, result.User.Phone)
	}
	if result.Tokens.AccessToken == "" {
		t.Error("AccessToken is empty")
	}
	if result.Tokens.RefreshToken == "" {
		t.Error("RefreshToken is empty")
	}
}

// createTestContext creates a context for testing with timeout
func createTestContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
