package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/codeclip-inc/lastly-auth/domain"
	"github.com/codeclip-inc/lastly-auth/internal/clock"
	"github.com/codeclip-inc/lastly-auth/internal/logging"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	otpSvc      domain.OTPService
	tokenSvc    domain.TokenService
	auditLogger domain.AuditLogger
	clock       clock.Clock
	logger      *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	otpSvc domain.OTPService,
	tokenSvc domain.TokenService,
	auditLogger domain.AuditLogger,
	clk clock.Clock,
	logger *zap.Logger,
) domain.AuthService {
	if auditLogger == nil {
		auditLogger = logging.NewAuditLogger(logger)
	}
	return &AuthServiceImpl{
		userRepo:    userRepo,
		otpSvc:      otpSvc,
		tokenSvc:    tokenSvc,
		auditLogger: auditLogger,
		clock:       clk,
		logger:      logger.Named("auth"),
	}
}

// RequestCode implements domain.AuthService
func (s *AuthServiceImpl) RequestCode(ctx context.Context, phone string) (*domain.CodeRequestResult, error) {
	result, err := s.otpSvc.RequestCode(ctx, phone)
	if err != nil {
		eventType := domain.CodeRequestedEvent
		if errors.Is(err, domain.ErrDispatchFailed) {
			eventType = domain.CodeDispatchFailedEvent
		}
		s.audit(ctx, domain.NewAuditEvent(eventType, 0).WithPhone(phone).WithError(err))
		return nil, err
	}

	s.audit(ctx, domain.NewAuditEvent(domain.CodeRequestedEvent, 0).
		WithPhone(phone).
		WithMetadata("is_user", result.IsUser))
	return result, nil
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, phone, code string) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByPhone(ctx, phone, domain.ProviderPhone)
	if err != nil {
		s.audit(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, 0).WithPhone(phone).WithError(err))
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.otpSvc.VerifyCode(ctx, phone, code, domain.PurposeLogin); err != nil {
		s.audit(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, user.ID).WithPhone(phone).WithError(err))
		return nil, err
	}

	now := s.clock.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLoginDate = now

	tokens, err := s.issueTokens(ctx, user, "")
	if err != nil {
		return nil, err
	}

	s.audit(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.ID).WithPhone(phone))
	return &domain.AuthResult{User: user, Tokens: tokens}, nil
}

// Signup implements domain.AuthService
func (s *AuthServiceImpl) Signup(ctx context.Context, phone, code string) (*domain.AuthResult, error) {
	existing, err := s.userRepo.FindByPhone(ctx, phone, domain.ProviderPhone)
	if err == nil && existing != nil {
		s.audit(ctx, domain.NewAuditEvent(domain.UserSignupFailureEvent, existing.ID).
			WithPhone(phone).
			WithError(domain.ErrUserAlreadyExists))
		return nil, domain.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.otpSvc.VerifyCode(ctx, phone, code, domain.PurposeSignup); err != nil {
		s.audit(ctx, domain.NewAuditEvent(domain.UserSignupFailureEvent, 0).WithPhone(phone).WithError(err))
		return nil, err
	}

	now := s.clock.Now()
	user := &domain.User{
		Phone:         phone,
		Provider:      domain.ProviderPhone,
		Name:          phone,
		CreateDate:    now,
		LastLoginDate: now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user, "")
	if err != nil {
		return nil, err
	}

	s.audit(ctx, domain.NewAuditEvent(domain.UserSignupEvent, user.ID).WithPhone(phone))
	return &domain.AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh implements domain.AuthService. The presented token must be the one
// currently stored for the user; it is replaced by the new one.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	verification := s.tokenSvc.VerifyRefresh(refreshToken)
	if !verification.Valid() {
		s.audit(ctx, domain.NewAuditEvent(domain.TokenRefreshFailedEvent, 0).WithError(domain.ErrTokenInvalid))
		return nil, domain.ErrUnauthorized
	}

	userID, err := strconv.ParseInt(verification.Claims().Subject, 10, 64)
	if err != nil {
		s.audit(ctx, domain.NewAuditEvent(domain.TokenRefreshFailedEvent, 0).WithError(err))
		return nil, domain.ErrUnauthorized
	}

	user, err := s.userRepo.FindByIDAndRefreshToken(ctx, userID, refreshToken)
	if err != nil {
		s.audit(ctx, domain.NewAuditEvent(domain.TokenRefreshFailedEvent, userID).WithError(err))
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			s.audit(ctx, domain.NewAuditEvent(domain.TokenRefreshFailedEvent, userID).WithError(err))
		}
		return nil, err
	}

	s.audit(ctx, domain.NewAuditEvent(domain.TokenRefreshedEvent, user.ID))
	return &domain.AuthResult{User: user, Tokens: tokens}, nil
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, userID int64) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	s.audit(ctx, domain.NewAuditEvent(domain.UserLogoutEvent, userID))
	return nil
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// issueTokens mints a pair for user and stores its refresh token. A non-empty
// current makes the store conditional on current still being the stored value.
func (s *AuthServiceImpl) issueTokens(ctx context.Context, user *domain.User, current string) (domain.TokenPair, error) {
	tokens, err := s.tokenSvc.IssuePair(user.ID, user.Provider)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	if err := s.userRepo.RotateRefreshToken(ctx, user.ID, current, tokens.RefreshToken); err != nil {
		if current != "" && errors.Is(err, domain.ErrUserNotFound) {
			return domain.TokenPair{}, domain.ErrUnauthorized
		}
		return domain.TokenPair{}, fmt.Errorf("failed to store refresh token: %w", err)
	}

	refresh := tokens.RefreshToken
	user.RefreshToken = &refresh
	return tokens, nil
}

func (s *AuthServiceImpl) audit(ctx context.Context, event *domain.AuditEvent) {
	if err := s.auditLogger.LogEvent(ctx, event); err != nil {
		s.logger.Warn("failed to write audit event", zap.Error(err))
	}
}
