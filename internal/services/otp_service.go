package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/codeclip-inc/lastly-auth/domain"
	"github.com/codeclip-inc/lastly-auth/internal/clock"
	"github.com/codeclip-inc/lastly-auth/internal/logging"
)

const (
	minCode = 100000
	maxCode = 999999
)

// OTPServiceImpl implements domain.OTPService on top of the AuthHistory log
type OTPServiceImpl struct {
	historyRepo     domain.AuthHistoryRepository
	userRepo        domain.UserRepository
	notificationSvc domain.NotificationService
	cooldown        domain.CooldownStore
	policy          VerificationPolicy
	clock           clock.Clock
	logger          *zap.Logger
	config          OTPConfig

	generateCode func() (string, error)
}

type OTPConfig struct {
	DailyLimit      int
	ResendWindow    time.Duration
	MessageTemplate string
}

// NewOTPService creates a new OTP service. cooldown may be nil.
func NewOTPService(
	historyRepo domain.AuthHistoryRepository,
	userRepo domain.UserRepository,
	notificationSvc domain.NotificationService,
	cooldown domain.CooldownStore,
	policy VerificationPolicy,
	clk clock.Clock,
	logger *zap.Logger,
	config OTPConfig,
) domain.OTPService {
	return &OTPServiceImpl{
		historyRepo:     historyRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		cooldown:        cooldown,
		policy:          policy,
		clock:           clk,
		logger:          logger.Named("otp"),
		config:          config,
		generateCode:    generateSecureCode,
	}
}

// RequestCode implements domain.OTPService
func (s *OTPServiceImpl) RequestCode(ctx context.Context, phone string) (*domain.CodeRequestResult, error) {
	throttled := false
	if s.policy.LimitsDailyRequests() {
		if err := s.checkDailyLimit(ctx, phone); err != nil {
			return nil, err
		}

		var err error
		throttled, err = s.acquireCooldown(ctx, phone)
		if err != nil {
			return nil, err
		}
	}

	code, err := s.generateCode()
	if err != nil {
		s.releaseCooldown(ctx, phone, throttled)
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}

	if s.policy.DispatchesSMS() {
		if err := s.notificationSvc.SendSMS(ctx, phone, s.message(code)); err != nil {
			s.logger.Error("verification code dispatch failed",
				zap.String("phone", logging.MaskPhone(phone)),
				zap.Error(err))
			s.releaseCooldown(ctx, phone, throttled)
			return nil, fmt.Errorf("%w: %w", domain.ErrDispatchFailed, err)
		}
	}

	history := &domain.AuthHistory{
		PhoneNumber: phone,
		Code:        code,
		CreateDate:  s.clock.Now(),
	}
	if err := s.historyRepo.Create(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to record verification code: %w", err)
	}

	isUser, err := s.userRepo.ExistsByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return &domain.CodeRequestResult{IsUser: isUser}, nil
}

// VerifyCode implements domain.OTPService
func (s *OTPServiceImpl) VerifyCode(ctx context.Context, phone, code string, purpose domain.CodePurpose) error {
	return s.policy.MatchCode(ctx, phone, code, purpose)
}

func (s *OTPServiceImpl) checkDailyLimit(ctx context.Context, phone string) error {
	from, to := clock.Today(s.clock)
	count, err := s.historyRepo.CountBetween(ctx, phone, from, to)
	if err != nil {
		return fmt.Errorf("failed to count verification codes: %w", err)
	}
	if count >= int64(s.config.DailyLimit) {
		return domain.ErrRateLimited
	}
	return nil
}

// acquireCooldown reports whether a cooldown slot was taken. Store errors are
// logged and the request goes through.
func (s *OTPServiceImpl) acquireCooldown(ctx context.Context, phone string) (bool, error) {
	if s.cooldown == nil || s.config.ResendWindow <= 0 {
		return false, nil
	}

	ok, err := s.cooldown.Acquire(ctx, phone, s.config.ResendWindow)
	if err != nil {
		s.logger.Warn("resend cooldown unavailable", zap.Error(err))
		return false, nil
	}
	if !ok {
		return false, domain.ErrResendTooSoon
	}
	return true, nil
}

func (s *OTPServiceImpl) releaseCooldown(ctx context.Context, phone string, held bool) {
	if !held {
		return
	}
	if err := s.cooldown.Release(ctx, phone); err != nil {
		s.logger.Warn("failed to release resend cooldown", zap.Error(err))
	}
}

func (s *OTPServiceImpl) message(code string) string {
	// the template is operator text, not a format string
	if strings.Contains(s.config.MessageTemplate, "%s") {
		return strings.Replace(s.config.MessageTemplate, "%s", code, 1)
	}
	return s.config.MessageTemplate + code
}

// generateSecureCode draws a uniform six digit code from crypto/rand
func generateSecureCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxCode-minCode+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+minCode, 10), nil
}
