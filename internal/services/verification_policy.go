package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/codeclip-inc/lastly-auth/domain"
	"github.com/codeclip-inc/lastly-auth/internal/clock"
	"github.com/codeclip-inc/lastly-auth/internal/config"
)

// DevelopmentCode is the only code accepted under DevelopmentPolicy
const DevelopmentCode = "111111"

// VerificationPolicy holds every behaviour that differs between development
// and production deployments.
type VerificationPolicy interface {
	Name() string
	LimitsDailyRequests() bool
	DispatchesSMS() bool
	MatchCode(ctx context.Context, phone, code string, purpose domain.CodePurpose) error
}

// DevelopmentPolicy skips rate limits and SMS and accepts DevelopmentCode only
type DevelopmentPolicy struct{}

func (DevelopmentPolicy) Name() string              { return config.EnvDevelop }
func (DevelopmentPolicy) LimitsDailyRequests() bool { return false }
func (DevelopmentPolicy) DispatchesSMS() bool       { return false }

func (DevelopmentPolicy) MatchCode(_ context.Context, _ string, code string, _ domain.CodePurpose) error {
	if subtle.ConstantTimeCompare([]byte(code), []byte(DevelopmentCode)) != 1 {
		return domain.ErrCodeMismatch
	}
	return nil
}

// ProductionPolicy matches codes against the latest issued AuthHistory row
type ProductionPolicy struct {
	History  domain.AuthHistoryRepository
	Clock    clock.Clock
	Validity time.Duration
}

func (ProductionPolicy) Name() string              { return config.EnvProduction }
func (ProductionPolicy) LimitsDailyRequests() bool { return true }
func (ProductionPolicy) DispatchesSMS() bool       { return true }

// MatchCode requires the latest code for phone. Signup additionally requires
// that code to be no older than Validity at the time of the call.
func (p ProductionPolicy) MatchCode(ctx context.Context, phone, code string, purpose domain.CodePurpose) error {
	latest, err := p.History.FindLatest(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrAuthHistoryNotFound) {
			return domain.ErrCodeMismatch
		}
		return fmt.Errorf("failed to load latest verification code: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(latest.Code), []byte(code)) != 1 {
		return domain.ErrCodeMismatch
	}

	if purpose == domain.PurposeSignup && p.Clock.Now().Sub(latest.CreateDate) > p.Validity {
		return domain.ErrCodeMismatch
	}
	return nil
}

// PolicyFor picks the policy for cfg. Anything but an explicit develop
// environment gets ProductionPolicy.
func PolicyFor(cfg *config.Config, history domain.AuthHistoryRepository, clk clock.Clock) VerificationPolicy {
	if cfg.IsDevelopment() {
		return DevelopmentPolicy{}
	}
	return ProductionPolicy{
		History:  history,
		Clock:    clk,
		Validity: cfg.OTP.Validity,
	}
}
