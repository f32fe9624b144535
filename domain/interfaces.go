package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByPhone(ctx context.Context, phone string, provider Provider) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByIDAndRefreshToken(ctx context.Context, id int64, refreshToken string) (*User, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	// RotateRefreshToken replaces the stored refresh token only if it still
	// equals current. An empty current matches any stored value.
	RotateRefreshToken(ctx context.Context, id int64, current, next string) error
	ClearRefreshToken(ctx context.Context, id int64) error
}

// AuthHistoryRepository is the append-only log of issued codes
type AuthHistoryRepository interface {
	Create(ctx context.Context, history *AuthHistory) error
	CountBetween(ctx context.Context, phone string, from, to time.Time) (int64, error)
	FindLatest(ctx context.Context, phone string) (*AuthHistory, error)
}

// CooldownStore throttles back-to-back code requests for one phone number
type CooldownStore interface {
	Acquire(ctx context.Context, phone string, window time.Duration) (bool, error)
	Release(ctx context.Context, phone string) error
}

// AuthService defines authentication business logic
type AuthService interface {
	RequestCode(ctx context.Context, phone string) (*CodeRequestResult, error)
	Login(ctx context.Context, phone, code string) (*AuthResult, error)
	Signup(ctx context.Context, phone, code string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, userID int64) error
	GetUserProfile(ctx context.Context, userID int64) (*User, error)
}

// OTPService defines OTP operations
type OTPService interface {
	RequestCode(ctx context.Context, phone string) (*CodeRequestResult, error)
	VerifyCode(ctx context.Context, phone, code string, purpose CodePurpose) error
}

// TokenService defines token operations
type TokenService interface {
	IssueAccess(userID int64, provider Provider) (string, error)
	IssueRefresh(userID int64, provider Provider) (string, error)
	IssuePair(userID int64, provider Provider) (TokenPair, error)
	VerifyAccess(token string) TokenVerification
	VerifyRefresh(token string) TokenVerification
	Decode(token string) *TokenClaims
}

// NotificationService defines notification operations
type NotificationService interface {
	SendSMS(ctx context.Context, to, message string) error
}

// PolicyService decides whether a provider may call a protected route
type PolicyService interface {
	CheckPermission(subject, resource, action string) (bool, error)
	AddPolicy(subject, resource, action string) error
	GetPolicies() [][]string
}

// CasbinEnforcer is the subset of the casbin enforcer the policy service uses
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
}
