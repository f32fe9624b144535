package domain

import "errors"

// Authentication errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUnauthorized      = errors.New("unauthorized access")
)

// OTP errors
var (
	ErrRateLimited         = errors.New("daily verification code limit exceeded")
	ErrResendTooSoon       = errors.New("verification code requested too soon")
	ErrDispatchFailed      = errors.New("failed to dispatch verification code")
	ErrCodeMismatch        = errors.New("verification code mismatch")
	ErrAuthHistoryNotFound = errors.New("no verification code issued")
)

// Token errors
var (
	ErrTokenInvalid = errors.New("invalid token")
)
