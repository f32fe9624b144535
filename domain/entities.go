package domain

import "time"

// Provider identifies how a user signed up
type Provider string

const (
	ProviderPhone Provider = "PHONE"
)

// User represents a user in the system
type User struct {
	ID            int64
	Phone         string
	Provider      Provider
	Name          string
	CreateDate    time.Time
	LastLoginDate time.Time
	RefreshToken  *string
}

// AuthHistory is an issued one-time code. Rows are never mutated.
type AuthHistory struct {
	ID          int64
	PhoneNumber string
	Code        string
	CreateDate  time.Time
}

// CodePurpose tells the verification policy which flow is consuming a code
type CodePurpose string

const (
	PurposeLogin  CodePurpose = "login"
	PurposeSignup CodePurpose = "signup"
)

// CodeRequestResult is returned to the client after a code was issued
type CodeRequestResult struct {
	IsUser bool `json:"isUser"`
}

// TokenPair holds a freshly minted access/refresh token pair
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User   *User
	Tokens TokenPair
}
