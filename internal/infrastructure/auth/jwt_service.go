package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/codeclip-inc/lastly-auth/domain"
	"github.com/codeclip-inc/lastly-auth/internal/config"
)

// claims is the wire form of domain.TokenClaims
type claims struct {
	Provider domain.Provider `json:"provider,omitempty"`
	jwt.RegisteredClaims
}

// JWTServiceImpl implements domain.TokenService with HS256 and two distinct secrets
type JWTServiceImpl struct {
	cfg *config.JWTConfig
	now func() time.Time
}

// NewJWTService creates a new JWT service. Secrets and lifetimes are read from
// cfg on every call.
func NewJWTService(cfg *config.JWTConfig) domain.TokenService {
	return &JWTServiceImpl{cfg: cfg, now: time.Now}
}

// IssueAccess implements domain.TokenService
func (j *JWTServiceImpl) IssueAccess(userID int64, provider domain.Provider) (string, error) {
	return j.sign(userID, provider, j.cfg.AccessSecret, j.cfg.AccessExpiresIn)
}

// IssueRefresh implements domain.TokenService
func (j *JWTServiceImpl) IssueRefresh(userID int64, provider domain.Provider) (string, error) {
	expiresIn := j.cfg.RefreshExpiresIn
	if expiresIn == "" {
		expiresIn = "1d"
	}
	return j.sign(userID, provider, j.cfg.RefreshSecret, expiresIn)
}

// IssuePair implements domain.TokenService
func (j *JWTServiceImpl) IssuePair(userID int64, provider domain.Provider) (domain.TokenPair, error) {
	access, err := j.IssueAccess(userID, provider)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := j.IssueRefresh(userID, provider)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess implements domain.TokenService
func (j *JWTServiceImpl) VerifyAccess(token string) domain.TokenVerification {
	return j.verify(token, j.cfg.AccessSecret)
}

// VerifyRefresh implements domain.TokenService
func (j *JWTServiceImpl) VerifyRefresh(token string) domain.TokenVerification {
	return j.verify(token, j.cfg.RefreshSecret)
}

// Decode implements domain.TokenService. The signature and expiry are NOT checked.
func (j *JWTServiceImpl) Decode(token string) *domain.TokenClaims {
	var c claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return nil
	}
	out := toDomain(&c)
	return &out
}

func (j *JWTServiceImpl) sign(userID int64, provider domain.Provider, secret, expiresIn string) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is not configured")
	}
	ttl, err := config.ParseExpiresIn(expiresIn)
	if err != nil {
		return "", err
	}

	now := j.now()
	c := claims{
		Provider: provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(), // keeps every issued token distinct
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString([]byte(secret))
}

func (j *JWTServiceImpl) verify(tokenString, secret string) domain.TokenVerification {
	if tokenString == "" || secret == "" {
		return domain.InvalidToken()
	}

	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil || !token.Valid || c.Subject == "" {
		return domain.InvalidToken()
	}

	return domain.ValidToken(toDomain(&c))
}

func toDomain(c *claims) domain.TokenClaims {
	out := domain.TokenClaims{
		Subject:  c.Subject,
		Provider: c.Provider,
		ID:       c.ID,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Unix()
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Unix()
	}
	return out
}
