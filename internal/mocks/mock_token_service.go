package mocks

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/codeclip-inc/lastly-auth/domain"
)

// MockTokenService implements domain.TokenService interface for testing.
// Default tokens look like "access:<id>:<provider>" and "refresh:<id>:<provider>".
type MockTokenService struct {
	IssueAccessFunc   func(userID int64, provider domain.Provider) (string, error)
	IssueRefreshFunc  func(userID int64, provider domain.Provider) (string, error)
	IssuePairFunc     func(userID int64, provider domain.Provider) (domain.TokenPair, error)
	VerifyAccessFunc  func(token string) domain.TokenVerification
	VerifyRefreshFunc func(token string) domain.TokenVerification
	DecodeFunc        func(token string) *domain.TokenClaims
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// IssueAccess issues an access token
func (m *MockTokenService) IssueAccess(userID int64, provider domain.Provider) (string, error) {
	if m.IssueAccessFunc != nil {
		return m.IssueAccessFunc(userID, provider)
	}
	return fmt.Sprintf("access:%d:%s", userID, provider), nil
}

// IssueRefresh issues a refresh token
func (m *MockTokenService) IssueRefresh(userID int64, provider domain.Provider) (string, error) {
	if m.IssueRefreshFunc != nil {
		return m.IssueRefreshFunc(userID, provider)
	}
	return fmt.Sprintf("refresh:%d:%s", userID, provider), nil
}

// IssuePair issues both tokens
func (m *MockTokenService) IssuePair(userID int64, provider domain.Provider) (domain.TokenPair, error) {
	if m.IssuePairFunc != nil {
		return m.IssuePairFunc(userID, provider)
	}
	access, err := m.IssueAccess(userID, provider)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := m.IssueRefresh(userID, provider)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess accepts tokens shaped like IssueAccess output
func (m *MockTokenService) VerifyAccess(token string) domain.TokenVerification {
	if m.VerifyAccessFunc != nil {
		return m.VerifyAccessFunc(token)
	}
	return parseMockToken("access", token)
}

// VerifyRefresh accepts tokens shaped like IssueRefresh output
func (m *MockTokenService) VerifyRefresh(token string) domain.TokenVerification {
	if m.VerifyRefreshFunc != nil {
		return m.VerifyRefreshFunc(token)
	}
	return parseMockToken("refresh", token)
}

// Decode returns the claims of either token kind without checks
func (m *MockTokenService) Decode(token string) *domain.TokenClaims {
	if m.DecodeFunc != nil {
		return m.DecodeFunc(token)
	}
	for _, kind := range []string{"access", "refresh"} {
		if v := parseMockToken(kind, token); v.Valid() {
			return v.Claims()
		}
	}
	return nil
}

func parseMockToken(kind, token string) domain.TokenVerification {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != kind {
		return domain.InvalidToken()
	}
	if _, err := strconv.ParseInt(parts[1], 10, 64); err != nil {
		return domain.InvalidToken()
	}
	now := time.Now().Unix()
	return domain.ValidToken(domain.TokenClaims{
		Subject:   parts[1],
		Provider:  domain.Provider(parts[2]),
		IssuedAt:  now,
		ExpiresAt: now + 900,
	})
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
