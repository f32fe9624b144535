package httpx

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/codeclip-inc/lastly-auth/domain"
	"github.com/codeclip-inc/lastly-auth/internal/config"
	"github.com/codeclip-inc/lastly-auth/internal/http/handlers"
	"github.com/codeclip-inc/lastly-auth/internal/http/middleware"
	"github.com/codeclip-inc/lastly-auth/internal/infrastructure/auth"
	"github.com/codeclip-inc/lastly-auth/internal/mocks"
	"github.com/codeclip-inc/lastly-auth/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func createRouterForTest(t *testing.T, authSvc domain.AuthService) *gin.Engine {
	t.Helper()
	cfg := &config.Config{App: config.AppConfig{
		ServiceName:        "lastly-auth-test",
		CORSAllowedOrigins: []string{"https://app.example.com"},
	}}
	return buildRouterForTest(t, cfg, authSvc, nil)
}

func buildRouterForTest(t *testing.T, cfg *config.Config, authSvc domain.AuthService, rl *middleware.RateLimiter) *gin.Engine {
	t.Helper()

	cas, err := auth.NewInMemoryCasbinService()
	require.NoError(t, err)
	policySvc := services.NewPolicyService(cas.E)
	require.NoError(t, services.SeedPolicies(policySvc, DefaultPolicies))

	ah := handlers.NewAuthHandlers(authSvc, handlers.CookieSettings{RefreshMaxAge: time.Hour})
	return BuildRouter(cfg, zap.NewNop(), ah,
		middleware.NewAuthMW(mocks.NewMockTokenService()),
		middleware.NewCasbinMW(policySvc),
		rl,
	)
}

func TestBuildRouter(t *testing.T) {
	authSvc := mocks.NewMockAuthService()
	authSvc.GetUserProfileFunc = func(ctx context.Context, userID int64) (*domain.User, error) {
		return &domain.User{ID: userID, Phone: "01012345678", Provider: domain.ProviderPhone}, nil
	}
	r := createRouterForTest(t, authSvc)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		token          string
		expectedStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
		{name: "request code is public", method: http.MethodPost, path: "/auth/request-code", body: `{"phoneNumber":"01012345678"}`, expectedStatus: http.StatusCreated},
		{name: "login is public", method: http.MethodPost, path: "/auth/phone/login", body: `{"phoneNumber":"01012345678","code":"123456"}`, expectedStatus: http.StatusCreated},
		{name: "signup is public", method: http.MethodPost, path: "/auth/phone/signup", body: `{"phoneNumber":"01012345678","code":"123456"}`, expectedStatus: http.StatusCreated},
		{name: "refresh is public", method: http.MethodPost, path: "/auth/refresh", body: `{"refreshToken":"r"}`, expectedStatus: http.StatusOK},
		{name: "profile without token", method: http.MethodGet, path: "/users/me", expectedStatus: http.StatusUnauthorized},
		{name: "profile with refresh token", method: http.MethodGet, path: "/users/me", token: "refresh:1:PHONE", expectedStatus: http.StatusUnauthorized},
		{name: "profile for phone user", method: http.MethodGet, path: "/users/me", token: "access:1:PHONE", expectedStatus: http.StatusOK},
		{name: "profile for unknown provider", method: http.MethodGet, path: "/users/me", token: "access:1:KAKAO", expectedStatus: http.StatusForbidden},
		{name: "logout for phone user", method: http.MethodPost, path: "/auth/logout", token: "access:1:PHONE", expectedStatus: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/admin/policies", token: "access:1:PHONE", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestBuildRouter_CORSPreflight(t *testing.T) {
	r := createRouterForTest(t, mocks.NewMockAuthService())

	req := httptest.NewRequest(http.MethodOptions, "/auth/request-code", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewBufferString(`{"refreshToken":"r"}`))
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestBuildRouter_RateLimitKeysOnPeerAddress(t *testing.T) {
	tests := []struct {
		name           string
		trustedProxies []string
		expectedStatus []int
	}{
		{
			name:           "forwarded header ignored without trusted proxies",
			expectedStatus: []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusTooManyRequests},
		},
		{
			name:           "forwarded header honoured from a trusted proxy",
			trustedProxies: []string{"192.0.2.0/24"},
			expectedStatus: []int{http.StatusOK, http.StatusOK, http.StatusOK, http.StatusOK, http.StatusOK},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{App: config.AppConfig{
				ServiceName:    "lastly-auth-test",
				TrustedProxies: tt.trustedProxies,
			}}
			r := buildRouterForTest(t, cfg, mocks.NewMockAuthService(), middleware.NewRateLimiter(1))

			for i, want := range tt.expectedStatus {
				req := httptest.NewRequest(http.MethodGet, "/health", nil)
				req.RemoteAddr = "192.0.2.1:1234"
				req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)
				assert.Equal(t, want, w.Code, "request %d", i+1)
			}
		})
	}
}
