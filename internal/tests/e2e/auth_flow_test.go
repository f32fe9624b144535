package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeclip-inc/lastly-auth/domain"
)

func call(t *testing.T, h http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeTokens(t *testing.T, w *httptest.ResponseRecorder) domain.TokenPair {
	t.Helper()
	var pair domain.TokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	return pair
}

func TestCompleteAuthenticationFlow(t *testing.T) {
	aligo := NewFakeAligo(t)
	c := globalSuite.NewContainer(t, ProductionConfig(aligo))
	r := c.Router()
	phone := globalSuite.Phone(1)

	w := call(t, r, http.MethodPost, "/auth/request-code", map[string]string{"phoneNumber": phone}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"isUser":false}`, w.Body.String())
	code := aligo.LastCode(phone)
	require.Len(t, code, 6)

	wrong := "100000"
	if code == wrong {
		wrong = "100001"
	}
	w = call(t, r, http.MethodPost, "/auth/phone/signup", map[string]string{"phoneNumber": phone, "code": wrong}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(t, r, http.MethodPost, "/auth/phone/signup", map[string]string{"phoneNumber": phone, "code": code}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decodeTokens(t, w)

	w = call(t, r, http.MethodGet, "/users/me", nil, first.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(t, r, http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": first.RefreshToken}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	second := decodeTokens(t, w)

	// the rotated-out token is dead
	w = call(t, r, http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": first.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(t, r, http.MethodPost, "/auth/phone/login", map[string]string{"phoneNumber": phone, "code": code}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	third := decodeTokens(t, w)

	w = call(t, r, http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": second.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(t, r, http.MethodPost, "/auth/logout", nil, third.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(t, r, http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": third.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthFlowErrorScenarios(t *testing.T) {
	aligo := NewFakeAligo(t)
	c := globalSuite.NewContainer(t, ProductionConfig(aligo))
	r := c.Router()

	t.Run("login for unknown phone", func(t *testing.T) {
		w := call(t, r, http.MethodPost, "/auth/phone/login", map[string]string{"phoneNumber": globalSuite.Phone(2), "code": "123456"}, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("resend inside the cooldown window", func(t *testing.T) {
		if globalSuite.RedisAddr == "" {
			t.Skip("REDIS_ADDR not set")
		}
		phone := globalSuite.Phone(3)
		w := call(t, r, http.MethodPost, "/auth/request-code", map[string]string{"phoneNumber": phone}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = call(t, r, http.MethodPost, "/auth/request-code", map[string]string{"phoneNumber": phone}, "")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("invalid bearer token", func(t *testing.T) {
		w := call(t, r, http.MethodGet, "/users/me", nil, "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"invalid or expired token"}`, w.Body.String())
	})
}
