package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codeclip-inc/lastly-auth/domain"
	"github.com/codeclip-inc/lastly-auth/internal/http/middleware"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
	cookies CookieSettings
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, cookies CookieSettings) *AuthHandlers {
	return &AuthHandlers{
		authSvc: authSvc,
		cookies: cookies,
	}
}

// RequestCodeRequest represents a verification code request
type RequestCodeRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// PhoneAuthRequest represents a login or signup request
type PhoneAuthRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Code        string `json:"code" binding:"required"`
}

// RefreshRequest represents token refresh request. The token may also come
// from the refresh token cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RequestCode issues a verification code by SMS
func (h *AuthHandlers) RequestCode(c *gin.Context) {
	var req RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.RequestCode(c.Request.Context(), strings.TrimSpace(req.PhoneNumber))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrRateLimited.Error()})
		case errors.Is(err, domain.ErrResendTooSoon):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": domain.ErrResendTooSoon.Error()})
		case errors.Is(err, domain.ErrDispatchFailed):
			c.JSON(http.StatusInternalServerError, gin.H{"error": domain.ErrDispatchFailed.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue verification code"})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// PhoneLogin authenticates an existing user with a verification code
func (h *AuthHandlers) PhoneLogin(c *gin.Context) {
	var req PhoneAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), strings.TrimSpace(req.PhoneNumber), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrUserNotFound.Error()})
		case errors.Is(err, domain.ErrCodeMismatch):
			c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrCodeMismatch.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		}
		return
	}

	h.cookies.setTokenCookies(c, result.Tokens)
	c.JSON(http.StatusCreated, result.Tokens)
}

// PhoneSignup registers a new user with a verification code
func (h *AuthHandlers) PhoneSignup(c *gin.Context) {
	var req PhoneAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.Signup(c.Request.Context(), strings.TrimSpace(req.PhoneNumber), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrUserAlreadyExists.Error()})
		case errors.Is(err, domain.ErrCodeMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrCodeMismatch.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		}
		return
	}

	h.cookies.setTokenCookies(c, result.Tokens)
	c.JSON(http.StatusCreated, result.Tokens)
}

// Refresh handles token refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	token := strings.TrimSpace(req.RefreshToken)
	if token == "" {
		token, _ = c.Cookie(middleware.RefreshTokenCookie)
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthorized.Error()})
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthorized.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token refresh failed"})
		return
	}

	h.cookies.setTokenCookies(c, result.Tokens)
	c.JSON(http.StatusOK, result.Tokens)
}

// Logout revokes the stored refresh token (requires authentication)
func (h *AuthHandlers) Logout(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthorized.Error()})
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}

	h.cookies.clearTokenCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me handles getting user profile (requires authentication)
func (h *AuthHandlers) Me(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthorized.Error()})
		return
	}

	user, err := h.authSvc.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrUserNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user profile"})
		return
	}

	// ids are strings so JavaScript clients keep every digit
	c.JSON(http.StatusOK, gin.H{
		"id":            strconv.FormatInt(user.ID, 10),
		"phoneNumber":   user.Phone,
		"provider":      user.Provider,
		"name":          user.Name,
		"createDate":    user.CreateDate,
		"lastLoginDate": user.LastLoginDate,
	})
}
