package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codeclip-inc/lastly-auth/domain"
)

const (
	// AccessTokenCookie and RefreshTokenCookie name the token cookies
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	ContextUserID   = "user_id"
	ContextProvider = "provider"
)

// AuthMiddleware creates authentication middleware. The token is taken from
// the Authorization header, then from the access token cookie. Every
// verification failure gets the same response.
func AuthMiddleware(tokenSvc domain.TokenService) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		verification := tokenSvc.VerifyAccess(token)
		if !verification.Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		claims := verification.Claims()
		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		// Set user information in context
		c.Set(ContextUserID, userID)
		c.Set(ContextProvider, claims.Provider)

		c.Next()
	})
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

// UserIDFrom returns the authenticated user id set by AuthMiddleware
func UserIDFrom(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// ProviderFrom returns the token provider set by AuthMiddleware
func ProviderFrom(c *gin.Context) (domain.Provider, bool) {
	v, ok := c.Get(ContextProvider)
	if !ok {
		return "", false
	}
	p, ok := v.(domain.Provider)
	return p, ok
}
