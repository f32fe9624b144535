package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeclip-inc/lastly-auth/domain"
	"github.com/codeclip-inc/lastly-auth/internal/infrastructure/auth"
)

// CasbinMW checks the token's provider against the route policies
type CasbinMW struct {
	policySvc domain.PolicyService
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(policySvc domain.PolicyService) *CasbinMW {
	return &CasbinMW{policySvc: policySvc}
}

// Enforce returns the casbin authorization middleware. It must run after
// AuthMiddleware.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		provider, ok := ProviderFrom(c)
		if !ok || provider == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		allowed, err := mw.policySvc.CheckPermission(auth.ProviderSubject(string(provider)), c.Request.URL.Path, c.Request.Method)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authorization check failed"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		c.Next()
	})
}
