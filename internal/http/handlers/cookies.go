package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeclip-inc/lastly-auth/domain"
	"github.com/codeclip-inc/lastly-auth/internal/config"
	"github.com/codeclip-inc/lastly-auth/internal/http/middleware"
)

// CookieSettings controls the attributes of the token cookies
type CookieSettings struct {
	Secure        bool
	SameSite      http.SameSite
	RefreshMaxAge time.Duration
}

// NewCookieSettings derives cookie attributes from the environment. Only
// development relaxes Secure and SameSite.
func NewCookieSettings(cfg *config.Config) CookieSettings {
	settings := CookieSettings{
		Secure:        true,
		SameSite:      http.SameSiteNoneMode,
		RefreshMaxAge: time.Duration(cfg.JWT.RefreshCookieMaxAgeDays) * 24 * time.Hour,
	}
	if cfg.IsDevelopment() {
		settings.Secure = false
		settings.SameSite = http.SameSiteLaxMode
	}
	return settings
}

// setTokenCookies writes the access token as a session cookie and the refresh
// token with the configured max age. Both are HttpOnly.
func (s CookieSettings) setTokenCookies(c *gin.Context, tokens domain.TokenPair) {
	c.SetSameSite(s.SameSite)
	c.SetCookie(middleware.AccessTokenCookie, tokens.AccessToken, 0, "/", "", s.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, tokens.RefreshToken, int(s.RefreshMaxAge.Seconds()), "/", "", s.Secure, true)
}

func (s CookieSettings) clearTokenCookies(c *gin.Context) {
	c.SetSameSite(s.SameSite)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", s.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", s.Secure, true)
}
