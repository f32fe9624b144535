package httpx

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/codeclip-inc/lastly-auth/domain"
	"github.com/codeclip-inc/lastly-auth/internal/config"
	"github.com/codeclip-inc/lastly-auth/internal/http/handlers"
	"github.com/codeclip-inc/lastly-auth/internal/http/middleware"
	"github.com/codeclip-inc/lastly-auth/internal/infrastructure/auth"
)

// DefaultPolicies grants phone users the protected routes
var DefaultPolicies = [][3]string{
	{auth.ProviderSubject(string(domain.ProviderPhone)), "/users/me", "GET"},
	{auth.ProviderSubject(string(domain.ProviderPhone)), "/auth/logout", "POST"},
}

func BuildRouter(cfg *config.Config, logger *zap.Logger, ah *handlers.AuthHandlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW, rl *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.ForwardedByClientIP = true
	// without trusted proxies ClientIP is always the TCP peer
	proxies := make([]string, 0, len(cfg.App.TrustedProxies))
	for _, p := range cfg.App.TrustedProxies {
		proxies = append(proxies, strings.TrimSpace(p))
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		logger.Warn("ignoring trusted proxies", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.App.ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.App.CORSAllowedOrigins))
	r.Use(rl.Handler())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/request-code", ah.RequestCode)
	auth.POST("/phone/login", ah.PhoneLogin)
	auth.POST("/phone/signup", ah.PhoneSignup)
	auth.POST("/refresh", ah.Refresh)

	v := r.Group("/").Use(jwtmw.WithJWT(), cb.Enforce())
	v.POST("/auth/logout", ah.Logout)
	v.GET("/users/me", ah.Me)

	return r
}
