package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codeclip-inc/lastly-auth/internal/config"
	httpx "github.com/codeclip-inc/lastly-auth/internal/http"
	"github.com/codeclip-inc/lastly-auth/internal/http/handlers"
	"github.com/codeclip-inc/lastly-auth/internal/http/middleware"
	"github.com/codeclip-inc/lastly-auth/internal/server"
	"github.com/codeclip-inc/lastly-auth/internal/telemetry"
)

// Run serves the API until ctx is cancelled
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	tp, err := telemetry.New(ctx, cfg.Telemetry, cfg.App.ServiceName, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Warn("closing connections failed", zap.Error(err))
		}
	}()

	srv := server.NewHTTPServer(c.Router(), logger)
	addr := ":" + cfg.App.Port
	logger.Info("starting lastly-auth",
		zap.String("env", cfg.App.Env),
		zap.String("addr", addr),
		zap.String("sms_provider", cfg.SMS.Provider),
		zap.Bool("resend_cooldown", c.CooldownStore != nil),
	)
	if err := srv.Run(ctx, addr); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Router builds the HTTP handler tree for the container's services
func (c *Container) Router() *gin.Engine {
	authH := handlers.NewAuthHandlers(c.AuthSvc, handlers.NewCookieSettings(c.Config))
	jwtMW := middleware.NewAuthMW(c.TokenSvc)
	casbinMW := middleware.NewCasbinMW(c.PolicySvc)
	limiter := middleware.NewRateLimiter(c.Config.App.RateLimitRPM)

	return httpx.BuildRouter(c.Config, c.Logger, authH, jwtMW, casbinMW, limiter)
}
