package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/codeclip-inc/lastly-auth/domain"
	"github.com/codeclip-inc/lastly-auth/internal/clock"
	"github.com/codeclip-inc/lastly-auth/internal/config"
	httpx "github.com/codeclip-inc/lastly-auth/internal/http"
	"github.com/codeclip-inc/lastly-auth/internal/infrastructure/auth"
	"github.com/codeclip-inc/lastly-auth/internal/infrastructure/database"
	"github.com/codeclip-inc/lastly-auth/internal/infrastructure/notifications"
	"github.com/codeclip-inc/lastly-auth/internal/infrastructure/repositories"
	"github.com/codeclip-inc/lastly-auth/internal/logging"
	"github.com/codeclip-inc/lastly-auth/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Clock  clock.Clock

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	// Repositories
	UserRepo      domain.UserRepository
	HistoryRepo   domain.AuthHistoryRepository
	CooldownStore domain.CooldownStore

	// Services
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	OTPSvc          domain.OTPService
	AuthSvc         domain.AuthService
	PolicySvc       domain.PolicyService
	AuditLogger     domain.AuditLogger
}

// NewContainer opens the database and builds every service on top of it
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	db, err := database.Open(cfg.Database.DSN, cfg.IsDevelopment())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return NewContainerWithDB(ctx, cfg, logger, db)
}

// NewContainerWithDB builds the container on an already migrated database
func NewContainerWithDB(ctx context.Context, cfg *config.Config, logger *zap.Logger, db *gorm.DB) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
		Clock:  clock.KST{},
		DB:     db,
	}

	c.initRedis(ctx)
	for _, step := range []func() error{c.initRepositories, c.initServices, c.initPolicies} {
		if err := step(); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	return c, nil
}

// initRedis connects the optional cooldown store. An unreachable Redis only
// disables the resend cooldown.
func (c *Container) initRedis(ctx context.Context) {
	rdb := database.NewRedis(c.Config.Redis.Addr, c.Config.Redis.Password, c.Config.Redis.DB)
	if rdb == nil {
		c.Logger.Info("redis not configured, resend cooldown disabled")
		return
	}
	if err := database.Ping(ctx, rdb); err != nil {
		c.Logger.Warn("redis unreachable, resend cooldown disabled", zap.Error(err))
		_ = rdb.Close()
		return
	}
	c.RedisClient = rdb
}

func (c *Container) initRepositories() error {
	node, err := snowflake.NewNode(c.Config.App.SnowflakeNode)
	if err != nil {
		return fmt.Errorf("snowflake node: %w", err)
	}

	c.UserRepo = repositories.NewUserRepository(c.DB, node)
	c.HistoryRepo = repositories.NewAuthHistoryRepository(c.DB)
	if c.RedisClient != nil {
		c.CooldownStore = repositories.NewCooldownStore(c.RedisClient)
	}
	return nil
}

func (c *Container) initServices() error {
	c.TokenSvc = auth.NewJWTService(&c.Config.JWT)

	var err error
	c.NotificationSvc, err = notifications.New(c.Config.SMS)
	if err != nil {
		return err
	}

	c.AuditLogger = logging.NewAuditLogger(c.Logger)

	policy := services.PolicyFor(c.Config, c.HistoryRepo, c.Clock)
	c.Logger.Info("verification policy selected", zap.String("policy", policy.Name()))

	c.OTPSvc = services.NewOTPService(
		c.HistoryRepo,
		c.UserRepo,
		c.NotificationSvc,
		c.CooldownStore,
		policy,
		c.Clock,
		c.Logger,
		services.OTPConfig{
			DailyLimit:      c.Config.OTP.DailyLimit,
			ResendWindow:    c.Config.OTP.ResendWindow,
			MessageTemplate: c.Config.SMS.MessageTemplate,
		},
	)

	c.AuthSvc = services.NewAuthService(c.UserRepo, c.OTPSvc, c.TokenSvc, c.AuditLogger, c.Clock, c.Logger)
	return nil
}

// initPolicies loads persisted casbin rules and makes sure the defaults exist
func (c *Container) initPolicies() error {
	cas, err := auth.NewCasbinService(c.DB)
	if err != nil {
		return fmt.Errorf("casbin: %w", err)
	}
	c.Casbin = cas
	c.PolicySvc = services.NewPolicyService(cas.E)

	if err := services.SeedPolicies(c.PolicySvc, httpx.DefaultPolicies); err != nil {
		return fmt.Errorf("seed policies: %w", err)
	}
	c.Logger.Info("casbin policies loaded", zap.Int("count", len(c.PolicySvc.GetPolicies())))
	return nil
}

// Close closes all connections
func (c *Container) Close() error {
	var errs []error
	if c.RedisClient != nil {
		errs = append(errs, c.RedisClient.Close())
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
