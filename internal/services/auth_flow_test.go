package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codeclip-inc/lastly-auth/domain"
	"github.com/codeclip-inc/lastly-auth/internal/clock"
	"github.com/codeclip-inc/lastly-auth/internal/config"
	"github.com/codeclip-inc/lastly-auth/internal/infrastructure/auth"
	"github.com/codeclip-inc/lastly-auth/internal/infrastructure/repositories"
	"github.com/codeclip-inc/lastly-auth/internal/mocks"
)

// flowEnv wires the real repositories and token issuer over SQLite
type flowEnv struct {
	db       *gorm.DB
	users    domain.UserRepository
	history  domain.AuthHistoryRepository
	notifier *mocks.MockNotificationService
	tokens   domain.TokenService
	otp      *OTPServiceImpl
	auth     domain.AuthService
	now      time.Time
}

func newFlowEnv(t *testing.T, development bool) *flowEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&repositories.DBUser{}, &repositories.DBAuthHistory{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	env := &flowEnv{
		db:       db,
		users:    repositories.NewUserRepository(db, node),
		history:  repositories.NewAuthHistoryRepository(db),
		notifier: mocks.NewMockNotificationService(),
		tokens: auth.NewJWTService(&config.JWTConfig{
			AccessSecret:     "access-secret",
			AccessExpiresIn:  "15m",
			RefreshSecret:    "refresh-secret",
			RefreshExpiresIn: "1d",
		}),
		now: testNow,
	}
	clk := clock.Func(func() time.Time { return env.now })

	var policy VerificationPolicy = ProductionPolicy{History: env.history, Clock: clk, Validity: 5 * time.Minute}
	if development {
		policy = DevelopmentPolicy{}
	}

	env.otp = NewOTPService(env.history, env.users, env.notifier, nil, policy, clk, zap.NewNop(), createTestOTPConfig(t)).(*OTPServiceImpl)
	env.otp.generateCode = func() (string, error) { return "482913", nil }
	env.auth = NewAuthService(env.users, env.otp, env.tokens, mocks.NewMockAuditLogger(), clk, zap.NewNop())
	return env
}

func (e *flowEnv) userCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&repositories.DBUser{}).Count(&n).Error)
	return n
}

func TestAuthFlow_SignupRefreshLoginLogout(t *testing.T) {
	env := newFlowEnv(t, false)
	ctx := createTestContext(t)
	const phone = "01012345678"

	res, err := env.auth.RequestCode(ctx, phone)
	require.NoError(t, err)
	assert.False(t, res.IsUser)
	require.Len(t, env.notifier.Sent(), 1)

	env.now = env.now.Add(2 * time.Minute)
	signedUp, err := env.auth.Signup(ctx, phone, "482913")
	require.NoError(t, err)
	assert.Equal(t, phone, signedUp.User.Name)

	// access token subject is the decimal user id
	v := env.tokens.VerifyAccess(signedUp.Tokens.AccessToken)
	require.True(t, v.Valid())
	assert.Equal(t, strconv.FormatInt(signedUp.User.ID, 10), v.Claims().Subject)

	// rotation: the old refresh token stops working
	first := signedUp.Tokens.RefreshToken
	rotated, err := env.auth.Refresh(ctx, first)
	require.NoError(t, err)
	assert.NotEqual(t, first, rotated.Tokens.RefreshToken)

	_, err = env.auth.Refresh(ctx, first)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// login replaces the stored token as well
	res, err = env.auth.RequestCode(ctx, phone)
	require.NoError(t, err)
	assert.True(t, res.IsUser)

	loggedIn, err := env.auth.Login(ctx, phone, "482913")
	require.NoError(t, err)
	assert.True(t, loggedIn.User.LastLoginDate.Equal(env.now))

	_, err = env.auth.Refresh(ctx, rotated.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// logout revokes the current token
	require.NoError(t, env.auth.Logout(ctx, loggedIn.User.ID))
	_, err = env.auth.Refresh(ctx, loggedIn.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// a second signup for the same phone creates nothing
	_, err = env.auth.Signup(ctx, phone, "482913")
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	assert.Equal(t, int64(1), env.userCount(t))
}

func TestAuthFlow_SignupCodeExpires(t *testing.T) {
	env := newFlowEnv(t, false)
	ctx := createTestContext(t)

	_, err := env.auth.RequestCode(ctx, "01012345678")
	require.NoError(t, err)

	env.now = env.now.Add(6 * time.Minute)
	_, err = env.auth.Signup(ctx, "01012345678", "482913")
	assert.ErrorIs(t, err, domain.ErrCodeMismatch)
	assert.Zero(t, env.userCount(t))
}

func TestAuthFlow_DailyLimit(t *testing.T) {
	env := newFlowEnv(t, false)
	ctx := createTestContext(t)

	for i := 0; i < 10; i++ {
		_, err := env.auth.RequestCode(ctx, "01012345678")
		require.NoError(t, err, "request %d", i+1)
	}

	_, err := env.auth.RequestCode(ctx, "01012345678")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Len(t, env.notifier.Sent(), 10)

	// the window resets at midnight service time
	env.now = time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	_, err = env.auth.RequestCode(ctx, "01012345678")
	assert.NoError(t, err)
}

func TestAuthFlow_DevelopmentLogin(t *testing.T) {
	env := newFlowEnv(t, true)
	ctx := context.Background()
	const phone = "010-0000-0000"

	existing := &domain.User{
		Phone:         phone,
		Provider:      domain.ProviderPhone,
		Name:          phone,
		CreateDate:    testNow.Add(-72 * time.Hour),
		LastLoginDate: testNow.Add(-72 * time.Hour),
	}
	require.NoError(t, env.users.Create(ctx, existing))

	result, err := env.auth.Login(ctx, phone, DevelopmentCode)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)

	stored, err := env.users.FindByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.True(t, stored.LastLoginDate.Equal(testNow))
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, result.Tokens.RefreshToken, *stored.RefreshToken)

	_, err = env.auth.Login(ctx, phone, "482913")
	assert.ErrorIs(t, err, domain.ErrCodeMismatch)
}
