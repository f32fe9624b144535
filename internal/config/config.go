package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvDevelop    = "develop"
	EnvProduction = "production"

	SMSProviderAligo  = "aligo"
	SMSProviderTwilio = "twilio"
)

type AppConfig struct {
	Env                string   `yaml:"env" env:"NODE_ENV"`
	Port               string   `yaml:"port" env:"PORT"`
	ServiceName        string   `yaml:"service_name" env:"SERVICE_NAME"`
	LogLevel           string   `yaml:"log_level" env:"LOG_LEVEL"`
	RateLimitRPM       int      `yaml:"rate_limit_rpm" env:"RATE_LIMIT_RPM"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// SnowflakeNode must be unique per running instance
	SnowflakeNode int64 `yaml:"snowflake_node" env:"SNOWFLAKE_NODE"`
	// TrustedProxies lists the proxies whose X-Forwarded-For is believed.
	// Empty means the client address is always the TCP peer.
	TrustedProxies []string `yaml:"trusted_proxies" env:"TRUSTED_PROXIES" envSeparator:","`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"DATABASE_URL"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type JWTConfig struct {
	AccessSecret            string `yaml:"access_secret" env:"JWT_ACCESS_SECRET"`
	AccessExpiresIn         string `yaml:"access_expires_in" env:"JWT_ACCESS_EXPIRES_IN"`
	RefreshSecret           string `yaml:"refresh_secret" env:"JWT_REFRESH_SECRET"`
	RefreshExpiresIn        string `yaml:"refresh_expires_in" env:"JWT_REFRESH_EXPIRES_IN"`
	RefreshCookieMaxAgeDays int    `yaml:"refresh_cookie_max_age_days" env:"REFRESH_TOKEN_MAX_AGE_DAYS"`
}

type OTPConfig struct {
	DailyLimit   int           `yaml:"daily_limit" env:"OTP_DAILY_LIMIT"`
	Validity     time.Duration `yaml:"validity" env:"OTP_VALIDITY"`
	ResendWindow time.Duration `yaml:"resend_window" env:"OTP_RESEND_WINDOW"`
}

type AligoConfig struct {
	Key      string `yaml:"key" env:"ALIGO_KEY"`
	UserID   string `yaml:"user_id" env:"ALIGO_USER_ID"`
	Sender   string `yaml:"sender" env:"ALIGO_SENDER"`
	Endpoint string `yaml:"endpoint" env:"ALIGO_ENDPOINT"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid" env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `yaml:"auth_token" env:"TWILIO_AUTH_TOKEN"`
	FromNumber string `yaml:"from_number" env:"TWILIO_FROM_NUMBER"`
}

type SMSConfig struct {
	Provider        string        `yaml:"provider" env:"SMS_PROVIDER"`
	Timeout         time.Duration `yaml:"timeout" env:"SMS_TIMEOUT"`
	MessageTemplate string        `yaml:"message_template" env:"SMS_MESSAGE_TEMPLATE"`
	Aligo           AligoConfig   `yaml:"aligo"`
	Twilio          TwilioConfig  `yaml:"twilio"`
}

type TelemetryConfig struct {
	Endpoint string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Insecure bool   `yaml:"insecure" env:"OTEL_EXPORTER_OTLP_INSECURE"`
}

// Config is built once at start-up and handed to every component by pointer.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	OTP       OTPConfig       `yaml:"otp"`
	SMS       SMSConfig       `yaml:"sms"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// IsDevelopment is true only for an explicit NODE_ENV=develop. Anything else,
// including an unset value, runs with production rules.
func (c *Config) IsDevelopment() bool {
	return strings.TrimSpace(c.App.Env) == EnvDevelop
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads .env, an optional YAML file and the process environment, in that
// order of increasing precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := loadConfigFile(getEnv("CONFIG_FILE", "config/config.yml"), cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("could not parse environment: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(bytes, cfg); err != nil {
		return fmt.Errorf("could not parse config yaml: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = EnvProduction
	}
	if c.App.Port == "" {
		c.App.Port = "3000"
	}
	if c.App.ServiceName == "" {
		c.App.ServiceName = "lastly-auth"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.RateLimitRPM == 0 {
		c.App.RateLimitRPM = 600
	}
	if c.JWT.AccessExpiresIn == "" {
		c.JWT.AccessExpiresIn = "15m"
	}
	if c.JWT.RefreshExpiresIn == "" {
		c.JWT.RefreshExpiresIn = "1d"
	}
	if c.JWT.RefreshCookieMaxAgeDays == 0 {
		c.JWT.RefreshCookieMaxAgeDays = 14
	}
	if c.OTP.DailyLimit == 0 {
		c.OTP.DailyLimit = 10
	}
	if c.OTP.Validity == 0 {
		c.OTP.Validity = 5 * time.Minute
	}
	if c.SMS.Provider == "" {
		c.SMS.Provider = SMSProviderAligo
	}
	if c.SMS.Timeout == 0 {
		c.SMS.Timeout = 10 * time.Second
	}
	if c.SMS.MessageTemplate == "" {
		c.SMS.MessageTemplate = "[LastLy]\n인증번호는 %s 입니다."
	}
	if c.SMS.Aligo.UserID == "" {
		c.SMS.Aligo.UserID = "codeclip"
	}
	if c.SMS.Aligo.Sender == "" {
		c.SMS.Aligo.Sender = "031-376-2399"
	}
	if c.SMS.Aligo.Endpoint == "" {
		c.SMS.Aligo.Endpoint = "https://apis.aligo.in/send/"
	}
}

// Validate rejects configurations the service cannot run with
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if _, err := ParseExpiresIn(c.JWT.AccessExpiresIn); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRES_IN: %w", err)
	}
	if _, err := ParseExpiresIn(c.JWT.RefreshExpiresIn); err != nil {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRES_IN: %w", err)
	}
	if c.App.SnowflakeNode < 0 || c.App.SnowflakeNode > 1023 {
		return fmt.Errorf("SNOWFLAKE_NODE must be between 0 and 1023")
	}
	for _, proxy := range c.App.TrustedProxies {
		if !validProxy(proxy) {
			return fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP or CIDR", proxy)
		}
	}
	if c.JWT.RefreshCookieMaxAgeDays < 0 {
		return fmt.Errorf("REFRESH_TOKEN_MAX_AGE_DAYS must be positive")
	}
	if c.OTP.DailyLimit < 0 || c.OTP.Validity < 0 || c.OTP.ResendWindow < 0 {
		return fmt.Errorf("OTP limits must not be negative")
	}

	switch c.SMS.Provider {
	case SMSProviderAligo:
		if !c.IsDevelopment() && c.SMS.Aligo.Key == "" {
			return fmt.Errorf("ALIGO_KEY is required outside development")
		}
	case SMSProviderTwilio:
		if !c.IsDevelopment() && (c.SMS.Twilio.AccountSID == "" || c.SMS.Twilio.AuthToken == "" || c.SMS.Twilio.FromNumber == "") {
			return fmt.Errorf("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER are required outside development")
		}
	default:
		return fmt.Errorf("unsupported SMS_PROVIDER %q", c.SMS.Provider)
	}
	return nil
}

func validProxy(proxy string) bool {
	proxy = strings.TrimSpace(proxy)
	if strings.Contains(proxy, "/") {
		_, _, err := net.ParseCIDR(proxy)
		return err == nil
	}
	return net.ParseIP(proxy) != nil
}

var expiresInPattern = regexp.MustCompile(`(?i)^(\d*\.?\d+) *(milliseconds?|msecs?|ms|seconds?|secs?|s|minutes?|mins?|m|hours?|hrs?|h|days?|d|weeks?|w|years?|yrs?|y)$`)

const day = 24 * time.Hour

var expiresInUnits = map[string]time.Duration{
	"ms": time.Millisecond, "msec": time.Millisecond, "msecs": time.Millisecond,
	"millisecond": time.Millisecond, "milliseconds": time.Millisecond,
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": day, "day": day, "days": day,
	"w": 7 * day, "week": 7 * day, "weeks": 7 * day,
	"y": 365*day + 6*time.Hour, "yr": 365*day + 6*time.Hour, "yrs": 365*day + 6*time.Hour,
	"year": 365*day + 6*time.Hour, "years": 365*day + 6*time.Hour,
}

// ParseExpiresIn accepts bare seconds ("3600"), a single number with a unit
// in the jsonwebtoken style ("15m", "7d", "1w", "1y", "2 days") and compound
// Go durations ("1h30m"). A year is 365.25 days.
func ParseExpiresIn(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty expiration")
	}

	var d time.Duration
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		d = time.Duration(secs) * time.Second
	} else if m := expiresInPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid expiration %q", s)
		}
		d = time.Duration(n * float64(expiresInUnits[strings.ToLower(m[2])]))
	} else {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid expiration %q: %w", s, err)
		}
		d = parsed
	}

	if d <= 0 {
		return 0, fmt.Errorf("expiration must be positive, got %q", s)
	}
	return d, nil
}
