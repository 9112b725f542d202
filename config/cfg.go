package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/globelend/waitlist-manager/internal/admission"
	httpapi "github.com/globelend/waitlist-manager/internal/api/http"
	"github.com/globelend/waitlist-manager/internal/auth"
	"github.com/globelend/waitlist-manager/internal/auth/twitter"
	"github.com/globelend/waitlist-manager/internal/avatar"
	"github.com/globelend/waitlist-manager/internal/cache"
	"github.com/globelend/waitlist-manager/internal/ratelimit"
	"github.com/globelend/waitlist-manager/internal/store"
	"github.com/globelend/waitlist-manager/log"
)

// WaitlistConfig bounds the waitlist and its request payloads.
type WaitlistConfig struct {
	admission.Config `mapstructure:",squash"`

	CountTTL       time.Duration `mapstructure:"count_ttl"`
	MaxAvatarBytes int           `mapstructure:"max_avatar_bytes"`
}

// RateLimitConfig configures the per client claim limiter.
type RateLimitConfig struct {
	ratelimit.Tiers `mapstructure:",squash"`

	Window time.Duration `mapstructure:"window"`
}

// Config represents the global configuration for the service.
type Config struct {
	DB        store.Config    `mapstructure:"mysql"`
	Logger    log.Config      `mapstructure:"logger"`
	HTTP      httpapi.Config  `mapstructure:"http"`
	Auth      auth.Config     `mapstructure:"auth"`
	Twitter   twitter.Config  `mapstructure:"twitter"`
	Waitlist  WaitlistConfig  `mapstructure:"waitlist"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// LoadConfig loads the configuration from a file and/or environment variables.
// Environment variables take precedence over config file values.
// Nested keys use double underscore, e.g. MYSQL__DSN for mysql.dsn; the
// common keys also have flat aliases such as MYSQL_DSN.
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))

	setDefaults(v)
	bindEnvVars(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/config/waitlist-manager")
		v.AddConfigPath("/etc/waitlist-manager")
		// config file is optional
		_ = v.ReadInConfig()
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %w", err)
	}

	if config.DB.DSN == "" {
		config.DB.DSN = dsnFromEnv()
	}
	config.normalize()

	return &config, nil
}

// normalize replaces zero or negative values with defaults and clamps the spot count.
func (c *Config) normalize() {
	c.Waitlist.Config = c.Waitlist.Config.WithDefaults()
	if c.Waitlist.CountTTL <= 0 {
		c.Waitlist.CountTTL = cache.DefaultCountTTL
	}
	if c.Waitlist.MaxAvatarBytes <= 0 {
		c.Waitlist.MaxAvatarBytes = avatar.DefaultMaxImageBytes
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = ratelimit.DefaultWindow
	}
	if c.DB.QueryTimeout <= 0 {
		c.DB.QueryTimeout = store.DefaultQueryTimeout
	}
	if c.Auth.SessionTTL <= 0 {
		c.Auth.SessionTTL = auth.DefaultSessionTTL
	}
	if c.Twitter.RedirectURL == "" {
		c.Twitter.RedirectURL = strings.TrimRight(c.HTTP.TrustedBaseURL, "/") + "/auth/twitter/callback"
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mysql.query_timeout", store.DefaultQueryTimeout)
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.trusted_base_url", "http://localhost:3000")
	v.SetDefault("auth.session_ttl", auth.DefaultSessionTTL)

	defaults := ratelimit.DefaultTiers()
	v.SetDefault("rate_limit.window", ratelimit.DefaultWindow)
	v.SetDefault("rate_limit.base", defaults.Base)
	v.SetDefault("rate_limit.medium", defaults.Medium)
	v.SetDefault("rate_limit.high", defaults.High)
	v.SetDefault("rate_limit.medium_threshold", defaults.MediumThreshold)
	v.SetDefault("rate_limit.high_threshold", defaults.HighThreshold)

	v.SetDefault("waitlist.max_spots", admission.DefaultMaxSpots)
	v.SetDefault("waitlist.max_capacity", admission.DefaultMaxCapacity)
	v.SetDefault("waitlist.count_ttl", cache.DefaultCountTTL)
	v.SetDefault("waitlist.max_avatar_bytes", avatar.DefaultMaxImageBytes)
}

// dsnFromEnv builds a DSN from MYSQL_HOST and friends when MYSQL_DSN is not set.
func dsnFromEnv() string {
	host := os.Getenv("MYSQL_HOST")
	user := os.Getenv("MYSQL_USER")
	password := os.Getenv("MYSQL_PASSWORD")
	database := os.Getenv("MYSQL_DATABASE")
	if host == "" || user == "" || password == "" || database == "" {
		return ""
	}
	port := os.Getenv("MYSQL_PORT")
	if port == "" {
		port = "3306"
	}
	params := "charset=utf8mb4&parseTime=true"
	if os.Getenv("MYSQL_TLS_CA_PATH") != "" {
		params += "&tls=custom"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, password, host, port, database, params)
}

// bindEnvVars binds flat environment variable names to config keys.
func bindEnvVars(v *viper.Viper) {
	// MySQL
	v.BindEnv("mysql.dsn", "MYSQL_DSN")
	v.BindEnv("mysql.automigrate", "MYSQL_AUTOMIGRATE")
	v.BindEnv("mysql.max_open_connections", "MYSQL_MAX_OPEN_CONNECTIONS")
	v.BindEnv("mysql.max_idle_connections", "MYSQL_MAX_IDLE_CONNECTIONS")
	v.BindEnv("mysql.tls_ca_path", "MYSQL_TLS_CA_PATH")
	v.BindEnv("mysql.query_timeout", "MYSQL_QUERY_TIMEOUT")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.add_source", "LOG_ADD_SOURCE")

	// HTTP
	v.BindEnv("http.port", "HTTP_PORT")
	v.BindEnv("http.address", "HTTP_ADDRESS")
	v.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")
	v.BindEnv("http.trusted_base_url", "HTTP_BASE_URL")

	// Auth
	v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")
	v.BindEnv("auth.session_ttl", "AUTH_SESSION_TTL")
	v.BindEnv("auth.cookie_domain", "AUTH_COOKIE_DOMAIN")
	v.BindEnv("auth.cookie_secure", "AUTH_COOKIE_SECURE")
	v.BindEnv("auth.admin_token", "AUTH_ADMIN_TOKEN")

	// Social login
	v.BindEnv("twitter.client_id", "TWITTER_CLIENT_ID")
	v.BindEnv("twitter.client_secret", "TWITTER_CLIENT_SECRET")
	v.BindEnv("twitter.redirect_url", "TWITTER_REDIRECT_URL")

	// Waitlist
	v.BindEnv("waitlist.max_spots", "WAITLIST_MAX_SPOTS")
	v.BindEnv("waitlist.max_capacity", "WAITLIST_MAX_CAPACITY")
	v.BindEnv("waitlist.count_ttl", "WAITLIST_COUNT_TTL")
	v.BindEnv("waitlist.max_avatar_bytes", "WAITLIST_MAX_AVATAR_BYTES")

	// Rate limit
	v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	v.BindEnv("rate_limit.base", "RATE_LIMIT_BASE")
	v.BindEnv("rate_limit.medium", "RATE_LIMIT_MEDIUM")
	v.BindEnv("rate_limit.high", "RATE_LIMIT_HIGH")
	v.BindEnv("rate_limit.medium_threshold", "RATE_LIMIT_MEDIUM_THRESHOLD")
	v.BindEnv("rate_limit.high_threshold", "RATE_LIMIT_HIGH_THRESHOLD")
}
