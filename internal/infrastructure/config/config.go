package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Log        LogConfig
	HTTP       HTTPConfig
	Stripe     StripeConfig
	Billing    BillingConfig
	Storage    StorageConfig
	Email      EmailConfig
	Editor     EditorConfig
	Invitation InvitationConfig
	Telemetry  TelemetryConfig
	RateLimit  RateLimitConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Port    string
	BaseURL string // public URL of the web app, used for OAuth redirects
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings. An empty Host disables Redis.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	RefreshSecret          string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// StripeConfig holds payment provider credentials
type StripeConfig struct {
	SecretKey string
	ClientID  string // Connect platform client id (ca_...)
	APIURL    string // override for tests and stripe-mock
}

// BillingConfig holds plan listing settings
type BillingConfig struct {
	ProductID string
}

// StorageConfig holds object storage settings for logo uploads
type StorageConfig struct {
	Bucket        string
	Region        string
	Endpoint      string // custom endpoint (MinIO, localstack)
	UsePathStyle  bool
	AccessKey     string // static credentials; the default AWS chain is used when empty
	SecretKey     string
	PublicBaseURL string
	PresignExpiry time.Duration
	MaxUploadSize int64
}

// EmailConfig holds transactional mail settings
type EmailConfig struct {
	Enabled  bool
	Region   string
	From     string
	Endpoint string // custom SES endpoint (localstack)
}

// EditorConfig holds editor session settings
type EditorConfig struct {
	HistoryLimit int
	SessionTTL   time.Duration
}

// InvitationConfig holds invitation lifecycle settings
type InvitationConfig struct {
	TTL            time.Duration
	ExpirySchedule string // cron expression
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	DBTraceEnabled    bool    // Enable database query tracing (otelgorm)
}

// RateLimitConfig holds request rate limits (requests per second and burst)
type RateLimitConfig struct {
	Enabled    bool
	RPS        float64
	Burst      int
	AuthRPS    float64
	AuthBurst  int
	IdleExpiry time.Duration
}

// Load loads configuration from an optional .env file, config.toml and
// environment variables.
// Priority (highest to lowest):
// 1. Environment variables with LUMIO_ prefix (e.g., LUMIO_DATABASE_PASSWORD)
// 2. .env (does not override variables already set)
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("LUMIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			BaseURL: v.GetString("app.base_url"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			SQLitePath:      v.GetString("database.sqlite_path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Stripe: StripeConfig{
			SecretKey: v.GetString("stripe.secret_key"),
			ClientID:  v.GetString("stripe.client_id"),
			APIURL:    v.GetString("stripe.api_url"),
		},
		Billing: BillingConfig{
			ProductID: v.GetString("billing.product_id"),
		},
		Storage: StorageConfig{
			Bucket:        v.GetString("storage.bucket"),
			Region:        v.GetString("storage.region"),
			Endpoint:      v.GetString("storage.endpoint"),
			UsePathStyle:  v.GetBool("storage.use_path_style"),
			AccessKey:     v.GetString("storage.access_key"),
			SecretKey:     v.GetString("storage.secret_key"),
			PublicBaseURL: v.GetString("storage.public_base_url"),
			PresignExpiry: v.GetDuration("storage.presign_expiry"),
			MaxUploadSize: v.GetInt64("storage.max_upload_size"),
		},
		Email: EmailConfig{
			Enabled:  v.GetBool("email.enabled"),
			Region:   v.GetString("email.region"),
			From:     v.GetString("email.from"),
			Endpoint: v.GetString("email.endpoint"),
		},
		Editor: EditorConfig{
			HistoryLimit: v.GetInt("editor.history_limit"),
			SessionTTL:   v.GetDuration("editor.session_ttl"),
		},
		Invitation: InvitationConfig{
			TTL:            v.GetDuration("invitation.ttl"),
			ExpirySchedule: v.GetString("invitation.expiry_schedule"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
		},
		RateLimit: RateLimitConfig{
			Enabled:    v.GetBool("ratelimit.enabled"),
			RPS:        v.GetFloat64("ratelimit.rps"),
			Burst:      v.GetInt("ratelimit.burst"),
			AuthRPS:    v.GetFloat64("ratelimit.auth_rps"),
			AuthBurst:  v.GetInt("ratelimit.auth_burst"),
			IdleExpiry: v.GetDuration("ratelimit.idle_expiry"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "lumio-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.BaseURL == "" {
		cfg.App.BaseURL = "http://localhost:3000/"
	}
	if !strings.HasSuffix(cfg.App.BaseURL, "/") {
		cfg.App.BaseURL += "/"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "lumio"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "lumio.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host != "" && cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 15 * time.Minute
	}
	if cfg.JWT.RefreshTokenExpiration == 0 {
		cfg.JWT.RefreshTokenExpiration = 168 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "lumio-backend"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 5 << 20 // 5MB, page documents can be large
	}
	// No CORS origin fallback: cross-origin requests stay blocked until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.PresignExpiry == 0 {
		cfg.Storage.PresignExpiry = 15 * time.Minute
	}
	if cfg.Storage.MaxUploadSize == 0 {
		cfg.Storage.MaxUploadSize = 4 << 20
	}
	if cfg.Email.Region == "" {
		cfg.Email.Region = cfg.Storage.Region
	}
	if cfg.Email.From == "" {
		cfg.Email.From = "no-reply@lumio.local"
	}
	if cfg.Editor.HistoryLimit == 0 {
		cfg.Editor.HistoryLimit = 100
	}
	if cfg.Editor.SessionTTL == 0 {
		cfg.Editor.SessionTTL = 2 * time.Hour
	}
	if cfg.Invitation.TTL == 0 {
		cfg.Invitation.TTL = 7 * 24 * time.Hour
	}
	if cfg.Invitation.ExpirySchedule == "" {
		cfg.Invitation.ExpirySchedule = "@hourly"
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "lumio-backend"
	}
	if cfg.RateLimit.RPS == 0 {
		cfg.RateLimit.RPS = 20
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 40
	}
	if cfg.RateLimit.AuthRPS == 0 {
		cfg.RateLimit.AuthRPS = 0.1 // one login attempt every 10s on average
	}
	if cfg.RateLimit.AuthBurst == 0 {
		cfg.RateLimit.AuthBurst = 5
	}
	if cfg.RateLimit.IdleExpiry == 0 {
		cfg.RateLimit.IdleExpiry = 10 * time.Minute
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Editor.HistoryLimit < 1 {
		return fmt.Errorf("editor.history_limit must be at least 1")
	}

	if c.App.Env == "production" {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Driver == "sqlite" {
			return fmt.Errorf("database.driver cannot be sqlite in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Stripe.SecretKey == "" {
			return fmt.Errorf("stripe.secret_key is required in production")
		}
		if c.Billing.ProductID == "" {
			return fmt.Errorf("billing.product_id is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns host:port for the Redis client
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// IsProduction reports whether the app runs in production mode
func (a *AppConfig) IsProduction() bool {
	return a.Env == "production"
}
