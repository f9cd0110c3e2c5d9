package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server ServerConfig
	App    AppConfig
	Mongo  MongoConfig
	Cache  CacheConfig
	Auth   AuthConfig
	OTP    OTPConfig
	SMTP   SMTPConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"gamevault-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI      string `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
	Database string `envconfig:"MONGODB_DATABASE" default:"gamevault"`
}

// CacheConfig holds catalog cache settings. Type "redis" requires a
// reachable Redis; anything else selects the in-memory cache.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory"`
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"1h"`
}

// OTPConfig holds the one-time code windows. The expiry values are
// configuration, not law: the 5m default is the primary variant.
type OTPConfig struct {
	VerifyTTL      time.Duration `envconfig:"OTP_VERIFY_TTL" default:"5m"`
	ResetTTL       time.Duration `envconfig:"OTP_RESET_TTL" default:"5m"`
	MaxAttempts    int           `envconfig:"OTP_MAX_ATTEMPTS" default:"5"`
	ResendCooldown time.Duration `envconfig:"OTP_RESEND_COOLDOWN" default:"30s"`

	// UnverifiedUserTTL is how long an unverified account survives before
	// the storage-layer TTL index removes it.
	UnverifiedUserTTL time.Duration `envconfig:"OTP_UNVERIFIED_USER_TTL" default:"24h"`
}

// SMTPConfig holds outbound email settings.
type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST" default:"localhost"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	User     string `envconfig:"SMTP_USER" default:""`
	Password string `envconfig:"SMTP_PASS" default:""`
	From     string `envconfig:"EMAIL_FROM" default:"no-reply@gamevault.local"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// Addr returns the SMTP address in host:port format.
func (s *SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
