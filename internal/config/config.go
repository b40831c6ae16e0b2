package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Module provides application configuration.
var Module = fx.Provide(Load)

// Config holds application configuration.
type Config struct {
	AppName          string
	AppVersion       string
	Environment      string
	AuthCookieSecure bool
	AuthJWTSecret    string

	// IdentityKeyPrecedence selects how actor keys are derived from a
	// resolved profile: "id" prefers the user id, "email" prefers the
	// email address. Either falls back to the other when empty.
	IdentityKeyPrecedence string
	IdentityResolverURL   string
	IdentityTimeout       time.Duration

	AdvisorOrchestratorURL string
	AdvisorTimeout         time.Duration
	AdvisorDefaultLang     string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RateLimit RateLimitConfig
}

// RateLimitConfig configures the redis-backed advisor limiter.
type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	AdvisorRate   float64
	AdvisorBurst  int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	return Config{
		AppName:          getenv("APP_SERVICE", "storefront"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		AuthCookieSecure: authCookieSecure,
		AuthJWTSecret:    strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),

		IdentityKeyPrecedence: normalizeKeyPrecedence(getenv("IDENTITY_KEY_PRECEDENCE", KeyPrecedenceID)),
		IdentityResolverURL:   strings.TrimRight(strings.TrimSpace(getenv("IDENTITY_RESOLVER_URL", "")), "/"),
		IdentityTimeout:       getenvDuration("IDENTITY_TIMEOUT", 5*time.Second),

		AdvisorOrchestratorURL: strings.TrimRight(strings.TrimSpace(getenv("ADVISOR_ORCHESTRATOR_URL", "")), "/"),
		AdvisorTimeout:         getenvDuration("ADVISOR_TIMEOUT", 10*time.Second),
		AdvisorDefaultLang:     getenv("ADVISOR_DEFAULT_LANG", "en"),

		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "postgres"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 600),

		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:     strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "")),
			RedisPassword: getenv("RATE_LIMIT_REDIS_PASSWORD", ""),
			RedisDB:       getenvInt("RATE_LIMIT_REDIS_DB", 0),
			AdvisorRate:   getenvFloat("RATE_LIMIT_ADVISOR_RATE", 1),
			AdvisorBurst:  getenvInt("RATE_LIMIT_ADVISOR_BURST", 5),
		},
	}
}

const (
	KeyPrecedenceID    = "id"
	KeyPrecedenceEmail = "email"
)

func normalizeKeyPrecedence(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case KeyPrecedenceEmail:
		return KeyPrecedenceEmail
	default:
		return KeyPrecedenceID
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
