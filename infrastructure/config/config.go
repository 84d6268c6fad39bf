package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Upstream backend the gateway proxies authenticated calls to.
	BackendBaseURL        string
	BackendLoginPath      string
	BackendCSRFPath       string
	BackendRefreshPath    string
	BackendRequestTimeout time.Duration
	BackendRefreshTimeout time.Duration
	// Envelope code the backend sends when an access token has expired.
	BackendExpiredCode string

	ServerPort  string
	ServerHost  string
	Environment string

	// Browser session handling.
	SessionCookieName string
	SessionTTL        time.Duration
	SessionStore      string // memory | redis | postgres
	PostgresURL       string

	RedisURL string

	RateLimitEnabled       bool
	RateLimitIPAttempts    int
	RateLimitIPWindow      time.Duration
	RateLimitLoginAttempts int
	RateLimitLoginWindow   time.Duration
	RateLimitBlockDuration time.Duration

	LogLevel               string
	LogFormat              string
	LogCorrelationIDHeader string

	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Messaging poll endpoint bounds.
	PollInterval time.Duration
	PollTimeout  time.Duration
}

var (
	ErrMissingBackendURL  = errors.New("BACKEND_BASE_URL is required")
	ErrInvalidStoreDriver = errors.New("SESSION_STORE must be memory, redis or postgres")
	ErrMissingRedisURL    = errors.New("REDIS_URL is required when SESSION_STORE=redis")
	ErrMissingPostgresURL = errors.New("POSTGRES_URL is required when SESSION_STORE=postgres")
)

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		BackendBaseURL:        os.Getenv("BACKEND_BASE_URL"),
		BackendLoginPath:      getEnvOrDefault("BACKEND_LOGIN_PATH", "/api/auth/login"),
		BackendCSRFPath:       getEnvOrDefault("BACKEND_CSRF_PATH", "/api/csrf-token"),
		BackendRefreshPath:    getEnvOrDefault("BACKEND_REFRESH_PATH", "/api/auth/refresh"),
		BackendRequestTimeout: getEnvOrDefaultDuration("BACKEND_REQUEST_TIMEOUT", 30*time.Second),
		BackendRefreshTimeout: getEnvOrDefaultDuration("BACKEND_REFRESH_TIMEOUT", 15*time.Second),
		BackendExpiredCode:    getEnvOrDefault("BACKEND_EXPIRED_CODE", "TOKEN_EXPIRED"),

		ServerPort:  getEnvOrDefault("SERVER_PORT", "8080"),
		ServerHost:  getEnvOrDefault("SERVER_HOST", "localhost"),
		Environment: getEnvOrDefault("ENV", "development"),

		SessionCookieName: getEnvOrDefault("SESSION_COOKIE_NAME", "portal_session"),
		SessionTTL:        getEnvOrDefaultDuration("SESSION_TTL", 12*time.Hour),
		SessionStore:      getEnvOrDefault("SESSION_STORE", "memory"),
		PostgresURL:       os.Getenv("POSTGRES_URL"),

		RedisURL: getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),

		RateLimitEnabled:       getEnvOrDefaultBool("RATE_LIMIT_ENABLED", false),
		RateLimitIPAttempts:    getEnvOrDefaultInt("RATE_LIMIT_IP_ATTEMPTS", 300),
		RateLimitIPWindow:      getEnvOrDefaultDuration("RATE_LIMIT_IP_WINDOW", time.Minute),
		RateLimitLoginAttempts: getEnvOrDefaultInt("RATE_LIMIT_LOGIN_ATTEMPTS", 5),
		RateLimitLoginWindow:   getEnvOrDefaultDuration("RATE_LIMIT_LOGIN_WINDOW", 15*time.Minute),
		RateLimitBlockDuration: getEnvOrDefaultDuration("RATE_LIMIT_BLOCK_DURATION", 30*time.Minute),

		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              getEnvOrDefault("LOG_FORMAT", "json"),
		LogCorrelationIDHeader: getEnvOrDefault("LOG_CORRELATION_ID_HEADER", "X-Correlation-ID"),

		CORSEnabled:          getEnvOrDefaultBool("CORS_ENABLED", true),
		CORSAllowCredentials: getEnvOrDefaultBool("CORS_ALLOW_CREDENTIALS", true),
		CORSAllowedOrigins:   parseAllowedOrigins(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "")),

		PollInterval: getEnvOrDefaultDuration("POLL_INTERVAL", 3*time.Second),
		PollTimeout:  getEnvOrDefaultDuration("POLL_TIMEOUT", 25*time.Second),
	}

	if cfg.BackendBaseURL == "" {
		return nil, ErrMissingBackendURL
	}

	switch cfg.SessionStore {
	case "memory":
	case "redis":
		if cfg.RedisURL == "" {
			return nil, ErrMissingRedisURL
		}
	case "postgres":
		if cfg.PostgresURL == "" {
			return nil, ErrMissingPostgresURL
		}
	default:
		return nil, ErrInvalidStoreDriver
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		// interpret as seconds if numeric, else parse like Go duration
		if n, err := strconv.Atoi(value); err == nil {
			return time.Duration(n) * time.Second
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return d
	}
	return defaultValue
}

func parseAllowedOrigins(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
