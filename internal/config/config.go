package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Common errors
var (
	ErrMissingBaseURL   = errors.New("MILK_API_BASE_URL environment variable is required")
	ErrMissingSecretKey = errors.New("SECRET_KEY environment variable is required")
	ErrMissingSaltKey   = errors.New("SALT_KEY environment variable is required")
)

const (
	DefaultPort             = "5050"
	DefaultDropdownCacheTTL = 60 * time.Second
	DefaultBackendTimeout   = 30 * time.Second
	DefaultBackendRPS       = 20
)

// Config holds everything main needs to wire the console.
type Config struct {
	Port string

	// Remote milk-api
	BackendBaseURL string
	BackendTimeout time.Duration
	BackendRPS     float64

	// Cookie crypto. SECRET_KEY is the pre-shared cookie key, SALT_KEY also feeds
	// the login auth_code.
	SecretKey    string
	SaltKey      string
	CookieSecure bool

	AllowedOrigins []string

	// Optional infrastructure
	DatabaseURL string
	RedisURL    string

	LogLevel  string
	LogPretty bool
	LogFile   string

	RoutesFile       string
	DropdownCacheTTL time.Duration
}

// Load reads .env.local when present and then the process environment.
func Load() Config {
	_ = godotenv.Load(".env.local")
	return LoadFromEnv()
}

// LoadFromEnv loads configuration from environment variables.
//
// Environment variables:
//   - PORT: listen port (default: 5050)
//   - MILK_API_BASE_URL: backend base URL (required)
//   - BACKEND_TIMEOUT: per-request timeout, Go duration (default: 30s)
//   - BACKEND_RPS: outgoing request rate limit (default: 20)
//   - SECRET_KEY, SALT_KEY: cookie encryption secret and salt (required)
//   - COOKIE_SECURE: "false" to allow cookies over plain HTTP (default: true)
//   - ALLOWED_ORIGINS: comma separated CORS allow-list
//   - DATABASE_URL: postgres DSN for the audit trail (optional)
//   - REDIS_URL: redis URL for the OTP cooldown store (optional)
//   - LOG_LEVEL, LOG_PRETTY, LOG_FILE: logging
//   - CONSOLE_ROUTES_FILE: YAML route table overriding the embedded one
//   - DROPDOWN_CACHE_TTL: dropdown cache TTL, Go duration (default: 60s)
func LoadFromEnv() Config {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = DefaultPort
	}

	return Config{
		Port:             port,
		BackendBaseURL:   strings.TrimRight(strings.TrimSpace(os.Getenv("MILK_API_BASE_URL")), "/"),
		BackendTimeout:   durationEnv("BACKEND_TIMEOUT", DefaultBackendTimeout),
		BackendRPS:       floatEnv("BACKEND_RPS", DefaultBackendRPS),
		SecretKey:        os.Getenv("SECRET_KEY"),
		SaltKey:          os.Getenv("SALT_KEY"),
		CookieSecure:     boolEnv("COOKIE_SECURE", true),
		AllowedOrigins:   splitList(os.Getenv("ALLOWED_ORIGINS")),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		LogLevel:         strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
		LogPretty:        boolEnv("LOG_PRETTY", false),
		LogFile:          strings.TrimSpace(os.Getenv("LOG_FILE")),
		RoutesFile:       strings.TrimSpace(os.Getenv("CONSOLE_ROUTES_FILE")),
		DropdownCacheTTL: durationEnv("DROPDOWN_CACHE_TTL", DefaultDropdownCacheTTL),
	}
}

// Validate checks that the required settings are present.
func (c Config) Validate() error {
	var errs []error
	if c.BackendBaseURL == "" {
		errs = append(errs, ErrMissingBaseURL)
	}
	if c.SecretKey == "" {
		errs = append(errs, ErrMissingSecretKey)
	}
	if c.SaltKey == "" {
		errs = append(errs, ErrMissingSaltKey)
	}
	return errors.Join(errs...)
}

func durationEnv(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func floatEnv(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}

func boolEnv(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
