package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/aussiebroadwan/storefront/pkg/jwtx"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	JWTSecret    string        // Required outside dev: HMAC secret, at least 32 bytes
	Algorithm    string        // Optional: HS256, HS384, HS512 (default: HS256)
	Issuer       string        // Optional: iss claim, enforced on verify (default: storefront)
	TokenTTL     time.Duration // Optional: session lifetime, also the cookie max-age (default: 48h)
	CookieSecure bool          // Optional: Secure cookie attribute (default: true in prod)

	TrustedProxies []string // Optional: proxy CIDRs/IPs whose X-Forwarded-For is honoured (default: none)

	DBDriver     string // Optional: sqlite or postgres (default: sqlite)
	DatabaseFile string // Optional: sqlite file (default: ./storefront.db)
	DatabaseURL  string // Required for postgres: pgx connection string
	PepperFile   string // Optional: password pepper file (default: ./pepper)

	AdminEmail    string // Optional: bootstrap admin email
	AdminPassword string // Optional: generated and logged once when empty
	AdminName     string // Optional: bootstrap admin display name (default: admin)

	Env                 string        // Environment (dev, staging, prod) (default: prod)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8081)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	LogOutput io.Writer // Not loaded from env; defaults to stdout
}

func LoadConfig() Config {
	env := getEnvOrDefault("ENV", "prod")

	return Config{
		JWTSecret:    os.Getenv("STOREFRONT_JWT_SECRET"),
		Algorithm:    strings.ToUpper(getEnvOrDefault("STOREFRONT_JWT_ALGORITHM", "HS256")),
		Issuer:       getEnvOrDefault("STOREFRONT_ISSUER", "storefront"),
		TokenTTL:     getEnvDurationOrDefault("STOREFRONT_TOKEN_TTL", jwtx.DefaultSessionTTL),
		CookieSecure: getEnvBoolOrDefault("STOREFRONT_COOKIE_SECURE", env == "prod"),

		TrustedProxies: getEnvListOrDefault("STOREFRONT_TRUSTED_PROXIES", nil),

		DBDriver:     strings.ToLower(getEnvOrDefault("STOREFRONT_DB_DRIVER", DriverSQLite)),
		DatabaseFile: getEnvOrDefault("STOREFRONT_DATABASE_FILE", "storefront.db"),
		DatabaseURL:  os.Getenv("STOREFRONT_DATABASE_URL"),
		PepperFile:   getEnvOrDefault("STOREFRONT_PEPPER_FILE", "pepper"),

		AdminEmail:    os.Getenv("STOREFRONT_ADMIN_EMAIL"),
		AdminPassword: os.Getenv("STOREFRONT_ADMIN_PASSWORD"),
		AdminName:     os.Getenv("STOREFRONT_ADMIN_NAME"),

		Env:                 env,
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8081),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate reports configuration that would make the service unsafe or
// unable to start. An empty secret is tolerated only when ENV=dev is set;
// New then uses an ephemeral one.
func (c Config) Validate() error {
	var errs []error

	switch {
	case c.JWTSecret == "" && c.Env != "dev":
		errs = append(errs, errors.New("STOREFRONT_JWT_SECRET is required"))
	case c.JWTSecret != "" && len(c.JWTSecret) < jwtx.MinSecretLength:
		errs = append(errs, fmt.Errorf("STOREFRONT_JWT_SECRET must be at least %d bytes", jwtx.MinSecretLength))
	}

	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("unsupported STOREFRONT_JWT_ALGORITHM %q", c.Algorithm))
	}

	if _, err := httpx.NewClientIP(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("STOREFRONT_TRUSTED_PROXIES: %w", err))
	}

	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("STOREFRONT_TOKEN_TTL must be positive"))
	}

	switch c.DBDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("STOREFRONT_DATABASE_FILE is required for sqlite"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("STOREFRONT_DATABASE_URL is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported STOREFRONT_DB_DRIVER %q", c.DBDriver))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
