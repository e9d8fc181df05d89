package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultServerPort  = 8080
	defaultEntryFee    = 20
	defaultSessionTTL  = 24 * time.Hour
	defaultCORSOrigins = "http://localhost:3000"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int
	LogLevel     slog.Level

	// EntryFee is the buy-in used for prize pool computation.
	EntryFee     int
	SessionTTL   time.Duration
	CookieSecure bool

	CORSAllowedOrigins []string
	AutoMigrate        bool
	// AdminUsernames sign up with the admin role.
	AdminUsernames []string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// UploadsEnabled reports whether the R2 block is configured.
func (c *Config) UploadsEnabled() bool {
	return c.R2AccountID != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from an environment lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	dbURL := getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	cfg := &Config{
		DatabaseURL:  dbURL,
		JWTSecretKey: jwtKey,
		ServerPort:   defaultServerPort,
		LogLevel:     slog.LevelInfo,
		EntryFee:     defaultEntryFee,
		SessionTTL:   defaultSessionTTL,
		AutoMigrate:  true,
	}

	if portStr := getenv("SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
		}
		if port <= 0 || port > 65535 {
			return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
		}
		cfg.ServerPort = port
	}

	if lvl := getenv("LOG_LEVEL"); lvl != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(lvl)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
		}
	}

	if feeStr := getenv("ENTRY_FEE"); feeStr != "" {
		fee, err := strconv.Atoi(feeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid ENTRY_FEE environment variable: %w", err)
		}
		if fee <= 0 {
			return nil, fmt.Errorf("ENTRY_FEE must be positive, got %d", fee)
		}
		cfg.EntryFee = fee
	}

	if ttlStr := getenv("SESSION_TTL"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL environment variable: %w", err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", ttl)
		}
		cfg.SessionTTL = ttl
	}

	var err error
	if cfg.CookieSecure, err = parseBool(getenv, "COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.AutoMigrate, err = parseBool(getenv, "AUTO_MIGRATE", true); err != nil {
		return nil, err
	}

	origins := getenv("CORS_ALLOWED_ORIGINS")
	if origins == "" {
		origins = defaultCORSOrigins
	}
	cfg.CORSAllowedOrigins = splitList(origins)
	cfg.AdminUsernames = splitList(getenv("ADMIN_USERNAMES"))

	cfg.R2AccountID = getenv("R2_ACCOUNT_ID")
	cfg.R2AccessKeyID = getenv("R2_ACCESS_KEY_ID")
	cfg.R2SecretAccessKey = getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2BucketName = getenv("R2_BUCKET_NAME")
	cfg.R2PublicBaseURL = getenv("R2_PUBLIC_BASE_URL")

	r2 := []string{cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2BucketName, cfg.R2PublicBaseURL}
	set := 0
	for _, v := range r2 {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != len(r2) {
		return nil, fmt.Errorf("R2 configuration is incomplete: set all of R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_BUCKET_NAME, R2_PUBLIC_BASE_URL or none")
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseBool(getenv func(string) string, key string, def bool) (bool, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}
