package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"auth-service/internal/pkg/hash"
	"auth-service/internal/pkg/jwt"
	"auth-service/internal/service/social"
)

// Storage drivers for users, roles, history and social accounts.
// Sessions always live in Redis.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type AppConfig struct {
	// Server
	HTTPAddr    string
	Env         string
	AutoMigrate bool

	// Storage
	StorageDriver string
	DatabaseURL   string
	RedisAddr     string
	RedisPass     string
	RedisDB       int
	RedisPoolSize int

	// JWT
	JWT jwt.Config

	// Security
	PasswordHasher    string
	LoginRateLimit    int64
	LoginRateWindow   time.Duration
	SuperuserEmail    string
	SuperuserName     string
	SuperuserPassword string

	// Social
	Yandex social.YandexConfig

	// Telemetry
	OTLPEndpoint string
	ServiceName  string
}

func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// Load loads environment variables into AppConfig and validates the result.
func Load() (AppConfig, error) {
	var errs []error

	cfg := AppConfig{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8000"),
		Env:         getEnv("APP_ENV", "production"),
		AutoMigrate: getEnvBool("AUTO_MIGRATE", false),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:     getEnv("REDIS_PASS", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0, &errs),
		RedisPoolSize: getEnvInt("REDIS_POOL_SIZE", 10, &errs),

		JWT: jwt.Config{
			SecretKey:  getEnv("JWT_SECRET_KEY", ""),
			Algorithm:  getEnv("JWT_ALGORITHM", jwt.DefaultAlgorithm),
			AccessTTL:  getEnvSeconds("JWT_ACCESS_TOKEN_EXPIRE_TIME_SECONDS", jwt.DefaultAccessTTL, &errs),
			RefreshTTL: getEnvSeconds("JWT_REFRESH_TOKEN_EXPIRE_TIME_SECONDS", jwt.DefaultRefreshTTL, &errs),
		},

		PasswordHasher:    getEnv("PASSWORD_HASHER", hash.AlgorithmBcrypt),
		LoginRateLimit:    int64(getEnvInt("LOGIN_RATE_LIMIT", 5, &errs)),
		LoginRateWindow:   getEnvSeconds("LOGIN_RATE_WINDOW_SECONDS", 15*time.Minute, &errs),
		SuperuserEmail:    getEnv("SUPERUSER_EMAIL", ""),
		SuperuserName:     getEnv("SUPERUSER_USERNAME", "admin"),
		SuperuserPassword: getEnv("SUPERUSER_PASSWORD", ""),

		Yandex: social.YandexConfig{
			ClientID:     getEnv("YANDEX_CLIENT_ID", ""),
			ClientSecret: getEnv("YANDEX_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("YANDEX_REDIRECT_URI", ""),
		},

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "auth-service"),
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return AppConfig{}, errors.Join(errs...)
	}
	return cfg, nil
}

func (c AppConfig) validate() []error {
	var errs []error
	if c.JWT.SecretKey == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	}
	switch strings.ToUpper(c.JWT.Algorithm) {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not supported", c.JWT.Algorithm))
	}
	if c.JWT.AccessTTL <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_TOKEN_EXPIRE_TIME_SECONDS must be positive"))
	}
	if c.JWT.RefreshTTL <= 0 {
		errs = append(errs, errors.New("JWT_REFRESH_TOKEN_EXPIRE_TIME_SECONDS must be positive"))
	}
	if _, err := hash.New(c.PasswordHasher); err != nil {
		errs = append(errs, err)
	}
	if c.StorageDriver != StoragePostgres && c.StorageDriver != StorageMemory {
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER %q is not supported", c.StorageDriver))
	}
	if c.LoginRateLimit <= 0 || c.LoginRateWindow <= 0 {
		errs = append(errs, errors.New("login rate limit and window must be positive"))
	}
	return errs
}

// YandexEnabled reports whether the Yandex provider has credentials.
func (c AppConfig) YandexEnabled() bool {
	return c.Yandex.ClientID != "" && c.Yandex.ClientSecret != ""
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be an integer: %w", key, err))
		return fallback
	}
	return n
}

func getEnvSeconds(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a number of seconds: %w", key, err))
		return fallback
	}
	return time.Duration(n) * time.Second
}
