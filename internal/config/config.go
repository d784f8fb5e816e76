package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const minSecretKeyLength = 32

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Port             string
	DBPath           string
	Location         *time.Location
	SecretKey        string
	CookieSecure     bool
	AllowOverlap     bool
	RedisURL         string
	HealthCheckToken string
	LogLevel         string
	LogFormat        string
	OTLPEndpoint     string
	Environment      string
	DefaultCurrency  string
}

// Load reads settings from the environment, optionally layered over the YAML
// file named by WORKTRACE_CONFIG.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if path := strings.TrimSpace(v.GetString("WORKTRACE_CONFIG")); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	return fromViper(v)
}

// LoadDatabasePath resolves only DB_PATH, for commands that never start the
// server and so need no secret key.
func LoadDatabasePath() string {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	if path := strings.TrimSpace(v.GetString("WORKTRACE_CONFIG")); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		_ = v.ReadInConfig()
	}
	return v.GetString("DB_PATH")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_PATH", filepath.Join("data", "worktrace.db"))
	v.SetDefault("TZ", "UTC")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("TIMEENTRY_ALLOW_OVERLAP", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("DEFAULT_CURRENCY", "EUR")
}

func fromViper(v *viper.Viper) (*Config, error) {
	port, err := resolvePort(v.GetString("PORT"))
	if err != nil {
		return nil, err
	}
	secretKey, err := resolveSecretKey(v.GetString("SECRET_KEY"))
	if err != nil {
		return nil, err
	}
	location, err := time.LoadLocation(strings.TrimSpace(v.GetString("TZ")))
	if err != nil {
		return nil, fmt.Errorf("invalid TZ: %w", err)
	}
	cookieSecure, err := parseBool(v, "COOKIE_SECURE")
	if err != nil {
		return nil, err
	}
	allowOverlap, err := parseBool(v, "TIMEENTRY_ALLOW_OVERLAP")
	if err != nil {
		return nil, err
	}
	logLevel := strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL")))
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q", logLevel)
	}
	logFormat := strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT")))
	if logFormat != "text" && logFormat != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT: %q", logFormat)
	}
	currency := strings.ToUpper(strings.TrimSpace(v.GetString("DEFAULT_CURRENCY")))
	if len(currency) != 3 {
		return nil, fmt.Errorf("invalid DEFAULT_CURRENCY: %q", currency)
	}

	return &Config{
		Port:             port,
		DBPath:           strings.TrimSpace(v.GetString("DB_PATH")),
		Location:         location,
		SecretKey:        secretKey,
		CookieSecure:     cookieSecure,
		AllowOverlap:     allowOverlap,
		RedisURL:         strings.TrimSpace(v.GetString("REDIS_URL")),
		HealthCheckToken: strings.TrimSpace(v.GetString("HEALTH_CHECK_TOKEN")),
		LogLevel:         logLevel,
		LogFormat:        logFormat,
		OTLPEndpoint:     strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")),
		Environment:      strings.TrimSpace(v.GetString("ENVIRONMENT")),
		DefaultCurrency:  currency,
	}, nil
}

func resolveSecretKey(raw string) (string, error) {
	secretKey := strings.TrimSpace(raw)
	if secretKey == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secretKey)]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secretKey) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secretKey, nil
}

func resolvePort(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	value, err := strconv.Atoi(port)
	if err != nil {
		return "", fmt.Errorf("invalid PORT: %w", err)
	}
	if value < 1 || value > 65535 {
		return "", fmt.Errorf("invalid PORT: %d out of range", value)
	}
	return port, nil
}

func parseBool(v *viper.Viper, key string) (bool, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
