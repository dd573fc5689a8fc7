package config

import (
	"os"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// JWT (mobile session tokens)
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Device attestation tokens issued to mobile clients
	AttestSecret string
	AttestExpiry time.Duration

	// Maps/places provider
	MapsAPIURL       string
	MapsTokenURL     string
	MapsClientID     string
	MapsClientSecret string

	// Provider-side app integrity service
	IntegrityURL    string
	IntegrityAPIKey string

	// Suggestion provider (chat completions)
	SuggestAPIURL string
	SuggestModel  string

	UpstreamTimeout time.Duration
	PlaceCacheTTL   time.Duration

	// Verification / reset codes
	VerifyCodeTTL time.Duration
	ResetCodeTTL  time.Duration

	// Admin
	AdminEmails  string
	AdminUserIDs string
	AdminToken   string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "forkcast_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h")),

		AttestSecret: getEnv("ATTEST_SECRET", ""),
		AttestExpiry: parseDuration(getEnv("ATTEST_EXPIRY", "1h")),

		MapsAPIURL:       getEnv("MAPS_API_URL", "https://maps.provider.example/v1"),
		MapsTokenURL:     getEnv("MAPS_TOKEN_URL", "https://auth.provider.example/oauth/token"),
		MapsClientID:     getEnv("MAPS_CLIENT_ID", ""),
		MapsClientSecret: getEnv("MAPS_CLIENT_SECRET", ""),

		IntegrityURL:    getEnv("INTEGRITY_URL", "https://integrity.provider.example/v1/attest"),
		IntegrityAPIKey: getEnv("INTEGRITY_API_KEY", ""),

		SuggestAPIURL: getEnv("SUGGEST_API_URL", "https://api.openai.com/v1"),
		SuggestModel:  getEnv("SUGGEST_MODEL", "gpt-4o-mini"),

		UpstreamTimeout: parseDuration(getEnv("UPSTREAM_TIMEOUT", "30s")),
		PlaceCacheTTL:   parseDuration(getEnv("PLACE_CACHE_TTL", "10m")),

		VerifyCodeTTL: parseDuration(getEnv("VERIFY_CODE_TTL", "15m")),
		ResetCodeTTL:  parseDuration(getEnv("RESET_CODE_TTL", "15m")),

		AdminEmails:  getEnv("ADMIN_EMAILS", ""),
		AdminUserIDs: getEnv("ADMIN_USER_IDS", ""),
		AdminToken:   getEnv("ADMIN_TOKEN", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}
