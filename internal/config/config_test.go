package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
	assert.Equal(t, time.Hour, cfg.AttestExpiry)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 10*time.Minute, cfg.PlaceCacheTTL)
	assert.Equal(t, "gpt-4o-mini", cfg.SuggestModel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_ACCESS_EXPIRY", "5m")
	t.Setenv("MAPS_API_URL", "https://maps.test/v2")

	cfg := Load()

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, 5*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, "https://maps.test/v2", cfg.MapsAPIURL)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "h", DBPort: "5433", DBUser: "u",
		DBPassword: "pw", DBName: "n", DBSSLMode: "require",
	}

	assert.Equal(t,
		"host=h user=u password=pw dbname=n port=5433 sslmode=require TimeZone=UTC",
		cfg.DSN())
}

func TestRedisAddr(t *testing.T) {
	cfg := &Config{RedisHost: "cache", RedisPort: "6380"}
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, 15*time.Minute, parseDuration("garbage"))
	assert.Equal(t, 45*time.Second, parseDuration("45s"))
}
