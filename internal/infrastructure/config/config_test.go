package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 9087, cfg.GRPCPort)
	assert.Equal(t, 8087, cfg.HTTPPort)
	assert.Equal(t, "America/Panama", cfg.BusinessTimezone)
	assert.Equal(t, 60*time.Second, cfg.Redis.DashboardTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "lending.events", cfg.Kafka.Topic)
	assert.Equal(t, ":9087", cfg.GRPCAddr())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("DASHBOARD_CACHE_TTL", "5m")
	t.Setenv("KAFKA_TLS", "true")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.HTTPAddr())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Minute, cfg.Redis.DashboardTTL)
	assert.True(t, cfg.Kafka.TLS)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestValidate(t *testing.T) {
	valid := Load()
	valid.DB.Password = "secret"
	valid.Auth.JWTSecret = "jwt"
	require.NoError(t, valid.Validate())

	broken := valid
	broken.DB.Password = ""
	broken.BusinessTimezone = "Mars/Olympus"
	broken.TLS.CertFile = "cert.pem"

	err := broken.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
	assert.Contains(t, err.Error(), "BUSINESS_TIMEZONE")
	assert.Contains(t, err.Error(), "TLS_CERT_FILE")
}

func TestLocation(t *testing.T) {
	cfg := Config{BusinessTimezone: "America/Panama"}
	assert.Equal(t, "America/Panama", cfg.Location().String())

	cfg.BusinessTimezone = "nowhere"
	assert.Equal(t, time.UTC, cfg.Location())
}
