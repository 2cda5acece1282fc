package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.GetServerAddress())
	assert.Equal(t, "/api/v1", cfg.GetAPIBasePath())
	assert.Equal(t, 20*time.Minute, cfg.JWT.AccessExpiration)
	assert.Equal(t, 60*time.Minute, cfg.JWT.RefreshExpiration)
	assert.Equal(t, "spendly", cfg.JWT.Issuer)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Contains(t, cfg.Database.DSN, "dbname=spendly_db")
}

func TestLoadExpirationMinutes(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRATION_MINUTES", "5")
	t.Setenv("JWT_REFRESH_EXPIRATION_MINUTES", "90")

	cfg := Load()
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessExpiration)
	assert.Equal(t, 90*time.Minute, cfg.JWT.RefreshExpiration)
}

func TestValidateRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cfg := Load()
	require.Error(t, cfg.Validate())

	t.Setenv("JWT_SECRET", "   ")
	cfg = Load()
	require.Error(t, cfg.Validate())

	t.Setenv("JWT_SECRET", "a-real-secret")
	cfg = Load()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveExpirations(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-real-secret")
	t.Setenv("JWT_ACCESS_EXPIRATION_MINUTES", "0")

	cfg := Load()
	assert.Error(t, cfg.Validate())
}

func TestStringSliceEnvParsing(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092 ,")

	cfg := Load()
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
}
