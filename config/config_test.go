package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("LOW_STOCK_THRESHOLD", "")
	t.Setenv("SALE_TX_TIMEOUT_SECONDS", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("KAFKA_ENABLED", "")

	cfg := Load()

	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, int64(5), cfg.Business.LowStockThreshold)
	assert.Equal(t, 15*time.Second, cfg.Business.SaleTxTimeout)
	assert.Equal(t, 3, cfg.Business.SaleMaxAttempts)
	assert.Empty(t, cfg.Server.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("LOYALTY_POINT_VALUE", "250")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://pos.example.com, ,https://admin.example.com")
	t.Setenv("KAFKA_ENABLED", "false")

	cfg := Load()

	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, int64(250), cfg.Business.LoyaltyPointValue)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, []string{"https://pos.example.com", "https://admin.example.com"}, cfg.Server.AllowedOrigins)
}
