package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("WARRANTY_DAYS", "")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 90, cfg.Returns.WarrantyDays)
	assert.False(t, cfg.Returns.BlockExpiredWarranty, "la garantía debe ser informativa por defecto")
	assert.Equal(t, 3, cfg.Returns.TxMaxRetries)
	assert.Equal(t, 60*time.Second, cfg.Analytics.CacheTTL())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("WARRANTY_DAYS", "30")
	t.Setenv("RETURNS_BLOCK_EXPIRED_WARRANTY", "true")
	t.Setenv("RETURNS_TX_TIMEOUT_SECONDS", "5")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Returns.WarrantyDays)
	assert.True(t, cfg.Returns.BlockExpiredWarranty)
	assert.Equal(t, 5*time.Second, cfg.Returns.TxTimeout())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_VentanaDeGarantiaInvalida(t *testing.T) {
	t.Setenv("WARRANTY_DAYS", "0")
	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "garantias", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/garantias?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
