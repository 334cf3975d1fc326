package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "LOG_LEVEL", "STORE", "HTTP_ADDR", "AUCTION_DURATION", "DATABASE_URL", "DB_SSLMODE", "DB_MAX_CONNS", "DB_MIN_CONNS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, 120*time.Hour, cfg.AuctionDuration)
	assert.Zero(t, cfg.DB.MaxConns)
	assert.Zero(t, cfg.DB.MinConns)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE", "MEMORY")
	t.Setenv("HTTP_ADDR", ":8081")
	t.Setenv("AUCTION_DURATION", "36h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, 36*time.Hour, cfg.AuctionDuration)
}

func TestLoad_PoolLimits(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "10")
	t.Setenv("DB_MIN_CONNS", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int32(10), cfg.DB.MaxConns)
	assert.Equal(t, int32(2), cfg.DB.MinConns)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown store", "STORE", "redis"},
		{"unparsable duration", "AUCTION_DURATION", "five days"},
		{"negative duration", "AUCTION_DURATION", "-1h"},
		{"unparsable max conns", "DB_MAX_CONNS", "ten"},
		{"negative min conns", "DB_MIN_CONNS", "-2"},
		{"max conns overflows int32", "DB_MAX_CONNS", "99999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MinAboveMaxConns(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "2")
	t.Setenv("DB_MIN_CONNS", "5")

	_, err := Load()
	assert.ErrorContains(t, err, "exceeds DB_MAX_CONNS")
}

func TestDBConfig_DSN(t *testing.T) {
	cfg := DBConfig{Host: "db", Port: "5432", User: "auction", Password: "secret", Name: "auctions"}
	assert.Equal(t, "postgres://auction:secret@db:5432/auctions?sslmode=disable", cfg.DSN())

	cfg.SSLMode = "require"
	assert.Equal(t, "postgres://auction:secret@db:5432/auctions?sslmode=require", cfg.DSN())

	cfg.URL = "postgres://override/db"
	assert.Equal(t, "postgres://override/db", cfg.DSN())
}
