package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	defaultHTTPAddr        = ":9000"
	defaultAuctionDuration = 5 * 24 * time.Hour
)

// Config holds every setting the binary reads from the environment.
type Config struct {
	AppEnv          string
	LogLevel        string
	Store           string
	HTTPAddr        string
	AuctionDuration time.Duration
	DB              DBConfig
}

// DBConfig carries the postgres connection settings. URL wins over the discrete fields.
type DBConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32 // 0 keeps the pgx default
	MinConns int32
}

// DSN builds the postgres connection string used by pgx and golang-migrate.
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, sslmode,
	)
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getenv("APP_ENV", "development"),
		LogLevel: getenv("LOG_LEVEL", "info"),
		Store:    strings.ToLower(getenv("STORE", StorePostgres)),
		HTTPAddr: getenv("HTTP_ADDR", defaultHTTPAddr),
		DB: DBConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getenv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  os.Getenv("DB_SSLMODE"),
		},
		AuctionDuration: defaultAuctionDuration,
	}

	if raw := os.Getenv("AUCTION_DURATION"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid AUCTION_DURATION %q: %w", raw, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("invalid AUCTION_DURATION %q: must be positive", raw)
		}
		cfg.AuctionDuration = d
	}

	var err error
	if cfg.DB.MaxConns, err = getenvConns("DB_MAX_CONNS"); err != nil {
		return nil, err
	}
	if cfg.DB.MinConns, err = getenvConns("DB_MIN_CONNS"); err != nil {
		return nil, err
	}
	if cfg.DB.MaxConns > 0 && cfg.DB.MinConns > cfg.DB.MaxConns {
		return nil, fmt.Errorf("DB_MIN_CONNS %d exceeds DB_MAX_CONNS %d", cfg.DB.MinConns, cfg.DB.MaxConns)
	}

	switch cfg.Store {
	case StorePostgres, StoreMemory:
	default:
		return nil, fmt.Errorf("invalid STORE %q: expected %q or %q", cfg.Store, StorePostgres, StoreMemory)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getenvConns(key string) (int32, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q: expected a non-negative integer", key, raw)
	}
	return int32(n), nil
}
