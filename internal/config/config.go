package config

import (
	"time"

	"github.com/joho/godotenv"

	pkgconfig "github.com/Checker-Finance/market-snapshot/pkg/config"
)

// Config holds the core runtime configuration for a service instance.
// It supports environment-based initialization, with sensible defaults.
// Read once at process start; nothing here is on the hot path.
type Config struct {
	ServiceName string // e.g. "snapshot-adapter"
	Env         string // e.g. "dev", "uat", "prod"
	LogLevel    string // "debug", "info", etc.
	Port        int    // service HTTP port
	MetricsPort int    // prometheus scrape port

	// Per-venue base URL overrides.
	OKXBase     string
	BinanceBase string
	BybitBase   string

	// Outbound call budget per venue request.
	HTTPTimeout time.Duration
	VenueRPS    int
	VenueBurst  int

	// Snapshot cache. Backend is "memory" or "redis"; restart clears the
	// memory backend entirely, which is expected behavior, not a fault.
	CacheTTL     time.Duration
	CacheBackend string
	RedisAddr    string
	RedisDB      int
	RedisPass    string

	// Event bus. Empty NATSURL disables publishing.
	NATSURL         string
	SnapshotSubject string
}

// Load loads configuration from environment variables and .env file if present.
func Load() *Config {
	// load .env silently (no error if missing)
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName: pkgconfig.GetEnv("SERVICE_NAME", "snapshot-adapter"),
		Env:         pkgconfig.GetEnv("ENV", "dev"),
		LogLevel:    pkgconfig.GetEnv("LOG_LEVEL", "info"),
		Port:        pkgconfig.GetEnvInt("PORT", 9020),
		MetricsPort: pkgconfig.GetEnvInt("METRICS_PORT", 9120),

		OKXBase:     pkgconfig.GetEnv("OKX_BASE", "https://www.okx.com"),
		BinanceBase: pkgconfig.GetEnv("BINANCE_BASE", "https://fapi.binance.com"),
		BybitBase:   pkgconfig.GetEnv("BYBIT_BASE", "https://api.bybit.com"),

		HTTPTimeout: pkgconfig.GetEnvDuration("HTTP_TIMEOUT", 12*time.Second),
		VenueRPS:    pkgconfig.GetEnvInt("VENUE_RPS", 5),
		VenueBurst:  pkgconfig.GetEnvInt("VENUE_BURST", 10),

		CacheTTL:     pkgconfig.GetEnvDuration("CACHE_TTL_SECONDS", 8*time.Second),
		CacheBackend: pkgconfig.GetEnv("CACHE_BACKEND", "memory"),
		RedisAddr:    pkgconfig.GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:      pkgconfig.GetEnvInt("REDIS_DB", 0),
		RedisPass:    pkgconfig.GetEnv("REDIS_PASS", ""),

		NATSURL:         pkgconfig.GetEnv("NATS_URL", ""),
		SnapshotSubject: pkgconfig.GetEnv("SNAPSHOT_SUBJECT", "evt.market.snapshot.v1"),
	}

	return cfg
}
