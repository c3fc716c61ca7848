package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"

	"github.com/Checker-Finance/market-snapshot/internal/api"
	"github.com/Checker-Finance/market-snapshot/internal/cache"
	"github.com/Checker-Finance/market-snapshot/internal/config"
	"github.com/Checker-Finance/market-snapshot/internal/metrics"
	"github.com/Checker-Finance/market-snapshot/internal/publisher"
	"github.com/Checker-Finance/market-snapshot/internal/rate"
	"github.com/Checker-Finance/market-snapshot/internal/snapshot"
	"github.com/Checker-Finance/market-snapshot/internal/venue"
	"github.com/Checker-Finance/market-snapshot/pkg/logger"
)

func main() {
	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [snapshot-adapter]...")

	// --- Snapshot cache ---
	var store cache.Store
	switch strings.ToLower(cfg.CacheBackend) {
	case "redis":
		rc, err := cache.NewRedis(cfg.RedisAddr, cfg.RedisDB, cfg.RedisPass, cfg.CacheTTL, logger.L())
		if err != nil {
			logg.Fatalw("failed to init redis cache", "error", err)
		}
		defer rc.Close() //nolint:errcheck
		store = rc
	default:
		mem := cache.NewMemory(cfg.CacheTTL)
		stop := make(chan struct{})
		defer close(stop)
		go mem.StartCleaner(time.Minute, stop)
		store = mem
	}

	// --- Optional NATS publisher ---
	var pub snapshot.Publisher
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			logg.Fatalw("failed to connect to NATS", "error", err)
		}
		defer nc.Drain() //nolint:errcheck

		p, err := publisher.New(nc, cfg.SnapshotSubject, cfg.ServiceName)
		if err != nil {
			logg.Fatalw("failed to init publisher", "error", err)
		}
		pub = p
	}

	// --- Rate limiter ---
	rateMgr := rate.NewManager(rate.Config{
		RequestsPerSecond: cfg.VenueRPS,
		Burst:             cfg.VenueBurst,
	})

	// --- Venue adapters ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	registry := venue.NewRegistry(
		venue.NewOKX(logger.L(), cfg.OKXBase, rateMgr, httpClient),
		venue.NewBinance(logger.L(), cfg.BinanceBase, rateMgr, httpClient),
		venue.NewBybit(logger.L(), cfg.BybitBase, rateMgr, httpClient),
	)

	// --- Snapshot service (core engine) ---
	svc := snapshot.NewService(logger.L(), registry, store, pub)

	// --- HTTP surface ---
	app := fiber.New(fiber.Config{DisableStartupMessage: cfg.Env != "dev"})
	h := &api.Handler{
		Logger:  logger.L(),
		Service: svc,
	}
	api.RegisterRoutes(app, h)

	metrics.StartServer(fmt.Sprintf(":%d", cfg.MetricsPort))

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Fatalw("http server stopped", "error", err)
		}
	}()
	logg.Infow("snapshot-adapter listening",
		"port", cfg.Port,
		"metrics_port", cfg.MetricsPort,
		"cache_backend", cfg.CacheBackend,
		"cache_ttl", cfg.CacheTTL.String(),
	)

	// --- Graceful shutdown ---
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logg.Info("shutting down...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		logg.Warnw("shutdown error", "error", err)
	}
}
