package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/dongne/internal/adapters/http"
	natsadapter "github.com/samirrijal/dongne/internal/adapters/nats"
	"github.com/samirrijal/dongne/internal/adapters/store"
	"github.com/samirrijal/dongne/internal/adapters/valkey"
	"github.com/samirrijal/dongne/internal/core/ports"
	"github.com/samirrijal/dongne/internal/core/usecases"
	"github.com/samirrijal/dongne/internal/pkg/config"
	"github.com/samirrijal/dongne/internal/pkg/logging"
	"github.com/samirrijal/dongne/internal/pkg/metrics"
	"github.com/samirrijal/dongne/internal/pkg/regions"
	"github.com/samirrijal/dongne/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("dongne-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	// Listing store
	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer func() { _ = st.Close(context.Background()) }()
	if err := st.EnsureSchema(ctx); err != nil {
		slog.Warn("ensure store schema failed", "driver", st.Driver(), "error", err)
	}
	slog.Info("listing store connected", "driver", st.Driver())

	// Cache: in-process tier always, Valkey behind it when reachable
	var remote ports.CacheService
	var cachePinger http.Pinger
	vc, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.KeyPrefix)
	if err != nil {
		slog.Warn("valkey unavailable, using local cache only", "error", err)
	} else {
		defer vc.Close()
		remote = vc
		cachePinger = vc
	}
	cache := valkey.NewTiered(remote, cfg.Search.LocalCacheSize, 10*time.Second)
	defer cache.Close()

	// NATS
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, listing events disabled", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	table, err := regions.Load(cfg.Regions.File)
	if err != nil {
		log.Fatalf("regions: %v", err)
	}

	// Use cases
	regionSvc := usecases.NewRegionService(table)
	listingSvc := usecases.NewListingService(st.Listings, regionSvc, events, cache)
	searchSvc := usecases.NewSearchService(st.Listings, cache, usecases.SearchOptions{
		DefaultLimit:    cfg.Search.DefaultLimit,
		MaxLimit:        cfg.Search.MaxLimit,
		CacheTTLSeconds: cfg.Search.CacheTTLSeconds,
	})

	deps := &http.Dependencies{
		Search:         searchSvc,
		Listings:       listingSvc,
		Regions:        regionSvc,
		NATS:           natsConn,
		Store:          st,
		Cache:          cachePinger,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
	}

	// Postgres pool gauges
	if _, ok := st.PoolStat(); ok {
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if s, ok := st.PoolStat(); ok {
						metrics.UpdateDBPoolMetrics(s)
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Dongne Market API",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, If-None-Match",
		ExposeHeaders:    "Link, ETag, X-Request-ID, X-Search-Mode",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
