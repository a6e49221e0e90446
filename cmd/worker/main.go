package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/dongne/internal/adapters/nats"
	"github.com/samirrijal/dongne/internal/adapters/store"
	"github.com/samirrijal/dongne/internal/adapters/valkey"
	"github.com/samirrijal/dongne/internal/core/ports"
	"github.com/samirrijal/dongne/internal/core/usecases"
	"github.com/samirrijal/dongne/internal/pkg/config"
	"github.com/samirrijal/dongne/internal/pkg/logging"
	"github.com/samirrijal/dongne/internal/pkg/regions"
	"github.com/samirrijal/dongne/internal/workflows"
)

func main() {
	cfg, err := config.Load("dongne-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer func() { _ = st.Close(context.Background()) }()

	table, err := regions.Load(cfg.Regions.File)
	if err != nil {
		log.Fatalf("regions: %v", err)
	}

	// Released listings must drop their cached copy and announce the change.
	var cache ports.CacheService
	if vc, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.KeyPrefix); err != nil {
		slog.Warn("valkey unavailable, cache invalidation disabled", "error", err)
	} else {
		defer vc.Close()
		cache = vc
	}

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer pub.Close()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()

	listingSvc := usecases.NewListingService(st.Listings, usecases.NewRegionService(table), pub, cache)

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(slog.Default()),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.ReservationHoldWorkflow)
	w.RegisterActivity(&workflows.ReservationActivities{Listings: listingSvc})

	hold := time.Duration(cfg.Reservation.HoldHours) * time.Hour
	reservations := usecases.NewReservationService(workflows.NewScheduler(c, cfg.Temporal.TaskQueue), hold)
	if err := reservations.Watch(ctx, sub); err != nil {
		log.Fatalf("watch reservations: %v", err)
	}

	slog.Info("reservation worker started", "task_queue", cfg.Temporal.TaskQueue, "hold", hold)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
