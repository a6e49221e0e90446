package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samirrijal/dongne/internal/adapters/store"
	"github.com/samirrijal/dongne/internal/pkg/config"
)

var upFiles = []string{
	"migrations/001_listings.sql",
}

var downFiles = []string{
	"migrations/001_listings.down.sql",
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	cfg, err := config.Load("dongne-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if cfg.Store.Driver == store.DriverMongo {
		migrateMongo(ctx, cfg, os.Args[1])
		return
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	switch os.Args[1] {
	case "up":
		runFiles(ctx, pool, upFiles)
	case "down":
		runFiles(ctx, pool, downFiles)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

// migrateMongo only has indexes to manage; collections are created on first write.
func migrateMongo(ctx context.Context, cfg *config.Config, cmd string) {
	if cmd != "up" {
		log.Fatalf("mongo driver supports only up, got %s", cmd)
	}
	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer func() { _ = st.Close(context.Background()) }()

	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}
	log.Println("mongo indexes ensured")
}

func runFiles(ctx context.Context, pool *pgxpool.Pool, files []string) {
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		_, err = pool.Exec(ctx, string(data))
		if err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}

		fmt.Printf("OK  %s\n", f)
	}

	log.Println("all migrations applied")
}
