// Package store opens the listing store selected by configuration.
package store

import (
	"context"
	"fmt"

	mongoadapter "github.com/samirrijal/dongne/internal/adapters/mongo"
	"github.com/samirrijal/dongne/internal/adapters/postgres"
	"github.com/samirrijal/dongne/internal/core/ports"
	"github.com/samirrijal/dongne/internal/pkg/config"
	"github.com/samirrijal/dongne/internal/pkg/metrics"
)

// Supported drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Store is an open listing store.
type Store struct {
	Listings ports.ListingRepository

	mongo *mongoadapter.DB
	pg    *postgres.DB
}

// Open connects to the store named by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Store.Driver {
	case DriverMongo:
		db, err := mongoadapter.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		return &Store{Listings: mongoadapter.NewListingRepo(db), mongo: db}, nil
	case DriverPostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return &Store{Listings: postgres.NewListingRepo(db), pg: db}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// Driver returns the name of the open driver.
func (s *Store) Driver() string {
	if s.pg != nil {
		return DriverPostgres
	}
	return DriverMongo
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if s.pg != nil {
		return s.pg.Ping(ctx)
	}
	return s.mongo.Ping(ctx)
}

// EnsureSchema creates the MongoDB indexes. Postgres schema is managed by
// cmd/migrate, so this is a no-op there.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s.mongo != nil {
		return s.mongo.EnsureIndexes(ctx)
	}
	return nil
}

// PoolStat returns connection pool statistics when the driver exposes them.
func (s *Store) PoolStat() (metrics.PoolStat, bool) {
	if s.pg == nil {
		return nil, false
	}
	return s.pg.Pool.Stat(), true
}

// Postgres returns the underlying Postgres handle, or nil.
func (s *Store) Postgres() *postgres.DB {
	return s.pg
}

// Close releases the connection.
func (s *Store) Close(ctx context.Context) error {
	if s.pg != nil {
		s.pg.Close()
		return nil
	}
	return s.mongo.Close(ctx)
}
