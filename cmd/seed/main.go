package main

import (
	"context"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"

	"github.com/samirrijal/dongne/internal/adapters/store"
	"github.com/samirrijal/dongne/internal/core/domain"
	"github.com/samirrijal/dongne/internal/core/usecases"
	"github.com/samirrijal/dongne/internal/pkg/config"
	"github.com/samirrijal/dongne/internal/pkg/regions"
)

// SeedFile is the layout of the seed JSON file.
type SeedFile struct {
	Source   string      `json:"source"`
	Listings []SeedEntry `json:"listings"`
}

type SeedEntry struct {
	SellerID    string          `json:"seller_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       int             `json:"price"`
	Category    domain.Category `json:"category"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
	Region      string          `json:"region"`
	ImageURLs   []string        `json:"image_urls"`
}

func (e SeedEntry) listing() *domain.Listing {
	return &domain.Listing{
		SellerID:    e.SellerID,
		Title:       e.Title,
		Description: e.Description,
		Price:       e.Price,
		Category:    e.Category,
		Location: domain.ListingLocation{
			Latitude:  e.Latitude,
			Longitude: e.Longitude,
			Region:    e.Region,
		},
		ImageURLs: e.ImageURLs,
	}
}

func main() {
	cfg, err := config.Load("dongne-seed")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	path := "seed/listings.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read seed file: %v", err)
	}

	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		log.Fatalf("parse seed file: %v", err)
	}

	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer func() { _ = st.Close(context.Background()) }()
	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	table, err := regions.Load(cfg.Regions.File)
	if err != nil {
		log.Fatalf("regions: %v", err)
	}

	// No events or cache: seeding must not wake subscribers.
	listings := usecases.NewListingService(st.Listings, usecases.NewRegionService(table), nil, nil)

	log.Printf("seeding %d listings from %s into %s", len(seed.Listings), seed.Source, st.Driver())

	var (
		wg      sync.WaitGroup
		created atomic.Int64
	)
	sem := make(chan struct{}, 8) // max 8 concurrent inserts

	for i, entry := range seed.Listings {
		wg.Add(1)
		go func(i int, e SeedEntry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if _, err := listings.Create(ctx, e.listing()); err != nil {
				log.Printf("ERROR [%d %q]: %v", i, e.Title, err)
				return
			}
			created.Add(1)
		}(i, entry)
	}

	wg.Wait()
	log.Printf("seeding complete: %d/%d created", created.Load(), len(seed.Listings))
}
