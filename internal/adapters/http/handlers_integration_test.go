//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	handler "github.com/samirrijal/dongne/internal/adapters/http"
	mongoadapter "github.com/samirrijal/dongne/internal/adapters/mongo"
	"github.com/samirrijal/dongne/internal/core/domain"
	"github.com/samirrijal/dongne/internal/core/usecases"
	"github.com/samirrijal/dongne/internal/pkg/regions"
)

// setupTestDB connects to MongoDB and returns a throwaway database.
func setupTestDB(t *testing.T) *mongoadapter.DB {
	t.Helper()
	uri := os.Getenv("DONGNE_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := mongoadapter.New(ctx, uri, "dongne_http_test_"+uuid.NewString()[:8])
	if err != nil {
		t.Skipf("mongo unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Database.Drop(context.Background())
		_ = db.Close(context.Background())
	})
	if err := db.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	return db
}

// setupTestDeps wires real services over the store, without cache or events.
func setupTestDeps(db *mongoadapter.DB) *handler.Dependencies {
	repo := mongoadapter.NewListingRepo(db)
	regionSvc := usecases.NewRegionService(regions.Default())
	return &handler.Dependencies{
		Search:   usecases.NewSearchService(repo, nil, usecases.SearchOptions{}),
		Listings: usecases.NewListingService(repo, regionSvc, nil, nil),
		Regions:  regionSvc,
		Store:    db,
	}
}

func postListing(t *testing.T, deps *handler.Dependencies, body string) domain.Listing {
	t.Helper()
	app := setupApp(deps)
	req := httptest.NewRequest("POST", "/v1/listings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var l domain.Listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return l
}

func TestNearbyListings_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	deps := setupTestDeps(db)

	// Gangnam station and Hongdae are ~11 km apart; Haeundae is in Busan.
	gangnam := postListing(t, deps, `{"seller_id":"s1","title":"Bike","price":90000,"category":"sports","latitude":37.4979,"longitude":127.0276}`)
	postListing(t, deps, `{"seller_id":"s2","title":"Guitar","price":120000,"category":"hobby","latitude":37.5563,"longitude":126.9220}`)
	postListing(t, deps, `{"seller_id":"s3","title":"Surfboard","price":200000,"category":"sports","latitude":35.1587,"longitude":129.1604}`)

	if gangnam.Location.Region != "Seoul" {
		t.Errorf("expected region Seoul, got %q", gangnam.Location.Region)
	}

	app := setupApp(deps)
	req := httptest.NewRequest("GET", "/v1/listings/nearby?lat=37.4979&lng=127.0276&radius_km=5", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.Data) != 1 || result.Data[0].Listing.ID != gangnam.ID {
		t.Fatalf("expected only the Gangnam listing, got %+v", result.Data)
	}
}

func TestListingLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	deps := setupTestDeps(db)
	l := postListing(t, deps, `{"seller_id":"s1","title":"Sofa","price":50000,"category":"furniture","latitude":37.5665,"longitude":126.978}`)

	app := setupApp(deps)
	req := httptest.NewRequest("PATCH", "/v1/listings/"+l.ID+"/status", strings.NewReader(`{"status":"sold"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// Sold listings drop out of the nearby search.
	resp, _ = app.Test(httptest.NewRequest("GET", "/v1/listings/nearby?lat=37.5665&lng=126.978&radius_km=1", nil), -1)
	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.Data) != 0 {
		t.Errorf("expected no available listings, got %d", len(result.Data))
	}

	resp, _ = app.Test(httptest.NewRequest("DELETE", "/v1/listings/"+l.ID, nil), -1)
	if resp.StatusCode != 204 {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	resp, _ = app.Test(httptest.NewRequest("GET", "/v1/listings/"+l.ID, nil), -1)
	if resp.StatusCode != 404 {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestReady_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	app := setupApp(setupTestDeps(db))

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/ready", nil), -1)
	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}
