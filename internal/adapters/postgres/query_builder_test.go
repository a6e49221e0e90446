package postgres

import (
	"strings"
	"testing"

	"github.com/samirrijal/dongne/internal/core/domain"
)

func TestBuildListingQuery_Empty(t *testing.T) {
	sql, args := buildListingQuery(domain.ListingQuery{})
	if sql != "ORDER BY created_at DESC, id DESC" {
		t.Errorf("unexpected sql: %q", sql)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestBuildListingQuery_Search(t *testing.T) {
	status := domain.StatusAvailable
	cat := domain.CategoryDigital
	lo := 1000
	lat := domain.Range{Min: 37.5, Max: 37.6}

	sql, args := buildListingQuery(domain.ListingQuery{
		Status:    &status,
		Category:  &cat,
		Latitude:  &lat,
		Longitude: []domain.Range{{Min: 126.9, Max: 127.0}},
		PriceMin:  &lo,
	})

	want := "WHERE status = $1 AND category = $2 AND latitude BETWEEN $3 AND $4 AND longitude BETWEEN $5 AND $6 AND price >= $7 ORDER BY created_at DESC, id DESC"
	if sql != want {
		t.Errorf("sql =\n%s\nwant\n%s", sql, want)
	}
	if len(args) != 7 || args[0] != "available" || args[2] != 37.5 || args[6] != 1000 {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuildListingQuery_WrappedLongitude(t *testing.T) {
	sql, args := buildListingQuery(domain.ListingQuery{
		Longitude: []domain.Range{{Min: 179.9, Max: 180}, {Min: -180, Max: -179.9}},
	})
	if !strings.Contains(sql, "(longitude BETWEEN $1 AND $2 OR longitude BETWEEN $3 AND $4)") {
		t.Errorf("expected OR-ed longitude ranges, got %q", sql)
	}
	if len(args) != 4 {
		t.Errorf("expected 4 args, got %d", len(args))
	}
}

func TestBuildListingQuery_Window(t *testing.T) {
	sql, args := buildListingQuery(domain.ListingQuery{SellerID: "s1", Offset: 20, Limit: 11})
	if !strings.HasSuffix(sql, "LIMIT $2 OFFSET $3") {
		t.Errorf("expected limit/offset tail, got %q", sql)
	}
	if args[1] != 11 || args[2] != 20 {
		t.Errorf("unexpected args: %v", args)
	}
}
