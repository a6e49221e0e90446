package natsadapter

import (
	"strings"
	"testing"

	"github.com/samirrijal/dongne/internal/core/domain"
)

func TestCreatedSubject(t *testing.T) {
	s := CreatedSubject(domain.GeoPoint{Latitude: 37.5665, Longitude: 126.9780})
	if !strings.HasPrefix(s, "listing.created.") {
		t.Fatalf("unexpected subject %q", s)
	}
	cell := strings.TrimPrefix(s, "listing.created.")
	if len(cell) != 5 {
		t.Errorf("expected 5-character geohash, got %q", cell)
	}
	if cell != "wydm9" {
		t.Errorf("expected wydm9 for Seoul City Hall, got %q", cell)
	}
}

func TestStatusSubject(t *testing.T) {
	if got := StatusSubject(domain.StatusReserved); got != "listing.status.reserved" {
		t.Errorf("unexpected subject %q", got)
	}
}

func TestNeighbourhoodSubjects(t *testing.T) {
	p := domain.GeoPoint{Latitude: 37.5665, Longitude: 126.9780}
	subjects := NeighbourhoodSubjects(p)
	if len(subjects) != 9 {
		t.Fatalf("expected 9 subjects, got %d", len(subjects))
	}
	if subjects[0] != CreatedSubject(p) {
		t.Errorf("expected own cell first, got %q", subjects[0])
	}
	seen := map[string]bool{}
	for _, s := range subjects {
		if seen[s] {
			t.Errorf("duplicate subject %q", s)
		}
		seen[s] = true
	}
}
