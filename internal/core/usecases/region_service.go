package usecases

import (
	"github.com/samirrijal/dongne/internal/core/domain"
	"github.com/samirrijal/dongne/internal/pkg/geospatial"
)

// RegionService resolves coordinates to named regions. The table is copied at
// construction and never written afterwards, so the service is safe for
// concurrent use without locking.
type RegionService struct {
	table []domain.RegionEntry
}

// NewRegionService creates a new RegionService over a copy of table.
func NewRegionService(table []domain.RegionEntry) *RegionService {
	t := make([]domain.RegionEntry, len(table))
	copy(t, table)
	return &RegionService{table: t}
}

// ResolveRegion returns the name of the region nearest to p, or "" when p is
// not a valid coordinate or the table is empty.
func (s *RegionService) ResolveRegion(p domain.GeoPoint) string {
	if !geospatial.IsValidCoordinate(p) {
		return ""
	}
	return geospatial.NearestRegion(p, s.table)
}

// List returns a copy of the region table.
func (s *RegionService) List() []domain.RegionEntry {
	out := make([]domain.RegionEntry, len(s.table))
	copy(out, s.table)
	return out
}
