package usecases

import (
	"context"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/dongne/internal/core/domain"
	"github.com/samirrijal/dongne/internal/core/ports"
	"github.com/samirrijal/dongne/internal/pkg/geospatial"
	"github.com/samirrijal/dongne/internal/pkg/pagination"
	"github.com/samirrijal/dongne/internal/pkg/telemetry"
)

// SearchOptions tunes SearchService. Zero values select the defaults.
type SearchOptions struct {
	DefaultLimit    int // 10
	MaxLimit        int // 100
	CacheTTLSeconds int // 0 disables caching
}

// SearchService finds available listings within a radius of a point.
//
// The store has no spatial index, so a bounding box around the search circle
// is pushed down as latitude/longitude range clauses together with the
// status, category and price filters. Candidates are then checked against
// the exact haversine distance, sorted by it and paginated in memory.
//
// A centre that is not a valid coordinate does not fail the search: the
// geo clauses are dropped and the page is filtered by category and price
// only, with no distance on the items.
type SearchService struct {
	listings ports.ListingRepository
	cache    ports.CacheService
	opts     SearchOptions
	tracer   trace.Tracer
}

// NewSearchService creates a new SearchService. cache may be nil.
func NewSearchService(listings ports.ListingRepository, cache ports.CacheService, opts SearchOptions) *SearchService {
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 100
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 10
	}
	if opts.DefaultLimit > opts.MaxLimit {
		opts.DefaultLimit = opts.MaxLimit
	}
	return &SearchService{
		listings: listings,
		cache:    cache,
		opts:     opts,
		tracer:   otel.Tracer(telemetry.TracerName),
	}
}

// Search returns one page of listings near f.Center, nearest first.
// domain.ErrInvalidRadius is returned before the store is queried; store
// errors are returned unchanged.
func (s *SearchService) Search(ctx context.Context, f domain.SearchFilters, page int) (domain.Page[domain.SearchResultItem], error) {
	if !(f.RadiusKm > 0) {
		return domain.Page[domain.SearchResultItem]{}, domain.ErrInvalidRadius
	}
	if page < 1 {
		page = 1
	}
	limit := s.clampLimit(f.Limit)

	degraded := !geospatial.IsValidCoordinate(f.Center)

	ctx, span := s.tracer.Start(ctx, telemetry.SpanSearch, trace.WithAttributes(
		attribute.Float64(telemetry.AttrRadiusKm, f.RadiusKm),
		attribute.Int(telemetry.AttrPage, page),
		attribute.Int(telemetry.AttrLimit, limit),
		attribute.Bool(telemetry.AttrDegraded, degraded),
	))
	defer span.End()

	cacheKey := searchCacheKey(f, page, limit)
	if cached, ok := s.fromCache(ctx, cacheKey); ok {
		span.SetAttributes(attribute.Bool(telemetry.AttrCacheHit, true))
		return cached, nil
	}

	var (
		result domain.Page[domain.SearchResultItem]
		err    error
	)
	if degraded {
		result, err = s.searchUnbounded(ctx, f, page, limit)
	} else {
		result, err = s.searchNearby(ctx, f, page, limit)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Page[domain.SearchResultItem]{}, err
	}

	span.SetAttributes(attribute.Int(telemetry.AttrResults, len(result.Items)))
	s.toCache(ctx, cacheKey, result)
	return result, nil
}

func (s *SearchService) searchNearby(ctx context.Context, f domain.SearchFilters, page, limit int) (domain.Page[domain.SearchResultItem], error) {
	box := geospatial.BoundingBox(f.Center, f.RadiusKm)
	lat := box.LatitudeRange()

	q := baseQuery(f)
	q.Latitude = &lat
	q.Longitude = box.LongitudeRanges()

	candidates, err := s.listings.QueryListings(ctx, q)
	if err != nil {
		return domain.Page[domain.SearchResultItem]{}, err
	}

	items := make([]domain.SearchResultItem, 0, len(candidates))
	for _, l := range candidates {
		if !priceInRange(l.Price, f.PriceMin, f.PriceMax) {
			continue
		}
		d := geospatial.HaversineKm(f.Center, l.Location.Point())
		if d > f.RadiusKm {
			continue
		}
		items = append(items, domain.SearchResultItem{Listing: l, DistanceKm: &d})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return *items[i].DistanceKm < *items[j].DistanceKm
	})

	return pagination.Paginate(func(n int) ([]domain.SearchResultItem, error) {
		return pagination.Window(items, page, limit, n), nil
	}, page, limit)
}

func (s *SearchService) searchUnbounded(ctx context.Context, f domain.SearchFilters, page, limit int) (domain.Page[domain.SearchResultItem], error) {
	return pagination.Paginate(func(n int) ([]domain.SearchResultItem, error) {
		q := baseQuery(f)
		q.Offset = pagination.Offset(page, limit)
		q.Limit = n

		listings, err := s.listings.QueryListings(ctx, q)
		if err != nil {
			return nil, err
		}
		items := make([]domain.SearchResultItem, len(listings))
		for i, l := range listings {
			items[i] = domain.SearchResultItem{Listing: l}
		}
		return items, nil
	}, page, limit)
}

func (s *SearchService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		return s.opts.MaxLimit
	}
	return limit
}

func (s *SearchService) fromCache(ctx context.Context, key string) (domain.Page[domain.SearchResultItem], bool) {
	var p domain.Page[domain.SearchResultItem]
	if s.cache == nil || s.opts.CacheTTLSeconds <= 0 {
		return p, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return p, false
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, false
	}
	return p, true
}

func (s *SearchService) toCache(ctx context.Context, key string, p domain.Page[domain.SearchResultItem]) {
	if s.cache == nil || s.opts.CacheTTLSeconds <= 0 {
		return
	}
	if data, err := json.Marshal(p); err == nil {
		_ = s.cache.Set(ctx, key, data, s.opts.CacheTTLSeconds)
	}
}

func baseQuery(f domain.SearchFilters) domain.ListingQuery {
	available := domain.StatusAvailable
	return domain.ListingQuery{
		Status:   &available,
		Category: f.Category,
		PriceMin: f.PriceMin,
		PriceMax: f.PriceMax,
	}
}

func priceInRange(price int, lo, hi *int) bool {
	if lo != nil && price < *lo {
		return false
	}
	if hi != nil && price > *hi {
		return false
	}
	return true
}

// searchCacheKey rounds the centre to ~1 m so equivalent requests share an entry.
func searchCacheKey(f domain.SearchFilters, page, limit int) string {
	cat, pmin, pmax := "*", "*", "*"
	if f.Category != nil {
		cat = string(*f.Category)
	}
	if f.PriceMin != nil {
		pmin = fmt.Sprint(*f.PriceMin)
	}
	if f.PriceMax != nil {
		pmax = fmt.Sprint(*f.PriceMax)
	}
	return fmt.Sprintf("listings:nearby:%.5f:%.5f:%.3f:%s:%s:%s:%d:%d",
		f.Center.Latitude, f.Center.Longitude, f.RadiusKm, cat, pmin, pmax, page, limit)
}
