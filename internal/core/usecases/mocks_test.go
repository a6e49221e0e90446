package usecases_test

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/samirrijal/dongne/internal/core/domain"
)

// --- Mock ListingRepository ---

type mockListingRepo struct {
	createFn       func(ctx context.Context, l *domain.Listing) error
	getByIDFn      func(ctx context.Context, id string) (*domain.Listing, error)
	queryFn        func(ctx context.Context, q domain.ListingQuery) ([]domain.Listing, error)
	updateStatusFn func(ctx context.Context, id string, from *domain.ListingStatus, to domain.ListingStatus) (*domain.Listing, error)
	deleteFn       func(ctx context.Context, id string) error

	queries []domain.ListingQuery
}

func (m *mockListingRepo) Create(ctx context.Context, l *domain.Listing) error {
	if m.createFn != nil {
		return m.createFn(ctx, l)
	}
	return nil
}

func (m *mockListingRepo) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockListingRepo) QueryListings(ctx context.Context, q domain.ListingQuery) ([]domain.Listing, error) {
	m.queries = append(m.queries, q)
	if m.queryFn != nil {
		return m.queryFn(ctx, q)
	}
	return nil, nil
}

func (m *mockListingRepo) UpdateStatus(ctx context.Context, id string, from *domain.ListingStatus, to domain.ListingStatus) (*domain.Listing, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, from, to)
	}
	return &domain.Listing{ID: id, Status: to}, nil
}

func (m *mockListingRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	created []*domain.ListingEvent
	changed []*domain.ListingEvent
}

func (m *mockPublisher) PublishListingCreated(ctx context.Context, e *domain.ListingEvent) error {
	m.created = append(m.created, e)
	return nil
}

func (m *mockPublisher) PublishListingStatusChanged(ctx context.Context, e *domain.ListingEvent) error {
	m.changed = append(m.changed, e)
	return nil
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
	dels []string
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.dels = append(m.dels, key)
	return nil
}

// --- helpers ---

var seoul = domain.GeoPoint{Latitude: 37.5665, Longitude: 126.9780}

// pointAt returns the point distKm from origin along bearingDeg.
func pointAt(origin domain.GeoPoint, bearingDeg, distKm float64) domain.GeoPoint {
	const r = 6371.0
	rad := math.Pi / 180
	d := distKm / r
	th := bearingDeg * rad
	lat1 := origin.Latitude * rad
	lon1 := origin.Longitude * rad

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(th))
	lon2 := lon1 + math.Atan2(math.Sin(th)*math.Sin(d)*math.Cos(lat1), math.Cos(d)-math.Sin(lat1)*math.Sin(lat2))
	return domain.GeoPoint{Latitude: lat2 / rad, Longitude: lon2 / rad}
}

func listingAt(id string, p domain.GeoPoint, price int) domain.Listing {
	return domain.Listing{
		ID:       id,
		Title:    "item " + id,
		Price:    price,
		Category: domain.CategoryDigital,
		Status:   domain.StatusAvailable,
		Location: domain.ListingLocation{Latitude: p.Latitude, Longitude: p.Longitude},
	}
}

// boxFilter applies the range clauses of q like a store would.
func boxFilter(all []domain.Listing, q domain.ListingQuery) []domain.Listing {
	var out []domain.Listing
	for _, l := range all {
		if q.Latitude != nil && (l.Location.Latitude < q.Latitude.Min || l.Location.Latitude > q.Latitude.Max) {
			continue
		}
		if len(q.Longitude) > 0 {
			in := false
			for _, r := range q.Longitude {
				if l.Location.Longitude >= r.Min && l.Location.Longitude <= r.Max {
					in = true
				}
			}
			if !in {
				continue
			}
		}
		if q.Category != nil && l.Category != *q.Category {
			continue
		}
		out = append(out, l)
	}
	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func intPtr(v int) *int { return &v }

type mockScheduler struct {
	calls []string
	hold  time.Duration
	err   error
}

func (m *mockScheduler) ScheduleRelease(ctx context.Context, listingID string, hold time.Duration) error {
	m.calls = append(m.calls, listingID)
	m.hold = hold
	return m.err
}

type mockSubscriber struct {
	status  domain.ListingStatus
	handler func(ctx context.Context, e *domain.ListingEvent) error
}

func (m *mockSubscriber) SubscribeListingStatus(ctx context.Context, status domain.ListingStatus, handler func(ctx context.Context, e *domain.ListingEvent) error) error {
	m.status = status
	m.handler = handler
	return nil
}
