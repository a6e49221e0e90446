package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/samirrijal/dongne/internal/core/domain"
	"github.com/samirrijal/dongne/internal/core/ports"
	"github.com/samirrijal/dongne/internal/pkg/geospatial"
	"github.com/samirrijal/dongne/internal/pkg/pagination"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	listingCacheTTL  = 60
)

// ListFilter narrows a browse query.
type ListFilter struct {
	Category *domain.Category
	Status   *domain.ListingStatus
	SellerID string
}

// ListingService handles listing CRUD and browsing.
type ListingService struct {
	listings ports.ListingRepository
	regions  *RegionService
	events   ports.EventPublisher
	cache    ports.CacheService
	now      func() time.Time
}

// NewListingService creates a new ListingService. events and cache may be nil.
func NewListingService(
	listings ports.ListingRepository,
	regions *RegionService,
	events ports.EventPublisher,
	cache ports.CacheService,
) *ListingService {
	return &ListingService{
		listings: listings,
		regions:  regions,
		events:   events,
		cache:    cache,
		now:      time.Now,
	}
}

// Create stores a new available listing. The region is resolved from the
// location when the caller leaves it empty.
func (s *ListingService) Create(ctx context.Context, in *domain.Listing) (*domain.Listing, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", domain.ErrInvalidListing)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidListing)
	}
	if !in.Category.Valid() {
		return nil, domain.ErrInvalidCategory
	}
	if !geospatial.IsValidCoordinate(in.Location.Point()) {
		return nil, domain.ErrInvalidLocation
	}

	now := s.now().UTC()
	listing := *in
	listing.ID = uuid.NewString()
	listing.Status = domain.StatusAvailable
	listing.CreatedAt = now
	listing.UpdatedAt = now
	if listing.Location.Region == "" && s.regions != nil {
		listing.Location.Region = s.regions.ResolveRegion(listing.Location.Point())
	}

	if err := s.listings.Create(ctx, &listing); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	s.publish(ctx, domain.EventListingCreated, &listing)
	return &listing, nil
}

// GetByID returns a single listing.
func (s *ListingService) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	cacheKey := "listings:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var l domain.Listing
			if err := json.Unmarshal(data, &l); err == nil {
				return &l, nil
			}
		}
	}

	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(l); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, listingCacheTTL)
		}
	}
	return l, nil
}

// List returns one page of listings matching f, newest first.
func (s *ListingService) List(ctx context.Context, f ListFilter, page, limit int) (domain.Page[domain.Listing], error) {
	if f.Category != nil && !f.Category.Valid() {
		return domain.Page[domain.Listing]{}, domain.ErrInvalidCategory
	}
	if f.Status != nil && !f.Status.Valid() {
		return domain.Page[domain.Listing]{}, domain.ErrInvalidStatus
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	return pagination.Paginate(func(n int) ([]domain.Listing, error) {
		return s.listings.QueryListings(ctx, domain.ListingQuery{
			Category: f.Category,
			Status:   f.Status,
			SellerID: f.SellerID,
			Offset:   pagination.Offset(page, limit),
			Limit:    n,
		})
	}, page, limit)
}

// ListBySeller returns one page of a seller's listings in any status.
func (s *ListingService) ListBySeller(ctx context.Context, sellerID string, page, limit int) (domain.Page[domain.Listing], error) {
	if sellerID == "" {
		return domain.Page[domain.Listing]{}, fmt.Errorf("%w: seller id must not be empty", domain.ErrInvalidListing)
	}
	return s.List(ctx, ListFilter{SellerID: sellerID}, page, limit)
}

// UpdateStatus moves a listing to status and announces the change.
func (s *ListingService) UpdateStatus(ctx context.Context, id string, status domain.ListingStatus) (*domain.Listing, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	l, err := s.listings.UpdateStatus(ctx, id, nil, status)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	s.publish(ctx, domain.EventListingStatusChanged, l)
	return l, nil
}

// ReleaseReservation returns a reserved listing to available. It reports
// false without error when the listing is no longer reserved or was deleted.
func (s *ListingService) ReleaseReservation(ctx context.Context, id string) (bool, error) {
	reserved := domain.StatusReserved
	l, err := s.listings.UpdateStatus(ctx, id, &reserved, domain.StatusAvailable)
	if errors.Is(err, domain.ErrStatusConflict) || errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("release reservation %s: %w", id, err)
	}
	s.invalidate(ctx, id)
	s.publish(ctx, domain.EventListingStatusChanged, l)
	return true, nil
}

// Delete removes a listing.
func (s *ListingService) Delete(ctx context.Context, id string) error {
	if err := s.listings.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ListingService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "listings:id:"+id)
	}
}

// publish is best-effort; the listing is already persisted.
func (s *ListingService) publish(ctx context.Context, kind string, l *domain.Listing) {
	if s.events == nil {
		return
	}
	event := &domain.ListingEvent{
		Type:      kind,
		ListingID: l.ID,
		SellerID:  l.SellerID,
		Status:    l.Status,
		Category:  l.Category,
		Location:  l.Location.Point(),
		Region:    l.Location.Region,
		Time:      s.now().UTC(),
	}
	if kind == domain.EventListingCreated {
		_ = s.events.PublishListingCreated(ctx, event)
		return
	}
	_ = s.events.PublishListingStatusChanged(ctx, event)
}
