package ports

import (
	"context"

	"github.com/samirrijal/dongne/internal/core/domain"
)

// ListingRepository persists listings.
type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id string) (*domain.Listing, error)

	// QueryListings executes q and returns matches newest first. It is the
	// only read path used by search and browsing.
	QueryListings(ctx context.Context, q domain.ListingQuery) ([]domain.Listing, error)

	// UpdateStatus sets the listing status. When from is non-nil the update
	// only applies if the current status equals *from; otherwise
	// domain.ErrStatusConflict is returned.
	UpdateStatus(ctx context.Context, id string, from *domain.ListingStatus, to domain.ListingStatus) (*domain.Listing, error)

	Delete(ctx context.Context, id string) error
}
