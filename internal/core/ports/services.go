package ports

import (
	"context"
	"time"

	"github.com/samirrijal/dongne/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishListingCreated(ctx context.Context, event *domain.ListingEvent) error
	PublishListingStatusChanged(ctx context.Context, event *domain.ListingEvent) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeListingStatus(ctx context.Context, status domain.ListingStatus, handler func(ctx context.Context, event *domain.ListingEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// ReservationScheduler starts the hold timer for a reserved listing.
type ReservationScheduler interface {
	ScheduleRelease(ctx context.Context, listingID string, hold time.Duration) error
}
