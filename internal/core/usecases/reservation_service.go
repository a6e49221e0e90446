package usecases

import (
	"context"
	"time"

	"github.com/samirrijal/dongne/internal/core/domain"
	"github.com/samirrijal/dongne/internal/core/ports"
)

// ReservationService starts a hold timer whenever a listing is reserved.
type ReservationService struct {
	scheduler ports.ReservationScheduler
	hold      time.Duration
}

// NewReservationService creates a ReservationService that holds reserved
// listings for hold before they return to available.
func NewReservationService(scheduler ports.ReservationScheduler, hold time.Duration) *ReservationService {
	return &ReservationService{scheduler: scheduler, hold: hold}
}

// Watch subscribes to reservation events until ctx is done.
func (s *ReservationService) Watch(ctx context.Context, events ports.EventSubscriber) error {
	return events.SubscribeListingStatus(ctx, domain.StatusReserved, s.OnReserved)
}

// OnReserved schedules the release of a newly reserved listing. Events for
// other statuses are ignored.
func (s *ReservationService) OnReserved(ctx context.Context, event *domain.ListingEvent) error {
	if event.Status != domain.StatusReserved || event.ListingID == "" {
		return nil
	}
	return s.scheduler.ScheduleRelease(ctx, event.ListingID, s.hold)
}
