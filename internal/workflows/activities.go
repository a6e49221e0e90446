package workflows

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"github.com/samirrijal/dongne/internal/core/usecases"
	"github.com/samirrijal/dongne/internal/pkg/metrics"
)

// ActivityReleaseReservation is the registered name of
// ReservationActivities.ReleaseReservation.
const ActivityReleaseReservation = "ReleaseReservation"

// ReservationActivities holds the activity implementations for the
// reservation hold workflow.
type ReservationActivities struct {
	Listings *usecases.ListingService
}

// ReleaseReservation returns the listing to available if it is still
// reserved. It reports whether the listing was released.
func (a *ReservationActivities) ReleaseReservation(ctx context.Context, listingID string) (bool, error) {
	logger := activity.GetLogger(ctx)

	released, err := a.Listings.ReleaseReservation(ctx, listingID)
	if err != nil {
		metrics.ReservationsReleased.WithLabelValues("error").Inc()
		return false, fmt.Errorf("release listing %s: %w", listingID, err)
	}

	if released {
		metrics.ReservationsReleased.WithLabelValues("released").Inc()
		logger.Info("reservation hold expired, listing available again", "listing_id", listingID)
	} else {
		metrics.ReservationsReleased.WithLabelValues("skipped").Inc()
		logger.Info("listing no longer reserved, nothing to release", "listing_id", listingID)
	}
	return released, nil
}
