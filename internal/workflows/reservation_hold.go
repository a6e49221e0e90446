package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// ReservationHoldInput is the input for ReservationHoldWorkflow.
type ReservationHoldInput struct {
	ListingID string
	Hold      time.Duration
}

// ReservationHoldWorkflow waits out the hold period of a reserved listing
// and then returns it to available unless it was sold or released in the
// meantime. The result reports whether the listing was released.
func ReservationHoldWorkflow(ctx workflow.Context, input ReservationHoldInput) (bool, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("reservation hold started", "listing_id", input.ListingID, "hold", input.Hold)

	if err := workflow.Sleep(ctx, input.Hold); err != nil {
		return false, err
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    5,
		},
	})

	var released bool
	if err := workflow.ExecuteActivity(ctx, ActivityReleaseReservation, input.ListingID).Get(ctx, &released); err != nil {
		logger.Error("releasing reservation failed", "listing_id", input.ListingID, "error", err)
		return false, err
	}
	return released, nil
}
