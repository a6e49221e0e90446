package workflows

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
)

// HoldWorkflowID is the workflow ID used for a listing's reservation hold.
// One hold runs per listing.
func HoldWorkflowID(listingID string) string {
	return "reservation-hold-" + listingID
}

// Scheduler implements ports.ReservationScheduler on Temporal.
type Scheduler struct {
	client    client.Client
	taskQueue string
}

// NewScheduler creates a Scheduler that starts workflows on taskQueue.
func NewScheduler(c client.Client, taskQueue string) *Scheduler {
	return &Scheduler{client: c, taskQueue: taskQueue}
}

// ScheduleRelease starts a hold for listingID. A hold already running for
// the listing is terminated, so a listing reserved again gets a fresh timer.
func (s *Scheduler) ScheduleRelease(ctx context.Context, listingID string, hold time.Duration) error {
	run, err := s.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                    HoldWorkflowID(listingID),
		TaskQueue:             s.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_TERMINATE_IF_RUNNING,
	}, ReservationHoldWorkflow, ReservationHoldInput{
		ListingID: listingID,
		Hold:      hold,
	})
	if err != nil {
		return fmt.Errorf("start reservation hold for %s: %w", listingID, err)
	}
	slog.Debug("reservation hold scheduled", "listing_id", listingID, "run_id", run.GetRunID(), "hold", hold)
	return nil
}
