package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/dongne/internal/core/domain"
	"github.com/samirrijal/dongne/internal/core/usecases"
)

func TestReservationService_WatchSchedulesHold(t *testing.T) {
	sched := &mockScheduler{}
	sub := &mockSubscriber{}
	svc := usecases.NewReservationService(sched, 24*time.Hour)

	if err := svc.Watch(context.Background(), sub); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if sub.status != domain.StatusReserved {
		t.Fatalf("expected subscription to reserved events, got %q", sub.status)
	}

	err := sub.handler(context.Background(), &domain.ListingEvent{
		Type:      domain.EventListingStatusChanged,
		ListingID: "l1",
		Status:    domain.StatusReserved,
	})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(sched.calls) != 1 || sched.calls[0] != "l1" {
		t.Fatalf("expected one release scheduled for l1, got %v", sched.calls)
	}
	if sched.hold != 24*time.Hour {
		t.Errorf("expected 24h hold, got %v", sched.hold)
	}
}

func TestReservationService_IgnoresOtherStatuses(t *testing.T) {
	sched := &mockScheduler{}
	svc := usecases.NewReservationService(sched, time.Hour)

	for _, e := range []*domain.ListingEvent{
		{ListingID: "l1", Status: domain.StatusSold},
		{ListingID: "l2", Status: domain.StatusAvailable},
		{ListingID: "", Status: domain.StatusReserved},
	} {
		if err := svc.OnReserved(context.Background(), e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(sched.calls) != 0 {
		t.Errorf("expected no holds scheduled, got %v", sched.calls)
	}
}

func TestReservationService_SchedulerErrorPropagates(t *testing.T) {
	boom := errors.New("temporal down")
	svc := usecases.NewReservationService(&mockScheduler{err: boom}, time.Hour)

	err := svc.OnReserved(context.Background(), &domain.ListingEvent{ListingID: "l1", Status: domain.StatusReserved})
	if !errors.Is(err, boom) {
		t.Errorf("expected scheduler error so the event is redelivered, got %v", err)
	}
}
