package services

import (
	"context"
	"testing"
)

func TestEventBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewEventBus()
	var first, second []string
	bus.Subscribe(func(ctx context.Context, event Event) {
		first = append(first, event.Name)
	})
	bus.Subscribe(func(ctx context.Context, event Event) {
		second = append(second, event.Name)
	})

	bus.Publish(context.Background(), Event{Name: EventBillingSettled, BillingID: "B-1001"})
	bus.Publish(context.Background(), Event{Name: EventCardActivated, PatientID: "PT-1001"})

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("deliveries: first %d, second %d, want 2 each", len(first), len(second))
	}
	if first[0] != EventBillingSettled || first[1] != EventCardActivated {
		t.Fatalf("unexpected delivery order: %v", first)
	}
}

func TestEventBusContainsPanickingSubscriber(t *testing.T) {
	bus := NewEventBus()
	bus.Subscribe(func(ctx context.Context, event Event) {
		panic("subscriber bug")
	})
	var delivered bool
	bus.Subscribe(func(ctx context.Context, event Event) {
		delivered = true
	})

	bus.Publish(context.Background(), Event{Name: EventVisitStatusChanged})

	if !delivered {
		t.Fatal("a panicking subscriber must not block later subscribers")
	}
}

func TestEventBusStampsOccurredAt(t *testing.T) {
	bus := NewEventBus()
	var got Event
	bus.Subscribe(func(ctx context.Context, event Event) {
		got = event
	})

	bus.Publish(context.Background(), Event{Name: EventVisitStatusChanged})

	if got.OccurredAt.IsZero() {
		t.Fatal("publish must stamp OccurredAt when unset")
	}
}
