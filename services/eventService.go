package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// Domain event names consumed by notification and observability collaborators.
const (
	EventVisitStatusChanged = "VisitStatusChanged"
	EventBillingSettled     = "BillingSettled"
	EventCardActivated      = "CardActivated"
)

// Event carries the facts a subscriber needs to react without re-reading the
// whole record. Fields not relevant to an event are left empty.
type Event struct {
	Name       string    `json:"name"`
	VisitID    string    `json:"visit_id,omitempty"`
	BillingID  string    `json:"billing_id,omitempty"`
	PatientID  string    `json:"patient_id,omitempty"`
	Department string    `json:"department,omitempty"`
	Status     string    `json:"status,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventSubscriber receives every published event. Subscribers must tolerate
// events they do not care about.
type EventSubscriber func(ctx context.Context, event Event)

// EventBus is the in-process delivery for domain events. The subscriber
// interface is the boundary: a queue or webhook transport can be swapped in
// behind it without touching the core.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

func (b *EventBus) Subscribe(fn EventSubscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish delivers the event to every subscriber synchronously. A panicking
// subscriber is contained so it cannot abort the publishing request.
func (b *EventBus) Publish(ctx context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	b.mu.RLock()
	subscribers := make([]EventSubscriber, len(b.subscribers))
	copy(subscribers, b.subscribers)
	b.mu.RUnlock()

	for _, fn := range subscribers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Event subscriber panicked on %s: %v", event.Name, r)
				}
			}()
			fn(ctx, event)
		}()
	}
}
