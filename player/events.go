package player

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// EventKind identifies something the player did that a host may react to.
type EventKind string

const (
	EventJumped         EventKind = "jumped"
	EventDoubleJumped   EventKind = "double_jumped"
	EventLanded         EventKind = "landed"
	EventLedgeGrabbed   EventKind = "ledge_grabbed"
	EventLedgeReleased  EventKind = "ledge_released"
	EventDroppedThrough EventKind = "dropped_through"
)

// Event is emitted by a state hook and queued until the host drains it.
type Event struct {
	Kind     EventKind
	Position cp.Vector
}

func (e Event) String() string {
	return fmt.Sprintf("%s at (%.0f, %.0f)", e.Kind, e.Position.X, e.Position.Y)
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
