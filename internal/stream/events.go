package stream

// Event is a notification delivered to the stream at a tick boundary.
type Event interface {
	streamEvent()
}

// PlayerKilled tears the stream down: every active segment is parked.
type PlayerKilled struct{}

func (PlayerKilled) streamEvent() {}

// PlayerRespawned restores the single starting-segment baseline.
type PlayerRespawned struct{}

func (PlayerRespawned) streamEvent() {}

// EventQueue is a FIFO of pending events, drained once per tick.
type EventQueue struct {
	items []Event
}

// Push appends an event.
func (q *EventQueue) Push(ev Event) {
	if q == nil || ev == nil {
		return
	}
	q.items = append(q.items, ev)
}

// Drain returns all pending events in order and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
