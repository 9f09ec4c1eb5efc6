package sim

import (
	"container/heap"
	"fmt"
)

// EventQueue is a priority queue of events with deterministic ordering.
// Ordering: timestamp → insertion ID.
type EventQueue struct {
	events []Event
	nextID int64
}

// NewEventQueue creates an empty event queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{
		events: make([]Event, 0),
	}
	heap.Init(q)
	return q
}

// Len implements heap.Interface
func (q *EventQueue) Len() int {
	return len(q.events)
}

// Less implements heap.Interface
func (q *EventQueue) Less(i, j int) bool {
	ei, ej := q.events[i], q.events[j]
	if ei.Time != ej.Time {
		return ei.Time < ej.Time
	}
	return ei.ID < ej.ID
}

// Swap implements heap.Interface
func (q *EventQueue) Swap(i, j int) {
	q.events[i], q.events[j] = q.events[j], q.events[i]
}

// Push implements heap.Interface. Use Schedule instead.
func (q *EventQueue) Push(x any) {
	q.events = append(q.events, x.(Event))
}

// Pop implements heap.Interface. Use PopEarliest instead.
func (q *EventQueue) Pop() any {
	old := q.events
	n := len(old)
	item := old[n-1]
	q.events = old[0 : n-1]
	return item
}

// Schedule creates an event for p at the given time and adds it to the queue.
// Panics on a negative time.
func (q *EventQueue) Schedule(p *Patient, time int64, kind EventKind) Event {
	if time < 0 {
		panic(fmt.Sprintf("Schedule: negative time %d for %s event", time, kind))
	}
	if p == nil {
		panic(fmt.Sprintf("Schedule: nil patient for %s event", kind))
	}
	ev := Event{ID: q.nextID, Time: time, Kind: kind, Patient: p}
	q.nextID++
	heap.Push(q, ev)
	return ev
}

// PopEarliest removes and returns the event with the smallest timestamp.
// The second result is false when the queue is empty.
func (q *EventQueue) PopEarliest() (Event, bool) {
	if q.Len() == 0 {
		return Event{}, false
	}
	return heap.Pop(q).(Event), true
}

// Peek returns the next event without removing it.
func (q *EventQueue) Peek() (Event, bool) {
	if q.Len() == 0 {
		return Event{}, false
	}
	return q.events[0], true
}
