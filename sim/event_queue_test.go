package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueue_OrdersByTimeThenInsertion(t *testing.T) {
	// GIVEN events scheduled out of time order, two of them at the same tick
	q := NewEventQueue()
	a, b, c := NewPatient("a", 0), NewPatient("b", 0), NewPatient("c", 0)
	q.Schedule(c, 900, EventFreeStudio)
	q.Schedule(a, 300, EventTriage)
	q.Schedule(b, 300, EventTimeout)

	// WHEN popped
	var got []string
	for {
		ev, ok := q.PopEarliest()
		if !ok {
			break
		}
		got = append(got, ev.Patient.Name+":"+string(ev.Kind))
	}

	// THEN equal timestamps come out in scheduling order
	assert.Equal(t, []string{"a:TRIAGE", "b:TIMEOUT", "c:FREE_STUDIO"}, got)
}

func TestEventQueue_Schedule_AssignsIncreasingIDs(t *testing.T) {
	q := NewEventQueue()
	p := NewPatient("p", 0)
	first := q.Schedule(p, 10, EventTriage)
	second := q.Schedule(p, 5, EventTimeout)

	assert.Less(t, first.ID, second.ID)
	assert.Equal(t, int64(10), first.Timestamp())
	assert.Equal(t, 2, q.Len())
}

func TestEventQueue_PeekDoesNotRemove(t *testing.T) {
	q := NewEventQueue()
	_, ok := q.Peek()
	assert.False(t, ok)

	q.Schedule(NewPatient("p", 0), 42, EventTriage)
	ev, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, int64(42), ev.Time)
	assert.Equal(t, 1, q.Len())
}

func TestEventQueue_PopEarliest_Empty(t *testing.T) {
	_, ok := NewEventQueue().PopEarliest()
	assert.False(t, ok)
}

func TestEventQueue_Schedule_InvalidArgumentsPanic(t *testing.T) {
	q := NewEventQueue()
	assert.Panics(t, func() { q.Schedule(NewPatient("p", 0), -1, EventTriage) })
	assert.Panics(t, func() { q.Schedule(nil, 0, EventTriage) })
}

func TestEvent_String(t *testing.T) {
	ev := Event{Time: 300, Kind: EventTriage, Patient: NewPatient("Pat0", 0)}
	assert.Equal(t, "Event [patient=[Pat0-NEW], time=300, type=TRIAGE]", ev.String())
}
