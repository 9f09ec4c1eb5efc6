// Implements the WaitingRoom, which holds triaged patients waiting for a free studio.
// Patients are served by severity, then by time of arrival in the room.

package sim

import (
	"container/heap"
	"fmt"
	"strings"
)

// CompareWaiting is the waiting-list order. It returns a negative number when a
// must be served before b, positive when b goes first, and zero only when a and
// b are the same patient.
//
// RED outranks YELLOW, YELLOW outranks WHITE; within a code the smaller
// QueueTime goes first, then the smaller name.
// Both patients must be in a waiting status, otherwise the error wraps
// ErrInvalidState.
func CompareWaiting(a, b *Patient) (int, error) {
	sa, ok := a.Status.Severity()
	if !ok {
		return 0, invalidState("patient %s should be in waiting state, instead of %s", a.Name, a.Status)
	}
	sb, ok := b.Status.Severity()
	if !ok {
		return 0, invalidState("patient %s should be in waiting state, instead of %s", b.Name, b.Status)
	}
	return compareEntries(waitingEntry{a, sa}, waitingEntry{b, sb}), nil
}

func compareEntries(a, b waitingEntry) int {
	if a.severity != b.severity {
		return int(b.severity) - int(a.severity)
	}
	if a.patient.QueueTime != b.patient.QueueTime {
		if a.patient.QueueTime < b.patient.QueueTime {
			return -1
		}
		return 1
	}
	return strings.Compare(a.patient.Name, b.patient.Name)
}

// waitingEntry pairs a patient with the code it was inserted under, so the
// heap order never depends on a status read after insertion.
type waitingEntry struct {
	patient  *Patient
	severity Severity
}

// WaitingRoom is an indexed heap of waiting patients ordered by CompareWaiting.
// Arbitrary removal (abandon, escalation, death) is O(log n).
type WaitingRoom struct {
	entries []waitingEntry
	index   map[string]int // patient name → position in entries
}

// NewWaitingRoom creates an empty waiting room.
func NewWaitingRoom() *WaitingRoom {
	return &WaitingRoom{index: make(map[string]int)}
}

// Len implements heap.Interface
func (wr *WaitingRoom) Len() int { return len(wr.entries) }

// Less implements heap.Interface
func (wr *WaitingRoom) Less(i, j int) bool {
	return compareEntries(wr.entries[i], wr.entries[j]) < 0
}

// Swap implements heap.Interface
func (wr *WaitingRoom) Swap(i, j int) {
	wr.entries[i], wr.entries[j] = wr.entries[j], wr.entries[i]
	wr.index[wr.entries[i].patient.Name] = i
	wr.index[wr.entries[j].patient.Name] = j
}

// Push implements heap.Interface. Use Enqueue instead.
func (wr *WaitingRoom) Push(x any) {
	e := x.(waitingEntry)
	wr.index[e.patient.Name] = len(wr.entries)
	wr.entries = append(wr.entries, e)
}

// Pop implements heap.Interface. Use Dequeue instead.
func (wr *WaitingRoom) Pop() any {
	old := wr.entries
	n := len(old)
	e := old[n-1]
	wr.entries = old[0 : n-1]
	delete(wr.index, e.patient.Name)
	return e
}

// Enqueue inserts p under its current status. QueueTime must already be set.
// Fails with ErrInvalidState if p is not waiting or is already in the room.
func (wr *WaitingRoom) Enqueue(p *Patient) error {
	sev, ok := p.Status.Severity()
	if !ok {
		return invalidState("patient %s should be in waiting state, instead of %s", p.Name, p.Status)
	}
	if _, dup := wr.index[p.Name]; dup {
		return invalidState("patient %s is already in the waiting room", p.Name)
	}
	heap.Push(wr, waitingEntry{patient: p, severity: sev})
	return nil
}

// Dequeue removes and returns the highest-priority patient, or nil if empty.
func (wr *WaitingRoom) Dequeue() *Patient {
	if len(wr.entries) == 0 {
		return nil
	}
	return heap.Pop(wr).(waitingEntry).patient
}

// Peek returns the highest-priority patient without removing it.
// Returns nil if the room is empty.
func (wr *WaitingRoom) Peek() *Patient {
	if len(wr.entries) == 0 {
		return nil
	}
	return wr.entries[0].patient
}

// Remove takes p out of the room. Returns false if p was not waiting.
func (wr *WaitingRoom) Remove(p *Patient) bool {
	i, ok := wr.index[p.Name]
	if !ok {
		return false
	}
	heap.Remove(wr, i)
	return true
}

// Contains reports whether p is in the room.
func (wr *WaitingRoom) Contains(p *Patient) bool {
	_, ok := wr.index[p.Name]
	return ok
}

// Patients returns the waiting patients in service order.
// The room itself is not modified.
func (wr *WaitingRoom) Patients() []*Patient {
	tmp := &WaitingRoom{
		entries: append([]waitingEntry(nil), wr.entries...),
		index:   make(map[string]int, len(wr.entries)),
	}
	for i, e := range tmp.entries {
		tmp.index[e.patient.Name] = i
	}
	out := make([]*Patient, 0, len(tmp.entries))
	for tmp.Len() > 0 {
		out = append(out, tmp.Dequeue())
	}
	return out
}

func (wr *WaitingRoom) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range wr.Patients() {
		sb.WriteString(fmt.Sprint(p))
		if i < len(wr.entries)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
