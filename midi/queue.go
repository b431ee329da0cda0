package midi

import (
	"container/heap"
	"time"
)

// EventQueue holds timed events ordered so the earliest due surfaces first.
// Ordering is by DueAt only; events with equal DueAt come out in any order.
// Not safe for concurrent use.
type EventQueue struct {
	h eventHeap
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push inserts an event in O(log n)
func (q *EventQueue) Push(e TimedEvent) {
	heap.Push(&q.h, e)
}

// PushPair inserts a start/stop pair together; callers never see one
// without the other
func (q *EventQueue) PushPair(on, off TimedEvent) {
	heap.Push(&q.h, on)
	heap.Push(&q.h, off)
}

// Peek returns the earliest event without removing it
func (q *EventQueue) Peek() (TimedEvent, bool) {
	if len(q.h) == 0 {
		return TimedEvent{}, false
	}
	return q.h[0], true
}

// PopIfDue removes and returns the earliest event if it is due at now.
// Otherwise the queue is left untouched.
func (q *EventQueue) PopIfDue(now time.Duration) (TimedEvent, bool) {
	next, ok := q.Peek()
	if !ok || next.DueAt > now {
		return TimedEvent{}, false
	}
	return heap.Pop(&q.h).(TimedEvent), true
}

func (q *EventQueue) Len() int {
	return len(q.h)
}

// Clear drops all pending events
func (q *EventQueue) Clear() {
	q.h = q.h[:0]
}

// eventHeap is a min-heap on DueAt
type eventHeap []TimedEvent

func (h eventHeap) Len() int           { return len(h) }
func (h eventHeap) Less(i, j int) bool { return h[i].DueAt < h[j].DueAt }
func (h eventHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(TimedEvent))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}
