package midi

import (
	"fmt"
	"time"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// Kind is the lifecycle half an event represents
type Kind uint8

const (
	Start Kind = iota // note-on
	Stop              // note-off
)

func (k Kind) String() string {
	if k == Start {
		return "start"
	}
	return "stop"
}

// TimedEvent is a note message due at an elapsed time.
// Channel is one-based (1-16) as shown to the user.
type TimedEvent struct {
	Kind     Kind
	Note     uint8
	Channel  uint8
	Velocity uint8 // always 0 for Stop
	DueAt    time.Duration
}

func (e TimedEvent) String() string {
	return fmt.Sprintf("%s ch=%d note=%d vel=%d at=%s", e.Kind, e.Channel, e.Note, e.Velocity, e.DueAt)
}

// NotePair creates a start event at `at` and its stop event `length` later
func NotePair(channel, note, velocity uint8, at, length time.Duration) (on, off TimedEvent) {
	on = TimedEvent{
		Kind:     Start,
		Note:     note,
		Channel:  channel,
		Velocity: velocity,
		DueAt:    at,
	}
	off = TimedEvent{
		Kind:    Stop,
		Note:    note,
		Channel: channel,
		DueAt:   at + length,
	}
	return on, off
}
