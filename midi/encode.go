package midi

import (
	"errors"
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

var (
	ErrChannelOutOfRange = errors.New("channel out of range [1,16]")
	ErrValueOutOfRange   = errors.New("value out of range [0,127]")
)

// EncodeError reports which field of an event could not be encoded
type EncodeError struct {
	Field string
	Value uint8
	Err   error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s=%d: %v", e.Field, e.Value, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// Encode converts an event into a 3-byte note-on or note-off message.
// Out of range fields are rejected, never masked.
func Encode(e TimedEvent) ([]byte, error) {
	if e.Channel < 1 || e.Channel > 16 {
		return nil, &EncodeError{Field: "channel", Value: e.Channel, Err: ErrChannelOutOfRange}
	}
	if e.Note > 127 {
		return nil, &EncodeError{Field: "note", Value: e.Note, Err: ErrValueOutOfRange}
	}
	if e.Velocity > 127 {
		return nil, &EncodeError{Field: "velocity", Value: e.Velocity, Err: ErrValueOutOfRange}
	}

	ch := e.Channel - 1
	var msg gomidi.Message
	switch e.Kind {
	case Start:
		msg = gomidi.NoteOn(ch, e.Note, e.Velocity)
	case Stop:
		msg = gomidi.NoteOff(ch, e.Note)
	default:
		return nil, fmt.Errorf("encode: unknown event kind %d", e.Kind)
	}
	return []byte(msg), nil
}
