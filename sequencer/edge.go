package sequencer

import (
	"errors"
	"fmt"
	"time"

	"bouncyquencer/ball"
)

// NoteDisabled is outside the MIDI note range and turns an edge off
const NoteDisabled uint8 = 128

var ErrEdgeConfig = errors.New("invalid edge config")

// EdgeConfig maps a boundary hit to a note
type EdgeConfig struct {
	Note     uint8 // 0-127, or NoteDisabled
	Velocity uint8 // 0-127
	Channel  uint8 // 1-16
	Length   time.Duration
}

// DefaultEdgeConfig is a disabled edge with usable defaults for when it is
// switched on
func DefaultEdgeConfig() EdgeConfig {
	return EdgeConfig{
		Note:     NoteDisabled,
		Velocity: 100,
		Channel:  1,
		Length:   100 * time.Millisecond,
	}
}

// Enabled reports whether a hit on this edge produces events
func (c EdgeConfig) Enabled() bool {
	return c.Note <= 127
}

// Validate checks everything except the note, which may be any value:
// out of range simply means disabled.
func (c EdgeConfig) Validate() error {
	if c.Velocity > 127 {
		return fmt.Errorf("%w: velocity %d not in [0,127]", ErrEdgeConfig, c.Velocity)
	}
	if c.Channel < 1 || c.Channel > 16 {
		return fmt.Errorf("%w: channel %d not in [1,16]", ErrEdgeConfig, c.Channel)
	}
	if c.Length < time.Millisecond {
		return fmt.Errorf("%w: length %s shorter than 1ms", ErrEdgeConfig, c.Length)
	}
	return nil
}

// NoteName renders a MIDI note as e.g. "C4" (60), or "None" when disabled
func NoteName(note uint8) string {
	if note > 127 {
		return "None"
	}
	names := [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	return fmt.Sprintf("%s%d", names[note%12], int(note/12)-1)
}

// Edges is the per-boundary trigger table
type Edges [ball.NumEdges]EdgeConfig

// DefaultEdges has every edge disabled
func DefaultEdges() Edges {
	var e Edges
	for i := range e {
		e[i] = DefaultEdgeConfig()
	}
	return e
}

// Validate checks all four edges
func (e Edges) Validate() error {
	for _, edge := range ball.AllEdges {
		if err := e[edge].Validate(); err != nil {
			return fmt.Errorf("%s edge: %w", edge, err)
		}
	}
	return nil
}
