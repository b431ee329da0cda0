package tui

import (
	"time"

	"bouncyquencer/sequencer"
	"bouncyquencer/widgets"
)

const (
	defaultNote  = 60 // C4, used when a disabled edge is switched on
	lengthStep   = 10 * time.Millisecond
	maxLength    = 10 * time.Second
	coarseNote   = 12
	coarseVel    = 10
	coarseLength = 10
)

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// adjust nudges one field by delta steps. Coarse steps move notes by an
// octave, velocity by 10 and length by 100ms.
func adjust(cfg sequencer.EdgeConfig, field widgets.EdgeField, delta int, coarse bool) sequencer.EdgeConfig {
	switch field {
	case widgets.FieldNote:
		if coarse {
			delta *= coarseNote
		}
		note := int(cfg.Note)
		if !cfg.Enabled() {
			note = defaultNote - delta
		}
		cfg.Note = uint8(clamp(note+delta, 0, 127))
	case widgets.FieldVelocity:
		if coarse {
			delta *= coarseVel
		}
		cfg.Velocity = uint8(clamp(int(cfg.Velocity)+delta, 0, 127))
	case widgets.FieldChannel:
		cfg.Channel = uint8(clamp(int(cfg.Channel)+delta, 1, 16))
	case widgets.FieldLength:
		if coarse {
			delta *= coarseLength
		}
		l := cfg.Length + time.Duration(delta)*lengthStep
		if l < time.Millisecond {
			l = time.Millisecond
		}
		if l > maxLength {
			l = maxLength
		}
		cfg.Length = l
	}
	return cfg
}

// toggle switches an edge between disabled and its last note
func toggle(cfg sequencer.EdgeConfig, last uint8) sequencer.EdgeConfig {
	if cfg.Enabled() {
		cfg.Note = sequencer.NoteDisabled
		return cfg
	}
	if last > 127 {
		last = defaultNote
	}
	cfg.Note = last
	return cfg
}
