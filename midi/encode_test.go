package midi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_NotePair(t *testing.T) {
	on, off := NotePair(1, 60, 100, 0, at(200))

	b, err := Encode(on)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x90, 60, 100}, b)

	b, err = Encode(off)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80, 60, 0}, b)
}

func TestEncode_ChannelNibble(t *testing.T) {
	b, err := Encode(TimedEvent{Kind: Start, Channel: 16, Note: 127, Velocity: 127})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x9F, 127, 127}, b)

	b, err = Encode(TimedEvent{Kind: Stop, Channel: 10, Note: 0})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 0, 0}, b)
}

func TestEncode_StopForcesZeroVelocity(t *testing.T) {
	b, err := Encode(TimedEvent{Kind: Stop, Channel: 2, Note: 40, Velocity: 99})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x81, 40, 0}, b)
}

func TestEncode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		event TimedEvent
		want  error
		field string
	}{
		{"channel 0", TimedEvent{Channel: 0, Note: 60, Velocity: 100}, ErrChannelOutOfRange, "channel"},
		{"channel 17", TimedEvent{Channel: 17, Note: 60, Velocity: 100}, ErrChannelOutOfRange, "channel"},
		{"note 128", TimedEvent{Channel: 1, Note: 128, Velocity: 100}, ErrValueOutOfRange, "note"},
		{"velocity 128", TimedEvent{Channel: 1, Note: 60, Velocity: 128}, ErrValueOutOfRange, "velocity"},
		{"stop note 200", TimedEvent{Kind: Stop, Channel: 1, Note: 200}, ErrValueOutOfRange, "note"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Encode(tt.event)
			require.Error(t, err)
			assert.Nil(t, b)
			assert.ErrorIs(t, err, tt.want)

			var encErr *EncodeError
			require.True(t, errors.As(err, &encErr))
			assert.Equal(t, tt.field, encErr.Field)
		})
	}
}

func TestEncode_UnknownKind(t *testing.T) {
	_, err := Encode(TimedEvent{Kind: Kind(9), Channel: 1, Note: 1})
	assert.Error(t, err)
}
