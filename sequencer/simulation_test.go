package sequencer

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bouncyquencer/ball"
	"bouncyquencer/debug"
	"bouncyquencer/midi"
)

type recordingSink struct {
	msgs [][]byte
	err  error
}

func (r *recordingSink) Send(msg []byte) error {
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, append([]byte(nil), msg...))
	return nil
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func arena() ball.Arena {
	return ball.Arena{HalfWidth: 100, HalfHeight: 100}
}

func ballAt(pos, vel ball.Vec2, r float64) *ball.Point {
	b := ball.New()
	b.SetPosition(pos)
	b.SetVelocity(vel)
	if err := b.SetRadius(r); err != nil {
		panic(err)
	}
	return b
}

func rightEdgeSim(t *testing.T, sink midi.Sink) *Simulation {
	t.Helper()
	edges := DefaultEdges()
	edges[ball.Right] = EdgeConfig{Note: 60, Velocity: 100, Channel: 1, Length: ms(200)}

	// one tick from the wall, clear of it again after the bounce
	b := ballAt(ball.Vec2{X: 94, Y: 0}, ball.Vec2{X: 5, Y: 0}, 5)
	sim, err := NewSimulation(b, arena(), edges, sink)
	require.NoError(t, err)
	return sim
}

func TestTick_RightEdgeScenario(t *testing.T) {
	sink := &recordingSink{}
	sim := rightEdgeSim(t, sink)
	sim.Restore(SaveState{BallPositionX: 99, BallVelocityX: 5})
	now := ms(1000)

	res, err := sim.Tick(now)
	require.NoError(t, err)

	assert.Equal(t, ball.Vec2{X: 104, Y: 0}, sim.Ball().Position())
	assert.Equal(t, ball.Vec2{X: -5, Y: 0}, sim.Velocity())
	assert.Equal(t, []ball.Edge{ball.Right}, res.Fired.Edges())
	assert.Equal(t, 2, res.Scheduled)

	// the start is due immediately and goes out in the same tick
	require.NotNil(t, res.Delivered)
	assert.Equal(t, midi.Start, res.Delivered.Kind)
	assert.Equal(t, now, res.Delivered.DueAt)
	assert.Equal(t, [][]byte{{0x90, 60, 100}}, sink.msgs)

	stop, ok := sim.NextDue()
	require.True(t, ok)
	assert.Equal(t, midi.Stop, stop.Kind)
	assert.Equal(t, now+ms(200), stop.DueAt)
	assert.Equal(t, uint8(60), stop.Note)
	assert.Equal(t, uint8(1), stop.Channel)
}

func TestTick_StopDeliveredWhenDue(t *testing.T) {
	sink := &recordingSink{}
	sim := rightEdgeSim(t, sink)

	_, err := sim.Tick(ms(0))
	require.NoError(t, err)

	res, err := sim.Tick(ms(199))
	require.NoError(t, err)
	assert.Nil(t, res.Delivered)
	assert.Equal(t, 1, sim.Pending())

	res, err = sim.Tick(ms(200))
	require.NoError(t, err)
	require.NotNil(t, res.Delivered)
	assert.Equal(t, midi.Stop, res.Delivered.Kind)
	assert.Equal(t, [][]byte{{0x90, 60, 100}, {0x80, 60, 0}}, sink.msgs)
	assert.Equal(t, 0, sim.Pending())
}

func TestTick_DisabledEdgeSchedulesNothing(t *testing.T) {
	sink := &recordingSink{}
	b := ballAt(ball.Vec2{X: 99, Y: 0}, ball.Vec2{X: 5, Y: 0}, 5)
	sim, err := NewSimulation(b, arena(), DefaultEdges(), sink)
	require.NoError(t, err)

	res, err := sim.Tick(ms(10))
	require.NoError(t, err)

	assert.True(t, res.Fired.Has(ball.Right))
	assert.Equal(t, 0, res.Scheduled)
	assert.Nil(t, res.Delivered)
	assert.Equal(t, 0, sim.Pending())
	assert.Empty(t, sink.msgs)
	// reflection still happens
	assert.Equal(t, -5.0, sim.Velocity().X)
}

func TestTick_NoCollision(t *testing.T) {
	sim := rightEdgeSim(t, nil)
	sim.Restore(SaveState{BallVelocityX: 1})

	res, err := sim.Tick(ms(5))
	require.NoError(t, err)
	assert.True(t, res.Fired.Empty())
	assert.Equal(t, 0, sim.Pending())
}

func TestTick_OneDeliveryPerTick(t *testing.T) {
	sink := &recordingSink{}
	edges := DefaultEdges()
	edges[ball.Right] = EdgeConfig{Note: 60, Velocity: 100, Channel: 1, Length: ms(1)}
	edges[ball.Top] = EdgeConfig{Note: 64, Velocity: 90, Channel: 2, Length: ms(1)}

	// corner hit fires two edges at once
	b := ballAt(ball.Vec2{X: 94, Y: 94}, ball.Vec2{X: 2, Y: 2}, 5)
	sim, err := NewSimulation(b, arena(), edges, sink)
	require.NoError(t, err)

	res, err := sim.Tick(ms(0))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Scheduled)
	assert.Len(t, sink.msgs, 1)
	assert.Equal(t, 3, sim.Pending())

	// all three remaining are due, they drain one per tick
	for i := 0; i < 3; i++ {
		_, err := sim.Tick(ms(10))
		require.NoError(t, err)
		assert.Equal(t, 2-i, sim.Pending())
	}
	assert.Len(t, sink.msgs, 4)
}

func TestTick_SendErrorDropsEvent(t *testing.T) {
	cause := errors.New("port unplugged")
	sink := &recordingSink{err: cause}
	sim := rightEdgeSim(t, sink)

	res, err := sim.Tick(ms(0))
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	var sendErr *midi.SendError
	assert.True(t, errors.As(err, &sendErr))

	// the start is gone regardless, only the stop remains
	require.NotNil(t, res.Delivered)
	assert.Equal(t, 1, sim.Pending())

	// the loop carries on
	sink.err = nil
	_, err = sim.Tick(ms(200))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0x80, 60, 0}}, sink.msgs)
}

func TestSetEdge(t *testing.T) {
	sim := rightEdgeSim(t, nil)

	err := sim.SetEdge(ball.Left, EdgeConfig{Note: 50, Velocity: 1, Channel: 17, Length: ms(10)})
	assert.ErrorIs(t, err, ErrEdgeConfig)
	assert.False(t, sim.Edge(ball.Left).Enabled())

	cfg := EdgeConfig{Note: 50, Velocity: 1, Channel: 16, Length: ms(10)}
	require.NoError(t, sim.SetEdge(ball.Left, cfg))
	assert.Equal(t, cfg, sim.Edge(ball.Left))

	edges := sim.Edges()
	assert.Equal(t, cfg, edges[ball.Left])
	edges[ball.Left].Note = 1
	assert.Equal(t, uint8(50), sim.Edge(ball.Left).Note, "Edges returns a copy")
}

func TestNewSimulation_RejectsBadEdges(t *testing.T) {
	edges := DefaultEdges()
	edges[ball.Top].Length = 0
	_, err := NewSimulation(ball.New(), arena(), edges, nil)
	assert.ErrorIs(t, err, ErrEdgeConfig)
}

func TestResetBall_ClearsQueue(t *testing.T) {
	sim := rightEdgeSim(t, nil)
	_, err := sim.Tick(ms(0))
	require.NoError(t, err)
	require.Equal(t, 1, sim.Pending())

	sim.ResetBall(ball.New())
	assert.Equal(t, 0, sim.Pending())
	assert.Equal(t, ball.Vec2{}, sim.Ball().Position())
}

func TestBall_IsSnapshot(t *testing.T) {
	sim := rightEdgeSim(t, nil)

	view := sim.Ball()
	_, isPoint := view.(*ball.Point)
	assert.False(t, isPoint, "renderers must not reach the live ball")
	assert.Equal(t, ball.Vec2{X: 94, Y: 0}, view.Position())
	assert.Equal(t, 5.0, view.Radius())
	assert.Equal(t, ball.White, view.Color())

	_, err := sim.Tick(ms(0))
	require.NoError(t, err)
	assert.Equal(t, ball.Vec2{X: 94, Y: 0}, view.Position(), "earlier snapshot is unchanged")
	assert.Equal(t, ball.Vec2{X: 99, Y: 0}, sim.Ball().Position())
}

func TestTick_TracesQueueDepth(t *testing.T) {
	t.Cleanup(debug.Disable)
	var buf bytes.Buffer
	debug.EnableWriter(&buf, "debug")

	sim := rightEdgeSim(t, nil)
	for i := 0; i < queueTraceEvery; i++ {
		_, err := sim.Tick(ms(i))
		require.NoError(t, err)
	}

	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("cat=queue")))
}
