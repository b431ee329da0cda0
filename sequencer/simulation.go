package sequencer

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"bouncyquencer/ball"
	"bouncyquencer/debug"
	"bouncyquencer/midi"
)

// BallView is the read-only face of the ball handed to renderers
type BallView interface {
	Position() ball.Vec2
	Radius() float64
	Color() ball.RGBA
}

// TickResult describes what one tick did
type TickResult struct {
	Fired     ball.EdgeSet
	Scheduled int              // events pushed this tick
	Delivered *midi.TimedEvent // event popped this tick, nil if none was due
}

// queueTraceEvery is how many ticks pass between queue depth traces
const queueTraceEvery = 120

// Simulation owns the ball, the trigger table and the event queue.
// It is driven from a single goroutine and is not safe for concurrent use.
type Simulation struct {
	ball  *ball.Point
	arena ball.Arena
	edges Edges
	queue *midi.EventQueue
	sink  midi.Sink

	projectName string
}

// NewSimulation creates a simulation. A nil sink discards output.
func NewSimulation(b *ball.Point, arena ball.Arena, edges Edges, sink midi.Sink) (*Simulation, error) {
	if err := edges.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = midi.Discard
	}
	return &Simulation{
		ball:  b,
		arena: arena,
		edges: edges,
		queue: midi.NewEventQueue(),
		sink:  sink,
	}, nil
}

// Tick advances the simulation to elapsed time now.
//
// Order: integrate, detect, schedule, then deliver at most one due event.
// Several due events drain one per tick. A returned error belongs to the
// delivered event only: that event is already out of the queue and is not
// retried, and the next tick proceeds normally.
func (s *Simulation) Tick(now time.Duration) (TickResult, error) {
	var res TickResult

	s.ball.Move()
	res.Fired = ball.Detect(s.ball, s.arena)
	for _, edge := range res.Fired.Edges() {
		res.Scheduled += s.schedule(edge, now)
	}

	debug.LogEvery(queueTraceEvery, "queue", "depth %d at %s", s.queue.Len(), now)

	ev, ok := s.queue.PopIfDue(now)
	if !ok {
		return res, nil
	}
	res.Delivered = &ev
	return res, s.deliver(ev)
}

// schedule enqueues the start/stop pair for an edge hit, returning how many
// events were added
func (s *Simulation) schedule(edge ball.Edge, now time.Duration) int {
	cfg := s.edges[edge]
	if !cfg.Enabled() {
		return 0
	}
	on, off := midi.NotePair(cfg.Channel, cfg.Note, cfg.Velocity, now, cfg.Length)
	s.queue.PushPair(on, off)
	debug.Log("schedule", "%s edge: %s / %s", edge, on, off)
	return 2
}

func (s *Simulation) deliver(ev midi.TimedEvent) error {
	msg, err := midi.Encode(ev)
	if err != nil {
		return fmt.Errorf("drop %s: %w", ev, err)
	}
	if err := s.sink.Send(msg); err != nil {
		var sendErr *midi.SendError
		if !errors.As(err, &sendErr) {
			err = &midi.SendError{Sink: "sink", Err: err}
		}
		return fmt.Errorf("deliver %s: %w", ev, err)
	}
	debug.Log("dispatch", "%s -> % x", ev, msg)
	return nil
}

// ballView is a copy taken at the time of the call
type ballView struct {
	position ball.Vec2
	radius   float64
	color    ball.RGBA
}

func (v ballView) Position() ball.Vec2 { return v.position }
func (v ballView) Radius() float64     { return v.radius }
func (v ballView) Color() ball.RGBA    { return v.color }

// Ball returns a snapshot of the ball for rendering. Changes to the
// simulation after the call are not reflected in it.
func (s *Simulation) Ball() BallView {
	return ballView{
		position: s.ball.Position(),
		radius:   s.ball.Radius(),
		color:    s.ball.Color(),
	}
}

func (s *Simulation) Arena() ball.Arena {
	return s.arena
}

// Pending is the number of queued events
func (s *Simulation) Pending() int {
	return s.queue.Len()
}

// NextDue peeks at the earliest queued event
func (s *Simulation) NextDue() (midi.TimedEvent, bool) {
	return s.queue.Peek()
}

func (s *Simulation) Edge(e ball.Edge) EdgeConfig {
	return s.edges[e]
}

// Edges returns a copy of the whole trigger table
func (s *Simulation) Edges() Edges {
	return s.edges
}

// SetEdge replaces one edge's trigger config after validating it
func (s *Simulation) SetEdge(e ball.Edge, cfg EdgeConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s edge: %w", e, err)
	}
	s.edges[e] = cfg
	return nil
}

// SetSink swaps the delivery target; nil discards
func (s *Simulation) SetSink(sink midi.Sink) {
	if sink == nil {
		sink = midi.Discard
	}
	s.sink = sink
}

// ResetBall replaces the ball and drops all pending events
func (s *Simulation) ResetBall(b *ball.Point) {
	s.ball = b
	s.queue.Clear()
}

// SetVelocity sets the ball's velocity directly (UI control)
func (s *Simulation) SetVelocity(v ball.Vec2) {
	s.ball.SetVelocity(v)
}

// RandomizeVelocity gives the ball a fresh random velocity
func (s *Simulation) RandomizeVelocity(rng *rand.Rand) {
	s.ball.RandomizeVelocity(rng)
}

func (s *Simulation) Velocity() ball.Vec2 {
	return s.ball.Velocity()
}

func (s *Simulation) ProjectName() string {
	return s.projectName
}

func (s *Simulation) SetProjectName(name string) {
	s.projectName = name
}
