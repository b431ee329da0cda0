package ball

import "strings"

// Edge identifies one of the four arena boundaries
type Edge int

const (
	Top Edge = iota
	Right
	Bottom
	Left
)

// NumEdges is the number of arena boundaries
const NumEdges = 4

// AllEdges lists edges in clockwise order starting at the top
var AllEdges = [NumEdges]Edge{Top, Right, Bottom, Left}

func (e Edge) String() string {
	switch e {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	}
	return "unknown"
}

// EdgeSet is a bitmask of fired edges
type EdgeSet uint8

func (s EdgeSet) Has(e Edge) bool {
	return s&(1<<e) != 0
}

func (s EdgeSet) With(e Edge) EdgeSet {
	return s | 1<<e
}

func (s EdgeSet) Empty() bool {
	return s == 0
}

// Edges returns the members in clockwise order
func (s EdgeSet) Edges() []Edge {
	var out []Edge
	for _, e := range AllEdges {
		if s.Has(e) {
			out = append(out, e)
		}
	}
	return out
}

func (s EdgeSet) String() string {
	var names []string
	for _, e := range s.Edges() {
		names = append(names, e.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Arena is the rectangle the ball bounces in, y pointing up
type Arena struct {
	Center     Vec2
	HalfWidth  float64
	HalfHeight float64
}

// NewArena builds an arena from full width and height
func NewArena(center Vec2, width, height float64) Arena {
	return Arena{Center: center, HalfWidth: width / 2, HalfHeight: height / 2}
}

func (a Arena) Right() float64  { return a.Center.X + a.HalfWidth }
func (a Arena) Left() float64   { return a.Center.X - a.HalfWidth }
func (a Arena) Top() float64    { return a.Center.Y + a.HalfHeight }
func (a Arena) Bottom() float64 { return a.Center.Y - a.HalfHeight }

// Detect reports which edges the ball's surface has strictly passed and
// reflects the velocity component perpendicular to them.
//
// The four checks are independent, so a corner hit fires two edges and a
// ball wider than the arena fires both opposite edges. Each axis is negated
// at most once per call. A ball still overlapping a wall on the next tick
// fires again.
func Detect(p *Point, a Arena) EdgeSet {
	var fired EdgeSet
	pos, r := p.position, p.radius

	if pos.X+r > a.Right() {
		fired = fired.With(Right)
	}
	if pos.X-r < a.Left() {
		fired = fired.With(Left)
	}
	if pos.Y+r > a.Top() {
		fired = fired.With(Top)
	}
	if pos.Y-r < a.Bottom() {
		fired = fired.With(Bottom)
	}

	if fired.Has(Right) || fired.Has(Left) {
		p.velocity.X = -p.velocity.X
	}
	if fired.Has(Top) || fired.Has(Bottom) {
		p.velocity.Y = -p.velocity.Y
	}
	return fired
}
