package ball

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	ErrRadius = errors.New("radius must be positive")
	ErrColor  = errors.New("color channel out of range [0,1]")
)

// Vec2 is a point or vector in arena space
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// RGBA is a color with each channel in [0,1]
type RGBA struct {
	R, G, B, A float64
}

// White is the color of a freshly created ball
var White = RGBA{R: 1, G: 1, B: 1, A: 1}

func (c RGBA) valid() bool {
	for _, ch := range [4]float64{c.R, c.G, c.B, c.A} {
		if ch < 0 || ch > 1 {
			return false
		}
	}
	return true
}

// Point is a moving circle: position, velocity, radius and color.
// It holds no scheduling logic; the driver integrates it once per tick.
type Point struct {
	position Vec2
	velocity Vec2
	radius   float64
	color    RGBA
}

// New creates a white unit ball at the origin with no velocity
func New() *Point {
	return &Point{
		radius: 1,
		color:  White,
	}
}

// Random creates a ball with random radius, position, velocity and color.
// Radius is in [1,15), position in [radius,100) on both axes so the whole
// ball starts visible, velocity in [-10,10) per axis.
func Random(rng *rand.Rand) *Point {
	r := uniform(rng, 1, 15)
	p := &Point{
		position: Vec2{X: uniform(rng, r, 100), Y: uniform(rng, r, 100)},
		radius:   r,
		color:    RGBA{R: rng.Float64(), G: rng.Float64(), B: rng.Float64(), A: 1},
	}
	p.RandomizeVelocity(rng)
	return p
}

// RandomizeVelocity assigns a new velocity in [-10,10) per axis
func (p *Point) RandomizeVelocity(rng *rand.Rand) {
	p.velocity = Vec2{X: uniform(rng, -10, 10), Y: uniform(rng, -10, 10)}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// Move advances position by one tick of velocity
func (p *Point) Move() {
	p.position = p.position.Add(p.velocity)
}

func (p *Point) Position() Vec2 {
	return p.position
}

func (p *Point) SetPosition(pos Vec2) {
	p.position = pos
}

func (p *Point) Velocity() Vec2 {
	return p.velocity
}

func (p *Point) SetVelocity(v Vec2) {
	p.velocity = v
}

func (p *Point) Radius() float64 {
	return p.radius
}

// SetRadius rejects non-positive values and leaves the radius unchanged
func (p *Point) SetRadius(r float64) error {
	if !(r > 0) {
		return fmt.Errorf("%w: %v", ErrRadius, r)
	}
	p.radius = r
	return nil
}

func (p *Point) Color() RGBA {
	return p.color
}

// SetColor rejects any channel outside [0,1]
func (p *Point) SetColor(c RGBA) error {
	if !c.valid() {
		return fmt.Errorf("%w: %+v", ErrColor, c)
	}
	p.color = c
	return nil
}
