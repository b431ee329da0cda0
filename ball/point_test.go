package ball

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	b := New()

	assert.Equal(t, 1.0, b.Radius())
	assert.Equal(t, White, b.Color())
	assert.Equal(t, Vec2{}, b.Position())
	assert.Equal(t, Vec2{}, b.Velocity())
}

func TestRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	b1 := Random(rng)
	b2 := Random(rng)

	assert.NotEqual(t, b1.Velocity(), b2.Velocity())

	for _, b := range []*Point{b1, b2} {
		r := b.Radius()
		assert.GreaterOrEqual(t, r, 1.0)
		assert.Less(t, r, 15.0)
		assert.GreaterOrEqual(t, b.Position().X, r)
		assert.Less(t, b.Position().Y, 100.0)
		assert.Equal(t, 1.0, b.Color().A)
	}
}

func TestRandomizeVelocity(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	b := New()
	b.RandomizeVelocity(rng)

	v := b.Velocity()
	assert.NotEqual(t, Vec2{}, v)
	assert.GreaterOrEqual(t, v.X, -10.0)
	assert.Less(t, v.X, 10.0)
}

func TestMove(t *testing.T) {
	b := New()
	b.SetPosition(Vec2{X: 99, Y: 0})
	b.SetVelocity(Vec2{X: 5, Y: -1.5})
	b.Move()

	assert.Equal(t, Vec2{X: 104, Y: -1.5}, b.Position())
	assert.Equal(t, Vec2{X: 5, Y: -1.5}, b.Velocity())
}

func TestSetRadius(t *testing.T) {
	b := New()
	require.NoError(t, b.SetRadius(3.5))
	assert.Equal(t, 3.5, b.Radius())

	for _, r := range []float64{0, -1} {
		err := b.SetRadius(r)
		assert.ErrorIs(t, err, ErrRadius)
	}
	assert.Equal(t, 3.5, b.Radius())
}

func TestSetColor(t *testing.T) {
	b := New()
	c := RGBA{R: 0, G: 0.4, B: 0.6, A: 1}
	require.NoError(t, b.SetColor(c))
	assert.Equal(t, c, b.Color())

	err := b.SetColor(RGBA{R: 1.2, G: 0, B: 0, A: 1})
	assert.ErrorIs(t, err, ErrColor)
	assert.Equal(t, c, b.Color())
}
