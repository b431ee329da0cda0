package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"bouncyquencer/ball"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Arena canvas
	Ball       rune // ● ball center cell
	BallEdge   rune // ○ cell covered by the radius
	Empty      rune // · floor
	WallH      rune // ─ top/bottom wall
	WallV      rune // │ left/right wall
	WallCorner rune // + corner
	WallHit    rune // ━ wall flash after a hit (horizontal)
	WallHitV   rune // ┃ wall flash after a hit (vertical)

	// Edge table
	Selected rune // ▶ edge being edited
	Disabled rune // - edge with no note
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Ball:       '●',
			BallEdge:   '○',
			Empty:      '·',
			WallH:      '─',
			WallV:      '│',
			WallCorner: '+',
			WallHit:    '━',
			WallHitV:   '┃',

			Selected: '▶',
			Disabled: '-',
		},
	}
}

// Default uses the built-in palette
func Default() *Theme {
	return New(DefaultPalette())
}

// Load uses the palette at path, or the built-in one when path is empty
func Load(path string) (*Theme, error) {
	if path == "" {
		return Default(), nil
	}
	p, err := LoadGPL(path)
	if err != nil {
		return nil, err
	}
	return New(p), nil
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // deep purple
	RoleSurface = 0.1 // dark purple
	RoleMuted   = 0.2 // purple-magenta
	RoleFG      = 0.4 // pink-purple (readable)
	RoleAccent  = 0.5 // vivid magenta
	RoleCursor  = 0.6 // rose pink
	RoleActive  = 0.7 // soft red
	RoleWarning = 0.8 // orange
	RoleSuccess = 1.0 // bright yellow
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Cursor() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleCursor))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

// BallColor converts the ball's float color to a terminal color. Alpha is
// blended against the theme background.
func (t *Theme) BallColor(c ball.RGBA) lipgloss.Color {
	bg := t.Palette.Lookup(RoleBG)
	mix := func(v float64, under uint8) uint8 {
		return uint8(v*c.A*255 + float64(under)*(1-c.A) + 0.5)
	}
	return rgbToLipgloss(RGB{mix(c.R, bg[0]), mix(c.G, bg[1]), mix(c.B, bg[2])})
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
