package widgets

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bouncyquencer/ball"
	"bouncyquencer/theme"
)

// ArenaView is a snapshot of the arena for drawing
type ArenaView struct {
	Arena    ball.Arena
	Position ball.Vec2
	Radius   float64
	Color    ball.RGBA
	Lit      ball.EdgeSet // walls hit recently
	Cols     int
	Rows     int
}

type cell uint8

const (
	cellEmpty cell = iota
	cellBallEdge
	cellBall
)

// cells rasterizes the floor, row 0 at the top of the arena
func (v ArenaView) cells() [][]cell {
	grid := make([][]cell, v.Rows)
	for r := range grid {
		grid[r] = make([]cell, v.Cols)
	}
	if v.Cols == 0 || v.Rows == 0 {
		return grid
	}

	a := v.Arena
	cw := (a.Right() - a.Left()) / float64(v.Cols)
	ch := (a.Top() - a.Bottom()) / float64(v.Rows)
	for r := 0; r < v.Rows; r++ {
		y := a.Top() - (float64(r)+0.5)*ch
		for c := 0; c < v.Cols; c++ {
			x := a.Left() + (float64(c)+0.5)*cw
			if math.Hypot(x-v.Position.X, y-v.Position.Y) <= v.Radius {
				grid[r][c] = cellBallEdge
			}
		}
	}

	c := int(math.Floor((v.Position.X - a.Left()) / cw))
	r := int(math.Floor((a.Top() - v.Position.Y) / ch))
	if r >= 0 && r < v.Rows && c >= 0 && c < v.Cols {
		grid[r][c] = cellBall
	}
	return grid
}

// RenderArena draws the walls and ball. Lit walls use the active color.
func RenderArena(th *theme.Theme, v ArenaView) string {
	sym := th.Symbols
	wall := lipgloss.NewStyle().Foreground(th.Muted())
	hit := lipgloss.NewStyle().Foreground(th.Active()).Bold(true)
	floor := lipgloss.NewStyle().Foreground(th.Color(theme.RoleSurface))
	ballStyle := lipgloss.NewStyle().Foreground(th.BallColor(v.Color))

	horizontal := func(e ball.Edge) string {
		if v.Lit.Has(e) {
			return hit.Render(strings.Repeat(string(sym.WallHit), v.Cols))
		}
		return wall.Render(strings.Repeat(string(sym.WallH), v.Cols))
	}
	vertical := func(e ball.Edge) string {
		if v.Lit.Has(e) {
			return hit.Render(string(sym.WallHitV))
		}
		return wall.Render(string(sym.WallV))
	}
	corner := wall.Render(string(sym.WallCorner))

	lines := make([]string, 0, v.Rows+2)
	lines = append(lines, corner+horizontal(ball.Top)+corner)
	for _, row := range v.cells() {
		var line strings.Builder
		line.WriteString(vertical(ball.Left))
		for _, c := range row {
			switch c {
			case cellBall:
				line.WriteString(ballStyle.Render(string(sym.Ball)))
			case cellBallEdge:
				line.WriteString(ballStyle.Render(string(sym.BallEdge)))
			default:
				line.WriteString(floor.Render(string(sym.Empty)))
			}
		}
		line.WriteString(vertical(ball.Right))
		lines = append(lines, line.String())
	}
	lines = append(lines, corner+horizontal(ball.Bottom)+corner)
	return strings.Join(lines, "\n")
}
