package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bouncyquencer/ball"
	"bouncyquencer/sequencer"
	"bouncyquencer/theme"
)

// EdgeField is one editable column of the edge table
type EdgeField int

const (
	FieldNote EdgeField = iota
	FieldVelocity
	FieldChannel
	FieldLength
	NumFields
)

func (f EdgeField) String() string {
	switch f {
	case FieldNote:
		return "note"
	case FieldVelocity:
		return "velocity"
	case FieldChannel:
		return "channel"
	case FieldLength:
		return "length"
	}
	return "?"
}

// EdgeTable is the per-edge trigger list with a cursor
type EdgeTable struct {
	Edges    sequencer.Edges
	Selected ball.Edge
	Field    EdgeField
}

func edgeCells(cfg sequencer.EdgeConfig) [NumFields]string {
	return [NumFields]string{
		fmt.Sprintf("%-4s", sequencer.NoteName(cfg.Note)),
		fmt.Sprintf("%3d", cfg.Velocity),
		fmt.Sprintf("%2d", cfg.Channel),
		fmt.Sprintf("%5dms", cfg.Length.Milliseconds()),
	}
}

// RenderEdgeTable renders one row per edge:
//
//	▶ right   C4   100  1   100ms
func RenderEdgeTable(th *theme.Theme, t EdgeTable) string {
	dim := lipgloss.NewStyle().Foreground(th.Muted())
	fg := lipgloss.NewStyle().Foreground(th.FG())
	cursor := lipgloss.NewStyle().Foreground(th.BG()).Background(th.Cursor())

	header := dim.Render(fmt.Sprintf("  %-7s %-4s %3s %2s %7s", "edge", "note", "vel", "ch", "length"))
	lines := []string{header}

	for _, e := range ball.AllEdges {
		cfg := t.Edges[e]
		row := fg
		if !cfg.Enabled() {
			row = dim
		}

		marker := " "
		if e == t.Selected {
			marker = string(th.Symbols.Selected)
		}

		cells := edgeCells(cfg)
		var line strings.Builder
		line.WriteString(marker + " ")
		line.WriteString(row.Render(fmt.Sprintf("%-7s", e)))
		for f, text := range cells {
			line.WriteString(" ")
			if e == t.Selected && EdgeField(f) == t.Field {
				line.WriteString(cursor.Render(text))
			} else {
				line.WriteString(row.Render(text))
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
