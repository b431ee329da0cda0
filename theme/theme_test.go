package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bouncyquencer/ball"
)

func TestLookupEndpoints(t *testing.T) {
	p := DefaultPalette()

	assert.Equal(t, p.Colors[0], p.Lookup(-1))
	assert.Equal(t, p.Colors[0], p.Lookup(0))
	assert.Equal(t, p.Colors[len(p.Colors)-1], p.Lookup(1))
	assert.Equal(t, p.Colors[len(p.Colors)-1], p.Lookup(2))
}

func TestLookupInterpolates(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}

	assert.Equal(t, RGB{100, 50, 25}, p.Lookup(0.5))
}

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.gpl")
	data := "GIMP Palette\nName: Test\nColumns: 2\n# comment\n255 0 0 red\n0 255 0\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	p, err := LoadGPL(path)
	require.NoError(t, err)

	assert.Equal(t, "Test", p.Name)
	assert.Equal(t, []RGB{{255, 0, 0}, {0, 255, 0}}, p.Colors)
}

func TestParseGPL_RejectsOutOfRange(t *testing.T) {
	data := "GIMP Palette\nName: Bad\n10 20 30\n300 0 0 too red\n"

	_, err := ParseGPL(strings.NewReader(data))
	require.ErrorIs(t, err, ErrPalette)
	assert.Contains(t, err.Error(), "line 4")
	assert.Contains(t, err.Error(), "red 300")
}

func TestParseGPL_RejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"negative", "0 -1 0", "green -1"},
		{"not a number", "0 0 blue", "blue \"blue\""},
		{"too few", "12 34", "want R G B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGPL(strings.NewReader("GIMP Palette\n" + tt.line + "\n"))
			require.ErrorIs(t, err, ErrPalette)
			assert.Contains(t, err.Error(), "line 2")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLookup_SingleColorAndEmpty(t *testing.T) {
	one := &Palette{Colors: []RGB{{9, 8, 7}}}
	assert.Equal(t, RGB{9, 8, 7}, one.Lookup(0.5))
	assert.Equal(t, RGB{}, (&Palette{}).Lookup(0.5))
}

func TestLoadGPL_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gpl")
	require.NoError(t, os.WriteFile(path, []byte("GIMP Palette\n"), 0644))

	_, err := LoadGPL(path)
	assert.ErrorIs(t, err, ErrPalette)
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	th, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "plasma", th.Palette.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.gpl"))
	assert.Error(t, err)
}

func TestBallColor(t *testing.T) {
	th := New(&Palette{Colors: []RGB{{0, 0, 0}}})

	assert.Equal(t, lipgloss.Color("#ffffff"), th.BallColor(ball.White))
	assert.Equal(t, lipgloss.Color("#ff0000"), th.BallColor(ball.RGBA{R: 1, A: 1}))
	assert.Equal(t, lipgloss.Color("#000000"), th.BallColor(ball.RGBA{R: 1, G: 1, B: 1, A: 0}))
	assert.Equal(t, lipgloss.Color("#800000"), th.BallColor(ball.RGBA{R: 1, A: 0.5}))
}
