package theme

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

type RGB [3]uint8

type Palette struct {
	Name   string
	Colors []RGB
}

// DefaultPalette is a plasma-style ramp used when no .gpl file is configured
func DefaultPalette() *Palette {
	return &Palette{
		Name: "plasma",
		Colors: []RGB{
			{13, 8, 135},
			{75, 3, 161},
			{125, 3, 168},
			{168, 34, 150},
			{203, 70, 121},
			{229, 107, 93},
			{248, 148, 65},
			{253, 195, 40},
			{240, 249, 33},
		},
	}
}

var ErrPalette = errors.New("invalid palette")

// LoadGPL reads a GIMP palette file
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := ParseGPL(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParseGPL parses GIMP palette text. Every entry line must start with three
// integer components in [0,255]; anything else is an error naming the line.
func ParseGPL(r io.Reader) (*Palette, error) {
	p := &Palette{}
	scanner := bufio.NewScanner(r)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "", line[0] == '#', strings.HasPrefix(line, "GIMP"), strings.HasPrefix(line, "Columns:"):
			continue
		case strings.HasPrefix(line, "Name:"):
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		}

		c, err := parseEntry(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrPalette, lineNo, err)
		}
		p.Colors = append(p.Colors, c)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(p.Colors) == 0 {
		return nil, fmt.Errorf("%w: no colors found", ErrPalette)
	}
	return p, nil
}

// parseEntry reads "R G B [name]"
func parseEntry(line string) (RGB, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return RGB{}, fmt.Errorf("want R G B, got %q", line)
	}
	var c RGB
	for i, name := range [3]string{"red", "green", "blue"} {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return RGB{}, fmt.Errorf("%s %q is not an integer", name, fields[i])
		}
		if v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("%s %d not in [0,255]", name, v)
		}
		c[i] = uint8(v)
	}
	return c, nil
}

// Lookup returns the color at position norm along the ramp, blending the
// two nearest entries. Values outside [0,1] clamp to the ends.
func (p *Palette) Lookup(norm float64) RGB {
	last := len(p.Colors) - 1
	switch {
	case last < 0:
		return RGB{}
	case norm <= 0 || last == 0:
		return p.Colors[0]
	case norm >= 1:
		return p.Colors[last]
	}

	pos := norm * float64(last)
	i := int(pos)
	frac := pos - float64(i)

	var out RGB
	for ch := range out {
		a, b := float64(p.Colors[i][ch]), float64(p.Colors[i+1][ch])
		out[ch] = uint8(math.Round(a + (b-a)*frac))
	}
	return out
}
