package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"bouncyquencer/ball"
	"bouncyquencer/config"
	"bouncyquencer/debug"
	"bouncyquencer/midi"
	"bouncyquencer/oscsink"
	"bouncyquencer/sequencer"
	"bouncyquencer/theme"
	"bouncyquencer/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return err
	}
	if err := debug.Enable(logPath, cfg.LogLevel); err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer debug.Disable()

	th, err := theme.Load(cfg.Theme.Palette)
	if err != nil {
		return fmt.Errorf("load palette: %w", err)
	}

	edges, err := cfg.EdgeConfigs()
	if err != nil {
		return err
	}

	projectsDir, err := cfg.ProjectsPath()
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	newBall := func() *ball.Point {
		return buildBall(cfg.Ball, rng)
	}

	sink, sinkName, err := openSink(cfg.Output)
	if err != nil {
		return err
	}
	sim, err := sequencer.NewSimulation(newBall(), cfg.ArenaRect(), edges, sink)
	if err != nil {
		if c, ok := sink.(io.Closer); ok {
			c.Close()
		}
		return err
	}
	sim.SetProjectName(cfg.ProjectName)
	debug.Info("main", "started project=%s output=%s fps=%d", cfg.ProjectName, sinkName, cfg.FPS)

	m := tui.NewModel(sim, th, tui.Options{
		FPS:         cfg.FPS,
		ProjectsDir: projectsDir,
		Rand:        rng,
		NewBall:     newBall,
		SaveConfig: func(e sequencer.Edges) error {
			cfg.StoreEdges(e)
			return cfg.Save()
		},
		ListPorts: midi.OutPorts,
		OpenPort: func(name string) (midi.Sink, error) {
			return midi.OpenPort(name)
		},
		Sink:     sink,
		SinkName: sinkName,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())

	final, err := p.Run()
	if fm, ok := final.(tui.Model); ok {
		if cerr := fm.Close(); cerr != nil {
			debug.Warn("main", cerr, "close output")
		}
	}
	return err
}

// buildBall follows the ball config: random, or fixed with the given
// radius, position, velocity and color
func buildBall(c config.BallConfig, rng *rand.Rand) *ball.Point {
	if c.Random {
		return ball.Random(rng)
	}
	b := ball.New()
	b.SetPosition(ball.Vec2{X: c.PositionX, Y: c.PositionY})
	b.SetVelocity(ball.Vec2{X: c.VelocityX, Y: c.VelocityY})
	if err := b.SetRadius(c.Radius); err != nil {
		debug.Warn("main", err, "keeping default radius")
	}
	color := ball.RGBA{R: c.Color[0], G: c.Color[1], B: c.Color[2], A: c.Color[3]}
	if err := b.SetColor(color); err != nil {
		debug.Warn("main", err, "keeping default color")
	}
	return b
}

func openSink(c config.OutputConfig) (midi.Sink, string, error) {
	switch c.Type {
	case config.OutputMIDI:
		name := c.MIDIPort
		if name == "" {
			ports, err := midi.OutPorts()
			if err != nil {
				return nil, "", err
			}
			if len(ports) == 0 {
				return nil, "", midi.ErrPortNotFound
			}
			name = ports[0]
		}
		s, err := midi.OpenPort(name)
		if err != nil {
			return nil, "", err
		}
		return s, s.Name(), nil
	case config.OutputOSC:
		s, err := oscsink.New(c.OSC.Host, c.OSC.Port, c.OSC.Address)
		if err != nil {
			return nil, "", err
		}
		return s, s.Name(), nil
	}
	return midi.Discard, "", nil
}
