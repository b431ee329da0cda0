package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"bouncyquencer/ball"
	"bouncyquencer/sequencer"
)

// OutputType selects the delivery sink
type OutputType string

const (
	OutputNone OutputType = "none"
	OutputMIDI OutputType = "midi"
	OutputOSC  OutputType = "osc"
)

const configName = "config.json"

var ErrInvalid = errors.New("invalid config")

// ArenaConfig is the bounce area in world units
type ArenaConfig struct {
	Width   float64 `json:"width" mapstructure:"width"`
	Height  float64 `json:"height" mapstructure:"height"`
	CenterX float64 `json:"centerX" mapstructure:"centerX"`
	CenterY float64 `json:"centerY" mapstructure:"centerY"`
}

// BallConfig is the starting ball. Random ignores the other fields.
type BallConfig struct {
	Random    bool       `json:"random" mapstructure:"random"`
	Radius    float64    `json:"radius" mapstructure:"radius"`
	PositionX float64    `json:"positionX" mapstructure:"positionX"`
	PositionY float64    `json:"positionY" mapstructure:"positionY"`
	VelocityX float64    `json:"velocityX" mapstructure:"velocityX"`
	VelocityY float64    `json:"velocityY" mapstructure:"velocityY"`
	Color     [4]float64 `json:"color" mapstructure:"color"`
}

// EdgeSettings is one edge's trigger. Note outside 0-127 disables it.
type EdgeSettings struct {
	Note     int `json:"note" mapstructure:"note"`
	Velocity int `json:"velocity" mapstructure:"velocity"`
	Channel  int `json:"channel" mapstructure:"channel"`
	LengthMs int `json:"lengthMs" mapstructure:"lengthMs"`
}

// EdgesConfig holds all four edges
type EdgesConfig struct {
	Top    EdgeSettings `json:"top" mapstructure:"top"`
	Right  EdgeSettings `json:"right" mapstructure:"right"`
	Bottom EdgeSettings `json:"bottom" mapstructure:"bottom"`
	Left   EdgeSettings `json:"left" mapstructure:"left"`
}

// OSCConfig is the OSC receiver
type OSCConfig struct {
	Host    string `json:"host" mapstructure:"host"`
	Port    int    `json:"port" mapstructure:"port"`
	Address string `json:"address" mapstructure:"address"`
}

// OutputConfig selects and configures the sink
type OutputConfig struct {
	Type     OutputType `json:"type" mapstructure:"type"`
	MIDIPort string     `json:"midiPort,omitempty" mapstructure:"midiPort"`
	OSC      OSCConfig  `json:"osc" mapstructure:"osc"`
}

// ThemeConfig stores UI preferences
type ThemeConfig struct {
	Palette string `json:"palette,omitempty" mapstructure:"palette"`
}

// Config is the main configuration structure
type Config struct {
	LogLevel    string       `json:"logLevel" mapstructure:"logLevel"`
	LogFile     string       `json:"logFile,omitempty" mapstructure:"logFile"`
	FPS         int          `json:"fps" mapstructure:"fps"`
	Arena       ArenaConfig  `json:"arena" mapstructure:"arena"`
	Ball        BallConfig   `json:"ball" mapstructure:"ball"`
	Edges       EdgesConfig  `json:"edges" mapstructure:"edges"`
	Output      OutputConfig `json:"output" mapstructure:"output"`
	ProjectsDir string       `json:"projectsDir,omitempty" mapstructure:"projectsDir"`
	ProjectName string       `json:"projectName" mapstructure:"projectName"`
	Theme       ThemeConfig  `json:"theme" mapstructure:"theme"`
}

func disabledEdge() EdgeSettings {
	return EdgeSettings{Note: int(sequencer.NoteDisabled), Velocity: 100, Channel: 1, LengthMs: 100}
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		FPS:      60,
		Arena:    ArenaConfig{Width: 200, Height: 200},
		Ball: BallConfig{
			Random: true,
			Radius: 5,
			Color:  [4]float64{1, 1, 1, 1},
		},
		Edges: EdgesConfig{
			Top:    disabledEdge(),
			Right:  disabledEdge(),
			Bottom: disabledEdge(),
			Left:   disabledEdge(),
		},
		Output: OutputConfig{
			Type: OutputNone,
			OSC:  OSCConfig{Host: "127.0.0.1", Port: 8765, Address: "/bouncyquencer/note"},
		},
		ProjectName: "untitled",
	}
}

// setDefaults registers every default with viper so nested keys can be
// overridden individually from file or environment
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("logLevel", d.LogLevel)
	v.SetDefault("logFile", "")
	v.SetDefault("fps", d.FPS)

	v.SetDefault("arena.width", d.Arena.Width)
	v.SetDefault("arena.height", d.Arena.Height)
	v.SetDefault("arena.centerX", d.Arena.CenterX)
	v.SetDefault("arena.centerY", d.Arena.CenterY)

	v.SetDefault("ball.random", d.Ball.Random)
	v.SetDefault("ball.radius", d.Ball.Radius)
	v.SetDefault("ball.positionX", 0.0)
	v.SetDefault("ball.positionY", 0.0)
	v.SetDefault("ball.velocityX", 0.0)
	v.SetDefault("ball.velocityY", 0.0)
	v.SetDefault("ball.color", d.Ball.Color[:])

	for _, edge := range ball.AllEdges {
		key := "edges." + edge.String()
		e := disabledEdge()
		v.SetDefault(key+".note", e.Note)
		v.SetDefault(key+".velocity", e.Velocity)
		v.SetDefault(key+".channel", e.Channel)
		v.SetDefault(key+".lengthMs", e.LengthMs)
	}

	v.SetDefault("output.type", string(d.Output.Type))
	v.SetDefault("output.midiPort", "")
	v.SetDefault("output.osc.host", d.Output.OSC.Host)
	v.SetDefault("output.osc.port", d.Output.OSC.Port)
	v.SetDefault("output.osc.address", d.Output.OSC.Address)

	v.SetDefault("projectsDir", "")
	v.SetDefault("projectName", d.ProjectName)
	v.SetDefault("theme.palette", "")
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "bouncyquencer"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configName), nil
}

// Load reads config.json from the default config directory, or returns
// defaults if it does not exist
func Load() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return LoadFrom(".")
	}
	return LoadFrom(dir)
}

// LoadFrom reads config.json from configDir. A missing file is not an
// error. Environment variables prefixed BOUNCY_ override file values,
// e.g. BOUNCY_OUTPUT_MIDIPORT or BOUNCY_EDGES_TOP_NOTE.
func LoadFrom(configDir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(strings.TrimSuffix(configName, ".json"))
	v.SetConfigType("json")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("BOUNCY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to the default config directory
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return c.SaveTo(dir)
}

// SaveTo writes config.json into dir
func (c *Config) SaveTo(dir string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, configName), data, 0644)
}

// Validate rejects values the simulation cannot run with
func (c *Config) Validate() error {
	if c.FPS < 1 {
		return fmt.Errorf("%w: fps %d", ErrInvalid, c.FPS)
	}
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		return fmt.Errorf("%w: arena %vx%v", ErrInvalid, c.Arena.Width, c.Arena.Height)
	}
	if !c.Ball.Random && c.Ball.Radius <= 0 {
		return fmt.Errorf("%w: ball radius %v", ErrInvalid, c.Ball.Radius)
	}
	switch c.Output.Type {
	case OutputNone, OutputMIDI, OutputOSC:
	default:
		return fmt.Errorf("%w: output type %q", ErrInvalid, c.Output.Type)
	}
	if _, err := c.EdgeConfigs(); err != nil {
		return err
	}
	return nil
}

// Setting returns the settings for one edge
func (e *EdgesConfig) Setting(edge ball.Edge) *EdgeSettings {
	switch edge {
	case ball.Top:
		return &e.Top
	case ball.Right:
		return &e.Right
	case ball.Bottom:
		return &e.Bottom
	default:
		return &e.Left
	}
}

// EdgeConfigs converts edge settings to the simulation's trigger table
func (c *Config) EdgeConfigs() (sequencer.Edges, error) {
	var edges sequencer.Edges
	for _, edge := range ball.AllEdges {
		s := c.Edges.Setting(edge)
		if s.Velocity < 0 || s.Velocity > 127 {
			return edges, fmt.Errorf("%w: %s edge velocity %d not in [0,127]", ErrInvalid, edge, s.Velocity)
		}
		if s.Channel < 1 || s.Channel > 16 {
			return edges, fmt.Errorf("%w: %s edge channel %d not in [1,16]", ErrInvalid, edge, s.Channel)
		}
		if s.LengthMs < 1 {
			return edges, fmt.Errorf("%w: %s edge lengthMs %d must be at least 1", ErrInvalid, edge, s.LengthMs)
		}
		note := sequencer.NoteDisabled
		if s.Note >= 0 && s.Note <= 127 {
			note = uint8(s.Note)
		}
		edges[edge] = sequencer.EdgeConfig{
			Note:     note,
			Velocity: uint8(s.Velocity),
			Channel:  uint8(s.Channel),
			Length:   time.Duration(s.LengthMs) * time.Millisecond,
		}
	}
	return edges, nil
}

// StoreEdges writes the simulation's trigger table back into the config
func (c *Config) StoreEdges(edges sequencer.Edges) {
	for _, edge := range ball.AllEdges {
		e := edges[edge]
		*c.Edges.Setting(edge) = EdgeSettings{
			Note:     int(e.Note),
			Velocity: int(e.Velocity),
			Channel:  int(e.Channel),
			LengthMs: int(e.Length / time.Millisecond),
		}
	}
}

// ArenaRect returns the configured bounce area
func (c *Config) ArenaRect() ball.Arena {
	return ball.NewArena(ball.Vec2{X: c.Arena.CenterX, Y: c.Arena.CenterY}, c.Arena.Width, c.Arena.Height)
}

// ProjectsPath returns the directory project state files are kept in
func (c *Config) ProjectsPath() (string, error) {
	if c.ProjectsDir != "" {
		return c.ProjectsDir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "projects"), nil
}

// LogPath returns where the debug log is written
func (c *Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "debug.log"), nil
}
