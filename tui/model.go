package tui

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bouncyquencer/ball"
	"bouncyquencer/debug"
	"bouncyquencer/midi"
	"bouncyquencer/sequencer"
	"bouncyquencer/theme"
	"bouncyquencer/widgets"
)

const (
	flashTicks = 6
	canvasCols = 48
	canvasRows = 20
)

type mode int

const (
	modeNormal mode = iota
	modeRename
	modeLoad
	modePorts
	modeAbout
)

// Options wires the model to the outside world. Nil funcs disable the
// matching feature.
type Options struct {
	FPS         int
	ProjectsDir string
	Rand        *rand.Rand
	NewBall     func() *ball.Point
	SaveConfig  func(sequencer.Edges) error
	ListPorts   func() ([]string, error)
	OpenPort    func(name string) (midi.Sink, error)
	Sink        midi.Sink // already set on the simulation; the model closes it
	SinkName    string
}

type Model struct {
	sim   *sequencer.Simulation
	Theme *theme.Theme
	opts  Options

	interval time.Duration
	last     time.Time
	elapsed  time.Duration
	paused   bool
	quitting bool

	flash    [ball.NumEdges]int
	selected ball.Edge
	field    widgets.EdgeField
	lastNote [ball.NumEdges]uint8

	mode   mode
	input  string   // project name being typed
	items  []string // load or port list
	cursor int

	sink      midi.Sink
	sinkName  string
	sent      int
	failed    int
	lastEvent string
	status    string
}

// TickMsg drives the simulation at a fixed rate
type TickMsg time.Time

type portsMsg struct {
	ports []string
	err   error
}

type portOpenedMsg struct {
	name string
	sink midi.Sink
	err  error
}

func NewModel(sim *sequencer.Simulation, th *theme.Theme, opts Options) Model {
	if opts.FPS < 1 {
		opts.FPS = 60
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	m := Model{
		sim:      sim,
		Theme:    th,
		opts:     opts,
		interval: time.Second / time.Duration(opts.FPS),
		sink:     opts.Sink,
		sinkName: opts.SinkName,
	}
	for _, e := range ball.AllEdges {
		m.lastNote[e] = sim.Edge(e).Note
	}
	return m
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		m.advance(time.Time(msg))
		return m, tick(m.interval)

	case tea.KeyMsg:
		switch m.mode {
		case modeRename:
			return m.updateRename(msg)
		case modeLoad, modePorts:
			return m.updateList(msg)
		case modeAbout:
			m.mode = modeNormal
			return m, nil
		}
		return m.updateNormal(msg)

	case portsMsg:
		if msg.err != nil {
			m.fail("ports", msg.err, "list output ports")
			return m, nil
		}
		if len(msg.ports) == 0 {
			m.status = "no MIDI output ports"
			return m, nil
		}
		m.mode, m.items, m.cursor = modePorts, msg.ports, 0
		return m, nil

	case portOpenedMsg:
		if msg.err != nil {
			m.fail("ports", msg.err, "open %s", msg.name)
			return m, nil
		}
		m.swapSink(msg.sink, msg.name)
		m.status = "output: " + msg.name
		return m, nil
	}

	return m, nil
}

// advance runs one simulation tick at wall time t. Paused time does not
// count toward elapsed, so pending events keep their relative timing.
func (m *Model) advance(t time.Time) {
	if !m.last.IsZero() && !m.paused {
		m.elapsed += t.Sub(m.last)
	}
	m.last = t
	if m.paused {
		return
	}

	res, err := m.sim.Tick(m.elapsed)
	for e := range m.flash {
		if m.flash[e] > 0 {
			m.flash[e]--
		}
	}
	for _, e := range res.Fired.Edges() {
		m.flash[e] = flashTicks
	}
	if err != nil {
		m.failed++
		m.fail("dispatch", err, "tick at %s", m.elapsed)
		return
	}
	if res.Delivered != nil {
		m.sent++
		m.lastEvent = res.Delivered.String()
	}
}

func (m *Model) fail(category string, err error, format string, args ...any) {
	debug.Error(category, err, format, args...)
	m.status = err.Error()
}

func (m *Model) swapSink(sink midi.Sink, name string) {
	if c, ok := m.sink.(io.Closer); ok {
		if err := c.Close(); err != nil {
			debug.Warn("ports", err, "close %s", m.sinkName)
		}
	}
	m.sink, m.sinkName = sink, name
	m.sim.SetSink(sink)
}

// Close releases the current output port
func (m Model) Close() error {
	if c, ok := m.sink.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case " ":
		m.paused = !m.paused

	case "r":
		if m.opts.NewBall != nil {
			m.sim.ResetBall(m.opts.NewBall())
			m.status = "ball reset"
		}

	case "v":
		m.sim.RandomizeVelocity(m.opts.Rand)
		v := m.sim.Velocity()
		m.status = fmt.Sprintf("velocity %.2f, %.2f", v.X, v.Y)

	case "tab":
		m.selected = ball.Edge((int(m.selected) + 1) % ball.NumEdges)
	case "shift+tab":
		m.selected = ball.Edge((int(m.selected) + ball.NumEdges - 1) % ball.NumEdges)

	case "right", "l":
		m.field = (m.field + 1) % widgets.NumFields
	case "left", "h":
		m.field = (m.field + widgets.NumFields - 1) % widgets.NumFields

	case "up", "k":
		m.editEdge(adjust(m.sim.Edge(m.selected), m.field, 1, false))
	case "down", "j":
		m.editEdge(adjust(m.sim.Edge(m.selected), m.field, -1, false))
	case "K", "pgup":
		m.editEdge(adjust(m.sim.Edge(m.selected), m.field, 1, true))
	case "J", "pgdown":
		m.editEdge(adjust(m.sim.Edge(m.selected), m.field, -1, true))

	case "x":
		m.editEdge(toggle(m.sim.Edge(m.selected), m.lastNote[m.selected]))

	case "s":
		m.save()

	case "o":
		names, err := sequencer.ListProjects(m.opts.ProjectsDir)
		if err != nil {
			m.fail("project", err, "list %s", m.opts.ProjectsDir)
			break
		}
		if len(names) == 0 {
			m.status = "no saved projects"
			break
		}
		m.mode, m.items, m.cursor = modeLoad, names, 0

	case "n":
		m.mode, m.input = modeRename, m.sim.ProjectName()

	case "c":
		if m.opts.SaveConfig == nil {
			break
		}
		if err := m.opts.SaveConfig(m.sim.Edges()); err != nil {
			m.fail("config", err, "save edges")
			break
		}
		m.status = "edges saved to config"

	case "p":
		if m.opts.ListPorts == nil {
			m.status = "port selection unavailable"
			break
		}
		m.status = "scanning ports..."
		list := m.opts.ListPorts
		return m, func() tea.Msg {
			ports, err := list()
			return portsMsg{ports: ports, err: err}
		}

	case "?":
		m.mode = modeAbout
	}

	return m, nil
}

func (m *Model) editEdge(cfg sequencer.EdgeConfig) {
	if err := m.sim.SetEdge(m.selected, cfg); err != nil {
		m.fail("edit", err, "set edge")
		return
	}
	if cfg.Enabled() {
		m.lastNote[m.selected] = cfg.Note
	}
}

func (m *Model) save() {
	path, err := sequencer.SaveProject(m.opts.ProjectsDir, m.sim.Freeze())
	if err != nil {
		m.fail("project", err, "save %q", m.sim.ProjectName())
		return
	}
	debug.Info("project", "saved %s", path)
	m.status = "saved " + path
}

func (m *Model) load(name string) {
	st, err := sequencer.LoadProject(m.opts.ProjectsDir, name)
	if err != nil {
		m.fail("project", err, "load %q", name)
		return
	}
	if st.ProjectName == "" {
		st.ProjectName = name
	}
	m.sim.Restore(st)
	m.status = "loaded " + name
}

func (m Model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		name := strings.TrimSpace(m.input)
		if name != "" {
			m.sim.SetProjectName(name)
			m.status = "project: " + name
		}
		m.mode = modeNormal
	case tea.KeyEsc:
		m.mode = modeNormal
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeNormal
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		choice := m.items[m.cursor]
		wasPorts := m.mode == modePorts
		m.mode = modeNormal
		if !wasPorts {
			m.load(choice)
			return m, nil
		}
		if m.opts.OpenPort == nil {
			return m, nil
		}
		if choice == m.sinkName {
			m.status = "already using " + choice
			return m, nil
		}
		open := m.opts.OpenPort
		return m, func() tea.Msg {
			sink, err := open(choice)
			return portOpenedMsg{name: choice, sink: sink, err: err}
		}
	}
	return m, nil
}

var keyLine = []widgets.KeyBinding{
	{Key: "space", Desc: "pause"},
	{Key: "r", Desc: "reset"},
	{Key: "v", Desc: "velocity"},
	{Key: "tab", Desc: "edge"},
	{Key: "←→", Desc: "field"},
	{Key: "↑↓", Desc: "adjust"},
	{Key: "x", Desc: "on/off"},
	{Key: "?", Desc: "help"},
	{Key: "q", Desc: "quit"},
}

var helpSections = []widgets.KeySection{
	{Title: "Ball", Keys: []widgets.KeyBinding{
		{Key: "space", Desc: "pause / resume"},
		{Key: "r", Desc: "reset ball"},
		{Key: "v", Desc: "random velocity"},
	}},
	{Title: "Edges", Keys: []widgets.KeyBinding{
		{Key: "tab/S-tab", Desc: "select edge"},
		{Key: "←→ / h l", Desc: "select field"},
		{Key: "↑↓ / k j", Desc: "adjust value"},
		{Key: "K J", Desc: "adjust coarse"},
		{Key: "x", Desc: "enable / disable edge"},
		{Key: "c", Desc: "save edges to config"},
	}},
	{Title: "Project", Keys: []widgets.KeyBinding{
		{Key: "n", Desc: "rename project"},
		{Key: "s", Desc: "save state"},
		{Key: "o", Desc: "open saved state"},
		{Key: "p", Desc: "choose MIDI output"},
	}},
}

const about = `bouncyquencer

A ball bounces around the arena. Every wall it hits plays that wall's
note: note-on at the moment of impact, note-off after the edge's length.
Set a wall's note to off to keep it silent.`

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	statusStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	state := "RUN"
	if m.paused {
		state = "PAUSE"
	}
	output := m.sinkName
	if output == "" {
		output = "none"
	}
	header := headerStyle.Render(fmt.Sprintf("bouncyquencer  %s  %s  %s  out:%s",
		m.sim.ProjectName(), state, m.elapsed.Truncate(time.Second/10), output))

	var body string
	switch m.mode {
	case modeAbout:
		body = about + "\n\n" + widgets.RenderKeyHelp(helpSections)
	case modeLoad, modePorts:
		body = m.renderList()
	default:
		body = m.renderMain()
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(body)
	out.WriteString("\n\n")
	if m.mode == modeRename {
		out.WriteString(headerStyle.Render("name: " + m.input + "_"))
		out.WriteString("\n")
	}
	if m.status != "" {
		out.WriteString(statusStyle.Render(m.status))
		out.WriteString("\n")
	}
	out.WriteString(dimStyle.Render(widgets.RenderKeyLine(keyLine)))
	return out.String()
}

func (m Model) renderMain() string {
	b := m.sim.Ball()
	var lit ball.EdgeSet
	for e, n := range m.flash {
		if n > 0 {
			lit = lit.With(ball.Edge(e))
		}
	}
	canvas := widgets.RenderArena(m.Theme, widgets.ArenaView{
		Arena:    m.sim.Arena(),
		Position: b.Position(),
		Radius:   b.Radius(),
		Color:    b.Color(),
		Lit:      lit,
		Cols:     canvasCols,
		Rows:     canvasRows,
	})

	table := widgets.RenderEdgeTable(m.Theme, widgets.EdgeTable{
		Edges:    m.sim.Edges(),
		Selected: m.selected,
		Field:    m.field,
	})

	pos, vel := b.Position(), m.sim.Velocity()
	stats := []string{
		"",
		fmt.Sprintf("pos  %7.2f %7.2f", pos.X, pos.Y),
		fmt.Sprintf("vel  %7.2f %7.2f", vel.X, vel.Y),
		fmt.Sprintf("queue %d  sent %d  failed %d", m.sim.Pending(), m.sent, m.failed),
	}
	if m.lastEvent != "" {
		stats = append(stats, "last "+m.lastEvent)
	}

	side := table + "\n" + strings.Join(stats, "\n")
	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, "  ", side)
}

func (m Model) renderList() string {
	title := "Open project"
	if m.mode == modePorts {
		title = "MIDI output"
	}
	cursorStyle := lipgloss.NewStyle().Foreground(m.Theme.Cursor())
	lines := []string{title, ""}
	for i, item := range m.items {
		if i == m.cursor {
			lines = append(lines, cursorStyle.Render(string(m.Theme.Symbols.Selected)+" "+item))
		} else {
			lines = append(lines, "  "+item)
		}
	}
	return strings.Join(lines, "\n")
}
