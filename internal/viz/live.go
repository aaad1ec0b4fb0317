package viz

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"

	"github.com/san-kum/pendulum/internal/automation"
	"github.com/san-kum/pendulum/internal/dynamo"
	"github.com/san-kum/pendulum/internal/physics"
	"github.com/san-kum/pendulum/internal/plot"
	"github.com/san-kum/pendulum/internal/sim"
)

const historyCapacity = 600

// Driver is the part of a simulation loop the live view runs.
type Driver interface {
	Tick(dt float64, in dynamo.Direction) error
	Snapshot() dynamo.Snapshot
	ToggleController() (active bool, ok bool)
	Status() sim.Status
	Close() error
}

// Factory builds a fresh loop, used on start and on reset.
type Factory func() (Driver, error)

type Config struct {
	Title        string
	World        physics.Bounds
	TickInterval float64
	// FrameRate is the redraw rate; each frame runs the ticks that fit in it.
	FrameRate int
	// MaxImpulse scales the controller bar.
	MaxImpulse float64
	Hold       time.Duration
	// Width and Height are the canvas size in terminal cells.
	Width, Height int
	Theme         string
	Logger        zerolog.Logger
}

func DefaultConfig() Config {
	return Config{
		Title:        "cart pendulum",
		World:        physics.Bounds{Width: 1280, Height: 720},
		TickInterval: 1.0 / 480,
		FrameRate:    60,
		MaxImpulse:   10000.0 / 480,
		Hold:         automation.DefaultHoldWindow,
		Width:        80,
		Height:       24,
		Logger:       zerolog.Nop(),
	}
}

type frameMsg time.Time

// Model is the bubbletea model of the live view.
type Model struct {
	cfg     Config
	factory Factory
	loop    Driver

	hold     *automation.KeyHold
	canvas   *Canvas
	view     Viewport
	theme    Theme
	styles   Styles
	angles   []float64
	snap     dynamo.Snapshot
	// paused stops sending frames to the loop; the loop itself keeps running.
	paused   bool
	showHelp bool
	err      error
	log      zerolog.Logger
}

func NewModel(cfg Config, factory Factory) (Model, error) {
	if !(cfg.TickInterval > 0) || cfg.FrameRate <= 0 {
		return Model{}, fmt.Errorf("%w: tick interval and frame rate must be positive", dynamo.ErrConfiguration)
	}
	loop, err := factory()
	if err != nil {
		return Model{}, err
	}

	canvas := NewCanvas(cfg.Width, cfg.Height)
	theme := GetTheme(cfg.Theme)
	m := Model{
		cfg:     cfg,
		factory: factory,
		loop:    loop,
		hold:    automation.NewKeyHold(cfg.Hold),
		canvas:  canvas,
		view:    NewViewport(canvas, cfg.World.Width, cfg.World.Height),
		theme:   theme,
		styles:  NewStyles(theme),
		angles:  make([]float64, 0, historyCapacity),
		snap:    loop.Snapshot(),
		log:     cfg.Logger.With().Str("component", "live").Logger(),
	}
	m.draw()
	return m, nil
}

// Err is the error that ended the view, nil after a normal quit.
func (m Model) Err() error {
	return m.err
}

// Close stops the current loop.
func (m Model) Close() error {
	return m.loop.Close()
}

func (m Model) frame() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.FrameRate), func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.frame()
}

// TicksPerFrame is how many fixed ticks one redraw covers, at least one.
func (m Model) TicksPerFrame() int {
	return max(1, int(math.Round(1/float64(m.cfg.FrameRate)/m.cfg.TickInterval)))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.key(msg, time.Now())
	case frameMsg:
		if !m.paused {
			if err := m.advance(time.Time(msg)); err != nil {
				m.err = err
				m.log.Error().Err(err).Msg("simulation stopped")
				return m, tea.Quit
			}
		}
		m.draw()
		return m, m.frame()
	}
	return m, nil
}

func (m Model) key(msg tea.KeyMsg, now time.Time) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "a", "h":
		m.hold.Press(dynamo.DirectionNegative, now)
	case "right", "d", "l":
		m.hold.Press(dynamo.DirectionPositive, now)
	case "c":
		m.loop.ToggleController()
		m.snap = m.loop.Snapshot()
	case " ", "space", "p":
		m.paused = !m.paused
		m.hold.Release()
	case "r":
		if err := m.reset(); err != nil {
			m.err = err
			return m, tea.Quit
		}
	case "t":
		m.theme = next(m.theme.Name)
		m.styles = NewStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// advance runs one frame worth of ticks with the keys held at now.
func (m *Model) advance(now time.Time) error {
	in := m.hold.Direction(now)
	for i := 0; i < m.TicksPerFrame(); i++ {
		if err := m.loop.Tick(m.cfg.TickInterval, in); err != nil {
			return err
		}
	}
	m.snap = m.loop.Snapshot()
	m.angles = append(m.angles, m.snap.State.Angle())
	if len(m.angles) > historyCapacity {
		m.angles = m.angles[1:]
	}
	return nil
}

func (m *Model) reset() error {
	if err := m.loop.Close(); err != nil {
		m.log.Warn().Err(err).Msg("closing loop on reset")
	}
	loop, err := m.factory()
	if err != nil {
		return err
	}
	m.loop = loop
	m.hold.Release()
	m.angles = m.angles[:0]
	m.snap = loop.Snapshot()
	m.draw()
	return nil
}

func (m *Model) draw() {
	m.canvas.Clear()
	s, v := m.snap, m.view

	x0, y0 := v.Point(s.RailStart)
	x1, y1 := v.Point(s.RailEnd)
	m.canvas.DrawLine(x0, y0, x1, y1)

	cx, cy := v.Point(s.Cart)
	hw, hh := v.Length(s.CartSize[0]/2), v.Length(s.CartSize[1]/2)
	m.canvas.Rect(cx-hw, cy-hh, cx+hw, cy+hh)

	bx, by := v.Point(s.Bob)
	m.canvas.DrawLine(cx, cy, bx, by)
	m.canvas.Disc(bx, by, max(1, v.Length(s.BobRadius)))
}

func (m Model) View() string {
	st := m.styles
	s := m.snap

	var b strings.Builder
	b.WriteString(st.Header.Render(strings.ToUpper(m.cfg.Title)) + "\n")

	switch {
	case m.err != nil:
		b.WriteString(st.Error.Render("STOPPED") + "\n\n")
	case m.paused:
		b.WriteString(st.Paused.Render("PAUSED") + "\n\n")
	default:
		b.WriteString(st.Running.Render("RUNNING") + "\n\n")
	}

	if len(m.angles) > 1 {
		chart := asciigraph.Plot(plot.Tail(m.angles, 120), asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("angle"))
		b.WriteString(st.Graph.Render(chart) + "\n\n")
	}

	for _, l := range Labels(s) {
		b.WriteString(st.Label.Render(l.Name) + st.Value.Render(l.Value) + "\n")
	}
	b.WriteString(st.Label.Render("") + ForceBar(s.Impulse.X, m.cfg.MaxImpulse, 24) + "\n")
	if m.err != nil {
		b.WriteString("\n" + st.Error.Render(errorLine(m.err)) + "\n")
	}

	b.WriteString(st.Help.Render("←/→ push  c controller  space pause\nr reset  t theme  ? help  q quit"))

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		st.Canvas.Render(m.canvas.String()),
		st.Stats.Render(b.String()))
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

func errorLine(err error) string {
	var serr *dynamo.SimulationError
	if errors.As(err, &serr) {
		return fmt.Sprintf("tick %d: %v", serr.Tick, serr.Wrapped)
	}
	return err.Error()
}

const helpText = `
  ←  a  h   push the cart left
  →  d  l   push the cart right
  c         switch the controller on or off
  space p   pause
  r         reset to the initial parameters
  t         next colour theme
  ?         toggle this help
  q  esc    quit
`

// Run starts the live view on the terminal and returns the error that
// stopped the simulation, if any. The loop is closed on return.
func Run(cfg Config, factory Factory) error {
	m, err := NewModel(cfg, factory)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if fm, ok := final.(Model); ok {
		m = fm
	}
	closeErr := m.Close()
	if err != nil {
		return err
	}
	if m.err != nil {
		return m.err
	}
	return closeErr
}
