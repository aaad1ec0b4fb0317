package viz

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/pendulum/internal/dynamo"
	"github.com/san-kum/pendulum/internal/params"
	"github.com/san-kum/pendulum/internal/sim"
)

func sessionFactory(t *testing.T, preset string) Factory {
	t.Helper()
	k, err := params.LoadGains(filepath.Join("..", "..", "configs", "lqr_gains.csv"))
	if err != nil {
		t.Fatal(err)
	}
	p, ok := params.GetPreset(preset)
	if !ok {
		t.Fatalf("no preset %q", preset)
	}
	return func() (Driver, error) {
		s, err := sim.NewSession(sim.DefaultSessionConfig(p, k))
		if err != nil {
			return nil, err
		}
		return s.Loop, nil
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModelFrameAdvancesTicks(t *testing.T) {
	m, err := NewModel(DefaultConfig(), sessionFactory(t, "near_upright"))
	if err != nil {
		t.Fatal(err)
	}
	if got := m.TicksPerFrame(); got != 8 {
		t.Fatalf("TicksPerFrame() = %d, want 8", got)
	}

	next, _ := m.Update(frameMsg(time.Now()))
	m = next.(Model)
	if m.snap.Ticks != 8 {
		t.Errorf("ticks after one frame = %d, want 8", m.snap.Ticks)
	}
	if len(m.angles) != 1 {
		t.Errorf("angle history = %d, want 1", len(m.angles))
	}

	view := m.View()
	for _, want := range []string{"RUNNING", "θ", "controller"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q", want)
		}
	}
}

func TestModelKeys(t *testing.T) {
	m, err := NewModel(DefaultConfig(), sessionFactory(t, "rest_bottom"))
	if err != nil {
		t.Fatal(err)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(Model)
	next, _ = m.Update(frameMsg(time.Now()))
	m = next.(Model)
	if m.snap.Input != dynamo.DirectionNegative {
		t.Errorf("input = %v, want left", m.snap.Input)
	}

	active := m.snap.ControllerActive
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = next.(Model)
	if m.snap.ControllerActive == active {
		t.Error("c did not toggle the controller")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m = next.(Model)
	ticks := m.snap.Ticks
	next, _ = m.Update(frameMsg(time.Now()))
	m = next.(Model)
	if m.snap.Ticks != ticks {
		t.Error("paused view still ticked")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view does not show PAUSED")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(Model)
	if m.snap.Ticks != 0 || len(m.angles) != 0 {
		t.Errorf("reset left ticks %d history %d", m.snap.Ticks, len(m.angles))
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !isQuit(cmd) {
		t.Error("q did not quit")
	}
}

func TestModelPauseOnlySkipsFrames(t *testing.T) {
	m, err := NewModel(DefaultConfig(), sessionFactory(t, "near_upright"))
	if err != nil {
		t.Fatal(err)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	m = next.(Model)
	for i := 0; i < 3; i++ {
		next, _ = m.Update(frameMsg(time.Now()))
		m = next.(Model)
	}
	if m.snap.Ticks != 0 {
		t.Errorf("ticks while paused = %d, want 0", m.snap.Ticks)
	}
	if m.loop.Status() != sim.Running {
		t.Errorf("loop status while paused = %v, want running", m.loop.Status())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	m = next.(Model)
	next, _ = m.Update(frameMsg(time.Now()))
	m = next.(Model)
	if m.snap.Ticks != m.TicksPerFrame() {
		t.Errorf("ticks after resuming = %d, want %d", m.snap.Ticks, m.TicksPerFrame())
	}
}

type failingDriver struct {
	closed int
}

func (f *failingDriver) Tick(float64, dynamo.Direction) error {
	return &dynamo.SimulationError{Tick: 1, Wrapped: dynamo.ErrRecorder}
}
func (f *failingDriver) Snapshot() dynamo.Snapshot {
	return dynamo.Snapshot{State: dynamo.NewState(0, 0, 0, 0)}
}
func (f *failingDriver) ToggleController() (bool, bool) { return false, false }
func (f *failingDriver) Status() sim.Status             { return sim.Stopped }
func (f *failingDriver) Close() error                   { f.closed++; return nil }

func TestModelStopsOnLoopError(t *testing.T) {
	d := &failingDriver{}
	m, err := NewModel(DefaultConfig(), func() (Driver, error) { return d, nil })
	if err != nil {
		t.Fatal(err)
	}

	next, cmd := m.Update(frameMsg(time.Now()))
	m = next.(Model)
	if !isQuit(cmd) {
		t.Error("loop error did not quit")
	}
	if !errors.Is(m.Err(), dynamo.ErrRecorder) {
		t.Errorf("Err() = %v, want ErrRecorder", m.Err())
	}
	if !strings.Contains(m.View(), "STOPPED") {
		t.Error("view does not show STOPPED")
	}
}

func TestNewModelRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FrameRate = 0
	_, err := NewModel(cfg, func() (Driver, error) { return &failingDriver{}, nil })
	if !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("err = %v, want ErrConfiguration", err)
	}
}
