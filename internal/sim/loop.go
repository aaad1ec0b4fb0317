package sim

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/rs/zerolog"

	"github.com/san-kum/pendulum/internal/control"
	"github.com/san-kum/pendulum/internal/dynamo"
)

// Loop owns one session. It is driven from a single goroutine.
type Loop struct {
	model  Model
	ctrl   dynamo.Controller
	manual *control.Manual
	opts   Options
	log    zerolog.Logger
	inst   *instruments

	state    dynamo.State
	impulse  cp.Vector
	friction float64
	input    dynamo.Direction
	ticks    int
	status   Status
}

// New derives the initial state from model, so the first tick's controller
// step sees the construction state with zero angular velocity. ctrl and
// manual may be nil.
func New(model Model, ctrl dynamo.Controller, manual *control.Manual, opts Options) *Loop {
	inst, err := newInstruments()
	if err != nil {
		opts.Logger.Warn().Err(err).Msg("instrumentation disabled")
	}

	l := &Loop{
		model:  model,
		ctrl:   ctrl,
		manual: manual,
		opts:   opts,
		log:    opts.Logger.With().Str("component", "loop").Logger(),
		inst:   inst,
		status: Running,
	}
	l.state = model.DerivedState()

	for _, m := range opts.Metrics {
		m.Reset()
	}
	return l
}

// Tick advances the session by one fixed interval. dt is the wall-clock time
// since the previous call and only feeds the debug log; the physics always
// steps by the configured tick interval.
func (l *Loop) Tick(dt float64, in dynamo.Direction) error {
	if l.status == Stopped {
		return dynamo.ErrStopped
	}

	l.input = in
	if in != dynamo.DirectionNone && l.manual != nil {
		l.model.ApplyImpulse(l.manual.Push(in))
	}

	l.impulse = cp.Vector{}
	if l.ctrl != nil {
		l.impulse = l.ctrl.Step(l.state)
		l.model.ApplyImpulse(l.impulse)
	}

	if l.opts.Step != nil {
		l.opts.Step(l.opts.TickInterval)
	}

	l.state = l.model.DerivedState()
	l.friction = l.model.FrictionForce()
	l.ticks++

	saturated := l.saturated()
	l.inst.tick(saturated)

	if e := l.log.Trace(); e.Enabled() {
		e.Int("tick", l.ticks).Float64("dt", dt).
			Floats64("state", l.state).Float64("impulse", l.impulse.X).
			Msg("tick")
	}

	if len(l.opts.Metrics) > 0 {
		snap := l.Snapshot()
		for _, m := range l.opts.Metrics {
			m.Observe(snap)
		}
	}

	if !l.state.IsValid() {
		return &SimulationError{Tick: l.ticks, Time: l.Time(), Wrapped: dynamo.ErrInvalidState}
	}

	if l.opts.Sink != nil {
		if err := l.opts.Sink.Insert(l.record()); err != nil {
			if !errors.Is(err, dynamo.ErrRecorder) && !errors.Is(err, dynamo.ErrRecorderClosed) {
				err = fmt.Errorf("%w: %w", dynamo.ErrRecorder, err)
			}
			l.log.Error().Err(err).Int("tick", l.ticks).Msg("telemetry write failed, stopping session")
			l.Close()
			return &SimulationError{Tick: l.ticks, Time: l.Time(), Wrapped: err}
		}
	}
	return nil
}

func (l *Loop) record() dynamo.Record {
	return dynamo.Record{
		"angle":              l.state.Angle(),
		"angular_velocity":   l.state.AngularVelocity(),
		"cart_friction":      l.friction,
		"cart_x":             l.state.CartX(),
		"cart_velocity":      l.state.CartVelocity(),
		"input_left":         l.input.Left(),
		"input_right":        l.input.Right(),
		"controller_impulse": l.impulse.X,
	}
}

func (l *Loop) saturated() bool {
	if s, ok := l.ctrl.(saturator); ok {
		return s.Saturated()
	}
	return false
}

// Close stops the session and closes the sink. Only the first call has any
// effect.
func (l *Loop) Close() error {
	if l.status == Stopped {
		return nil
	}
	l.status = Stopped
	l.log.Debug().Int("ticks", l.ticks).Msg("session stopped")

	if l.opts.Sink == nil {
		return nil
	}
	if err := l.opts.Sink.Close(); err != nil {
		l.log.Error().Err(err).Msg("closing telemetry sink")
		return err
	}
	return nil
}

func (l *Loop) Status() Status {
	return l.status
}

// State returns a copy of the state derived at the end of the last tick.
func (l *Loop) State() dynamo.State {
	return l.state.Clone()
}

func (l *Loop) Ticks() int {
	return l.ticks
}

// Time is the simulated time in seconds.
func (l *Loop) Time() float64 {
	return float64(l.ticks) * l.opts.TickInterval
}

func (l *Loop) Impulse() cp.Vector {
	return l.impulse
}

func (l *Loop) Friction() float64 {
	return l.friction
}

// ToggleController flips an LQR-style controller on or off and returns the
// new setting. It reports false when the controller cannot be toggled.
func (l *Loop) ToggleController() (active bool, ok bool) {
	t, ok := l.ctrl.(Toggler)
	if !ok {
		return false, false
	}
	t.SetActive(!t.Active())
	l.log.Info().Bool("active", t.Active()).Msg("controller toggled")
	return t.Active(), true
}

func (l *Loop) ControllerActive() bool {
	if t, ok := l.ctrl.(Toggler); ok {
		return t.Active()
	}
	return l.ctrl != nil
}

// Snapshot is a read-only copy for renderers.
func (l *Loop) Snapshot() dynamo.Snapshot {
	s := l.model.Snapshot()
	s.State = l.state.Clone()
	s.Impulse = l.impulse
	s.Friction = l.friction
	s.Input = l.input
	s.ControllerActive = l.ControllerActive()
	s.Saturated = l.saturated()
	s.Ticks = l.ticks
	s.Time = l.Time()
	return s
}

// Metrics returns the current value of every configured metric.
func (l *Loop) Metrics() map[string]float64 {
	out := make(map[string]float64, len(l.opts.Metrics))
	for _, m := range l.opts.Metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
