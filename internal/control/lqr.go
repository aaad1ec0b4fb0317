package control

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pendulum/internal/dynamo"
)

type Options struct {
	// MaxForce bounds |K (x - setpoint)| before it is scaled to an impulse.
	MaxForce     float64
	TickInterval float64
	Active       bool
	// Setpoint defaults to dynamo.Setpoint() when nil.
	Setpoint dynamo.State
}

func DefaultOptions() Options {
	return Options{
		MaxForce:     10000,
		TickInterval: 1.0 / 480,
		Active:       true,
	}
}

type LQR struct {
	k        *mat.Dense
	setpoint dynamo.State
	maxForce float64
	interval float64

	active    bool
	saturated bool
}

// NewLQR checks that k is a 1×4 row of gains matching dynamo.State.
func NewLQR(k *mat.Dense, opts Options) (*LQR, error) {
	if k == nil {
		return nil, fmt.Errorf("%w: nil gain matrix", dynamo.ErrConfiguration)
	}
	if r, c := k.Dims(); r != 1 || c != dynamo.StateDim {
		return nil, fmt.Errorf("%w: gain matrix is %dx%d, want 1x%d", dynamo.ErrConfiguration, r, c, dynamo.StateDim)
	}
	if !(opts.MaxForce > 0) {
		return nil, fmt.Errorf("%w: max force must be positive, got %g", dynamo.ErrConfiguration, opts.MaxForce)
	}
	if !(opts.TickInterval > 0) {
		return nil, fmt.Errorf("%w: tick interval must be positive, got %g", dynamo.ErrConfiguration, opts.TickInterval)
	}

	setpoint := opts.Setpoint
	if setpoint == nil {
		setpoint = dynamo.Setpoint()
	}
	if len(setpoint) != dynamo.StateDim {
		return nil, fmt.Errorf("%w: setpoint has %d components", dynamo.ErrConfiguration, len(setpoint))
	}

	return &LQR{
		k:        k,
		setpoint: setpoint.Clone(),
		maxForce: opts.MaxForce,
		interval: opts.TickInterval,
		active:   opts.Active,
	}, nil
}

// Step returns the impulse for state x. An inactive controller returns the
// zero vector and leaves K untouched.
func (l *LQR) Step(x dynamo.State) cp.Vector {
	if !l.active {
		l.saturated = false
		return cp.Vector{}
	}

	e := make([]float64, dynamo.StateDim)
	copy(e, x.Sub(l.setpoint))

	var u mat.VecDense
	u.MulVec(l.k, mat.NewVecDense(dynamo.StateDim, e))

	f := -u.AtVec(0)
	l.saturated = math.Abs(f) > l.maxForce
	f = math.Max(-l.maxForce, math.Min(l.maxForce, f))

	return cp.Vector{X: f * l.interval, Y: 0}
}

func (l *LQR) SetActive(active bool) {
	l.active = active
	if !active {
		l.saturated = false
	}
}

func (l *LQR) Active() bool {
	return l.active
}

// Saturated reports whether the last active step hit the force limit.
func (l *LQR) Saturated() bool {
	return l.saturated
}

func (l *LQR) MaxForce() float64 {
	return l.maxForce
}

// Gains returns a copy of K.
func (l *LQR) Gains() []float64 {
	return mat.Row(nil, 0, l.k)
}

func (l *LQR) GetParams() map[string]float64 {
	return map[string]float64{
		"max_force": l.maxForce,
		"active":    boolParam(l.active),
	}
}

func (l *LQR) SetParam(name string, value float64) error {
	switch name {
	case "max_force":
		if !(value > 0) {
			return fmt.Errorf("max_force must be positive, got %g", value)
		}
		l.maxForce = value
	case "active":
		l.SetActive(value != 0)
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

func boolParam(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
