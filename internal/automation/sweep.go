package automation

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/san-kum/pendulum/internal/dynamo"
	"github.com/san-kum/pendulum/internal/params"
	"github.com/san-kum/pendulum/internal/sim"
)

// SweepParams lists the parameter names a sweep can vary.
var SweepParams = []string{
	"angle", "cart_x", "cart_v", "cart_friction", "cart_mass",
	"circle_length", "circle_mass", "circle_radius",
}

// SetParam assigns a parameter by its file key.
func SetParam(p *params.Parameters, name string, v float64) error {
	switch name {
	case "angle":
		p.Angle = v
	case "cart_x":
		p.CartX = v
	case "cart_v":
		p.CartV = v
	case "cart_friction":
		p.CartFriction = &v
	case "cart_mass":
		p.CartMass = v
	case "circle_length":
		p.CircleLength = v
	case "circle_mass":
		p.CircleMass = v
	case "circle_radius":
		p.CircleRadius = v
	default:
		return fmt.Errorf("%w: unknown parameter %q (want one of %s)",
			dynamo.ErrConfiguration, name, strings.Join(SweepParams, ", "))
	}
	return nil
}

// Sweep varies one parameter linearly over [Min, Max] in Steps cases.
type Sweep struct {
	Param    string
	Min, Max float64
	Steps    int
}

// Values returns the swept values; a single step yields Min.
func (s Sweep) Values() []float64 {
	if s.Steps <= 1 {
		return []float64{s.Min}
	}
	out := make([]float64, s.Steps)
	inc := (s.Max - s.Min) / float64(s.Steps-1)
	for i := range out {
		out[i] = s.Min + float64(i)*inc
	}
	return out
}

// Cases copies base once per value. Sinks and metrics keep per-run state, so
// base.Sink must be nil and metrics are cleared for the caller to fill in.
// newInput is called once per case and may be nil.
func (s Sweep) Cases(base sim.SessionConfig, newInput func() sim.InputSource) ([]sim.Case, error) {
	if base.Sink != nil {
		return nil, fmt.Errorf("%w: sweep cases cannot share a sink", dynamo.ErrConfiguration)
	}
	if s.Steps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step, got %d", dynamo.ErrConfiguration, s.Steps)
	}

	values := s.Values()
	cases := make([]sim.Case, 0, len(values))
	for _, v := range values {
		cfg := base
		if base.Params.CartFriction != nil {
			f := *base.Params.CartFriction
			cfg.Params.CartFriction = &f
		}
		if err := SetParam(&cfg.Params, s.Param, v); err != nil {
			return nil, err
		}
		cfg.Metrics = nil
		c := sim.Case{Name: fmt.Sprintf("%s=%g", s.Param, v), Config: cfg}
		if newInput != nil {
			c.Input = newInput()
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// Perturbation builds Trials cases whose initial angle and cart position are
// jittered uniformly by up to ±Angle degrees and ±CartX millimetres.
type Perturbation struct {
	Angle  float64
	CartX  float64
	Trials int
	Seed   int64
}

func (pt Perturbation) Cases(base sim.SessionConfig) ([]sim.Case, error) {
	if base.Sink != nil {
		return nil, fmt.Errorf("%w: perturbation cases cannot share a sink", dynamo.ErrConfiguration)
	}
	if pt.Trials < 1 {
		return nil, fmt.Errorf("%w: need at least one trial, got %d", dynamo.ErrConfiguration, pt.Trials)
	}

	rng := rand.New(rand.NewSource(pt.Seed))
	cases := make([]sim.Case, pt.Trials)
	for i := range cases {
		cfg := base
		cfg.Metrics = nil
		cfg.Params.Angle += (rng.Float64()*2 - 1) * pt.Angle
		cfg.Params.CartX += (rng.Float64()*2 - 1) * pt.CartX
		cases[i] = sim.Case{
			Name:   fmt.Sprintf("trial-%03d", i),
			Config: cfg,
		}
	}
	return cases, nil
}
