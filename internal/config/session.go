package config

import (
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pendulum/internal/control"
	"github.com/san-kum/pendulum/internal/params"
	"github.com/san-kum/pendulum/internal/physics"
	"github.com/san-kum/pendulum/internal/sim"
)

func (c *Config) Bounds() physics.Bounds {
	return physics.Bounds{Width: c.Window.Width, Height: c.Window.Height}
}

func (c *Config) Physics() physics.Options {
	return physics.Options{
		RailOffset:   c.Sim.RailOffset,
		CartHeight:   c.Sim.CartHeight,
		TickInterval: c.Sim.TickInterval,
		UnwrapAngle:  c.Sim.UnwrapAngle,
	}
}

func (c *Config) ControllerOptions() control.Options {
	return control.Options{
		MaxForce:     c.Controller.MaxForce,
		TickInterval: c.Sim.TickInterval,
		Active:       c.Controller.Active,
	}
}

// Session maps the settings onto a session config. Sink and metrics are left
// for the caller.
func (c *Config) Session(p params.Parameters, k *mat.Dense, log zerolog.Logger) sim.SessionConfig {
	return sim.SessionConfig{
		Params:      p,
		Gains:       k,
		Bounds:      c.Bounds(),
		Physics:     c.Physics(),
		Gravity:     c.Sim.Gravity,
		Iterations:  c.Sim.Iterations,
		Controller:  c.ControllerOptions(),
		ManualForce: c.Controller.ManualForce,
		Logger:      log,
	}
}
