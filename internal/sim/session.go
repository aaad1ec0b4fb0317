package sim

import (
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pendulum/internal/control"
	"github.com/san-kum/pendulum/internal/dynamo"
	"github.com/san-kum/pendulum/internal/params"
	"github.com/san-kum/pendulum/internal/physics"
)

// SessionConfig holds everything needed to assemble one session on a fresh
// physics space.
type SessionConfig struct {
	Params     params.Parameters
	Gains      *mat.Dense
	Bounds     physics.Bounds
	Physics    physics.Options
	Gravity    float64
	Iterations int
	Controller control.Options
	// ManualForce is the keyboard force; the impulse is force × tick interval.
	ManualForce float64
	Sink        dynamo.Sink
	Metrics     []dynamo.Metric
	Logger      zerolog.Logger
}

func DefaultSessionConfig(p params.Parameters, k *mat.Dense) SessionConfig {
	return SessionConfig{
		Params:      p,
		Gains:       k,
		Bounds:      physics.Bounds{Width: 1280, Height: 720},
		Physics:     physics.DefaultOptions(),
		Gravity:     -9807,
		Iterations:  10,
		Controller:  control.DefaultOptions(),
		ManualForce: 3000,
		Logger:      zerolog.Nop(),
	}
}

// Session is a loop together with the model and controller it drives.
type Session struct {
	*Loop
	Model      *physics.CartPendulum
	Controller *control.LQR
	Manual     *control.Manual
}

// NewSession builds the space, model, controller and loop. The controller
// tick interval always follows the physics tick interval.
func NewSession(cfg SessionConfig) (*Session, error) {
	space := physics.NewSpace(cfg.Gravity, cfg.Iterations)
	model, err := physics.NewCartPendulum(space, cfg.Bounds, cfg.Params, cfg.Physics)
	if err != nil {
		return nil, err
	}

	copts := cfg.Controller
	copts.TickInterval = cfg.Physics.TickInterval
	lqr, err := control.NewLQR(cfg.Gains, copts)
	if err != nil {
		return nil, err
	}

	manual := control.NewManual(cfg.ManualForce, cfg.Physics.TickInterval)

	loop := New(model, lqr, manual, Options{
		TickInterval: cfg.Physics.TickInterval,
		Step:         space.Step,
		Sink:         cfg.Sink,
		Logger:       cfg.Logger,
		Metrics:      cfg.Metrics,
	})

	ev := cfg.Logger.Debug().Floats64("gains", lqr.Gains())
	for name, v := range model.GetParams() {
		ev = ev.Float64(name, v)
	}
	for name, v := range lqr.GetParams() {
		ev = ev.Float64("controller_"+name, v)
	}
	ev.Msg("session built")

	return &Session{Loop: loop, Model: model, Controller: lqr, Manual: manual}, nil
}
