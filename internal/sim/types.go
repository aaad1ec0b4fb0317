package sim

import (
	"github.com/jakecoffman/cp"
	"github.com/rs/zerolog"

	"github.com/san-kum/pendulum/internal/dynamo"
)

// Model is the part of the physical model the loop talks to.
type Model interface {
	DerivedState() dynamo.State
	FrictionForce() float64
	ApplyImpulse(impulse cp.Vector)
	Snapshot() dynamo.Snapshot
}

// Toggler is implemented by controllers that can be switched at run time.
type Toggler interface {
	SetActive(active bool)
	Active() bool
}

type saturator interface {
	Saturated() bool
}

type Status int

const (
	Running Status = iota
	Stopped
)

func (s Status) String() string {
	if s == Stopped {
		return "stopped"
	}
	return "running"
}

type Options struct {
	TickInterval float64
	// Step advances the physics by dt; usually (*cp.Space).Step.
	Step func(dt float64)
	// Sink receives one record per tick when non-nil.
	Sink    dynamo.Sink
	Logger  zerolog.Logger
	Metrics []dynamo.Metric
}

// InputSource yields the directional input for a tick.
type InputSource interface {
	Input(tick int, t float64) dynamo.Direction
}

// InputFunc adapts a function to InputSource.
type InputFunc func(tick int, t float64) dynamo.Direction

func (f InputFunc) Input(tick int, t float64) dynamo.Direction {
	return f(tick, t)
}

// NoInput never presses a key.
var NoInput = InputFunc(func(int, float64) dynamo.Direction { return dynamo.DirectionNone })

type Result struct {
	States    []dynamo.State
	Impulses  []float64
	Frictions []float64
	Inputs    []dynamo.Direction
	Times     []float64
	Metrics   map[string]float64
	Ticks     int
}
