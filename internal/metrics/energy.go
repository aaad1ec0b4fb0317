package metrics

import (
	"math"

	"github.com/san-kum/pendulum/internal/dynamo"
)

// Energy is the mean mechanical energy of the cart and bob in joules, with
// the bob hanging straight down as the zero of potential energy.
type Energy struct {
	name     string
	cartMass float64
	bobMass  float64
	length   float64 // mm
	gravity  float64 // mm/s², magnitude
	interval float64

	samples     int
	totalEnergy float64
}

func NewEnergy(cartMass, bobMass, length, gravity, interval float64) *Energy {
	return &Energy{
		name:     "energy",
		cartMass: cartMass,
		bobMass:  bobMass,
		length:   length,
		gravity:  math.Abs(gravity),
		interval: interval,
	}
}

func (e *Energy) Name() string { return e.name }

// Of computes the energy of one state. Angular velocity is in degrees per
// tick.
func (e *Energy) Of(x dynamo.State) float64 {
	theta := x.Angle() * math.Pi / 180
	omega := x.AngularVelocity() * math.Pi / 180 / e.interval

	v := x.CartVelocity()
	bx := v + e.length*omega*math.Cos(theta)
	by := e.length * omega * math.Sin(theta)

	ke := 0.5*e.cartMass*v*v + 0.5*e.bobMass*(bx*bx+by*by)
	pe := e.bobMass * e.gravity * e.length * (1 - math.Cos(theta))

	// kg·mm²/s² -> J
	return (ke + pe) * 1e-6
}

func (e *Energy) Observe(s dynamo.Snapshot) {
	if len(s.State) < dynamo.StateDim || e.interval <= 0 {
		return
	}
	e.totalEnergy += e.Of(s.State)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}
