package control

import (
	"github.com/jakecoffman/cp"

	"github.com/san-kum/pendulum/internal/dynamo"
)

// Manual turns keyboard input into a fixed impulse on the cart.
type Manual struct {
	Impulse float64
}

// NewManual builds a Manual pushing with force for one tick.
func NewManual(force, tickInterval float64) *Manual {
	return &Manual{Impulse: force * tickInterval}
}

func (m *Manual) Push(d dynamo.Direction) cp.Vector {
	return cp.Vector{X: d.Sign() * m.Impulse, Y: 0}
}
