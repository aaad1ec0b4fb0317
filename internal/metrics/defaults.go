package metrics

import (
	"github.com/san-kum/pendulum/internal/dynamo"
	"github.com/san-kum/pendulum/internal/params"
)

// Default returns a fresh set of the standard session metrics.
func Default(p params.Parameters, gravity, interval float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewControlEffort(),
		NewSaturation(),
		NewStability(5),
		NewPeakFriction(),
		NewCartTravel(),
		NewEnergy(p.CartMass, p.CircleMass, p.CircleLength, gravity, interval),
	}
}
