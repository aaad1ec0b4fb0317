package metrics

import (
	"math"

	"github.com/san-kum/pendulum/internal/dynamo"
)

// Stability is the fraction of ticks with the bob within threshold degrees
// of upright.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(snap dynamo.Snapshot) {
	s.samples++
	if math.Abs(snap.State.Angle()-dynamo.Setpoint().Angle()) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// PeakFriction is the largest friction force seen.
type PeakFriction struct {
	peak float64
}

func NewPeakFriction() *PeakFriction { return &PeakFriction{} }

func (p *PeakFriction) Name() string { return "peak_friction" }

func (p *PeakFriction) Observe(s dynamo.Snapshot) {
	p.peak = math.Max(p.peak, math.Abs(s.Friction))
}

func (p *PeakFriction) Value() float64 { return p.peak }

func (p *PeakFriction) Reset() { p.peak = 0 }

// CartTravel is the largest distance of the cart from the rail centre.
type CartTravel struct {
	max float64
}

func NewCartTravel() *CartTravel { return &CartTravel{} }

func (c *CartTravel) Name() string { return "cart_travel" }

func (c *CartTravel) Observe(s dynamo.Snapshot) {
	c.max = math.Max(c.max, math.Abs(s.State.CartX()))
}

func (c *CartTravel) Value() float64 { return c.max }

func (c *CartTravel) Reset() { c.max = 0 }
