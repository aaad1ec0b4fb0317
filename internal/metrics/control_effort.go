package metrics

import (
	"math"

	"github.com/san-kum/pendulum/internal/dynamo"
)

// ControlEffort is the mean absolute controller impulse per tick.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(s dynamo.Snapshot) {
	c.sum += math.Abs(s.Impulse.X)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// Saturation is the fraction of ticks on which the controller was clamped.
type Saturation struct {
	clamped int
	samples int
}

func NewSaturation() *Saturation { return &Saturation{} }

func (s *Saturation) Name() string { return "saturation" }

func (s *Saturation) Observe(snap dynamo.Snapshot) {
	s.samples++
	if snap.Saturated {
		s.clamped++
	}
}

func (s *Saturation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.clamped) / float64(s.samples)
}

func (s *Saturation) Reset() {
	s.clamped = 0
	s.samples = 0
}
