package dynamo

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Indices into a State vector.
const (
	CartX = iota
	CartVelocity
	Angle
	AngularVelocity

	StateDim
)

// State is the derived state vector [x, v, angle, angular velocity].
type State []float64

func NewState(x, v, angle, omega float64) State {
	return State{x, v, angle, omega}
}

// Setpoint returns the upright equilibrium the controller drives towards.
func Setpoint() State {
	return State{0, 0, 180, 0}
}

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) at(i int) float64 {
	if i < len(s) {
		return s[i]
	}
	return 0
}

func (s State) CartX() float64           { return s.at(CartX) }
func (s State) CartVelocity() float64    { return s.at(CartVelocity) }
func (s State) Angle() float64           { return s.at(Angle) }
func (s State) AngularVelocity() float64 { return s.at(AngularVelocity) }

// Direction is the tri-state directional input of a left/right key pair.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionNegative
	DirectionPositive
)

// DirectionFromKeys folds two pressed flags into a Direction.
// Left is checked first, so it wins when both are pressed.
func DirectionFromKeys(left, right bool) Direction {
	if left {
		return DirectionNegative
	}
	if right {
		return DirectionPositive
	}
	return DirectionNone
}

// Sign is -1, 0 or +1.
func (d Direction) Sign() float64 {
	switch d {
	case DirectionNegative:
		return -1
	case DirectionPositive:
		return 1
	default:
		return 0
	}
}

func (d Direction) Left() bool  { return d == DirectionNegative }
func (d Direction) Right() bool { return d == DirectionPositive }

func (d Direction) String() string {
	switch d {
	case DirectionNegative:
		return "left"
	case DirectionPositive:
		return "right"
	default:
		return "none"
	}
}

// Controller computes the impulse to apply to the cart for the current state.
type Controller interface {
	Step(x State) cp.Vector
}

// Record is one telemetry row keyed by field name. Values are float64 or bool.
type Record map[string]any

// Sink receives one Record per tick. Close is called exactly once when the
// session stops.
type Sink interface {
	Insert(r Record) error
	Close() error
}

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	Cart      cp.Vector
	Bob       cp.Vector
	CartSize  [2]float64
	BobRadius float64
	RailStart cp.Vector
	RailEnd   cp.Vector

	State            State
	Impulse          cp.Vector
	Friction         float64
	Input            Direction
	ControllerActive bool
	Saturated        bool
	Ticks            int
	Time             float64
}

type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}
