package physics

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/san-kum/pendulum/internal/dynamo"
	"github.com/san-kum/pendulum/internal/params"
)

// Bounds is the size of the simulated area in millimetres.
type Bounds struct {
	Width  float64
	Height float64
}

type Options struct {
	// RailOffset is the gap between each rail end and the area edge.
	RailOffset float64
	// CartHeight is the y coordinate of the rail.
	CartHeight float64
	// TickInterval is the fixed step the space is advanced with.
	TickInterval float64
	// UnwrapAngle keeps the derived angle continuous across ±180 degrees.
	// When false the raw (-180, 180] measurement is reported.
	UnwrapAngle bool
}

func DefaultOptions() Options {
	return Options{
		RailOffset:   50,
		CartHeight:   360,
		TickInterval: 1.0 / 480,
		UnwrapAngle:  true,
	}
}

// NewSpace returns a constraint space with vertical gravity in mm/s².
func NewSpace(gravity float64, iterations int) *cp.Space {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: 0, Y: gravity})
	if iterations > 0 {
		space.Iterations = uint(iterations)
	}
	return space
}

// CartPendulum is a cart on a rail with a bob hanging from a rigid rod.
// It is not safe for concurrent use.
type CartPendulum struct {
	space  *cp.Space
	bounds Bounds
	opts   Options
	params params.Parameters

	Cart *Cart
	Bob  *Bob

	rod      *cp.Constraint
	rail     *cp.Constraint
	lock     *cp.Constraint
	friction *cp.Constraint

	railStart cp.Vector
	railEnd   cp.Vector

	lastAngle float64
}

// NewCartPendulum validates p and adds the bodies and constraints to space.
// Nothing is added when validation fails.
func NewCartPendulum(space *cp.Space, bounds Bounds, p params.Parameters, opts Options) (*CartPendulum, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !(opts.TickInterval > 0) {
		return nil, &dynamo.ParameterError{Field: "tick_interval", Value: opts.TickInterval}
	}
	if bounds.Width <= 2*opts.RailOffset {
		return nil, fmt.Errorf("%w: rail offset %g leaves no rail in width %g",
			dynamo.ErrConfiguration, opts.RailOffset, bounds.Width)
	}

	m := &CartPendulum{
		space:     space,
		bounds:    bounds,
		opts:      opts,
		params:    p,
		railStart: cp.Vector{X: opts.RailOffset, Y: opts.CartHeight},
		railEnd:   cp.Vector{X: bounds.Width - opts.RailOffset, Y: opts.CartHeight},
	}

	cartPos := cp.Vector{X: bounds.Width/2 + p.CartX, Y: opts.CartHeight}
	m.Cart = newCart(space, p.CartMass, p.CartSize, cartPos)
	m.Cart.Body.SetVelocity(p.CartV, 0)

	m.Bob = newBob(space, p.CircleMass, p.CircleRadius, cartPos.Add(Offset(p.CircleLength, p.Angle)))

	m.createConstraints()

	m.lastAngle = Angle(m.rodVector())
	return m, nil
}

// stiffBias makes the rod and rail correct their position error within one
// tick; the cp default lets the rod stretch a few mm at 1/480 s ticks.
var stiffBias = math.Pow(0.1, 60)

func (m *CartPendulum) createConstraints() {
	static := m.space.StaticBody

	m.rod = m.space.AddConstraint(cp.NewPinJoint(m.Cart.Body, m.Bob.Body, cp.Vector{}, cp.Vector{}))
	m.rod.SetErrorBias(stiffBias)
	m.rail = m.space.AddConstraint(cp.NewGrooveJoint(static, m.Cart.Body, m.railStart, m.railEnd, cp.Vector{}))
	m.rail.SetErrorBias(stiffBias)
	m.lock = m.space.AddConstraint(cp.NewGearJoint(static, m.Cart.Body, 0, 1))

	if m.params.HasFriction() {
		pivot := cp.NewPivotJoint2(static, m.Cart.Body, cp.Vector{}, cp.Vector{})
		pivot.SetMaxBias(0)
		pivot.SetMaxForce(m.params.Friction() * m.opts.TickInterval)
		m.friction = m.space.AddConstraint(pivot)
	}
}

func (m *CartPendulum) rodVector() cp.Vector {
	return m.Bob.Body.Position().Sub(m.Cart.Body.Position())
}

// DerivedState computes [x, v, angle, angular velocity] from the bodies.
// Each call records the angle, so the angular velocity is the change since
// the previous call.
func (m *CartPendulum) DerivedState() dynamo.State {
	cartX := m.Cart.Body.Position().X - m.bounds.Width/2
	cartV := m.Cart.Body.Velocity().Dot(cp.Vector{X: 1, Y: 0})

	angle := Angle(m.rodVector())
	if m.opts.UnwrapAngle {
		angle = Unwrap(angle, m.lastAngle)
	}
	omega := angle - m.lastAngle
	m.lastAngle = angle

	return dynamo.NewState(cartX, cartV, angle, omega)
}

// FrictionForce is the force the friction joint applied during the last
// step, 0 without friction.
func (m *CartPendulum) FrictionForce() float64 {
	if m.friction == nil {
		return 0
	}
	return m.friction.Class.GetImpulse() / m.opts.TickInterval
}

// ApplyImpulse pushes the cart at its centre.
func (m *CartPendulum) ApplyImpulse(impulse cp.Vector) {
	m.Cart.Body.ApplyImpulseAtLocalPoint(impulse, cp.Vector{})
}

// RailBounds returns the x range the cart centre may occupy, in area
// coordinates.
func (m *CartPendulum) RailBounds() (min, max float64) {
	return m.railStart.X, m.railEnd.X
}

// Snapshot copies the geometry a renderer needs. It does not touch the
// angle history.
func (m *CartPendulum) Snapshot() dynamo.Snapshot {
	return dynamo.Snapshot{
		Cart:      m.Cart.Body.Position(),
		Bob:       m.Bob.Body.Position(),
		CartSize:  m.Cart.Size,
		BobRadius: m.Bob.Radius,
		RailStart: m.railStart,
		RailEnd:   m.railEnd,
	}
}

func (m *CartPendulum) Parameters() params.Parameters {
	return m.params
}

func (m *CartPendulum) Bounds() Bounds {
	return m.bounds
}

func (m *CartPendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"cart_mass":     m.params.CartMass,
		"cart_friction": m.params.Friction(),
		"circle_length": m.params.CircleLength,
		"circle_mass":   m.params.CircleMass,
		"circle_radius": m.params.CircleRadius,
		"rail_offset":   m.opts.RailOffset,
	}
}
