package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/san-kum/pendulum/internal/dynamo"
	"github.com/san-kum/pendulum/internal/params"
)

var bounds = Bounds{Width: 1280, Height: 720}

func newModel(t *testing.T, p params.Parameters, opts Options) (*CartPendulum, *cp.Space) {
	t.Helper()
	space := NewSpace(-9807, 10)
	m, err := NewCartPendulum(space, bounds, p, opts)
	if err != nil {
		t.Fatalf("NewCartPendulum: %v", err)
	}
	return m, space
}

func countBodies(space *cp.Space) int {
	n := 0
	space.EachBody(func(*cp.Body) { n++ })
	return n
}

func preset(angle float64) params.Parameters {
	p, _ := params.GetPreset(params.DefaultPreset)
	p.Angle = angle
	return p
}

func TestCartPendulum_BobBelowIsZero(t *testing.T) {
	m, _ := newModel(t, preset(0), DefaultOptions())

	x := m.DerivedState()
	if math.Abs(x.Angle()) > 1e-9 {
		t.Errorf("angle = %v, want 0", x.Angle())
	}
	if x.CartX() != 0 || x.CartVelocity() != 0 {
		t.Errorf("cart = (%v, %v), want origin at rest", x.CartX(), x.CartVelocity())
	}
}

func TestCartPendulum_InitialAngle(t *testing.T) {
	for _, deg := range []float64{0, 30, 90, 170, -45} {
		m, _ := newModel(t, preset(deg), DefaultOptions())
		x := m.DerivedState()
		if math.Abs(x.Angle()-deg) > 1e-9 {
			t.Errorf("angle = %v, want %v", x.Angle(), deg)
		}
		if x.AngularVelocity() != 0 {
			t.Errorf("first angular velocity = %v, want 0", x.AngularVelocity())
		}
	}
}

func TestCartPendulum_InitialPlacement(t *testing.T) {
	p := preset(90)
	p.CartX = -200
	p.CartV = 25
	m, _ := newModel(t, p, DefaultOptions())

	snap := m.Snapshot()
	if snap.Cart != (cp.Vector{X: 440, Y: 360}) {
		t.Errorf("cart at %v, want (440, 360)", snap.Cart)
	}
	wantBob := cp.Vector{X: 740, Y: 360}
	if snap.Bob.Sub(wantBob).Length() > 1e-9 {
		t.Errorf("bob at %v, want %v", snap.Bob, wantBob)
	}
	if x := m.DerivedState(); x.CartX() != -200 || x.CartVelocity() != 25 {
		t.Errorf("state = %v", x)
	}
}

func TestCartPendulum_SecondCallHasZeroAngularVelocity(t *testing.T) {
	m, space := newModel(t, preset(90), DefaultOptions())

	for i := 0; i < 20; i++ {
		space.Step(DefaultOptions().TickInterval)
	}

	first := m.DerivedState()
	if first.AngularVelocity() == 0 {
		t.Fatal("expected a swinging pendulum")
	}
	second := m.DerivedState()
	if second.AngularVelocity() != 0 {
		t.Errorf("second angular velocity = %v, want 0", second.AngularVelocity())
	}
	if second.Angle() != first.Angle() {
		t.Errorf("angle changed without a step: %v -> %v", first.Angle(), second.Angle())
	}
}

func TestCartPendulum_AngleWrap(t *testing.T) {
	tests := []struct {
		name      string
		unwrap    bool
		wantAngle float64
		wantOmega float64
	}{
		{"unwrapped", true, 181, 2},
		{"raw", false, -179, -358},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.UnwrapAngle = tt.unwrap
			m, _ := newModel(t, preset(179), opts)

			m.Bob.Body.SetPosition(m.Cart.Body.Position().Add(Offset(300, 181)))
			x := m.DerivedState()

			if math.Abs(x.Angle()-tt.wantAngle) > 1e-6 {
				t.Errorf("angle = %v, want %v", x.Angle(), tt.wantAngle)
			}
			if math.Abs(x.AngularVelocity()-tt.wantOmega) > 1e-6 {
				t.Errorf("angular velocity = %v, want %v", x.AngularVelocity(), tt.wantOmega)
			}
		})
	}
}

func TestCartPendulum_ApplyImpulse(t *testing.T) {
	m, _ := newModel(t, preset(0), DefaultOptions())

	m.ApplyImpulse(cp.Vector{X: 10, Y: 0})
	if v := m.DerivedState().CartVelocity(); math.Abs(v-10) > 1e-9 {
		t.Errorf("cart velocity = %v, want 10 (impulse / mass)", v)
	}
}

func TestCartPendulum_FrictionForce(t *testing.T) {
	m, space := newModel(t, preset(0), DefaultOptions())
	space.Step(DefaultOptions().TickInterval)
	if f := m.FrictionForce(); f != 0 {
		t.Errorf("friction without joint = %v, want 0", f)
	}

	p := preset(0)
	coeff := 100.0
	p.CartFriction = &coeff
	opts := DefaultOptions()
	m, space = newModel(t, p, opts)

	m.ApplyImpulse(cp.Vector{X: 50, Y: 0})
	space.Step(opts.TickInterval)
	if f := m.FrictionForce(); f <= 0 || f > coeff {
		t.Errorf("friction force = %v, want in (0, %v]", f, coeff)
	}
}

func TestCartPendulum_RejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(p *params.Parameters, o *Options)
		field string
	}{
		{"cart mass", func(p *params.Parameters, o *Options) { p.CartMass = 0 }, "cart_mass"},
		{"cart size", func(p *params.Parameters, o *Options) { p.CartSize[1] = -1 }, "cart_size[1]"},
		{"bob radius", func(p *params.Parameters, o *Options) { p.CircleRadius = 0 }, "circle_radius"},
		{"rod length", func(p *params.Parameters, o *Options) { p.CircleLength = 0 }, "circle_length"},
		{"tick", func(p *params.Parameters, o *Options) { o.TickInterval = 0 }, "tick_interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := preset(0)
			opts := DefaultOptions()
			tt.edit(&p, &opts)

			space := NewSpace(-9807, 10)
			before := countBodies(space)
			_, err := NewCartPendulum(space, bounds, p, opts)

			var pe *dynamo.ParameterError
			if !errors.As(err, &pe) || pe.Field != tt.field {
				t.Fatalf("err = %v, want ParameterError on %s", err, tt.field)
			}

			if added := countBodies(space) - before; added != 0 {
				t.Errorf("%d bodies added before rejection", added)
			}
		})
	}
}

func TestCartPendulum_RejectsNarrowArea(t *testing.T) {
	opts := DefaultOptions()
	opts.RailOffset = 700
	_, err := NewCartPendulum(NewSpace(-9807, 10), bounds, preset(0), opts)
	if !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("err = %v, want ErrConfiguration", err)
	}
}

func TestCartPendulum_RailBounds(t *testing.T) {
	m, _ := newModel(t, preset(0), DefaultOptions())
	lo, hi := m.RailBounds()
	if lo != 50 || hi != 1230 {
		t.Errorf("rail = [%v, %v], want [50, 1230]", lo, hi)
	}
	snap := m.Snapshot()
	if snap.RailStart.X != lo || snap.RailEnd.X != hi || snap.RailStart.Y != 360 {
		t.Errorf("snapshot rail %v-%v", snap.RailStart, snap.RailEnd)
	}
	if got := m.GetParams()["rail_offset"]; got != 50 {
		t.Errorf("rail_offset param = %v, want 50", got)
	}
}

func TestCartPendulum_RodLengthHeld(t *testing.T) {
	m, space := newModel(t, preset(90), DefaultOptions())

	// a velocity-level pin still stretches a fraction of a millimetre per swing
	worst := 0.0
	for i := 0; i < 480; i++ {
		space.Step(DefaultOptions().TickInterval)
		snap := m.Snapshot()
		worst = math.Max(worst, math.Abs(snap.Bob.Sub(snap.Cart).Length()-300))
	}
	if worst > 1 {
		t.Errorf("rod length drifted by %v mm", worst)
	}
	if snap := m.Snapshot(); math.Abs(snap.Cart.Y-360) > 1 {
		t.Errorf("cart left the rail height: y = %v", snap.Cart.Y)
	}
}
