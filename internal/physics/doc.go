// Package physics assembles the cart-pendulum on a Chipmunk2D constraint
// space and derives its state vector.
//
// The model is made of two bodies and up to four constraints:
//
//   - rod: pin joint holding the bob at a fixed distance from the cart
//   - rail: groove joint keeping the cart on a horizontal segment
//   - rotation lock: gear joint against the static body so the cart never tilts
//   - friction: optional pivot joint with zero bias and a capped force
//
// The space itself is integrated by the caller (see [NewSpace]); the model
// only reads positions and velocities back and applies impulses to the cart.
//
//	space := physics.NewSpace(-9807, 10)
//	cp, err := physics.NewCartPendulum(space, physics.Bounds{Width: 1280, Height: 720}, p, opts)
//	space.Step(opts.TickInterval)
//	x := cp.DerivedState()
package physics
