// Package dynamo holds the primitives shared by the cart-pendulum simulator.
//
// The package defines the vocabulary the other packages talk in:
//
//   - [State]: the derived state vector [x, v, angle, angular velocity]
//   - [Direction]: tri-state directional input (none / negative / positive)
//   - [Controller]: feedback law turning a state into a cart impulse
//   - [Sink]: telemetry destination written once per tick
//   - [Metric]: per-tick observer summarised at the end of a run
//   - [Snapshot]: read-only view of a session for renderers
//
// # Units
//
// Positions are millimetres, masses kilograms, time seconds. Angles are
// degrees measured counter-clockwise from the downward vertical, so the
// upright equilibrium sits at 180. Angular velocity is the change of angle
// between two consecutive ticks (degrees per tick).
//
// # Thread Safety
//
// Nothing in a session is safe for concurrent use. Independent sessions may
// run in parallel as long as they do not share a physics space.
package dynamo
