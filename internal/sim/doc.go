// Package sim drives the cart-pendulum one fixed tick at a time.
//
// Each [Loop.Tick] runs, in order:
//
//  1. the manual impulse for the current input, if any
//  2. the controller against the state derived at the end of the previous tick
//  3. one physics step of the fixed tick interval
//  4. the state derivation, followed by a telemetry record to the sink
//
// A loop is Running until [Loop.Close]; a closed loop rejects ticks with
// [dynamo.ErrStopped]. A sink failure stops the loop.
//
// [Runner] drives a loop headless for a fixed duration, [Ensemble] runs
// several independent sessions in parallel.
package sim
