// Package control provides the cart controllers.
//
// Both controllers return an impulse (force × tick interval) to apply to the
// cart, horizontal only:
//
//   - [LQR]: state feedback u = -K (x - setpoint), clamped to a maximum force
//   - [Manual]: fixed impulse in the direction of the keyboard input
//
// # Usage
//
//	k, _ := params.LoadGains("configs/lqr_gains.csv")
//	lqr, _ := control.NewLQR(k, control.DefaultOptions())
//	impulse := lqr.Step(model.DerivedState())
//
// The LQR can be switched off at run time with [LQR.SetActive]; an inactive
// controller returns the zero impulse without evaluating K.
package control
