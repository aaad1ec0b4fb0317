// Package viz is the terminal live view of a running simulation.
//
// The view is a bubbletea program that advances the loop once per frame by
// as many fixed ticks as fit in the frame, then draws the cart, rod and bob
// on a braille [Canvas] next to a panel of state values and an angle chart.
//
// # Key Bindings
//
//	←/a/h  push left      →/d/l  push right
//	c      controller     space  pause
//	r      reset          t      theme
//	?      help           q      quit
//
// Terminals report key presses but not releases, so arrow keys count as held
// for a short window after each event (see automation.KeyHold).
package viz
