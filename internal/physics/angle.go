package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

var down = cp.Vector{X: 0, Y: -1}

// Angle returns the counter-clockwise angle in degrees from straight down to
// v, in (-180, 180]. A bob hanging below the cart is at 0, upright at 180.
func Angle(v cp.Vector) float64 {
	// signed angle from v to down, negated
	deg := -math.Atan2(v.Cross(down), v.Dot(down)) * 180 / math.Pi
	if deg <= -180 {
		deg += 360
	}
	return deg
}

// Unwrap returns the representative of angle closest to ref, so consecutive
// measurements stay continuous across the ±180 seam.
func Unwrap(angle, ref float64) float64 {
	d := math.Mod(angle-ref, 360)
	switch {
	case d > 180:
		d -= 360
	case d <= -180:
		d += 360
	}
	return ref + d
}

// Offset returns the bob position relative to the cart for a rod of length l
// rotated by angle degrees from straight down.
func Offset(l, angle float64) cp.Vector {
	return cp.Vector{X: 0, Y: -l}.Rotate(cp.ForAngle(angle * math.Pi / 180))
}
