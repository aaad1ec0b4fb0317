package analysis

import "math"

// SettlingTime returns the first time after which every sample of values
// stays within band of target. ok is false when the last sample is outside
// the band.
func SettlingTime(times, values []float64, target, band float64) (t float64, ok bool) {
	n := min(len(times), len(values))
	if n == 0 {
		return 0, false
	}

	i := n - 1
	if math.Abs(values[i]-target) > band {
		return times[i], false
	}
	for i > 0 && math.Abs(values[i-1]-target) <= band {
		i--
	}
	return times[i], true
}

// PeakDeviation returns the largest |v - target| and the time it occurs.
func PeakDeviation(times, values []float64, target float64) (peak, at float64) {
	n := min(len(times), len(values))
	for i := 0; i < n; i++ {
		if d := math.Abs(values[i] - target); d > peak {
			peak, at = d, times[i]
		}
	}
	return peak, at
}

// Extent returns the minimum and maximum of values, ignoring NaN.
func Extent(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
