package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum returns the one-sided magnitude spectrum of data sampled at rate
// Hz. The mean is removed first so the DC bin reflects only drift.
func Spectrum(data []float64, rate float64) (freqs, mags []float64) {
	n := len(data)
	if n < 2 || !(rate > 0) {
		return nil, nil
	}

	var mean float64
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centred := make([]float64, n)
	for i, v := range data {
		centred[i] = v - mean
	}

	coeffs := fft.FFTReal(centred)
	half := n/2 + 1
	freqs = make([]float64, half)
	mags = make([]float64, half)
	for k := 0; k < half; k++ {
		freqs[k] = float64(k) * rate / float64(n)
		mags[k] = cmplx.Abs(coeffs[k]) / float64(n)
	}
	return freqs, mags
}

// DominantFrequency is the strongest non-DC component of data, 0 for a flat
// or too short signal.
func DominantFrequency(data []float64, rate float64) float64 {
	freqs, mags := Spectrum(data, rate)
	best, peak := 0, 0.0
	for k := 1; k < len(mags); k++ {
		if mags[k] > peak {
			best, peak = k, mags[k]
		}
	}
	if peak < 1e-12 {
		return 0
	}
	return freqs[best]
}

// RMS is the root mean square of data about target.
func RMS(data []float64, target float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range data {
		d := v - target
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(data)))
}
