package analysis

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/san-kum/pendulum/internal/recorder"
	"github.com/san-kum/pendulum/internal/sim"
)

// ErrMissingColumn is returned when a recording lacks a column the report
// needs.
var ErrMissingColumn = errors.New("recording is missing a column")

// Options tune a report.
type Options struct {
	// Target is the angle the controller holds, in degrees.
	Target float64
	// Band is the settling band around Target, in degrees.
	Band float64
}

func DefaultOptions() Options {
	return Options{Target: 180, Band: 2}
}

// Report summarises a recorded run.
type Report struct {
	Samples  int
	Interval float64
	Duration float64

	// DominantFrequency of the angle in Hz; Period is its inverse.
	DominantFrequency float64
	Period            float64

	Settled      bool
	SettlingTime float64
	PeakError    float64
	PeakErrorAt  float64
	RMSError     float64

	CartMin, CartMax float64
	PeakImpulse      float64
	PeakFriction     float64
}

// Signals are the per-tick series a report is computed from.
type Signals struct {
	Interval float64
	Angle    []float64
	CartX    []float64
	Impulse  []float64
	Friction []float64
}

// Times returns the tick times of the angle series.
func (s Signals) Times() []float64 {
	out := make([]float64, len(s.Angle))
	for i := range out {
		out[i] = float64(i+1) * s.Interval
	}
	return out
}

// FromRecording extracts signals. The interval column sets the sample rate;
// recordings without one fall back to the mean timestamp spacing.
func FromRecording(rec *recorder.Recording) (Signals, error) {
	angle := rec.Column("angle")
	if angle == nil {
		return Signals{}, fmt.Errorf("%w: angle", ErrMissingColumn)
	}

	s := Signals{
		Angle:    angle,
		CartX:    rec.Column("cart_x"),
		Impulse:  rec.Column("controller_impulse"),
		Friction: rec.Column("cart_friction"),
	}

	if iv := rec.Column("interval"); len(iv) > 0 && iv[0] > 0 {
		s.Interval = iv[0]
	} else if ts := rec.Time(); len(ts) > 1 {
		s.Interval = ts[len(ts)-1] / float64(len(ts)-1)
	}
	if !(s.Interval > 0) {
		return Signals{}, fmt.Errorf("%w: interval", ErrMissingColumn)
	}
	return s, nil
}

// FromResult extracts signals from a run kept with history.
func FromResult(res *sim.Result, interval float64) Signals {
	s := Signals{
		Interval: interval,
		Angle:    make([]float64, len(res.States)),
		CartX:    make([]float64, len(res.States)),
		Impulse:  res.Impulses,
		Friction: res.Frictions,
	}
	for i, st := range res.States {
		s.Angle[i] = st.Angle()
		s.CartX[i] = st.CartX()
	}
	return s
}

// Analyze computes a report for signals.
func Analyze(s Signals, opts Options) *Report {
	times := s.Times()
	r := &Report{
		Samples:  len(s.Angle),
		Interval: s.Interval,
		Duration: float64(len(s.Angle)) * s.Interval,
	}

	r.DominantFrequency = DominantFrequency(s.Angle, 1/s.Interval)
	if r.DominantFrequency > 0 {
		r.Period = 1 / r.DominantFrequency
	}

	r.SettlingTime, r.Settled = SettlingTime(times, s.Angle, opts.Target, opts.Band)
	r.PeakError, r.PeakErrorAt = PeakDeviation(times, s.Angle, opts.Target)
	r.RMSError = RMS(s.Angle, opts.Target)

	r.CartMin, r.CartMax = Extent(s.CartX)
	r.PeakImpulse = peakAbs(s.Impulse)
	r.PeakFriction = peakAbs(s.Friction)
	return r
}

func peakAbs(values []float64) float64 {
	var peak float64
	for _, v := range values {
		if !math.IsNaN(v) {
			peak = math.Max(peak, math.Abs(v))
		}
	}
	return peak
}

// Write prints the report as aligned text.
func (r *Report) Write(w io.Writer) error {
	settle := "not settled"
	if r.Settled {
		settle = fmt.Sprintf("%.3f s", r.SettlingTime)
	}
	period := "-"
	if r.Period > 0 {
		period = fmt.Sprintf("%.3f s (%.3f Hz)", r.Period, r.DominantFrequency)
	}

	_, err := fmt.Fprintf(w,
		"samples        %d\n"+
			"duration       %.3f s\n"+
			"period         %s\n"+
			"settling       %s\n"+
			"peak error     %.3f° at %.3f s\n"+
			"rms error      %.3f°\n"+
			"cart range     [%.1f, %.1f] mm\n"+
			"peak impulse   %.3f\n"+
			"peak friction  %.3f\n",
		r.Samples, r.Duration, period, settle,
		r.PeakError, r.PeakErrorAt, r.RMSError,
		r.CartMin, r.CartMax, r.PeakImpulse, r.PeakFriction)
	return err
}
