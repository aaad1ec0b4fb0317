package analysis

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/pendulum/internal/dynamo"
	"github.com/san-kum/pendulum/internal/recorder"
	"github.com/san-kum/pendulum/internal/sim"
)

const rate = 480.0

func sine(freq, amp, offset float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = offset + amp*math.Sin(2*math.Pi*freq*float64(i)/rate)
	}
	return out
}

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		name string
		freq float64
		n    int
	}{
		{"power of two", 1.875, 1024},
		{"arbitrary length", 2, 1920},
		{"slow swing", 0.5, 4800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DominantFrequency(sine(tt.freq, 10, 180, tt.n), rate)
			if bin := rate / float64(tt.n); math.Abs(got-tt.freq) > bin {
				t.Errorf("got %g Hz, want %g ± %g", got, tt.freq, bin)
			}
		})
	}
}

func TestDominantFrequencyFlat(t *testing.T) {
	flat := make([]float64, 256)
	for i := range flat {
		flat[i] = 180
	}
	if got := DominantFrequency(flat, rate); got != 0 {
		t.Errorf("flat signal = %g Hz, want 0", got)
	}
	if got := DominantFrequency([]float64{1}, rate); got != 0 {
		t.Errorf("single sample = %g Hz, want 0", got)
	}
}

func TestSpectrumRemovesMean(t *testing.T) {
	_, mags := Spectrum(sine(4, 1, 1000, 960), rate)
	if mags[0] > 1e-9 {
		t.Errorf("DC magnitude = %g, want ~0", mags[0])
	}
}

func TestSettlingTime(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4, 5}
	tests := []struct {
		name   string
		values []float64
		want   float64
		ok     bool
	}{
		{"settles", []float64{170, 176, 179, 181, 180, 180}, 2, true},
		{"re-enters", []float64{179, 180, 186, 179, 180, 180}, 3, true},
		{"always in band", []float64{180, 180, 180, 180, 180, 180}, 0, true},
		{"never settles", []float64{170, 175, 180, 180, 180, 190}, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SettlingTime(times, tt.values, 180, 2)
			if got != tt.want || ok != tt.ok {
				t.Errorf("got (%g, %v), want (%g, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}

	if _, ok := SettlingTime(nil, nil, 180, 2); ok {
		t.Error("empty input should not settle")
	}
}

func TestPeakDeviationAndExtent(t *testing.T) {
	peak, at := PeakDeviation([]float64{0, 1, 2}, []float64{178, 171, 183}, 180)
	if peak != 9 || at != 1 {
		t.Errorf("peak = (%g, %g), want (9, 1)", peak, at)
	}

	lo, hi := Extent([]float64{3, math.NaN(), -2, 7})
	if lo != -2 || hi != 7 {
		t.Errorf("extent = [%g, %g], want [-2, 7]", lo, hi)
	}
}

func TestPhasePortrait(t *testing.T) {
	n := 200
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		a := 2 * math.Pi * float64(i) / float64(n)
		x[i], y[i] = math.Cos(a), math.Sin(a)
	}

	out := PhasePortrait(x, y, 40, 20)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 20 {
		t.Fatalf("got %d lines, want 20", len(lines))
	}
	for i, l := range lines {
		if w := len([]rune(l)); w != 40 {
			t.Errorf("line %d is %d wide", i, w)
		}
	}
	for _, r := range []string{"•", "│", "─"} {
		if !strings.Contains(out, r) {
			t.Errorf("portrait lacks %q", r)
		}
	}

	if PhasePortrait(nil, nil, 10, 10) != "" {
		t.Error("empty input should give empty output")
	}
}

func TestAnalyzeRecording(t *testing.T) {
	dir := t.TempDir()
	r, err := recorder.New(dir, "cart", []string{"angle", "cart_x", "controller_impulse"}, 1/rate)
	if err != nil {
		t.Fatal(err)
	}
	// A decaying 2 Hz swing about upright.
	for i := 0; i < 1920; i++ {
		tt := float64(i) / rate
		angle := 180 + 10*math.Exp(-tt)*math.Cos(2*math.Pi*2*tt)
		rec := dynamo.Record{"angle": angle, "cart_x": 30 * math.Sin(tt), "controller_impulse": -2.5}
		if err := r.Insert(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	rec, err := recorder.Load(r.Path())
	if err != nil {
		t.Fatal(err)
	}
	sig, err := FromRecording(rec)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(sig.Interval-1/rate) > 1e-12 {
		t.Errorf("interval = %g", sig.Interval)
	}

	rep := Analyze(sig, DefaultOptions())
	if rep.Samples != 1920 || math.Abs(rep.Duration-4) > 1e-9 {
		t.Errorf("samples %d duration %g", rep.Samples, rep.Duration)
	}
	if math.Abs(rep.DominantFrequency-2) > 0.25 {
		t.Errorf("frequency = %g, want 2", rep.DominantFrequency)
	}
	if !rep.Settled || rep.SettlingTime < 1 || rep.SettlingTime > 2 {
		t.Errorf("settling = (%g, %v)", rep.SettlingTime, rep.Settled)
	}
	if math.Abs(rep.PeakError-10) > 1e-6 {
		t.Errorf("peak error = %g, want 10", rep.PeakError)
	}
	if rep.PeakImpulse != 2.5 || rep.PeakFriction != 0 {
		t.Errorf("impulse %g friction %g", rep.PeakImpulse, rep.PeakFriction)
	}

	var buf bytes.Buffer
	if err := rep.Write(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "0.500 s (2.000 Hz)") {
		t.Errorf("report:\n%s", buf.String())
	}
}

func TestFromRecordingMissingAngle(t *testing.T) {
	rec := &recorder.Recording{Columns: map[string][]float64{"cart_x": {1}}}
	if _, err := FromRecording(rec); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("err = %v, want ErrMissingColumn", err)
	}
}

func TestFromResult(t *testing.T) {
	res := &sim.Result{
		States:   []dynamo.State{{1, 0, 179, 0}, {2, 0, 181, 0}},
		Impulses: []float64{0.5, -0.5},
	}
	s := FromResult(res, 0.01)
	if s.Angle[1] != 181 || s.CartX[0] != 1 {
		t.Errorf("signals = %+v", s)
	}
	if times := s.Times(); times[1] != 0.02 {
		t.Errorf("times = %v", times)
	}
}
