package plot

import (
	"fmt"

	"github.com/san-kum/pendulum/internal/recorder"
)

// DefaultColumns are the signals the plot command shows.
var DefaultColumns = []string{"angle", "cart_x"}

var captions = map[string]string{
	"angle":              "angle (deg)",
	"angular_velocity":   "angular velocity (deg/tick)",
	"cart_x":             "cart position (mm)",
	"cart_velocity":      "cart velocity (mm/s)",
	"cart_friction":      "friction force",
	"controller_impulse": "controller impulse",
}

// Series is one named signal against time.
type Series struct {
	Name   string
	Times  []float64
	Values []float64
}

// Caption is the axis label for the series.
func (s Series) Caption() string {
	if c, ok := captions[s.Name]; ok {
		return c
	}
	return s.Name
}

// FromRecording picks columns out of a recording. Times count ticks from the
// recorded interval when present.
func FromRecording(rec *recorder.Recording, columns []string) ([]Series, error) {
	times := rec.Time()
	if iv := rec.Column("interval"); len(iv) > 0 && iv[0] > 0 {
		for i := range times {
			times[i] = float64(i) * iv[0]
		}
	}

	out := make([]Series, 0, len(columns))
	for _, name := range columns {
		values := rec.Column(name)
		if values == nil {
			return nil, fmt.Errorf("%s: no column %q", rec.Path, name)
		}
		out = append(out, Series{Name: name, Times: times, Values: values})
	}
	return out, nil
}
