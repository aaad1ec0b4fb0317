package viz

import (
	"fmt"

	"github.com/san-kum/pendulum/internal/dynamo"
)

// Label is one name/value line of the state readout.
type Label struct {
	Name  string
	Value string
}

// Labels formats the readout shared by the terminal and window views.
func Labels(s dynamo.Snapshot) []Label {
	ctrl := "off"
	if s.ControllerActive {
		ctrl = "on"
		if s.Saturated {
			ctrl = "on (saturated)"
		}
	}
	return []Label{
		{"time", fmt.Sprintf("%.2f s", s.Time)},
		{"x", fmt.Sprintf("%.1f mm", s.State.CartX())},
		{"v", fmt.Sprintf("%.1f mm/s", s.State.CartVelocity())},
		{"θ", fmt.Sprintf("%.2f°", s.State.Angle())},
		{"ω", fmt.Sprintf("%.3f°/tick", s.State.AngularVelocity())},
		{"friction", fmt.Sprintf("%.3f", s.Friction)},
		{"input", s.Input.String()},
		{"controller", ctrl},
		{"impulse", fmt.Sprintf("%.3f", s.Impulse.X)},
	}
}
