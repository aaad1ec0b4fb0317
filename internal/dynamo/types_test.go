package dynamo

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"setpoint", Setpoint(), true},
		{"with NaN", State{0, math.NaN(), 0, 0}, false},
		{"with +Inf", State{0, 0, math.Inf(1), 0}, false},
		{"with -Inf", State{0, 0, 0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Sub(t *testing.T) {
	x := NewState(10, -2, 170, 0.5)
	e := x.Sub(Setpoint())

	want := State{10, -2, -10, 0.5}
	for i := range want {
		if math.Abs(e[i]-want[i]) > 1e-12 {
			t.Errorf("e[%d] = %v, want %v", i, e[i], want[i])
		}
	}
	if e.Angle() != -10 {
		t.Errorf("Angle() = %v, want -10", e.Angle())
	}
}

func TestState_Accessors(t *testing.T) {
	x := NewState(1, 2, 3, 4)
	if x.CartX() != 1 || x.CartVelocity() != 2 || x.Angle() != 3 || x.AngularVelocity() != 4 {
		t.Errorf("unexpected accessors for %v", x)
	}

	var short State
	if short.Angle() != 0 {
		t.Errorf("empty state Angle() = %v, want 0", short.Angle())
	}
}

func TestState_CloneIsIndependent(t *testing.T) {
	x := NewState(1, 2, 3, 4)
	c := x.Clone()
	c[Angle] = 99
	if x[Angle] != 3 {
		t.Error("Clone shares backing array")
	}
}

func TestSetpoint_Fresh(t *testing.T) {
	s := Setpoint()
	s[Angle] = 0
	if Setpoint()[Angle] != 180 {
		t.Error("Setpoint() returned shared storage")
	}
}

func TestDirectionFromKeys(t *testing.T) {
	tests := []struct {
		left, right bool
		want        Direction
	}{
		{false, false, DirectionNone},
		{true, false, DirectionNegative},
		{false, true, DirectionPositive},
		{true, true, DirectionNegative},
	}

	for _, tt := range tests {
		if got := DirectionFromKeys(tt.left, tt.right); got != tt.want {
			t.Errorf("DirectionFromKeys(%v, %v) = %v, want %v", tt.left, tt.right, got, tt.want)
		}
	}
}

func TestDirection_Sign(t *testing.T) {
	if DirectionNone.Sign() != 0 || DirectionNegative.Sign() != -1 || DirectionPositive.Sign() != 1 {
		t.Error("unexpected direction signs")
	}
	if !DirectionNegative.Left() || DirectionNegative.Right() {
		t.Error("negative direction should only report left")
	}
}

func TestParameterError(t *testing.T) {
	var err error = &ParameterError{Field: "cart_mass", Value: 0}
	if !errors.Is(err, ErrInvalidParameter) {
		t.Error("ParameterError should unwrap to ErrInvalidParameter")
	}

	var pe *ParameterError
	if !errors.As(err, &pe) || pe.Field != "cart_mass" {
		t.Errorf("errors.As failed: %v", err)
	}

	tests := []struct {
		err  *ParameterError
		want string
	}{
		{&ParameterError{Field: "cart_mass", Value: 0}, "cart_mass must be positive, got 0"},
		{&ParameterError{Field: "cart_friction", Value: -1, Rule: "must not be negative"}, "cart_friction must not be negative, got -1"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); !strings.HasSuffix(got, tt.want) {
			t.Errorf("Error() = %q, want suffix %q", got, tt.want)
		}
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Tick: 3, Time: 0.5, Wrapped: ErrRecorder}
	if !errors.Is(err, ErrRecorder) {
		t.Error("SimulationError should unwrap")
	}
}
