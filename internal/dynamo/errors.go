package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulator operations.
var (
	// ErrConfiguration indicates a missing or malformed parameter, gain or config file.
	ErrConfiguration = errors.New("pendulum: configuration error")

	// ErrInvalidParameter indicates a physical property the solver cannot accept
	// (non-positive mass, size, radius or length).
	ErrInvalidParameter = errors.New("pendulum: invalid physical parameter")

	// ErrRecorder indicates the telemetry file could not be created or written.
	ErrRecorder = errors.New("pendulum: recorder i/o failure")

	// ErrRecorderClosed indicates a write to a recorder that was already closed.
	ErrRecorderClosed = errors.New("pendulum: recorder closed")

	// ErrStopped indicates a tick was requested after the session stopped.
	ErrStopped = errors.New("pendulum: session stopped")

	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("pendulum: invalid state (NaN or Inf detected)")
)

// ParameterError names the offending physical parameter.
type ParameterError struct {
	Field string
	Value float64
	// Rule is the violated constraint; empty means "must be positive".
	Rule string
}

func (e *ParameterError) Error() string {
	rule := e.Rule
	if rule == "" {
		rule = "must be positive"
	}
	return fmt.Sprintf("%s: %s %s, got %g", ErrInvalidParameter.Error(), e.Field, rule, e.Value)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// SimulationError wraps an error with the tick it happened on.
type SimulationError struct {
	Tick    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
