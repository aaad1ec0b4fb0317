package sim

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/san-kum/pendulum/internal/sim"

type instruments struct {
	ticks       metric.Int64Counter
	saturations metric.Int64Counter
}

// newInstruments uses the global meter provider, a no-op unless one is set.
func newInstruments() (*instruments, error) {
	m := otel.Meter(instrumentationName)

	ticks, err := m.Int64Counter(
		"pendulum.ticks",
		metric.WithDescription("Simulation ticks executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick counter: %w", err)
	}

	saturations, err := m.Int64Counter(
		"pendulum.controller.saturations",
		metric.WithDescription("Controller steps clamped to the maximum force"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating saturation counter: %w", err)
	}

	return &instruments{ticks: ticks, saturations: saturations}, nil
}

func (in *instruments) tick(saturated bool) {
	if in == nil {
		return
	}
	ctx := context.Background()
	in.ticks.Add(ctx, 1)
	if saturated {
		in.saturations.Add(ctx, 1)
	}
}
