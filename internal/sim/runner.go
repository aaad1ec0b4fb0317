package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/pendulum/internal/dynamo"
)

// Runner drives a loop without a window for a fixed simulated duration.
type Runner struct {
	// KeepHistory stores every tick in the result.
	KeepHistory bool
}

// Run ticks loop until duration seconds of simulated time have passed, the
// loop stops or ctx is cancelled. The loop is closed on return.
func (r *Runner) Run(ctx context.Context, loop *Loop, source InputSource, duration float64) (*Result, error) {
	if err := validate(loop, duration); err != nil {
		if loop != nil {
			loop.Close()
		}
		return nil, err
	}
	if source == nil {
		source = NoInput
	}

	dt := loop.opts.TickInterval
	steps := int(duration/dt + 0.5)

	result := &Result{Metrics: make(map[string]float64)}
	if r.KeepHistory {
		result.States = make([]dynamo.State, 0, steps)
		result.Impulses = make([]float64, 0, steps)
		result.Frictions = make([]float64, 0, steps)
		result.Inputs = make([]dynamo.Direction, 0, steps)
		result.Times = make([]float64, 0, steps)
	}

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		in := source.Input(loop.Ticks(), loop.Time())
		if err := loop.Tick(dt, in); err != nil {
			runErr = err
			break
		}

		result.Ticks++
		if r.KeepHistory {
			result.States = append(result.States, loop.State())
			result.Impulses = append(result.Impulses, loop.Impulse().X)
			result.Frictions = append(result.Frictions, loop.Friction())
			result.Inputs = append(result.Inputs, in)
			result.Times = append(result.Times, loop.Time())
		}
	}

	for name, v := range loop.Metrics() {
		result.Metrics[name] = v
	}

	if err := loop.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return result, runErr
}

func validate(loop *Loop, duration float64) error {
	if loop == nil {
		return fmt.Errorf("%w: nil loop", dynamo.ErrConfiguration)
	}
	if !(loop.opts.TickInterval > 0) {
		return fmt.Errorf("%w: tick interval must be positive, got %g", dynamo.ErrConfiguration, loop.opts.TickInterval)
	}
	if !(duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", dynamo.ErrConfiguration, duration)
	}
	return nil
}
