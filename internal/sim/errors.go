package sim

import "github.com/san-kum/pendulum/internal/dynamo"

// SimulationError carries the tick an error happened on.
type SimulationError = dynamo.SimulationError
