package automation

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendulum/internal/dynamo"
)

// Key names accepted in a scenario step.
const (
	KeyNone   = "none"
	KeyLeft   = "left"
	KeyRight  = "right"
	KeyRandom = "random"
)

var errNoSteps = errors.New("scenario has no steps")

// Scenario is a scripted input sequence for a headless run.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Params names the parameter set; empty means the configured default.
	Params string `yaml:"params"`
	// Duration in seconds; 0 means the end of the last step.
	Duration float64 `yaml:"duration"`
	// Controller overrides the configured controller state when set.
	Controller *bool  `yaml:"controller"`
	Seed       int64  `yaml:"seed"`
	Steps      []Step `yaml:"steps"`
}

// Step holds one key over [Start, End) seconds of simulated time.
type Step struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
	Key   string  `yaml:"key"`
}

func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrConfiguration, err)
	}
	defer f.Close()

	s, err := ParseScenario(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func ParseScenario(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrConfiguration, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: %v", dynamo.ErrConfiguration, errNoSteps)
	}
	if s.Duration < 0 {
		return fmt.Errorf("%w: negative duration %g", dynamo.ErrConfiguration, s.Duration)
	}
	for i, st := range s.Steps {
		if st.Start < 0 || !(st.End > st.Start) {
			return fmt.Errorf("%w: step %d: bad window [%g, %g)", dynamo.ErrConfiguration, i+1, st.Start, st.End)
		}
		switch st.Key {
		case KeyNone, KeyLeft, KeyRight, KeyRandom:
		default:
			return fmt.Errorf("%w: step %d: unknown key %q", dynamo.ErrConfiguration, i+1, st.Key)
		}
	}
	return nil
}

// Length is the run duration: Duration if set, otherwise the latest step end.
func (s *Scenario) Length() float64 {
	if s.Duration > 0 {
		return s.Duration
	}
	var end float64
	for _, st := range s.Steps {
		end = max(end, st.End)
	}
	return end
}

func (s *Scenario) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// Script replays a scenario as an input source. Where steps overlap the
// first listed one wins; outside every step no key is held.
type Script struct {
	steps []Step
	rng   *rand.Rand
}

func (s *Scenario) Script() *Script {
	steps := make([]Step, len(s.Steps))
	copy(steps, s.Steps)
	return &Script{steps: steps, rng: rand.New(rand.NewSource(s.Seed))}
}

func (sc *Script) Input(_ int, t float64) dynamo.Direction {
	for _, st := range sc.steps {
		if t < st.Start || t >= st.End {
			continue
		}
		switch st.Key {
		case KeyLeft:
			return dynamo.DirectionNegative
		case KeyRight:
			return dynamo.DirectionPositive
		case KeyRandom:
			return RandomDirection(sc.rng)
		default:
			return dynamo.DirectionNone
		}
	}
	return dynamo.DirectionNone
}

// RandomDirection draws left, right or nothing with equal odds.
func RandomDirection(rng *rand.Rand) dynamo.Direction {
	switch rng.Intn(3) {
	case 0:
		return dynamo.DirectionNegative
	case 1:
		return dynamo.DirectionPositive
	}
	return dynamo.DirectionNone
}
