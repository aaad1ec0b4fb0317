// Package params loads the physical parameter sets and the controller gain
// matrix the simulator is configured from.
package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/san-kum/pendulum/internal/dynamo"
)

// ErrNotFound is returned when no parameter file exists for a name.
var ErrNotFound = errors.New("parameter set not found")

const ext = ".json"

// Parameters is one named set of initial conditions and entity properties.
// Lengths are millimetres, masses kilograms, the angle degrees.
type Parameters struct {
	Angle float64 `json:"angle"`
	CartX float64 `json:"cart_x"`
	CartV float64 `json:"cart_v"`

	// CartFriction is the friction coefficient; nil disables friction.
	CartFriction *float64   `json:"cart_friction"`
	CartMass     float64    `json:"cart_mass"`
	CartSize     [2]float64 `json:"cart_size"`

	CircleLength float64 `json:"circle_length"`
	CircleMass   float64 `json:"circle_mass"`
	CircleRadius float64 `json:"circle_radius"`
}

// HasFriction reports whether a friction joint should be created. A zero
// coefficient is treated like null.
func (p Parameters) HasFriction() bool {
	return p.CartFriction != nil && *p.CartFriction > 0
}

// Friction returns the coefficient, 0 when unset.
func (p Parameters) Friction() float64 {
	if p.CartFriction == nil {
		return 0
	}
	return *p.CartFriction
}

// Validate rejects the values the constraint solver cannot build bodies from.
func (p Parameters) Validate() error {
	checks := []struct {
		field string
		value float64
	}{
		{"cart_mass", p.CartMass},
		{"cart_size[0]", p.CartSize[0]},
		{"cart_size[1]", p.CartSize[1]},
		{"circle_length", p.CircleLength},
		{"circle_mass", p.CircleMass},
		{"circle_radius", p.CircleRadius},
	}
	for _, c := range checks {
		if !(c.value > 0) {
			return &dynamo.ParameterError{Field: c.field, Value: c.value}
		}
	}
	if p.CartFriction != nil && *p.CartFriction < 0 {
		return &dynamo.ParameterError{Field: "cart_friction", Value: *p.CartFriction, Rule: "must not be negative"}
	}
	return nil
}

// Store reads and writes parameter sets as <dir>/<name>.json.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.Dir, name+ext)
}

// Load reads the named parameter set. A missing file yields an error matching
// both ErrNotFound and dynamo.ErrConfiguration.
func (s *Store) Load(name string) (Parameters, error) {
	var p Parameters
	if name == "" || strings.ContainsAny(name, `/\`) {
		return p, fmt.Errorf("%w: invalid parameter set name %q", dynamo.ErrConfiguration, name)
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, fmt.Errorf("%w: %w: %q in %s", dynamo.ErrConfiguration, ErrNotFound, name, s.Dir)
		}
		return p, fmt.Errorf("%w: %w", dynamo.ErrConfiguration, err)
	}

	if err := Decode(data, &p); err != nil {
		return p, fmt.Errorf("%w: %s: %w", dynamo.ErrConfiguration, name, err)
	}
	return p, nil
}

// Decode parses a parameter set. Every field must be present; cart_friction
// may be null.
func Decode(data []byte, p *Parameters) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			return fmt.Errorf("missing field %q", key)
		}
	}
	return json.Unmarshal(data, p)
}

var requiredKeys = []string{
	"angle", "cart_x", "cart_v",
	"cart_friction", "cart_mass", "cart_size",
	"circle_length", "circle_mass", "circle_radius",
}

// Available lists the parameter set names found in the store, sorted.
func (s *Store) Available() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(names)
	return names, nil
}

// Save writes p as <name>.json, creating the directory when needed.
func (s *Store) Save(name string, p Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(name), append(data, '\n'), 0644)
}
