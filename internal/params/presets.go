package params

import "sort"

func friction(v float64) *float64 { return &v }

var base = Parameters{
	CartMass:     1.0,
	CartSize:     [2]float64{100, 50},
	CircleLength: 300,
	CircleMass:   0.2,
	CircleRadius: 20,
}

func preset(angle, cartX float64, f *float64) Parameters {
	p := base
	p.Angle = angle
	p.CartX = cartX
	p.CartFriction = f
	return p
}

// Presets are the built-in parameter sets written by `params init`.
var Presets = map[string]Parameters{
	"rest_bottom":      preset(0, 0, nil),
	"near_upright":     preset(170, 0, nil),
	"upright_friction": preset(175, 0, friction(100)),
	"swing":            preset(90, -200, nil),
}

// DefaultPreset is loaded when no name is configured.
const DefaultPreset = "rest_bottom"

func GetPreset(name string) (Parameters, bool) {
	p, ok := Presets[name]
	if ok && p.CartFriction != nil {
		p.CartFriction = friction(*p.CartFriction)
	}
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WritePresets saves every built-in preset into the store. Existing files are
// left alone unless overwrite is set. It returns the names written.
func (s *Store) WritePresets(overwrite bool) ([]string, error) {
	existing, err := s.Available()
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}

	var written []string
	for _, name := range ListPresets() {
		if have[name] && !overwrite {
			continue
		}
		p, _ := GetPreset(name)
		if err := s.Save(name, p); err != nil {
			return written, err
		}
		written = append(written, name)
	}
	return written, nil
}
