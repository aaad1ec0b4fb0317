// Package config loads the application settings from an optional YAML file
// and PENDULUM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendulum/internal/dynamo"
)

const EnvPrefix = "PENDULUM"

const (
	DefaultWidth        = 1280
	DefaultHeight       = 720
	DefaultTickInterval = 1.0 / 480
	DefaultRailOffset   = 50.0
	DefaultCartHeight   = 360.0
	DefaultGravity      = -9807.0
	DefaultIterations   = 10
	DefaultMaxForce     = 10000.0
	DefaultManualForce  = 3000.0
)

type Config struct {
	Window     WindowConfig     `mapstructure:"window" yaml:"window"`
	Sim        SimConfig        `mapstructure:"sim" yaml:"sim"`
	Controller ControllerConfig `mapstructure:"controller" yaml:"controller"`
	Params     ParamsConfig     `mapstructure:"params" yaml:"params"`
	Recorder   RecorderConfig   `mapstructure:"recorder" yaml:"recorder"`
	LogLevel   string           `mapstructure:"log_level" yaml:"log_level"`
}

type WindowConfig struct {
	Width  float64 `mapstructure:"width" yaml:"width"`
	Height float64 `mapstructure:"height" yaml:"height"`
}

type SimConfig struct {
	TickInterval float64 `mapstructure:"tick_interval" yaml:"tick_interval"`
	RailOffset   float64 `mapstructure:"rail_offset" yaml:"rail_offset"`
	CartHeight   float64 `mapstructure:"cart_height" yaml:"cart_height"`
	Gravity      float64 `mapstructure:"gravity" yaml:"gravity"`
	Iterations   int     `mapstructure:"iterations" yaml:"iterations"`
	UnwrapAngle  bool    `mapstructure:"unwrap_angle" yaml:"unwrap_angle"`
}

type ControllerConfig struct {
	Active      bool    `mapstructure:"active" yaml:"active"`
	MaxForce    float64 `mapstructure:"max_force" yaml:"max_force"`
	GainsFile   string  `mapstructure:"gains_file" yaml:"gains_file"`
	ManualForce float64 `mapstructure:"manual_force" yaml:"manual_force"`
}

type ParamsConfig struct {
	Dir     string `mapstructure:"dir" yaml:"dir"`
	Default string `mapstructure:"default" yaml:"default"`
}

type RecorderConfig struct {
	Dir    string `mapstructure:"dir" yaml:"dir"`
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
	// Format is csv or sqlite.
	Format string `mapstructure:"format" yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{Width: DefaultWidth, Height: DefaultHeight},
		Sim: SimConfig{
			TickInterval: DefaultTickInterval,
			RailOffset:   DefaultRailOffset,
			CartHeight:   DefaultCartHeight,
			Gravity:      DefaultGravity,
			Iterations:   DefaultIterations,
			UnwrapAngle:  true,
		},
		Controller: ControllerConfig{
			Active:      true,
			MaxForce:    DefaultMaxForce,
			GainsFile:   "configs/lqr_gains.csv",
			ManualForce: DefaultManualForce,
		},
		Params:   ParamsConfig{Dir: "configs/parameters", Default: "rest_bottom"},
		Recorder: RecorderConfig{Dir: "recordings", Prefix: "cart", Format: "csv"},
		LogLevel: "info",
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)

	v.SetDefault("sim.tick_interval", d.Sim.TickInterval)
	v.SetDefault("sim.rail_offset", d.Sim.RailOffset)
	v.SetDefault("sim.cart_height", d.Sim.CartHeight)
	v.SetDefault("sim.gravity", d.Sim.Gravity)
	v.SetDefault("sim.iterations", d.Sim.Iterations)
	v.SetDefault("sim.unwrap_angle", d.Sim.UnwrapAngle)

	v.SetDefault("controller.active", d.Controller.Active)
	v.SetDefault("controller.max_force", d.Controller.MaxForce)
	v.SetDefault("controller.gains_file", d.Controller.GainsFile)
	v.SetDefault("controller.manual_force", d.Controller.ManualForce)

	v.SetDefault("params.dir", d.Params.Dir)
	v.SetDefault("params.default", d.Params.Default)

	v.SetDefault("recorder.dir", d.Recorder.Dir)
	v.SetDefault("recorder.prefix", d.Recorder.Prefix)
	v.SetDefault("recorder.format", d.Recorder.Format)

	v.SetDefault("log_level", d.LogLevel)
}

// Load reads path (skipped when empty) over the defaults, then applies
// PENDULUM_SECTION_KEY environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", dynamo.ErrConfiguration, path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", dynamo.ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOptional behaves like Load but ignores a missing file.
func LoadOptional(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}
	return Load(path)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size must be positive, got %gx%g", c.Window.Width, c.Window.Height)
	check(c.Sim.TickInterval > 0, "sim.tick_interval must be positive, got %g", c.Sim.TickInterval)
	check(c.Sim.RailOffset >= 0 && 2*c.Sim.RailOffset < c.Window.Width, "sim.rail_offset %g leaves no rail", c.Sim.RailOffset)
	check(c.Sim.Iterations > 0, "sim.iterations must be positive, got %d", c.Sim.Iterations)
	check(c.Controller.MaxForce > 0, "controller.max_force must be positive, got %g", c.Controller.MaxForce)
	check(c.Controller.ManualForce >= 0, "controller.manual_force must not be negative, got %g", c.Controller.ManualForce)
	check(c.Recorder.Format == "csv" || c.Recorder.Format == "sqlite", "recorder.format must be csv or sqlite, got %q", c.Recorder.Format)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", dynamo.ErrConfiguration, errors.Join(errs...))
}
