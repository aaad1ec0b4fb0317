package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pendulum/internal/dynamo"
	"github.com/san-kum/pendulum/internal/metrics"
	"github.com/san-kum/pendulum/internal/params"
	"github.com/san-kum/pendulum/internal/recorder"
	"github.com/san-kum/pendulum/internal/sim"
	"github.com/san-kum/pendulum/internal/viz"
)

// orDefault resolves an empty parameter set name to the configured default.
func orDefault(name string) string {
	if name == "" {
		return cfg.Params.Default
	}
	return name
}

// loadParams reads a parameter set from the params dir, falling back to the
// built-in set of the same name.
func loadParams(name string) (params.Parameters, error) {
	name = orDefault(name)
	store := params.NewStore(cfg.Params.Dir)
	p, err := store.Load(name)
	if err == nil {
		log.Debug().Str("params", name).Str("dir", cfg.Params.Dir).Msg("parameter set loaded")
		return p, nil
	}
	if !errors.Is(err, params.ErrNotFound) {
		return p, err
	}
	if p, ok := params.GetPreset(name); ok {
		log.Debug().Str("params", name).Msg("using built-in parameter set")
		return p, nil
	}

	avail, _ := store.Available()
	return p, fmt.Errorf("%w (in %s: %s; built in: %s)", err, cfg.Params.Dir,
		orNone(avail), strings.Join(params.ListPresets(), ", "))
}

func orNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func loadGains() (*mat.Dense, error) {
	return params.LoadGains(cfg.Controller.GainsFile)
}

// newSink opens the configured telemetry sink and describes where it
// writes.
func newSink() (dynamo.Sink, string, error) {
	interval := cfg.Sim.TickInterval
	switch cfg.Recorder.Format {
	case "sqlite":
		if err := os.MkdirAll(cfg.Recorder.Dir, 0755); err != nil {
			return nil, "", fmt.Errorf("%w: %w", dynamo.ErrRecorder, err)
		}
		path := sqlitePath()
		name := strings.TrimSuffix(recorder.Filename(cfg.Recorder.Prefix, time.Now()), ".csv")
		s, err := recorder.NewSQLiteSink(path, name, recorder.DefaultFields, interval)
		if err != nil {
			return nil, "", err
		}
		return s, path + " session " + s.Session(), nil
	default:
		r, err := recorder.New(cfg.Recorder.Dir, cfg.Recorder.Prefix, recorder.DefaultFields, interval)
		if err != nil {
			return nil, "", err
		}
		return r, r.Path(), nil
	}
}

// sessionConfig applies the settings and command flags to one session.
func sessionConfig(p params.Parameters, k *mat.Dense) sim.SessionConfig {
	sc := cfg.Session(p, k, log)
	sc.Controller.Active = cfg.Controller.Active && !noController
	sc.Metrics = metrics.Default(p, cfg.Sim.Gravity, cfg.Sim.TickInterval)
	return sc
}

// factory builds a fresh session per call, with its own recording when
// --record is set.
func factory(p params.Parameters, k *mat.Dense) viz.Factory {
	return func() (viz.Driver, error) {
		sc := sessionConfig(p, k)
		if record {
			sink, where, err := newSink()
			if err != nil {
				return nil, err
			}
			log.Info().Str("to", where).Msg("recording")
			sc.Sink = sink
		}
		s, err := sim.NewSession(sc)
		if err != nil {
			if sc.Sink != nil {
				sc.Sink.Close()
			}
			return nil, err
		}
		return s.Loop, nil
	}
}

// prepare loads parameters and gains for the interactive commands.
func prepare() (params.Parameters, *mat.Dense, error) {
	p, err := loadParams(paramsName)
	if err != nil {
		return p, nil, err
	}
	k, err := loadGains()
	if err != nil {
		return p, nil, err
	}
	return p, k, nil
}
