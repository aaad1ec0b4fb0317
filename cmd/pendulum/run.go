package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/pendulum/internal/analysis"
	"github.com/san-kum/pendulum/internal/automation"
	"github.com/san-kum/pendulum/internal/dynamo"
	"github.com/san-kum/pendulum/internal/gui"
	"github.com/san-kum/pendulum/internal/logging"
	"github.com/san-kum/pendulum/internal/recorder"
	"github.com/san-kum/pendulum/internal/sim"
	"github.com/san-kum/pendulum/internal/viz"
)

func runWindow(cmd *cobra.Command, args []string) error {
	p, k, err := prepare()
	if err != nil {
		return err
	}
	return gui.Run(gui.Config{
		Title:        "cart pendulum",
		World:        cfg.Bounds(),
		TickInterval: cfg.Sim.TickInterval,
		FPS:          60,
		ShowGrid:     true,
		Logger:       log,
	}, factory(p, k))
}

func runLive(cmd *cobra.Command, args []string) error {
	p, k, err := prepare()
	if err != nil {
		return err
	}

	// The terminal belongs to the view; log to a file next to the recordings.
	fileLog, closer, err := logging.NewFile(cfg.LogLevel, cfg.Recorder.Dir, "live")
	if err != nil {
		return err
	}
	defer closer.Close()
	log = fileLog

	vc := viz.DefaultConfig()
	vc.World = cfg.Bounds()
	vc.TickInterval = cfg.Sim.TickInterval
	vc.MaxImpulse = cfg.Controller.MaxForce * cfg.Sim.TickInterval
	vc.Theme = theme
	vc.Logger = log
	return viz.Run(vc, factory(p, k))
}

func runHeadless(cmd *cobra.Command, args []string) error {
	var script *automation.Scenario
	if scenarioFile != "" {
		s, err := automation.LoadScenario(scenarioFile)
		if err != nil {
			return err
		}
		script = s
		if s.Params != "" && !cmd.Flags().Changed("params") {
			paramsName = s.Params
		}
		if !cmd.Flags().Changed("time") {
			simTime = s.Length()
		}
	}

	p, k, err := prepare()
	if err != nil {
		return err
	}

	sc := sessionConfig(p, k)
	if script != nil && script.Controller != nil && !cmd.Flags().Changed("no-controller") {
		sc.Controller.Active = *script.Controller
	}
	if record {
		sink, where, err := newSink()
		if err != nil {
			return err
		}
		log.Info().Str("to", where).Msg("recording")
		sc.Sink = sink
	}

	session, err := sim.NewSession(sc)
	if err != nil {
		if sc.Sink != nil {
			sc.Sink.Close()
		}
		return err
	}

	var input sim.InputSource = sim.NoInput
	if script != nil {
		input = script.Script()
		log.Info().Str("scenario", script.Name).Int("steps", len(script.Steps)).Msg("scenario loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := sim.Runner{KeepHistory: true}
	res, runErr := runner.Run(ctx, session.Loop, input, simTime)
	if res == nil {
		return runErr
	}

	final := session.State()
	log.Info().Int("ticks", res.Ticks).Float64("time", session.Time()).Msg("run finished")
	fmt.Printf("ticks %d, final x=%.1f v=%.1f θ=%.2f ω=%.4f\n\n",
		res.Ticks, final.CartX(), final.CartVelocity(), final.Angle(), final.AngularVelocity())

	if jsonPath != "" {
		info := recorder.RunInfo{
			Params:     orDefault(paramsName),
			Parameters: p,
			Interval:   cfg.Sim.TickInterval,
			Duration:   simTime,
			Controller: sc.Controller.Active,
		}
		if script != nil {
			info.Scenario = script.Name
		}
		if err := recorder.ExportJSON(jsonPath, info, res); err != nil {
			return err
		}
		log.Info().Str("to", jsonPath).Msg("run exported")
	}

	printMetrics(res.Metrics)
	fmt.Println()
	rep := analysis.Analyze(analysis.FromResult(res, cfg.Sim.TickInterval), analysis.DefaultOptions())
	if err := rep.Write(os.Stdout); err != nil {
		return err
	}
	return runErr
}

func printMetrics(values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.4g\n", name, values[name])
	}
	w.Flush()
}

// describe prints a session failure with its tick.
func describe(err error) string {
	var serr *dynamo.SimulationError
	if errors.As(err, &serr) {
		return fmt.Sprintf("stopped at tick %d (%.3f s): %v", serr.Tick, serr.Time, serr.Wrapped)
	}
	return err.Error()
}
