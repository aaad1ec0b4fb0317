package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/pendulum/internal/automation"
	"github.com/san-kum/pendulum/internal/metrics"
	"github.com/san-kum/pendulum/internal/sim"
)

func runSweep(cmd *cobra.Command, args []string) error {
	p, k, err := prepare()
	if err != nil {
		return err
	}
	base := sessionConfig(p, k)

	var cases []sim.Case
	if trials > 0 {
		cases, err = automation.Perturbation{Angle: jitter, Trials: trials, Seed: seed}.Cases(base)
	} else {
		sw := automation.Sweep{Param: sweepParam, Min: sweepMin, Max: sweepMax, Steps: sweepSteps}
		cases, err = sw.Cases(base, nil)
	}
	if err != nil {
		return err
	}
	for i := range cases {
		c := &cases[i].Config
		c.Metrics = metrics.Default(c.Params, c.Gravity, c.Physics.TickInterval)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().Int("cases", len(cases)).Float64("time", sweepTime).Int("jobs", jobs).Msg("sweep started")
	ens := sim.Ensemble{Duration: sweepTime, Limit: jobs}
	results, err := ens.Run(ctx, cases)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CASE\tANGLE\tSTABLE\tEFFORT\tSATURATION\tTRAVEL\tPEAK FRICTION")
	for i, r := range results {
		m := r.Metrics
		fmt.Fprintf(w, "%s\t%.1f\t%.2f\t%.4g\t%.3f\t%.1f\t%.3f\n",
			r.Name, cases[i].Config.Params.Angle,
			m["stability"], m["control_effort"], m["saturation"],
			m["cart_travel"], m["peak_friction"])
	}
	return w.Flush()
}
