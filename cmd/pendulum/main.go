package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/pendulum/internal/config"
	"github.com/san-kum/pendulum/internal/dynamo"
	"github.com/san-kum/pendulum/internal/logging"
)

var (
	configFile string
	logLevel   string

	// session flags
	paramsName   string
	record       bool
	noController bool
	simTime      float64
	scenarioFile string
	jsonPath     string

	// plotting and analysis
	pngPath string
	columns []string
	band    float64
	phase   bool

	// sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	sweepTime  float64
	trials     int
	jitter     float64
	seed       int64
	jobs       int

	force  bool
	sqlite bool
	theme  string
)

// settings is the loaded configuration shared by every command.
var (
	cfg *config.Config
	log zerolog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "pendulum",
		Short:         "cart pendulum simulator with lqr control",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadOptional(configFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			log = logging.New(cfg.LogLevel, os.Stderr)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "pendulum.yaml", "config file (yaml), ignored when missing")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "trace, debug, info, warn or error")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the simulation in a window",
		Args:  cobra.NoArgs,
		RunE:  runWindow,
	}
	sessionFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	sessionFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "", "colour theme")

	simCmd := &cobra.Command{
		Use:   "sim",
		Short: "run headless for a fixed duration",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	sessionFlags(simCmd)
	simCmd.Flags().Float64Var(&simTime, "time", 10, "simulated seconds")
	simCmd.Flags().StringVar(&scenarioFile, "scenario", "", "input scenario (yaml)")
	simCmd.Flags().StringVar(&jsonPath, "json", "", "export the run history as json")

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "manage parameter sets",
	}
	paramsListCmd := &cobra.Command{
		Use:   "list",
		Short: "list parameter sets",
		Args:  cobra.NoArgs,
		RunE:  listParams,
	}
	paramsShowCmd := &cobra.Command{
		Use:   "show [name]",
		Short: "print a parameter set",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showParams,
	}
	paramsInitCmd := &cobra.Command{
		Use:   "init",
		Short: "write the built-in parameter sets",
		Args:  cobra.NoArgs,
		RunE:  initParams,
	}
	paramsInitCmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	paramsCmd.AddCommand(paramsListCmd, paramsShowCmd, paramsInitCmd)

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "inspect the configuration",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	recordingsCmd := &cobra.Command{
		Use:   "recordings",
		Short: "list recordings",
		Args:  cobra.NoArgs,
		RunE:  listRecordings,
	}
	recordingsCmd.Flags().BoolVar(&sqlite, "sqlite", false, "list sqlite sessions instead of csv files")

	plotCmd := &cobra.Command{
		Use:   "plot [file]",
		Short: "plot a recording, the latest by default",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRecording,
	}
	plotCmd.Flags().StringVar(&pngPath, "png", "", "write a png instead of printing")
	plotCmd.Flags().StringSliceVar(&columns, "columns", nil, "columns to plot (default angle,cart_x)")
	plotCmd.Flags().BoolVar(&sqlite, "sqlite", false, "read a sqlite session (argument is the session name)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "oscillation and settling analysis of a recording",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRecording,
	}
	analyzeCmd.Flags().Float64Var(&band, "band", 2, "settling band in degrees")
	analyzeCmd.Flags().BoolVar(&phase, "phase", false, "print the angle phase portrait")
	analyzeCmd.Flags().BoolVar(&sqlite, "sqlite", false, "read a sqlite session (argument is the session name)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run many headless sessions in parallel",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&paramsName, "params", "", "base parameter set")
	sweepCmd.Flags().BoolVar(&noController, "no-controller", false, "start with the controller off")
	sweepCmd.Flags().Float64Var(&sweepTime, "time", 5, "simulated seconds per case")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "angle", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 160, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 200, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 9, "number of values")
	sweepCmd.Flags().IntVar(&trials, "trials", 0, "random trials instead of a linear sweep")
	sweepCmd.Flags().Float64Var(&jitter, "jitter", 5, "angle jitter for trials, degrees")
	sweepCmd.Flags().Int64Var(&seed, "seed", 1, "random seed for trials")
	sweepCmd.Flags().IntVar(&jobs, "jobs", 0, "sessions run at once (0 = all)")

	rootCmd.AddCommand(runCmd, liveCmd, simCmd, paramsCmd, configCmd, recordingsCmd, plotCmd, analyzeCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		if errors.Is(err, dynamo.ErrConfiguration) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func sessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&paramsName, "params", "", "parameter set name")
	cmd.Flags().BoolVar(&record, "record", false, "record telemetry")
	cmd.Flags().BoolVar(&noController, "no-controller", false, "start with the controller off")
}
