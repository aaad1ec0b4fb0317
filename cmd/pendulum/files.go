package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/pendulum/internal/analysis"
	"github.com/san-kum/pendulum/internal/config"
	"github.com/san-kum/pendulum/internal/dynamo"
	"github.com/san-kum/pendulum/internal/params"
	"github.com/san-kum/pendulum/internal/plot"
	"github.com/san-kum/pendulum/internal/recorder"
)

func listParams(cmd *cobra.Command, args []string) error {
	store := params.NewStore(cfg.Params.Dir)
	names, err := store.Available()
	if err != nil {
		return err
	}

	fmt.Printf("parameter sets in %s:\n", cfg.Params.Dir)
	if len(names) == 0 {
		fmt.Println("  (none, run `pendulum params init`)")
	}
	for _, n := range names {
		mark := " "
		if n == cfg.Params.Default {
			mark = "*"
		}
		fmt.Printf(" %s %s\n", mark, n)
	}

	fmt.Println("built in:")
	for _, n := range params.ListPresets() {
		fmt.Printf("   %s\n", n)
	}
	return nil
}

func showParams(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	p, err := loadParams(name)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func initParams(cmd *cobra.Command, args []string) error {
	store := params.NewStore(cfg.Params.Dir)
	written, err := store.WritePresets(force)
	if err != nil {
		return err
	}
	if len(written) == 0 {
		fmt.Println("all parameter sets already exist (use --force to overwrite)")
		return nil
	}
	for _, n := range written {
		fmt.Printf("wrote %s\n", filepath.Join(cfg.Params.Dir, n+".json"))
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := configFile
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s exists (use --force to overwrite)", dynamo.ErrConfiguration, path)
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func listRecordings(cmd *cobra.Command, args []string) error {
	if sqlite {
		path := sqlitePath()
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s", recorder.ErrNoRecordings, path)
		}
		names, err := recorder.Sessions(path)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	}

	entries, err := recorder.List(cfg.Recorder.Dir, cfg.Recorder.Prefix)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w in %s", recorder.ErrNoRecordings, cfg.Recorder.Dir)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tRECORDED\tSIZE")
	for _, e := range entries {
		size := "-"
		if fi, err := os.Stat(e.Path); err == nil {
			size = fmt.Sprintf("%d", fi.Size())
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", filepath.Base(e.Path), e.Time.Format("2006-01-02 15:04:05"), size)
	}
	return w.Flush()
}

func sqlitePath() string {
	return filepath.Join(cfg.Recorder.Dir, cfg.Recorder.Prefix+".db")
}

// recordingArg resolves the file argument, defaulting to the latest
// recording. With --sqlite the argument names a session instead.
func recordingArg(args []string) (*recorder.Recording, error) {
	if sqlite {
		session := ""
		if len(args) > 0 {
			session = args[0]
		}
		log.Debug().Str("db", sqlitePath()).Str("session", session).Msg("loading recording")
		return recorder.LoadSQLite(sqlitePath(), session)
	}

	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		latest, err := recorder.Latest(cfg.Recorder.Dir, cfg.Recorder.Prefix)
		if err != nil {
			return nil, fmt.Errorf("%w in %s", err, cfg.Recorder.Dir)
		}
		path = latest
	}
	log.Debug().Str("file", path).Msg("loading recording")
	return recorder.Load(path)
}

func plotRecording(cmd *cobra.Command, args []string) error {
	rec, err := recordingArg(args)
	if err != nil {
		return err
	}
	cols := columns
	if len(cols) == 0 {
		cols = plot.DefaultColumns
	}
	series, err := plot.FromRecording(rec, cols)
	if err != nil {
		return err
	}

	if pngPath != "" {
		opts := plot.DefaultPNGOptions()
		opts.Title = filepath.Base(rec.Path)
		if err := plot.SavePNG(pngPath, series, opts); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", pngPath)
		return nil
	}

	fmt.Println(filepath.Base(rec.Path))
	fmt.Println(plot.Text(series, 80, 12))
	return nil
}

func analyzeRecording(cmd *cobra.Command, args []string) error {
	rec, err := recordingArg(args)
	if err != nil {
		return err
	}
	sig, err := analysis.FromRecording(rec)
	if err != nil {
		return err
	}

	opts := analysis.DefaultOptions()
	opts.Band = band
	fmt.Println(filepath.Base(rec.Path))
	if err := analysis.Analyze(sig, opts).Write(os.Stdout); err != nil {
		return err
	}

	if phase {
		omega := rec.Column("angular_velocity")
		if omega == nil {
			return errors.New("recording has no angular_velocity column")
		}
		fmt.Println("\nangle vs angular velocity")
		fmt.Print(analysis.PhasePortrait(sig.Angle, omega, 70, 20))
	}
	return nil
}
