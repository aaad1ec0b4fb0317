package plot

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var errNoData = errors.New("nothing to plot")

// PNG options. Sizes are inches per panel.
type PNGOptions struct {
	Title  string
	Width  float64
	Height float64
	DPI    int
}

func DefaultPNGOptions() PNGOptions {
	return PNGOptions{Width: 8, Height: 3, DPI: 150}
}

func limitedTicker(maxLabels int, labelFmt string) gplot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return gplot.TickerFunc(func(min, max float64) []gplot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []gplot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)
		ticks := make([]gplot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, gplot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func panel(s Series) (*gplot.Plot, error) {
	n := min(len(s.Times), len(s.Values))
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", s.Name, errNoData)
	}

	p := gplot.New()
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = s.Caption()
	p.X.Tick.Marker = limitedTicker(9, "%.1f")
	p.Y.Tick.Marker = limitedTicker(6, "%.1f")
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(s.Values[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: s.Times[i], Y: s.Values[i]})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name, err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	return p, nil
}

// SavePNG stacks one panel per series vertically and writes the image.
func SavePNG(path string, series []Series, opts PNGOptions) error {
	if len(series) == 0 {
		return errNoData
	}

	plots := make([][]*gplot.Plot, len(series))
	for i, s := range series {
		p, err := panel(s)
		if err != nil {
			return err
		}
		if i == 0 {
			p.Title.Text = opts.Title
		}
		plots[i] = []*gplot.Plot{p}
	}

	w := vg.Length(opts.Width) * vg.Inch
	h := vg.Length(opts.Height*float64(len(series))) * vg.Inch
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(opts.DPI))
	dc := draw.New(c)

	tiles := draw.Tiles{Rows: len(series), Cols: 1, PadY: vg.Points(6)}
	canvases := gplot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}
