package plot

import (
	"strings"

	"github.com/guptarohit/asciigraph"
)

// Text renders each series as its own asciigraph chart, separated by a
// blank line.
func Text(series []Series, width, height int) string {
	var sb strings.Builder
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(asciigraph.Plot(s.Values,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(s.Caption()),
		))
	}
	return sb.String()
}

// Tail keeps the last n values, for rolling charts.
func Tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
