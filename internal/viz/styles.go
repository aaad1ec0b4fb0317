package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles of one theme.
type Styles struct {
	Canvas  lipgloss.Style
	Stats   lipgloss.Style
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Graph   lipgloss.Style
	Help    lipgloss.Style
	Running lipgloss.Style
	Paused  lipgloss.Style
	Error   lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Canvas: lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 2),
		Stats: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(44),
		Header:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1),
		Label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:   lipgloss.NewStyle().Foreground(t.Text),
		Graph:   lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 0),
		Help:    lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		Running: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(t.Error),
	}
}

// ForceBar draws a signed value as a bar growing left or right from the
// centre; |value| >= limit fills one half.
func ForceBar(value, limit float64, width int) string {
	half := width / 2
	if half < 1 || !(limit > 0) {
		return ""
	}
	n := int(value / limit * float64(half))
	n = max(-half, min(half, n))

	left := strings.Repeat("░", half)
	right := strings.Repeat("░", half)
	if n < 0 {
		left = strings.Repeat("░", half+n) + strings.Repeat("█", -n)
	} else if n > 0 {
		right = strings.Repeat("█", n) + strings.Repeat("░", half-n)
	}
	return left + "│" + right
}
