package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const panelWidth = 30

// Styles are the lipgloss styles of one theme.
type Styles struct {
	Field   lipgloss.Style
	Panel   lipgloss.Style
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Paused  lipgloss.Style
	Running lipgloss.Style
	Spark   lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Field: lipgloss.NewStyle().Foreground(t.Primary),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(t.Border).
			Padding(0, 1).
			Width(panelWidth),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),
		Label:   lipgloss.NewStyle().Foreground(t.Muted).Width(11),
		Value:   lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Running: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Spark:   lipgloss.NewStyle().Foreground(t.Secondary),
	}
}

// Sparkline renders the last width values as block characters scaled
// between their min and max.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		b.WriteRune(chars[idx])
	}
	return b.String()
}
