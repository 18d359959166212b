package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/trend"
)

const (
	chartCell  = 6
	chartEmpty = "Сделай несколько записей, чтобы увидеть график"
)

// chartRows are the y axis from top to bottom
var chartRows = []domain.Emotion{domain.Positive, domain.Neutral, domain.Negative}

// RenderChart draws points oldest to newest as a three-row dot plot whose
// y axis is labeled with the emotion each value stands for. Output is
// unstyled.
func RenderChart(points []trend.Point) string {
	if len(points) == 0 {
		return chartEmpty
	}

	axisW := 0
	for _, e := range chartRows {
		axisW = max(axisW, lipgloss.Width(e.Label()))
	}

	var lines []string
	for _, e := range chartRows {
		var b strings.Builder
		b.WriteString(padRight(e.Label(), axisW))
		b.WriteString(" │")
		for _, p := range points {
			if p.Emotion() == e {
				b.WriteString("   ●  ")
			} else {
				b.WriteString(strings.Repeat(" ", chartCell))
			}
		}
		lines = append(lines, b.String())
	}

	lines = append(lines, strings.Repeat(" ", axisW+1)+"└"+strings.Repeat("─", chartCell*len(points)))

	var labels strings.Builder
	labels.WriteString(strings.Repeat(" ", axisW+2))
	for _, p := range points {
		labels.WriteString(" " + padRight(p.Label, chartCell-1))
	}
	lines = append(lines, labels.String())

	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.Join(lines, "\n")
}

func padRight(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
