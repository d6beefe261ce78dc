package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	barFull  = "█"
	barEmpty = "░"
)

// ProgressBar renders pct (0..100, clamped) as a bar of width cells filled
// in color.
func ProgressBar(pct float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct/100*float64(width) + 0.5)
	fill := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat(barFull, filled))
	rest := lipgloss.NewStyle().Foreground(Track).Render(strings.Repeat(barEmpty, width-filled))
	return fill + rest
}

// Swatch renders a small block in the given hex color.
func Swatch(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●")
}

// Column is one labelled value of a vertical bar chart.
type Column struct {
	Label string
	Value int
}

// ColumnChart renders cols as vertical bars height rows tall, scaled to max.
// A max of 0 scales to the largest value. Labels are printed under the bars
// and values above them.
func ColumnChart(cols []Column, max, height int) string {
	if len(cols) == 0 || height <= 0 {
		return ""
	}
	if max <= 0 {
		for _, c := range cols {
			if c.Value > max {
				max = c.Value
			}
		}
	}

	width := 3
	for _, c := range cols {
		if w := lipgloss.Width(c.Label); w > width {
			width = w
		}
	}
	cell := func(s string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, s) + " "
	}

	heights := make([]int, len(cols))
	for i, c := range cols {
		if max > 0 && c.Value > 0 {
			heights[i] = (c.Value*height + max - 1) / max
			if heights[i] > height {
				heights[i] = height
			}
		}
	}

	bar := lipgloss.NewStyle().Foreground(Green)
	var b strings.Builder
	for _, c := range cols {
		b.WriteString(cell(Muted.Render(strconv.Itoa(c.Value))))
	}
	b.WriteString("\n")
	for row := height; row >= 1; row-- {
		for i := range cols {
			if heights[i] >= row {
				b.WriteString(cell(bar.Render(strings.Repeat(barFull, 2))))
			} else {
				b.WriteString(cell(""))
			}
		}
		b.WriteString("\n")
	}
	for _, c := range cols {
		b.WriteString(cell(c.Label))
	}
	return strings.TrimRight(b.String(), " ")
}
