package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rnwolfe/habit/internal/calendar"
	"github.com/rnwolfe/habit/internal/habit"
	"github.com/rnwolfe/habit/internal/ui"
)

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// shortID is the id prefix shown in listings; Resolve accepts it back.
func shortID(id string) string {
	return id[:min(8, len(id))]
}

// habitLine renders one habit as a single dashboard/list row.
func habitLine(v habit.View) string {
	box := ui.IconOpen
	if v.CompletedToday {
		box = ui.IconDone
	}
	streak := ui.Muted.Render("   ·")
	if v.CurrentStreak > 0 {
		streak = ui.Streak.Render(fmt.Sprintf("%s%3d", ui.IconFire, v.CurrentStreak))
	}
	name := lipgloss.NewStyle().Width(24).Render(v.Name)
	return fmt.Sprintf("  %s %s %s %s %s %s %s",
		box,
		v.Icon.Glyph(),
		name,
		streak,
		ui.ProgressBar(v.RatePercent(), 16, lipgloss.Color(string(v.Color))),
		ui.Muted.Render(fmt.Sprintf("%d/%d", v.CompletionCount, v.TargetDays)),
		ui.Muted.Render(shortID(v.ID)),
	)
}

// recentGrid renders the last weeks*7 days ending today as rows of
// weekday-aligned cells, Monday first.
func recentGrid(v habit.View, today calendar.Date, weeks int) string {
	done := lipgloss.NewStyle().Foreground(lipgloss.Color(string(v.Color)))
	ledger := habit.NewLedger(v.CompletedDates...)

	// Start on the Monday weeks-1 weeks before this week's Monday.
	offset := (int(today.Weekday()) + 6) % 7
	start := today.AddDays(-offset - 7*(weeks-1))

	var b strings.Builder
	b.WriteString("    " + ui.Muted.Render("M T W T F S S") + "\n")
	for w := 0; w < weeks; w++ {
		b.WriteString("    ")
		for i := 0; i < 7; i++ {
			d := start.AddDays(w*7 + i)
			cell := ui.Muted.Render("·")
			switch {
			case d.After(today):
				cell = " "
			case ledger.Contains(d):
				cell = done.Render("■")
			}
			b.WriteString(cell + " ")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
