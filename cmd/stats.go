package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rnwolfe/habit/internal/ui"
	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Overall statistics across all habits",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
}

func runStats(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.tracker.GetOverview()
	if err != nil {
		return err
	}
	if statsJSON {
		return printJSON(snap)
	}

	ui.Header(ui.IconChart + " Statistics")
	ui.Kv("Habits", fmt.Sprintf("%d", snap.TotalHabits))
	ui.Kv("Today", fmt.Sprintf("%d done (%s)", snap.TodayCompletions, ui.Pct(snap.TodayRate)))
	ui.Kv("Streaks", fmt.Sprintf("%d active, %s combined", snap.ActiveStreaks, ui.Days(snap.TotalCurrentStreak)))
	ui.Kv("Longest", ui.Days(snap.LongestStreak))
	ui.Kv("Completions", fmt.Sprintf("%d", snap.TotalCompletions))
	ui.Kv("Avg progress", ui.Pct(snap.AvgCompletionRate))
	ui.Kv("Consistency", ui.Pct(snap.ConsistencyScore))
	if snap.TotalHabits == 0 {
		fmt.Println()
		return nil
	}

	fmt.Println()
	fmt.Println(ui.Subtitle.Render("  Last 7 days"))
	cols := make([]ui.Column, 0, len(snap.ThisWeek))
	for _, d := range snap.ThisWeek {
		cols = append(cols, ui.Column{Label: d.Day, Value: d.Completions})
	}
	fmt.Println(ui.ColumnChart(cols, snap.TotalHabits, 5))

	views, err := s.tracker.ListViews()
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(ui.Subtitle.Render("  Progress"))
	for _, v := range views {
		fmt.Printf("  %s %-24s %s %s\n",
			ui.Swatch(string(v.Color)),
			v.Name,
			ui.ProgressBar(v.RatePercent(), 20, lipgloss.Color(string(v.Color))),
			ui.Muted.Render(ui.Pct(v.RatePercent())),
		)
	}
	fmt.Println()
	return nil
}
