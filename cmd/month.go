package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rnwolfe/habit/internal/calendar"
	"github.com/rnwolfe/habit/internal/habit"
	"github.com/rnwolfe/habit/internal/ui"
	"github.com/spf13/cobra"
)

var monthJSON bool

var monthCmd = &cobra.Command{
	Use:   "month [YYYY-MM]",
	Short: "Completion calendar and per-habit rates for a month",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMonth,
}

func init() {
	rootCmd.AddCommand(monthCmd)
	monthCmd.Flags().BoolVar(&monthJSON, "json", false, "Output as JSON")
}

// monthOutput is the --json shape of `habit month`.
type monthOutput struct {
	Year     int                        `json:"year"`
	Month    int                        `json:"month"`
	Days     int                        `json:"days"`
	Rates    []habit.MonthlyRate        `json:"rates"`
	Calendar map[calendar.Date][]string `json:"calendar"`
}

// monthArg returns the month named by args, or the month containing today.
func monthArg(args []string, today calendar.Date) (int, time.Month, error) {
	if len(args) == 0 {
		return today.Year, today.Month, nil
	}
	return calendar.ParseMonth(args[0])
}

func runMonth(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	today := s.tracker.Today()
	year, month, err := monthArg(args, today)
	if err != nil {
		return err
	}
	rates, err := s.tracker.GetMonthlyOverview(year, month)
	if err != nil {
		return err
	}
	cal, err := s.tracker.GetCalendarMonth(year, month)
	if err != nil {
		return err
	}

	if monthJSON {
		return printJSON(monthOutput{
			Year:     year,
			Month:    int(month),
			Days:     calendar.DaysIn(year, month),
			Rates:    rates,
			Calendar: cal,
		})
	}

	ui.Header(fmt.Sprintf("%s %s %d", ui.IconCalendar, month, year))
	fmt.Println(monthGrid(year, month, cal, len(rates), today))
	fmt.Println()
	if len(rates) == 0 {
		fmt.Println(ui.Muted.Render("  No habits yet."))
		fmt.Println()
		return nil
	}
	for _, r := range rates {
		fmt.Printf("  %-24s %s %s\n",
			r.Name,
			ui.ProgressBar(r.Rate, 20, ui.Green),
			ui.Muted.Render(fmt.Sprintf("%s · %d/%d", ui.Pct(r.Rate), r.Completions, r.Days)),
		)
	}
	fmt.Println()
	return nil
}

// monthGrid draws the month Monday first. Each day is shaded by the share of
// habits completed on it.
func monthGrid(year int, month time.Month, cal map[calendar.Date][]string, habits int, today calendar.Date) string {
	shades := []lipgloss.Style{
		ui.Muted,
		lipgloss.NewStyle().Foreground(ui.Amber),
		lipgloss.NewStyle().Foreground(ui.Sky),
		lipgloss.NewStyle().Foreground(ui.Green).Bold(true),
	}

	first := calendar.New(year, month, 1)
	lead := (int(first.Weekday()) + 6) % 7

	var b strings.Builder
	b.WriteString("  " + ui.Muted.Render(" Mo  Tu  We  Th  Fr  Sa  Su") + "\n  ")
	b.WriteString(strings.Repeat("    ", lead))
	col := lead
	for day := 1; day <= calendar.DaysIn(year, month); day++ {
		d := calendar.New(year, month, day)
		style := shades[0]
		if n := len(cal[d]); n > 0 && habits > 0 {
			idx := 1 + (n*(len(shades)-1)-1)/habits
			style = shades[min(idx, len(shades)-1)]
		}
		cell := fmt.Sprintf("%3d", day)
		if d == today {
			style = style.Underline(true)
		}
		b.WriteString(style.Render(cell) + " ")
		col++
		if col == 7 && day < calendar.DaysIn(year, month) {
			b.WriteString("\n  ")
			col = 0
		}
	}
	return b.String()
}
