package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rnwolfe/habit/internal/calendar"
	"github.com/rnwolfe/habit/internal/habit"
	"github.com/rnwolfe/habit/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// dayValue is a pflag.Value for a calendar day. It accepts YYYY-MM-DD,
// "today", "yesterday" or a negative offset like -3.
type dayValue struct {
	raw string
}

var _ pflag.Value = (*dayValue)(nil)

func (d *dayValue) String() string { return d.raw }
func (d *dayValue) Type() string   { return "day" }

func (d *dayValue) Set(s string) error {
	if _, err := resolveDay(s, calendar.New(2000, 1, 1)); err != nil {
		return err
	}
	d.raw = s
	return nil
}

// On returns the day relative to today. The zero value means today.
func (d *dayValue) On(today calendar.Date) calendar.Date {
	day, err := resolveDay(d.raw, today)
	if err != nil {
		return today
	}
	return day
}

func resolveDay(s string, today calendar.Date) (calendar.Date, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	if strings.HasPrefix(s, "-") {
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 0 {
			return calendar.Date{}, fmt.Errorf("invalid day offset %q", s)
		}
		return today.AddDays(-n), nil
	}
	d, err := calendar.Parse(s)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("invalid day %q: use YYYY-MM-DD, today, yesterday or -N", s)
	}
	return d, nil
}

var (
	toggleDay dayValue
	doneDay   dayValue
	undoDay   dayValue
)

var toggleCmd = &cobra.Command{
	Use:   "toggle [habit]",
	Short: "Flip a habit's completion for a day",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return markHabit(args, &toggleDay, toggleMode)
	},
}

var doneCmd = &cobra.Command{
	Use:   "done [habit]",
	Short: "Mark a habit done for a day",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return markHabit(args, &doneDay, doneMode)
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo [habit]",
	Short: "Clear a habit's completion for a day",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return markHabit(args, &undoDay, undoMode)
	},
}

func init() {
	rootCmd.AddCommand(toggleCmd, doneCmd, undoCmd)
	toggleCmd.Flags().VarP(&toggleDay, "date", "D", "Day to change (YYYY-MM-DD, today, yesterday, -N)")
	doneCmd.Flags().VarP(&doneDay, "date", "D", "Day to mark (YYYY-MM-DD, today, yesterday, -N)")
	undoCmd.Flags().VarP(&undoDay, "date", "D", "Day to clear (YYYY-MM-DD, today, yesterday, -N)")
}

type markMode int

const (
	toggleMode markMode = iota
	doneMode
	undoMode
)

func markHabit(args []string, day *dayValue, mode markMode) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	h, err := resolveHabit(s, args, "Which habit?")
	if err != nil {
		return err
	}
	today := s.tracker.Today()
	on := day.On(today)
	if on.After(today) && s.cfg.Habits.WarnsFuture() {
		ui.Warn(fmt.Sprintf("%s is in the future", on))
	}

	var res habit.ToggleResult
	switch mode {
	case doneMode:
		res, err = s.tracker.Complete(h.ID, on)
	case undoMode:
		res, err = s.tracker.Uncomplete(h.ID, on)
	default:
		res, err = s.tracker.ToggleCompletion(h.ID, on)
	}
	if err != nil {
		return err
	}

	printMark(res, on, today)
	return nil
}

func printMark(res habit.ToggleResult, on, today calendar.Date) {
	v := res.View
	when := "today"
	if on != today {
		when = on.String()
	}

	done := res.Transition.Now
	switch {
	case !res.Changed && done:
		ui.Inf(fmt.Sprintf("%s was already done %s", v.Name, when))
		return
	case !res.Changed:
		ui.Inf(fmt.Sprintf("%s was not marked %s", v.Name, when))
		return
	case done:
		ui.Ok(fmt.Sprintf("%s %s done %s", v.Icon.Glyph(), ui.Accent.Render(v.Name), when))
	default:
		ui.Inf(fmt.Sprintf("%s %s cleared for %s", v.Icon.Glyph(), v.Name, when))
	}

	ui.Kv("Streak", fmt.Sprintf("%s (best %s)", ui.Days(v.CurrentStreak), ui.Days(v.LongestStreak)))
	ui.Kv("Progress", fmt.Sprintf("%d/%d %s", v.CompletionCount, v.TargetDays, ui.Pct(v.RatePercent())))
	if done && v.CompletionCount == v.TargetDays {
		fmt.Println()
		fmt.Println("  " + ui.Banner.Render(ui.IconTrophy+" Target reached: "+ui.Days(v.TargetDays)))
	}
}
