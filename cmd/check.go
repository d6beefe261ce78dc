package cmd

import (
	"errors"
	"fmt"

	"github.com/rnwolfe/habit/internal/calendar"
	"github.com/rnwolfe/habit/internal/habit"
	"github.com/rnwolfe/habit/internal/tui"
	"github.com/rnwolfe/habit/internal/ui"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Tick off today's habits interactively",
	Long: `Open an interactive checklist. Move with j/k, toggle with space or x,
step through days with h/l, filter with /.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, _ []string) error {
	if !tui.IsTTY() {
		return errors.New("check needs an interactive terminal; use `habit done <habit>` instead")
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	views, err := s.tracker.ListViews()
	if err != nil {
		return err
	}
	if len(views) == 0 {
		ui.Tip("`habit add \"Drink water\"` to start your first habit.")
		return nil
	}

	toggle := func(id string, day calendar.Date) (habit.View, error) {
		res, err := s.tracker.ToggleCompletion(id, day)
		if err != nil {
			return habit.View{}, err
		}
		return res.View, nil
	}

	n, err := tui.RunChecklist(views, s.tracker.Today(), toggle)
	if err != nil {
		return err
	}
	if n > 0 {
		ui.Ok(fmt.Sprintf("%d change%s saved", n, plural(n)))
	}
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
