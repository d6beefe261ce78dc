package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rnwolfe/habit/internal/habit"
	"github.com/rnwolfe/habit/internal/tui"
	"github.com/rnwolfe/habit/internal/ui"
	"github.com/spf13/cobra"
)

var (
	habitDesc   string
	habitIcon   string
	habitColor  string
	habitTarget int
	habitName   string
	listJSON    bool
	showJSON    bool
	rmYes       bool
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Start tracking a new habit",
	Long: `Start tracking a new habit. Icons: droplets, brain, book-open, dumbbell, heart,
coffee, utensils, moon, gamepad2, music, camera, plane.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits with streaks and progress",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var showCmd = &cobra.Command{
	Use:   "show [habit]",
	Short: "Show one habit in detail",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

var editCmd = &cobra.Command{
	Use:   "edit [habit]",
	Short: "Change a habit's name, description, icon, color or target",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEdit,
}

var rmCmd = &cobra.Command{
	Use:     "rm [habit]",
	Aliases: []string{"delete"},
	Short:   "Delete a habit and its history",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runRm,
}

func init() {
	rootCmd.AddCommand(addCmd, listCmd, showCmd, editCmd, rmCmd)

	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().StringVarP(&habitDesc, "desc", "d", "", "Description")
		c.Flags().StringVarP(&habitIcon, "icon", "i", "", "Icon name")
		c.Flags().StringVarP(&habitColor, "color", "c", "", "Color as #RRGGBB")
		c.Flags().IntVarP(&habitTarget, "target", "t", 0, "Target number of days")
	}
	editCmd.Flags().StringVarP(&habitName, "name", "n", "", "New name")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runAdd(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	in := habit.Input{
		Name:        strings.Join(args, " "),
		Description: habitDesc,
		Icon:        firstNonEmpty(habitIcon, s.cfg.Habits.DefaultIcon),
		Color:       firstNonEmpty(habitColor, s.cfg.Habits.DefaultColor),
		TargetDays:  habitTarget,
	}
	if in.TargetDays == 0 {
		in.TargetDays = s.cfg.Habits.DefaultTargetDays
	}
	warnFallbacks(in.Icon, in.Color)

	h, err := s.tracker.CreateHabit(in)
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Tracking %s %s %s", h.Icon.Glyph(), ui.Accent.Render(h.Name), ui.Muted.Render(shortID(h.ID))))
	ui.Kv("Target", ui.Days(h.TargetDays))
	ui.Tip(fmt.Sprintf("`habit done %q` when you've done it today.", h.Name))
	return nil
}

func runList(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	views, err := s.tracker.ListViews()
	if err != nil {
		return err
	}
	if listJSON {
		if views == nil {
			views = []habit.View{}
		}
		return printJSON(views)
	}
	if len(views) == 0 {
		fmt.Println(ui.Muted.Render("  No habits yet."))
		ui.Tip("`habit add \"Read 10 pages\" --icon book-open` to add one.")
		return nil
	}

	ui.Header(fmt.Sprintf("%sHabits (%d)", ui.IconHabit, len(views)))
	for _, v := range views {
		fmt.Println(habitLine(v))
	}
	fmt.Println()
	return nil
}

func runShow(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	h, err := resolveHabit(s, args, "Show which habit?")
	if err != nil {
		return err
	}
	v, err := s.tracker.GetHabitView(h.ID)
	if err != nil {
		return err
	}
	if showJSON {
		return printJSON(v)
	}

	ui.Header(fmt.Sprintf("%s %s", v.Icon.Glyph(), v.Name))
	if v.Description != "" {
		fmt.Println("  " + v.Description)
		fmt.Println()
	}
	ui.Kv("ID", v.ID)
	ui.Kv("Category", v.Icon.Label())
	ui.Kv("Color", ui.Swatch(string(v.Color))+" "+string(v.Color))
	ui.Kv("Started", v.CreatedAt.String())
	ui.Kv("Today", doneLabel(v.CompletedToday))
	ui.Kv("Streak", fmt.Sprintf("%s (best %s)", ui.Days(v.CurrentStreak), ui.Days(v.LongestStreak)))
	ui.Kv("Progress", fmt.Sprintf("%d/%d %s", v.CompletionCount, v.TargetDays, ui.Pct(v.RatePercent())))
	ui.Kv("Remaining", ui.Days(v.DaysRemaining))
	fmt.Println()
	fmt.Println(recentGrid(v, v.AsOf, 5))
	fmt.Println()
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	h, err := resolveHabit(s, args, "Edit which habit?")
	if err != nil {
		return err
	}

	var p habit.Patch
	flags := cmd.Flags()
	if flags.Changed("name") {
		p.Name = &habitName
	}
	if flags.Changed("desc") {
		p.Description = &habitDesc
	}
	if flags.Changed("icon") {
		p.Icon = &habitIcon
	}
	if flags.Changed("color") {
		p.Color = &habitColor
	}
	if flags.Changed("target") {
		p.TargetDays = &habitTarget
	}
	if p == (habit.Patch{}) {
		return errors.New("nothing to change: pass --name, --desc, --icon, --color or --target")
	}
	warnFallbacks(habitIcon, habitColor)

	v, err := s.tracker.UpdateHabit(h.ID, p)
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Updated %s %s", v.Icon.Glyph(), v.Name))
	fmt.Println(habitLine(v))
	return nil
}

func runRm(_ *cobra.Command, args []string) error {
	return runRmWithReader(bufio.NewReader(os.Stdin), args)
}

func runRmWithReader(reader *bufio.Reader, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	h, err := resolveHabit(s, args, "Delete which habit?")
	if err != nil {
		return err
	}
	if !rmYes && !confirm(reader, fmt.Sprintf("  Delete %q and its whole history?", h.Name)) {
		ui.Inf("Kept " + h.Name)
		return nil
	}
	if err := s.tracker.DeleteHabit(h.ID); err != nil {
		return err
	}
	ui.Ok("Deleted " + h.Name)
	return nil
}

// resolveHabit turns the optional habit argument into a habit. With no
// argument on a terminal it opens the picker.
func resolveHabit(s *session, args []string, title string) (habit.Habit, error) {
	if len(args) > 0 {
		return s.tracker.Resolve(strings.Join(args, " "))
	}
	if !tui.IsTTY() {
		return habit.Habit{}, errors.New("which habit? pass a name or id")
	}
	views, err := s.tracker.ListViews()
	if err != nil {
		return habit.Habit{}, err
	}
	if len(views) == 0 {
		return habit.Habit{}, errors.New("no habits yet; add one with `habit add`")
	}
	v, err := tui.PickHabit(title, views)
	if err != nil {
		return habit.Habit{}, err
	}
	if v == nil {
		return habit.Habit{}, errors.New("canceled")
	}
	return v.Habit, nil
}

// warnFallbacks tells the user when an icon or color will be replaced by
// the default.
func warnFallbacks(icon, color string) {
	if icon != "" && string(habit.ParseIcon(icon)) != strings.ToLower(strings.TrimSpace(icon)) {
		ui.Warn(fmt.Sprintf("unknown icon %q, using %s", icon, habit.DefaultIcon))
	}
	if color != "" && habit.ParseColor(color) == habit.DefaultColor &&
		!strings.EqualFold(strings.TrimPrefix(strings.TrimSpace(color), "#"), strings.TrimPrefix(string(habit.DefaultColor), "#")) {
		ui.Warn(fmt.Sprintf("invalid color %q, using %s", color, habit.DefaultColor))
	}
}

func confirm(reader *bufio.Reader, question string) bool {
	fmt.Printf("%s %s ", question, ui.Muted.Render("(y/N)"))
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	}
	return false
}

func doneLabel(done bool) string {
	if done {
		return ui.Success.Render("done")
	}
	return ui.Muted.Render("not yet")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
