package cmd

import (
	"fmt"
	"os"

	"github.com/rnwolfe/habit/internal/calendar"
	"github.com/rnwolfe/habit/internal/config"
	"github.com/rnwolfe/habit/internal/habit"
	"github.com/rnwolfe/habit/internal/logger"
	"github.com/rnwolfe/habit/internal/store"
	"github.com/rnwolfe/habit/internal/ui"
	"github.com/rnwolfe/habit/internal/version"
	"github.com/spf13/cobra"
)

// todayEnv pins the reference day, like --today.
const todayEnv = "HABIT_TODAY"

var (
	todayFlag string
	noColor   bool
	debugLog  bool
)

var rootCmd = &cobra.Command{
	Use:               "habit",
	Short:             "Build habits one day at a time",
	Long:              `habit tracks daily habits, streaks and progress toward a target number of days.`,
	RunE:              runDashboard,
	PersistentPreRunE: setup,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "err", err)
		ui.Err(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&todayFlag, "today", "", "Treat this day (YYYY-MM-DD) as today")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Log debug output to stderr")
	_ = rootCmd.PersistentFlags().MarkHidden("today")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

// setup runs before every command: color profile and the log file.
func setup(_ *cobra.Command, _ []string) error {
	ui.ConfigureColor(noColor)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	paths := config.GetPaths()
	if err := logger.Init(logger.Config{Dir: paths.LogDir, Level: cfg.Log.Level, Debug: debugLog}); err != nil {
		// The CLI still works without a log file.
		ui.Warn(fmt.Sprintf("logging disabled: %v", err))
	}
	return nil
}

// clock returns the clock every command uses for "today".
func clock() (calendar.Clock, error) {
	if todayFlag != "" {
		d, err := calendar.Parse(todayFlag)
		if err != nil {
			return nil, fmt.Errorf("--today: %w", err)
		}
		return calendar.FixedDay(d), nil
	}
	c, err := calendar.ClockFromEnv(todayEnv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", todayEnv, err)
	}
	return c, nil
}

// session is the database, store and tracker for one command run.
type session struct {
	cfg     *config.Config
	db      *store.DB
	store   *habit.Store
	tracker *habit.Tracker
}

func openSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	c, err := clock()
	if err != nil {
		return nil, err
	}
	db, err := store.Open()
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	hs := habit.NewStore(db.Conn())
	return &session{
		cfg:     cfg,
		db:      db,
		store:   hs,
		tracker: habit.NewTracker(hs, habit.WithClock(c)),
	}, nil
}

func (s *session) Close() error {
	return s.db.Close()
}

// runDashboard shows the at-a-glance view when you just type `habit`.
func runDashboard(_ *cobra.Command, _ []string) error {
	if !config.Initialized() {
		fmt.Println(ui.Greet(""))
		fmt.Println()
		fmt.Println("  Looks like this is your first time. Let's set things up!")
		fmt.Println()
		fmt.Printf("  Run %s to get started.\n", ui.Accent.Render("habit init"))
		fmt.Println()
		return nil
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
	snap, err := s.tracker.GetOverview()
	if err != nil {
		return err
	}
	today := s.tracker.Today()

	fmt.Println(ui.Greet(s.cfg.User.Name))
	fmt.Println()
	ui.Kv(ui.IconCalendar+" Today", today.Time().Format("Monday, January 2"))
	if len(views) == 0 {
		fmt.Println()
		ui.Tip("`habit add \"Drink water\"` to start your first habit.")
		fmt.Println()
		return nil
	}
	ui.Kv(ui.IconDone+" Done", fmt.Sprintf("%d of %d (%s)", snap.TodayCompletions, snap.TotalHabits, ui.Pct(snap.TodayRate)))
	ui.Kv(ui.IconFire+" Streaks", fmt.Sprintf("%d active, longest %s", snap.ActiveStreaks, ui.Days(snap.LongestStreak)))
	ui.Kv("⚙️  habit", version.Short())

	fmt.Println()
	for _, v := range views {
		fmt.Println(habitLine(v))
	}

	if open := snap.TotalHabits - snap.TodayCompletions; open > 0 {
		ui.Tip(fmt.Sprintf("%d left for today. `habit check` to tick them off.", open))
	} else {
		ui.Tip("All done for today. Nice work!")
	}
	fmt.Println()
	return nil
}
