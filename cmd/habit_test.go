package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/habit/internal/config"
	"github.com/rnwolfe/habit/internal/habit"
)

func listViews(t *testing.T) []habit.View {
	t.Helper()
	listJSON = true
	defer func() { listJSON = false }()

	out := captureStdout(t, func() {
		mustRun(t, runList(nil, nil))
	})
	var views []habit.View
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decoding list output %q: %v", out, err)
	}
	return views
}

func addHabit(t *testing.T, name string) {
	t.Helper()
	captureStdout(t, func() {
		mustRun(t, runAdd(nil, []string{name}))
	})
}

func TestRunList_EmptyJSON(t *testing.T) {
	habitTestEnv(t, "2025-01-21")

	listJSON = true
	out := captureStdout(t, func() {
		mustRun(t, runList(nil, nil))
	})
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected empty JSON array, got %q", out)
	}
}

func TestRunList_EmptyHuman(t *testing.T) {
	habitTestEnv(t, "2025-01-21")

	out := captureStdout(t, func() {
		mustRun(t, runList(nil, nil))
	})
	if !strings.Contains(out, "No habits yet") {
		t.Fatalf("expected empty hint, got %q", out)
	}
}

func TestRunAdd_UsesConfigDefaults(t *testing.T) {
	habitTestEnv(t, "2025-01-21")

	cfg, _ := config.Load()
	cfg.Habits.DefaultTargetDays = 21
	cfg.Habits.DefaultIcon = "moon"
	mustRun(t, config.Save(cfg))

	out := captureStdout(t, func() {
		mustRun(t, runAdd(nil, []string{"Sleep", "by", "11"}))
	})
	if !strings.Contains(out, "Tracking") || !strings.Contains(out, "Sleep by 11") {
		t.Fatalf("unexpected add output: %q", out)
	}

	views := listViews(t)
	if len(views) != 1 {
		t.Fatalf("expected 1 habit, got %d", len(views))
	}
	v := views[0]
	if v.Name != "Sleep by 11" || v.TargetDays != 21 || v.Icon != habit.IconMoon {
		t.Errorf("defaults not applied: %+v", v.Habit)
	}
	if v.CreatedAt.String() != "2025-01-21" {
		t.Errorf("CreatedAt = %s, want 2025-01-21", v.CreatedAt)
	}
}

func TestRunAdd_FlagsOverrideDefaults(t *testing.T) {
	habitTestEnv(t, "2025-01-21")

	habitTarget = 10
	habitColor = "10b981"
	habitIcon = "book-open"
	habitDesc = "  ten pages  "
	addHabit(t, "Read")

	v := listViews(t)[0]
	if v.TargetDays != 10 || v.Color != "#10B981" || v.Icon != habit.IconBookOpen || v.Description != "ten pages" {
		t.Errorf("flags not applied: %+v", v.Habit)
	}
}

func TestRunAdd_RejectsNegativeTarget(t *testing.T) {
	habitTestEnv(t, "2025-01-21")

	habitTarget = -1
	err := runAdd(nil, []string{"Read"})
	if !errors.Is(err, habit.ErrInvalidHabit) {
		t.Fatalf("expected ErrInvalidHabit, got %v", err)
	}
}

func TestRunShow_JSON(t *testing.T) {
	habitTestEnv(t, "2025-01-21")
	addHabit(t, "Meditate")

	doneDay = dayValue{raw: "yesterday"}
	captureStdout(t, func() {
		mustRun(t, markHabit([]string{"meditate"}, &doneDay, doneMode))
	})

	showJSON = true
	out := captureStdout(t, func() {
		mustRun(t, runShow(nil, []string{"Meditate"}))
	})
	var v habit.View
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	if v.CurrentStreak != 1 || v.CompletedToday || v.CompletionCount != 1 {
		t.Errorf("unexpected metrics: %+v", v.Metrics)
	}
	if len(v.CompletedDates) != 1 || v.CompletedDates[0].String() != "2025-01-20" {
		t.Errorf("CompletedDates = %v", v.CompletedDates)
	}
}

func TestRunShow_Human(t *testing.T) {
	habitTestEnv(t, "2025-01-21")
	addHabit(t, "Meditate")

	out := captureStdout(t, func() {
		mustRun(t, runShow(nil, []string{"Meditate"}))
	})
	for _, want := range []string{"Meditate", "Meditation", "Streak", "0/30", "M T W T F S S"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestRunShow_NoArgsWithoutTTY(t *testing.T) {
	habitTestEnv(t, "2025-01-21")

	err := runShow(nil, nil)
	if err == nil || !strings.Contains(err.Error(), "which habit") {
		t.Fatalf("expected 'which habit' error, got %v", err)
	}
}

func TestRunShow_Unknown(t *testing.T) {
	habitTestEnv(t, "2025-01-21")

	err := runShow(nil, []string{"Juggle"})
	if !errors.Is(err, habit.ErrUnknownHabit) {
		t.Fatalf("expected ErrUnknownHabit, got %v", err)
	}
}

func editCommand(t *testing.T, set map[string]string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{}
	c.Flags().StringVarP(&habitDesc, "desc", "d", "", "")
	c.Flags().StringVarP(&habitIcon, "icon", "i", "", "")
	c.Flags().StringVarP(&habitColor, "color", "c", "", "")
	c.Flags().IntVarP(&habitTarget, "target", "t", 0, "")
	c.Flags().StringVarP(&habitName, "name", "n", "", "")
	for k, v := range set {
		if err := c.Flags().Set(k, v); err != nil {
			t.Fatalf("setting --%s: %v", k, err)
		}
	}
	return c
}

func TestRunEdit_ChangesOnlyGivenFields(t *testing.T) {
	habitTestEnv(t, "2025-01-21")
	habitDesc = "before"
	addHabit(t, "Run")
	habitDesc = ""

	c := editCommand(t, map[string]string{"target": "60", "name": "Run 5k"})
	captureStdout(t, func() {
		mustRun(t, runEdit(c, []string{"Run"}))
	})

	v := listViews(t)[0]
	if v.Name != "Run 5k" || v.TargetDays != 60 {
		t.Errorf("edit not applied: %+v", v.Habit)
	}
	if v.Description != "before" {
		t.Errorf("description changed to %q", v.Description)
	}
}

func TestRunEdit_NothingToChange(t *testing.T) {
	habitTestEnv(t, "2025-01-21")
	addHabit(t, "Run")

	err := runEdit(editCommand(t, nil), []string{"Run"})
	if err == nil || !strings.Contains(err.Error(), "nothing to change") {
		t.Fatalf("expected 'nothing to change', got %v", err)
	}
}

func TestRunRm_Confirmation(t *testing.T) {
	habitTestEnv(t, "2025-01-21")
	addHabit(t, "Stretch")

	out := captureStdout(t, func() {
		mustRun(t, runRmWithReader(bufio.NewReader(strings.NewReader("n\n")), []string{"Stretch"}))
	})
	if !strings.Contains(out, "Kept") {
		t.Errorf("expected habit to be kept, got %q", out)
	}
	if len(listViews(t)) != 1 {
		t.Fatal("habit deleted without confirmation")
	}

	captureStdout(t, func() {
		mustRun(t, runRmWithReader(bufio.NewReader(strings.NewReader("y\n")), []string{"Stretch"}))
	})
	if len(listViews(t)) != 0 {
		t.Fatal("habit not deleted after confirming")
	}
}

func TestRunRm_Yes(t *testing.T) {
	habitTestEnv(t, "2025-01-21")
	addHabit(t, "Stretch")

	rmYes = true
	captureStdout(t, func() {
		mustRun(t, runRmWithReader(bufio.NewReader(strings.NewReader("")), []string{"stretch"}))
	})
	if len(listViews(t)) != 0 {
		t.Fatal("habit not deleted with --yes")
	}
}

func TestHabitLine(t *testing.T) {
	h, err := habit.New("abcdef123456", habit.Input{Name: "Water", Icon: "droplets", TargetDays: 4}, mustDay(t, "2025-01-01"))
	if err != nil {
		t.Fatal(err)
	}
	today := mustDay(t, "2025-01-21")
	v := habit.Derive(h, habit.NewLedger(today, today.AddDays(-1)), today)

	line := habitLine(v)
	for _, want := range []string{"Water", "2/4", "abcdef12", "2"} {
		if !strings.Contains(line, want) {
			t.Errorf("habitLine missing %q: %q", want, line)
		}
	}
	if strings.Contains(line, "abcdef123") {
		t.Errorf("id should be shortened: %q", line)
	}
}
