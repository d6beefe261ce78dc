package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rnwolfe/habit/internal/calendar"
	"github.com/rnwolfe/habit/internal/habit"
)

func day(s string) calendar.Date { return calendar.MustParse(s) }

func sampleEntries() []habit.Entry {
	water := habit.Habit{ID: "w", Name: "Water", TargetDays: 30}
	read := habit.Habit{ID: "r", Name: "Read | Write", TargetDays: 21}
	return []habit.Entry{
		{Habit: water, Ledger: habit.NewLedger(day("2025-01-05"), day("2025-01-06"), day("2025-01-07"))},
		{Habit: read, Ledger: habit.NewLedger(day("2025-01-06"), day("2024-12-31"))},
	}
}

func TestBuild(t *testing.T) {
	d := Build("", sampleEntries(), day("2025-01-07"), 2025, time.January)

	if d.Title != "Habit report" || d.MonthName != "January 2025" || d.Days != 31 {
		t.Errorf("header fields = %q %q %d", d.Title, d.MonthName, d.Days)
	}
	if len(d.Habits) != 2 || d.Habits[0].Monthly.Completions != 3 || d.Habits[1].Monthly.Completions != 1 {
		t.Fatalf("rows = %+v", d.Habits)
	}
	if d.Habits[0].View.CurrentStreak != 3 {
		t.Errorf("Water streak = %d", d.Habits[0].View.CurrentStreak)
	}
	if d.ActiveDays != 3 {
		t.Errorf("ActiveDays = %d", d.ActiveDays)
	}
	if d.BestDay != day("2025-01-06") || d.BestDayCount != 2 {
		t.Errorf("best day = %s (%d)", d.BestDay, d.BestDayCount)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	d := Build("Sam's habits", sampleEntries(), day("2025-01-07"), 2025, time.January)
	if err := Render(&buf, d); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Sam's habits",
		"January 2025",
		"| Habits | 2 |",
		"| Water | 3/31 | 9.7% |",
		`Read \| Write`,
		"Best day: **2025-01-06** with 2 completed",
		"Active on 3 days of 31",
		"## Last 7 days",
		"- Tue 2025-01-07: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRender_NoHabits(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Build("", nil, day("2025-01-07"), 2025, time.January)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "No habits tracked yet.") {
		t.Errorf("empty report:\n%s", out)
	}
	if strings.Contains(out, "Best day") {
		t.Error("empty report should not name a best day")
	}
}

func TestBar(t *testing.T) {
	if got := bar(0); got != "▱▱▱▱▱▱▱▱▱▱" {
		t.Errorf("bar(0) = %q", got)
	}
	if got := bar(55); got != "▰▰▰▰▰▰▱▱▱▱" {
		t.Errorf("bar(55) = %q", got)
	}
	if got := bar(180); got != "▰▰▰▰▰▰▰▰▰▰" {
		t.Errorf("bar(180) = %q", got)
	}
}
