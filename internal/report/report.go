// Package report renders a monthly progress report as markdown.
package report

import (
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/rnwolfe/habit/internal/calendar"
	"github.com/rnwolfe/habit/internal/habit"
)

//go:embed templates/*
var templates embed.FS

var monthly = template.Must(
	template.New("monthly.md.tmpl").Funcs(funcs).ParseFS(templates, "templates/monthly.md.tmpl"),
)

var funcs = template.FuncMap{
	"pct":  func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	"days": plural,
	"bar":  bar,
	"cell": func(s string) string { return strings.ReplaceAll(s, "|", `\|`) },
}

// Row is one habit's line in the report.
type Row struct {
	View    habit.View
	Monthly habit.MonthlyRate
}

// Data is everything the report template reads.
type Data struct {
	Title     string
	AsOf      calendar.Date
	Year      int
	Month     time.Month
	MonthName string
	Days      int

	Overview habit.Snapshot
	Habits   []Row

	ActiveDays   int
	BestDay      calendar.Date
	BestDayCount int
}

// Build assembles report data for month from one consistent set of entries.
func Build(title string, entries []habit.Entry, today calendar.Date, year int, month time.Month) Data {
	if title == "" {
		title = "Habit report"
	}
	d := Data{
		Title:     title,
		AsOf:      today,
		Year:      year,
		Month:     month,
		MonthName: fmt.Sprintf("%s %d", month, year),
		Days:      calendar.DaysIn(year, month),
		Overview:  habit.Overview(entries, today),
	}

	rates := habit.MonthlyOverview(entries, year, month)
	for i, e := range entries {
		d.Habits = append(d.Habits, Row{View: habit.Derive(e.Habit, e.Ledger, today), Monthly: rates[i]})
	}

	cal := habit.CalendarMonth(entries, year, month)
	d.ActiveDays = len(cal)
	for _, day := range habit.SortedDays(cal) {
		if n := len(cal[day]); n > d.BestDayCount {
			d.BestDay, d.BestDayCount = day, n
		}
	}
	return d
}

// Render writes the markdown report for d to w.
func Render(w io.Writer, d Data) error {
	if err := monthly.Execute(w, d); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

func plural(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// bar draws pct (clamped to 0..100) as ten text cells.
func bar(pct float64) string {
	const width = 10
	n := int(pct/100*width + 0.5)
	n = max(0, min(width, n))
	return strings.Repeat("▰", n) + strings.Repeat("▱", width-n)
}
