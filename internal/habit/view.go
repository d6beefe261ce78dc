package habit

import (
	"github.com/rnwolfe/habit/internal/calendar"
)

// Metrics are derived from a ledger and a target. They are never stored.
type Metrics struct {
	CompletionCount int `json:"completion_count"`
	CurrentStreak   int `json:"current_streak"`
	LongestStreak   int `json:"longest_streak"`
	// CompletionRate is CompletionCount / TargetDays; it is not clamped and
	// exceeds 1 once a habit runs past its goal.
	CompletionRate float64 `json:"completion_rate"`
	DaysRemaining  int     `json:"days_remaining"`
	CompletedToday bool    `json:"completed_today"`
}

// View is the read model for one habit: its static fields plus metrics
// computed against a reference day.
type View struct {
	Habit
	Metrics
	CompletedDates []calendar.Date `json:"completed_dates"`
	AsOf           calendar.Date   `json:"as_of"`
}

// CompletionRate returns count / target, or 0 when target is not positive.
func CompletionRate(count, target int) float64 {
	if target <= 0 {
		return 0
	}
	return float64(count) / float64(target)
}

// Derive builds the read model for h from its ledger as of today.
func Derive(h Habit, l Ledger, today calendar.Date) View {
	streak := ComputeStreak(l, today)
	count := l.Len()
	remaining := h.TargetDays - count
	if remaining < 0 {
		remaining = 0
	}
	return View{
		Habit: h,
		Metrics: Metrics{
			CompletionCount: count,
			CurrentStreak:   streak.Current,
			LongestStreak:   streak.Longest,
			CompletionRate:  CompletionRate(count, h.TargetDays),
			DaysRemaining:   remaining,
			CompletedToday:  l.Contains(today),
		},
		CompletedDates: l.Dates(),
		AsOf:           today,
	}
}

// RatePercent returns the completion rate as a percentage.
func (v View) RatePercent() float64 {
	return v.CompletionRate * 100
}
