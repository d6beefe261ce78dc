package habit

import (
	"slices"
	"time"

	"github.com/rnwolfe/habit/internal/calendar"
)

// Entry pairs a habit with its ledger. Statistics are computed over a slice
// of entries taken as one consistent snapshot.
type Entry struct {
	Habit  Habit
	Ledger Ledger
}

// DayPerformance is the number of habits completed on one day.
type DayPerformance struct {
	Date        calendar.Date `json:"date"`
	Day         string        `json:"day"`
	Completions int           `json:"completions"`
}

// Snapshot is the cross-habit overview as of one day.
// Percentages are in the range 0..100 (AvgCompletionRate may exceed 100 when
// habits run past their targets).
type Snapshot struct {
	AsOf               calendar.Date    `json:"as_of"`
	TotalHabits        int              `json:"total_habits"`
	TodayCompletions   int              `json:"today_completions"`
	ActiveStreaks      int              `json:"active_streaks"`
	TotalCurrentStreak int              `json:"total_current_streak"`
	LongestStreak      int              `json:"longest_streak"`
	AvgCompletionRate  float64          `json:"avg_completion_rate"`
	TotalCompletions   int              `json:"total_completions"`
	TodayRate          float64          `json:"today_rate"`
	ConsistencyScore   float64          `json:"consistency_score"`
	ThisWeek           []DayPerformance `json:"this_week_performance"`
}

// WeekDays is the length of the trailing performance window.
const WeekDays = 7

// Overview computes the statistics snapshot for entries as of today.
// With no habits every ratio is 0.
func Overview(entries []Entry, today calendar.Date) Snapshot {
	s := Snapshot{
		AsOf:        today,
		TotalHabits: len(entries),
		ThisWeek:    WeekPerformance(entries, today),
	}

	var rateSum float64
	for _, e := range entries {
		streak := ComputeStreak(e.Ledger, today)
		count := e.Ledger.Len()

		s.TotalCompletions += count
		s.TotalCurrentStreak += streak.Current
		if streak.Current > 0 {
			s.ActiveStreaks++
		}
		if streak.Longest > s.LongestStreak {
			s.LongestStreak = streak.Longest
		}
		if e.Ledger.Contains(today) {
			s.TodayCompletions++
		}
		rateSum += CompletionRate(count, e.Habit.TargetDays)
	}

	s.AvgCompletionRate = percent(rateSum, float64(s.TotalHabits))
	s.TodayRate = percent(float64(s.TodayCompletions), float64(s.TotalHabits))
	s.ConsistencyScore = percent(float64(s.ActiveStreaks), float64(s.TotalHabits))
	return s
}

// WeekPerformance returns one entry per day for the WeekDays days ending at
// today, oldest first.
func WeekPerformance(entries []Entry, today calendar.Date) []DayPerformance {
	out := make([]DayPerformance, 0, WeekDays)
	for offset := WeekDays - 1; offset >= 0; offset-- {
		d := today.AddDays(-offset)
		n := 0
		for _, e := range entries {
			if e.Ledger.Contains(d) {
				n++
			}
		}
		out = append(out, DayPerformance{
			Date:        d,
			Day:         d.Weekday().String()[:3],
			Completions: n,
		})
	}
	return out
}

// MonthlyRate is one habit's completion rate within a calendar month.
type MonthlyRate struct {
	HabitID     string  `json:"habit_id"`
	Name        string  `json:"name"`
	Completions int     `json:"completions"`
	Days        int     `json:"days"`
	Rate        float64 `json:"rate"`
}

// MonthlyOverview returns, per habit and in input order, the share of days in
// the month on which the habit was completed, as a percentage. It does not
// depend on the habit's target.
func MonthlyOverview(entries []Entry, year int, month time.Month) []MonthlyRate {
	days := calendar.DaysIn(year, month)
	out := make([]MonthlyRate, 0, len(entries))
	for _, e := range entries {
		n := e.Ledger.CountInMonth(year, month)
		out = append(out, MonthlyRate{
			HabitID:     e.Habit.ID,
			Name:        e.Habit.Name,
			Completions: n,
			Days:        days,
			Rate:        percent(float64(n), float64(days)),
		})
	}
	return out
}

// RatesByHabit indexes monthly rates by habit id.
func RatesByHabit(rates []MonthlyRate) map[string]float64 {
	out := make(map[string]float64, len(rates))
	for _, r := range rates {
		out[r.HabitID] = r.Rate
	}
	return out
}

// CalendarMonth maps each day of the month that has at least one completion
// to the ids of the habits completed that day, in input order.
func CalendarMonth(entries []Entry, year int, month time.Month) map[calendar.Date][]string {
	out := make(map[calendar.Date][]string)
	for _, e := range entries {
		for _, d := range e.Ledger.Dates() {
			if d.InMonth(year, month) {
				out[d] = append(out[d], e.Habit.ID)
			}
		}
	}
	return out
}

// SortedDays returns the keys of a CalendarMonth result in ascending order.
func SortedDays(m map[calendar.Date][]string) []calendar.Date {
	out := make([]calendar.Date, 0, len(m))
	for d := range m {
		out = append(out, d)
	}
	slices.SortFunc(out, calendar.Date.Compare)
	return out
}

func percent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}
