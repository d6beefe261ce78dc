package habit

import (
	"github.com/rnwolfe/habit/internal/calendar"
)

// StreakInfo holds current and longest streak values.
type StreakInfo struct {
	Current int `json:"current_streak"`
	Longest int `json:"longest_streak"`
}

// Run is a maximal stretch of consecutive completed days.
type Run struct {
	Start  calendar.Date
	End    calendar.Date
	Length int
}

// Runs partitions the ledger into maximal runs of consecutive days, oldest
// first.
func Runs(l Ledger) []Run {
	dates := l.Dates()
	if len(dates) == 0 {
		return nil
	}

	var runs []Run
	cur := Run{Start: dates[0], End: dates[0], Length: 1}
	for _, d := range dates[1:] {
		if calendar.IsConsecutive(cur.End, d) {
			cur.End = d
			cur.Length++
			continue
		}
		runs = append(runs, cur)
		cur = Run{Start: d, End: d, Length: 1}
	}
	return append(runs, cur)
}

// ComputeStreak derives the current and longest streak from the full ledger.
//
// The longest streak is the longest run ever recorded. The current streak is
// the length of the run ending at the most recent completion, but only while
// that completion is today or yesterday; a habit not yet checked off today
// keeps yesterday's streak alive. Any gap of two or more days resets it to 0,
// and so does a most recent completion that lies after today.
//
// Both values are recomputed from scratch on every call so that backfilled and
// removed days anywhere in history are reflected correctly.
func ComputeStreak(l Ledger, today calendar.Date) StreakInfo {
	runs := Runs(l)
	if len(runs) == 0 {
		return StreakInfo{}
	}

	var info StreakInfo
	for _, r := range runs {
		if r.Length > info.Longest {
			info.Longest = r.Length
		}
	}

	last := runs[len(runs)-1]
	if gap := calendar.DaysBetween(last.End, today); gap == 0 || gap == 1 {
		info.Current = last.Length
	}
	return info
}
