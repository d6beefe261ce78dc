package habit

import (
	"slices"
	"time"

	"github.com/rnwolfe/habit/internal/calendar"
)

// Ledger is the set of days on which a habit was completed.
//
// A Ledger is immutable: Toggle returns a new Ledger and leaves the receiver
// untouched, so a snapshot handed to a reader can never change under it.
// The zero value is an empty ledger.
type Ledger struct {
	dates map[calendar.Date]struct{}
}

// NewLedger builds a ledger from dates. Duplicates collapse.
func NewLedger(dates ...calendar.Date) Ledger {
	m := make(map[calendar.Date]struct{}, len(dates))
	for _, d := range dates {
		m[d] = struct{}{}
	}
	return Ledger{dates: m}
}

// Len returns the number of distinct completed days.
func (l Ledger) Len() int {
	return len(l.dates)
}

// Contains reports whether d is completed.
func (l Ledger) Contains(d calendar.Date) bool {
	_, ok := l.dates[d]
	return ok
}

// Dates returns the completed days in ascending order.
func (l Ledger) Dates() []calendar.Date {
	out := make([]calendar.Date, 0, len(l.dates))
	for d := range l.dates {
		out = append(out, d)
	}
	slices.SortFunc(out, calendar.Date.Compare)
	return out
}

// Last returns the most recent completed day, or false if the ledger is empty.
func (l Ledger) Last() (calendar.Date, bool) {
	var last calendar.Date
	found := false
	for d := range l.dates {
		if !found || d.After(last) {
			last = d
			found = true
		}
	}
	return last, found
}

// Equal reports whether l and other hold the same days.
func (l Ledger) Equal(other Ledger) bool {
	if len(l.dates) != len(other.dates) {
		return false
	}
	for d := range l.dates {
		if !other.Contains(d) {
			return false
		}
	}
	return true
}

// CountInMonth returns how many completed days fall in month of year.
func (l Ledger) CountInMonth(year int, month time.Month) int {
	n := 0
	for d := range l.dates {
		if d.InMonth(year, month) {
			n++
		}
	}
	return n
}

// Transition describes the effect of one toggle on one day.
type Transition struct {
	Date calendar.Date
	Was  bool
	Now  bool
}

// Delta is the persisted form of a Transition: the day and whether it was
// added to (true) or removed from (false) the ledger.
type Delta struct {
	Date  calendar.Date `json:"date"`
	Added bool          `json:"added"`
}

// Delta converts t into the change a store has to apply.
func (t Transition) Delta() Delta {
	return Delta{Date: t.Date, Added: t.Now}
}

// Toggle flips membership of d. If d was completed it is removed, otherwise
// it is added. The input ledger is never modified; two toggles of the same
// day net to the starting set.
func Toggle(l Ledger, d calendar.Date) (Ledger, Transition) {
	was := l.Contains(d)
	next := make(map[calendar.Date]struct{}, len(l.dates)+1)
	for k := range l.dates {
		next[k] = struct{}{}
	}
	if was {
		delete(next, d)
	} else {
		next[d] = struct{}{}
	}
	return Ledger{dates: next}, Transition{Date: d, Was: was, Now: !was}
}

// Apply returns l with delta applied. Applying a delta that is already in
// effect is a no-op.
func (l Ledger) Apply(delta Delta) Ledger {
	if l.Contains(delta.Date) == delta.Added {
		return l
	}
	next, _ := Toggle(l, delta.Date)
	return next
}
