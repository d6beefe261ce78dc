package habit

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rnwolfe/habit/internal/calendar"
	"github.com/rnwolfe/habit/internal/logger"
)

// Repository is the persistence collaborator behind a Tracker.
//
// GetHabit, LoadEntry, UpdateHabit, DeleteHabit and ApplyDelta must return an
// error wrapping ErrUnknownHabit when id does not exist. LoadEntry reads the
// habit and its ledger as one consistent snapshot; ledgers returned by the
// repository must not change after being returned.
type Repository interface {
	InsertHabit(h Habit) error
	UpdateHabit(h Habit) error
	DeleteHabit(id string) error
	GetHabit(id string) (Habit, error)
	ListHabits() ([]Habit, error)
	LoadEntry(id string) (Entry, error)
	LoadEntries() ([]Entry, error)
	ApplyDelta(id string, d Delta) error
}

// ToggleResult reports what a completion change did and the habit's
// recomputed read model.
type ToggleResult struct {
	Transition Transition `json:"-"`
	Delta      Delta      `json:"delta"`
	Changed    bool       `json:"changed"`
	View       View       `json:"habit"`
}

// Tracker is the engine's entry point for a host application. It serializes
// all mutations of a single habit so that a toggle never acts on a stale
// ledger, while reads run concurrently against immutable snapshots.
type Tracker struct {
	repo  Repository
	clock calendar.Clock
	newID func() string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the clock that supplies "today".
func WithClock(c calendar.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithIDFunc sets the habit id generator.
func WithIDFunc(fn func() string) Option {
	return func(t *Tracker) { t.newID = fn }
}

// NewTracker creates a Tracker over repo. By default it uses the system clock
// and random UUIDs for ids.
func NewTracker(repo Repository, opts ...Option) *Tracker {
	t := &Tracker{
		repo:  repo,
		clock: calendar.SystemClock{},
		newID: uuid.NewString,
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Today returns the tracker's reference day.
func (t *Tracker) Today() calendar.Date {
	return calendar.Today(t.clock)
}

// lock acquires the per-habit mutex for id and returns its release func.
func (t *Tracker) lock(id string) func() {
	t.mu.Lock()
	m, ok := t.locks[id]
	if !ok {
		m = &sync.Mutex{}
		t.locks[id] = m
	}
	t.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// CreateHabit validates in and persists a new habit with an empty ledger.
func (t *Tracker) CreateHabit(in Input) (Habit, error) {
	h, err := New(t.newID(), in, t.Today())
	if err != nil {
		return Habit{}, err
	}
	if err := t.repo.InsertHabit(h); err != nil {
		return Habit{}, fmt.Errorf("creating habit: %w", err)
	}
	logger.Debug("habit created", "id", h.ID, "name", h.Name, "target_days", h.TargetDays)
	return h, nil
}

// UpdateHabit applies p to the habit and returns its refreshed view.
func (t *Tracker) UpdateHabit(id string, p Patch) (View, error) {
	defer t.lock(id)()

	h, l, err := t.load(id)
	if err != nil {
		return View{}, err
	}
	updated, err := h.Apply(p)
	if err != nil {
		return View{}, err
	}
	if err := t.repo.UpdateHabit(updated); err != nil {
		return View{}, fmt.Errorf("updating habit: %w", err)
	}
	logger.Debug("habit updated", "id", id)
	return Derive(updated, l, t.Today()), nil
}

// DeleteHabit removes the habit together with its ledger.
func (t *Tracker) DeleteHabit(id string) error {
	release := t.lock(id)
	err := t.repo.DeleteHabit(id)
	release()
	if err != nil {
		return err
	}

	t.mu.Lock()
	delete(t.locks, id)
	t.mu.Unlock()

	logger.Debug("habit deleted", "id", id)
	return nil
}

// ToggleCompletion flips the completion state of id on date and returns the
// change plus the recomputed view. On error nothing is written.
func (t *Tracker) ToggleCompletion(id string, date calendar.Date) (ToggleResult, error) {
	defer t.lock(id)()

	h, l, err := t.load(id)
	if err != nil {
		return ToggleResult{}, err
	}
	next, tr := Toggle(l, date)
	if err := t.repo.ApplyDelta(id, tr.Delta()); err != nil {
		return ToggleResult{}, fmt.Errorf("saving completion: %w", err)
	}
	logger.Debug("completion toggled", "id", id, "date", date, "completed", tr.Now)
	return ToggleResult{
		Transition: tr,
		Delta:      tr.Delta(),
		Changed:    true,
		View:       Derive(h, next, t.Today()),
	}, nil
}

// Complete marks id as completed on date. Completing an already completed
// day is a no-op and reports Changed=false.
func (t *Tracker) Complete(id string, date calendar.Date) (ToggleResult, error) {
	return t.set(id, date, true)
}

// Uncomplete clears the completion of id on date. Clearing a day that was not
// completed is a no-op and reports Changed=false.
func (t *Tracker) Uncomplete(id string, date calendar.Date) (ToggleResult, error) {
	return t.set(id, date, false)
}

func (t *Tracker) set(id string, date calendar.Date, want bool) (ToggleResult, error) {
	defer t.lock(id)()

	h, l, err := t.load(id)
	if err != nil {
		return ToggleResult{}, err
	}
	if l.Contains(date) == want {
		return ToggleResult{
			Transition: Transition{Date: date, Was: want, Now: want},
			Delta:      Delta{Date: date, Added: want},
			View:       Derive(h, l, t.Today()),
		}, nil
	}
	next, tr := Toggle(l, date)
	if err := t.repo.ApplyDelta(id, tr.Delta()); err != nil {
		return ToggleResult{}, fmt.Errorf("saving completion: %w", err)
	}
	logger.Debug("completion set", "id", id, "date", date, "completed", want)
	return ToggleResult{
		Transition: tr,
		Delta:      tr.Delta(),
		Changed:    true,
		View:       Derive(h, next, t.Today()),
	}, nil
}

// load reads a habit and its ledger as one snapshot.
func (t *Tracker) load(id string) (Habit, Ledger, error) {
	e, err := t.repo.LoadEntry(id)
	if err != nil {
		return Habit{}, Ledger{}, err
	}
	return e.Habit, e.Ledger, nil
}

// GetHabitView returns the read model of one habit as of today.
func (t *Tracker) GetHabitView(id string) (View, error) {
	h, l, err := t.load(id)
	if err != nil {
		return View{}, err
	}
	return Derive(h, l, t.Today()), nil
}

// ListViews returns the read model of every habit, in repository order.
func (t *Tracker) ListViews() ([]View, error) {
	entries, err := t.repo.LoadEntries()
	if err != nil {
		return nil, fmt.Errorf("loading habits: %w", err)
	}
	today := t.Today()
	views := make([]View, 0, len(entries))
	for _, e := range entries {
		views = append(views, Derive(e.Habit, e.Ledger, today))
	}
	return views, nil
}

// GetOverview computes the statistics snapshot over every habit as of today.
func (t *Tracker) GetOverview() (Snapshot, error) {
	entries, err := t.repo.LoadEntries()
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading habits: %w", err)
	}
	return Overview(entries, t.Today()), nil
}

// GetMonthlyOverview computes per-habit completion rates for a month.
func (t *Tracker) GetMonthlyOverview(year int, month time.Month) ([]MonthlyRate, error) {
	entries, err := t.repo.LoadEntries()
	if err != nil {
		return nil, fmt.Errorf("loading habits: %w", err)
	}
	return MonthlyOverview(entries, year, month), nil
}

// GetCalendarMonth returns which habits were completed on each day of a month.
func (t *Tracker) GetCalendarMonth(year int, month time.Month) (map[calendar.Date][]string, error) {
	entries, err := t.repo.LoadEntries()
	if err != nil {
		return nil, fmt.Errorf("loading habits: %w", err)
	}
	return CalendarMonth(entries, year, month), nil
}

// minPrefix is the shortest id prefix Resolve accepts.
const minPrefix = 4

// ErrAmbiguousHabit is returned by Resolve when a reference matches more than
// one habit.
var ErrAmbiguousHabit = errors.New("ambiguous habit reference")

// Resolve finds a habit by exact id, unique id prefix, or case-insensitive name.
func (t *Tracker) Resolve(ref string) (Habit, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Habit{}, fmt.Errorf("%w: empty reference", ErrUnknownHabit)
	}
	if h, err := t.repo.GetHabit(ref); err == nil {
		return h, nil
	} else if !errors.Is(err, ErrUnknownHabit) {
		return Habit{}, err
	}

	habits, err := t.repo.ListHabits()
	if err != nil {
		return Habit{}, fmt.Errorf("listing habits: %w", err)
	}

	var byName, byPrefix []Habit
	for _, h := range habits {
		if strings.EqualFold(h.Name, ref) {
			byName = append(byName, h)
		}
		if len(ref) >= minPrefix && strings.HasPrefix(h.ID, ref) {
			byPrefix = append(byPrefix, h)
		}
	}
	for _, matches := range [][]Habit{byName, byPrefix} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return Habit{}, fmt.Errorf("%w %q: matches %d habits", ErrAmbiguousHabit, ref, len(matches))
		}
	}
	return Habit{}, fmt.Errorf("%w %q", ErrUnknownHabit, ref)
}
