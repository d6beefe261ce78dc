package habit

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rnwolfe/habit/internal/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := store.OpenPath(filepath.Join(t.TempDir(), "habit.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.Conn())
}

func mustHabit(t *testing.T, id, name, created string) Habit {
	t.Helper()
	h, err := New(id, Input{Name: name, Icon: "moon", Color: "#10b981", TargetDays: 21}, d(created))
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestStore_HabitRoundTrip(t *testing.T) {
	s := openTestStore(t)
	h := mustHabit(t, "h1", "Sleep early", "2025-01-05")
	if err := s.InsertHabit(h); err != nil {
		t.Fatalf("InsertHabit: %v", err)
	}

	got, err := s.GetHabit("h1")
	if err != nil {
		t.Fatalf("GetHabit: %v", err)
	}
	if got != h {
		t.Fatalf("GetHabit = %+v, want %+v", got, h)
	}

	got.Name = "Sleep by 11"
	got.TargetDays = 60
	if err := s.UpdateHabit(got); err != nil {
		t.Fatalf("UpdateHabit: %v", err)
	}
	again, _ := s.GetHabit("h1")
	if again.Name != "Sleep by 11" || again.TargetDays != 60 || again.CreatedAt != h.CreatedAt {
		t.Errorf("after update = %+v", again)
	}
}

func TestStore_UnknownHabit(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetHabit("nope"); !errors.Is(err, ErrUnknownHabit) {
		t.Errorf("GetHabit: %v", err)
	}
	if _, err := s.LoadLedger("nope"); !errors.Is(err, ErrUnknownHabit) {
		t.Errorf("LoadLedger: %v", err)
	}
	if err := s.DeleteHabit("nope"); !errors.Is(err, ErrUnknownHabit) {
		t.Errorf("DeleteHabit: %v", err)
	}
	if err := s.UpdateHabit(Habit{ID: "nope", Name: "x", TargetDays: 1}); !errors.Is(err, ErrUnknownHabit) {
		t.Errorf("UpdateHabit: %v", err)
	}
	if err := s.ApplyDelta("nope", Delta{Date: d("2025-01-01"), Added: true}); !errors.Is(err, ErrUnknownHabit) {
		t.Errorf("ApplyDelta: %v", err)
	}
}

func TestStore_LoadEntry(t *testing.T) {
	s := openTestStore(t)
	h := mustHabit(t, "h1", "Walk", "2025-01-01")
	if err := s.InsertHabit(h); err != nil {
		t.Fatal(err)
	}
	for _, day := range []string{"2025-01-02", "2025-01-04"} {
		if err := s.ApplyDelta("h1", Delta{Date: d(day), Added: true}); err != nil {
			t.Fatal(err)
		}
	}

	e, err := s.LoadEntry("h1")
	if err != nil {
		t.Fatalf("LoadEntry: %v", err)
	}
	if e.Habit != h {
		t.Errorf("habit = %+v, want %+v", e.Habit, h)
	}
	if !e.Ledger.Equal(ledgerOf("2025-01-02", "2025-01-04")) {
		t.Errorf("ledger = %v", e.Ledger.Dates())
	}

	if _, err := s.LoadEntry("nope"); !errors.Is(err, ErrUnknownHabit) {
		t.Errorf("unknown id: err = %v", err)
	}
}

func TestStore_ApplyDeltaAndLoad(t *testing.T) {
	s := openTestStore(t)
	if err := s.InsertHabit(mustHabit(t, "h1", "Walk", "2025-01-01")); err != nil {
		t.Fatal(err)
	}

	for _, day := range []string{"2025-01-02", "2025-01-03", "2025-01-02"} {
		if err := s.ApplyDelta("h1", Delta{Date: d(day), Added: true}); err != nil {
			t.Fatalf("ApplyDelta(%s): %v", day, err)
		}
	}
	l, err := s.LoadLedger("h1")
	if err != nil {
		t.Fatal(err)
	}
	if !l.Equal(ledgerOf("2025-01-02", "2025-01-03")) {
		t.Fatalf("ledger = %v", l.Dates())
	}

	if err := s.ApplyDelta("h1", Delta{Date: d("2025-01-02"), Added: false}); err != nil {
		t.Fatal(err)
	}
	// Removing an absent day is not an error.
	if err := s.ApplyDelta("h1", Delta{Date: d("2025-01-09"), Added: false}); err != nil {
		t.Fatal(err)
	}
	l, _ = s.LoadLedger("h1")
	if !l.Equal(ledgerOf("2025-01-03")) {
		t.Fatalf("ledger after removal = %v", l.Dates())
	}
}

func TestStore_DeleteCascades(t *testing.T) {
	s := openTestStore(t)
	if err := s.InsertHabit(mustHabit(t, "h1", "Walk", "2025-01-01")); err != nil {
		t.Fatal(err)
	}
	if err := s.ApplyDelta("h1", Delta{Date: d("2025-01-02"), Added: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteHabit("h1"); err != nil {
		t.Fatal(err)
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM habit_completions`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("%d completions survived delete", n)
	}
}

func TestStore_LoadEntriesOrder(t *testing.T) {
	s := openTestStore(t)
	for _, h := range []Habit{
		mustHabit(t, "b", "Second", "2025-01-02"),
		mustHabit(t, "a", "First", "2025-01-01"),
		mustHabit(t, "c", "Third", "2025-01-02"),
	} {
		if err := s.InsertHabit(h); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.ApplyDelta("c", Delta{Date: d("2025-01-03"), Added: true}); err != nil {
		t.Fatal(err)
	}

	entries, err := s.LoadEntries()
	if err != nil {
		t.Fatal(err)
	}
	var ids string
	for _, e := range entries {
		ids += e.Habit.ID
	}
	if ids != "abc" {
		t.Errorf("order = %q, want abc", ids)
	}
	if entries[2].Ledger.Len() != 1 || entries[0].Ledger.Len() != 0 {
		t.Errorf("ledgers not attached to the right habits")
	}
}

func TestStore_RecordsAndRestore(t *testing.T) {
	src := openTestStore(t)
	if err := src.InsertHabit(mustHabit(t, "h1", "Walk", "2025-01-01")); err != nil {
		t.Fatal(err)
	}
	for _, day := range []string{"2025-01-01", "2025-01-02"} {
		if err := src.ApplyDelta("h1", Delta{Date: d(day), Added: true}); err != nil {
			t.Fatal(err)
		}
	}
	records, err := src.Records()
	if err != nil {
		t.Fatal(err)
	}

	dst := openTestStore(t)
	existing := mustHabit(t, "h1", "Old name", "2025-01-01")
	if err := dst.InsertHabit(existing); err != nil {
		t.Fatal(err)
	}
	if err := dst.ApplyDelta("h1", Delta{Date: d("2024-12-31"), Added: true}); err != nil {
		t.Fatal(err)
	}
	if err := dst.InsertHabit(mustHabit(t, "h2", "Untouched", "2025-01-01")); err != nil {
		t.Fatal(err)
	}

	if err := dst.Restore(records); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	h, _ := dst.GetHabit("h1")
	if h.Name != "Walk" {
		t.Errorf("restored name = %q", h.Name)
	}
	l, _ := dst.LoadLedger("h1")
	if !l.Equal(ledgerOf("2025-01-01", "2025-01-02")) {
		t.Errorf("restored ledger = %v", l.Dates())
	}
	if _, err := dst.GetHabit("h2"); err != nil {
		t.Errorf("habit absent from the backup was removed: %v", err)
	}
}
