package habit

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rnwolfe/habit/internal/calendar"
)

// Store is the SQLite-backed Repository.
type Store struct {
	db *sql.DB
}

// NewStore creates a new habit store over an open database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const habitColumns = `id, name, description, icon, color, target_days, created_at`

// InsertHabit stores a new habit.
func (s *Store) InsertHabit(h Habit) error {
	_, err := s.db.Exec(
		`INSERT INTO habits (`+habitColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Name, h.Description, string(h.Icon), string(h.Color), h.TargetDays, h.CreatedAt.String(),
	)
	if err != nil {
		return fmt.Errorf("inserting habit: %w", err)
	}
	return nil
}

// UpdateHabit overwrites the mutable fields of an existing habit.
func (s *Store) UpdateHabit(h Habit) error {
	res, err := s.db.Exec(
		`UPDATE habits SET name = ?, description = ?, icon = ?, color = ?, target_days = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		h.Name, h.Description, string(h.Icon), string(h.Color), h.TargetDays, h.ID,
	)
	if err != nil {
		return fmt.Errorf("updating habit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w %q", ErrUnknownHabit, h.ID)
	}
	return nil
}

// DeleteHabit removes a habit; its completions go with it (ON DELETE CASCADE).
func (s *Store) DeleteHabit(id string) error {
	res, err := s.db.Exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting habit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w %q", ErrUnknownHabit, id)
	}
	return nil
}

// GetHabit returns a single habit by id.
func (s *Store) GetHabit(id string) (Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Habit{}, fmt.Errorf("%w %q", ErrUnknownHabit, id)
	}
	if err != nil {
		return Habit{}, fmt.Errorf("getting habit %q: %w", id, err)
	}
	return h, nil
}

// ListHabits returns all habits, oldest first.
func (s *Store) ListHabits() ([]Habit, error) {
	return listHabits(s.db)
}

// LoadLedger returns the completion ledger of one habit.
func (s *Store) LoadLedger(id string) (Ledger, error) {
	if _, err := s.GetHabit(id); err != nil {
		return Ledger{}, err
	}
	return loadLedger(s.db, id)
}

// LoadEntry returns one habit and its ledger, read inside one transaction.
func (s *Store) LoadEntry(id string) (Entry, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Entry{}, err
	}
	defer tx.Rollback()

	h, err := scanHabit(tx.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w %q", ErrUnknownHabit, id)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("getting habit %q: %w", id, err)
	}
	l, err := loadLedger(tx, id)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Habit: h, Ledger: l}, nil
}

// LoadEntries returns every habit with its ledger, read inside one
// transaction so the result is a consistent snapshot.
func (s *Store) LoadEntries() ([]Entry, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	habits, err := listHabits(tx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(`SELECT habit_id, completion_date FROM habit_completions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byHabit := make(map[string][]calendar.Date, len(habits))
	for rows.Next() {
		var id, ds string
		if err := rows.Scan(&id, &ds); err != nil {
			return nil, err
		}
		d, err := calendar.Parse(ds)
		if err != nil {
			return nil, fmt.Errorf("habit %q: stored completion: %w", id, err)
		}
		byHabit[id] = append(byHabit[id], d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(habits))
	for _, h := range habits {
		entries = append(entries, Entry{Habit: h, Ledger: NewLedger(byHabit[h.ID]...)})
	}
	return entries, nil
}

// ApplyDelta inserts or deletes a single completion row.
func (s *Store) ApplyDelta(id string, d Delta) error {
	if _, err := s.GetHabit(id); err != nil {
		return err
	}
	var err error
	if d.Added {
		_, err = s.db.Exec(
			`INSERT OR IGNORE INTO habit_completions (habit_id, completion_date) VALUES (?, ?)`,
			id, d.Date.String(),
		)
	} else {
		_, err = s.db.Exec(
			`DELETE FROM habit_completions WHERE habit_id = ? AND completion_date = ?`,
			id, d.Date.String(),
		)
	}
	if err != nil {
		return fmt.Errorf("applying completion %s: %w", d.Date, err)
	}
	return nil
}

// Record is a habit together with its full completion history, the unit of
// export and import.
type Record struct {
	Habit
	CompletedDates []calendar.Date `json:"completed_dates"`
}

// Records returns every habit with its history.
func (s *Store) Records() ([]Record, error) {
	entries, err := s.LoadEntries()
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(entries))
	for _, e := range entries {
		out = append(out, Record{Habit: e.Habit, CompletedDates: e.Ledger.Dates()})
	}
	return out, nil
}

// Restore upserts the given habits and replaces their ledgers, all in one
// transaction. Habits not mentioned in records are left alone.
func (s *Store) Restore(records []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range records {
		h := r.Habit
		if _, err := tx.Exec(
			`INSERT INTO habits (`+habitColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   name = excluded.name,
			   description = excluded.description,
			   icon = excluded.icon,
			   color = excluded.color,
			   target_days = excluded.target_days,
			   updated_at = CURRENT_TIMESTAMP`,
			h.ID, h.Name, h.Description, string(h.Icon), string(h.Color), h.TargetDays, h.CreatedAt.String(),
		); err != nil {
			return fmt.Errorf("restoring habit %q: %w", h.ID, err)
		}
		if _, err := tx.Exec(`DELETE FROM habit_completions WHERE habit_id = ?`, h.ID); err != nil {
			return fmt.Errorf("clearing completions of %q: %w", h.ID, err)
		}
		for _, d := range NewLedger(r.CompletedDates...).Dates() {
			if _, err := tx.Exec(
				`INSERT INTO habit_completions (habit_id, completion_date) VALUES (?, ?)`,
				h.ID, d.String(),
			); err != nil {
				return fmt.Errorf("restoring completion %s of %q: %w", d, h.ID, err)
			}
		}
	}
	return tx.Commit()
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (Habit, error) {
	var h Habit
	var icon, color, created string
	if err := row.Scan(&h.ID, &h.Name, &h.Description, &icon, &color, &h.TargetDays, &created); err != nil {
		return Habit{}, err
	}
	h.Icon = ParseIcon(icon)
	h.Color = ParseColor(color)
	d, err := calendar.Parse(created)
	if err != nil {
		return Habit{}, fmt.Errorf("habit %q: created_at: %w", h.ID, err)
	}
	h.CreatedAt = d
	return h, nil
}

func listHabits(q querier) ([]Habit, error) {
	rows, err := q.Query(`SELECT ` + habitColumns + ` FROM habits ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func loadLedger(q querier, id string) (Ledger, error) {
	rows, err := q.Query(`SELECT completion_date FROM habit_completions WHERE habit_id = ?`, id)
	if err != nil {
		return Ledger{}, err
	}
	defer rows.Close()

	var dates []calendar.Date
	for rows.Next() {
		var ds string
		if err := rows.Scan(&ds); err != nil {
			return Ledger{}, err
		}
		d, err := calendar.Parse(ds)
		if err != nil {
			return Ledger{}, fmt.Errorf("habit %q: stored completion: %w", id, err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return Ledger{}, err
	}
	return NewLedger(dates...), nil
}
