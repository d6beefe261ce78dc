package backup

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rnwolfe/habit/internal/calendar"
	"github.com/rnwolfe/habit/internal/habit"
)

const testPassphrase = "correct horse battery staple"

func TestMain(m *testing.M) {
	workFactor = 10
	os.Exit(m.Run())
}

func sampleArchive(t *testing.T) Archive {
	t.Helper()
	h, err := habit.New("h1", habit.Input{Name: "Meditate", Icon: "brain", TargetDays: 21}, calendar.MustParse("2025-01-01"))
	if err != nil {
		t.Fatal(err)
	}
	rec := habit.Record{
		Habit:          h,
		CompletedDates: []calendar.Date{calendar.MustParse("2025-01-01"), calendar.MustParse("2025-01-02")},
	}
	return NewArchive([]habit.Record{rec}, time.Date(2025, 1, 3, 9, 30, 0, 0, time.UTC))
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	a := sampleArchive(t)

	var buf bytes.Buffer
	if err := Encrypt(&buf, a, testPassphrase); err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "-----BEGIN AGE ENCRYPTED FILE-----") {
		t.Fatalf("output is not armored: %q", buf.String()[:40])
	}
	if strings.Contains(buf.String(), "Meditate") {
		t.Fatal("plaintext leaked into the backup")
	}

	got, err := Decrypt(&buf, testPassphrase)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if got.Version != FormatVersion || !got.ExportedAt.Equal(a.ExportedAt) {
		t.Errorf("header = %d %v", got.Version, got.ExportedAt)
	}
	if len(got.Habits) != 1 || got.Habits[0].Habit != a.Habits[0].Habit {
		t.Fatalf("habits = %+v", got.Habits)
	}
	if got.Completions() != 2 {
		t.Errorf("Completions = %d", got.Completions())
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	var buf bytes.Buffer
	if err := Encrypt(&buf, sampleArchive(t), testPassphrase); err != nil {
		t.Fatal(err)
	}
	if _, err := Decrypt(&buf, "not it"); !errors.Is(err, ErrWrongPassphrase) {
		t.Fatalf("err = %v, want ErrWrongPassphrase", err)
	}
}

func TestDecryptGarbage(t *testing.T) {
	if _, err := Decrypt(strings.NewReader("just some text"), testPassphrase); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
}

func TestEmptyPassphrase(t *testing.T) {
	var buf bytes.Buffer
	if err := Encrypt(&buf, sampleArchive(t), "  "); !errors.Is(err, ErrEmptyPassphrase) {
		t.Errorf("Encrypt: %v", err)
	}
	if _, err := Decrypt(&buf, ""); !errors.Is(err, ErrEmptyPassphrase) {
		t.Errorf("Decrypt: %v", err)
	}
}

func TestDecryptRejectsInvalidHabits(t *testing.T) {
	a := sampleArchive(t)
	a.Habits[0].Name = ""
	var buf bytes.Buffer
	if err := Encrypt(&buf, a, testPassphrase); err != nil {
		t.Fatal(err)
	}
	if _, err := Decrypt(&buf, testPassphrase); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}

	a = sampleArchive(t)
	a.Habits = append(a.Habits, a.Habits[0])
	buf.Reset()
	if err := Encrypt(&buf, a, testPassphrase); err != nil {
		t.Fatal(err)
	}
	if _, err := Decrypt(&buf, testPassphrase); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("duplicate ids: err = %v", err)
	}

	a = sampleArchive(t)
	a.Version = 99
	buf.Reset()
	if err := Encrypt(&buf, a, testPassphrase); err != nil {
		t.Fatal(err)
	}
	if _, err := Decrypt(&buf, testPassphrase); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("future version: err = %v", err)
	}
}

func TestDecryptRejectsIncompleteRecords(t *testing.T) {
	tests := []struct {
		name string
		rec  habit.Record
	}{
		{"missing creation date", habit.Record{Habit: habit.Habit{ID: "x1", Name: "Run", TargetDays: 5}}},
		{"missing target", habit.Record{Habit: habit.Habit{ID: "x1", Name: "Run", CreatedAt: calendar.MustParse("2025-01-01")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArchive([]habit.Record{tt.rec}, time.Date(2025, 1, 3, 9, 30, 0, 0, time.UTC))
			var buf bytes.Buffer
			if err := Encrypt(&buf, a, testPassphrase); err != nil {
				t.Fatal(err)
			}
			if _, err := Decrypt(&buf, testPassphrase); !errors.Is(err, ErrCorrupt) {
				t.Fatalf("err = %v, want ErrCorrupt", err)
			}
		})
	}
}

func TestWriteAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "habits.age")
	a := sampleArchive(t)

	if err := WriteFile(path, a, testPassphrase); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("permissions = %o, want 600", perm)
	}

	got, err := ReadFile(path, testPassphrase)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got.Habits) != 1 || got.Habits[0].ID != "h1" {
		t.Errorf("habits = %+v", got.Habits)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.age"), testPassphrase); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
}

func TestNewArchive_EmptyRecords(t *testing.T) {
	a := NewArchive(nil, time.Now())
	if a.Habits == nil || len(a.Habits) != 0 {
		t.Fatal("habits should be an empty, non-nil slice")
	}
	var buf bytes.Buffer
	if err := Encrypt(&buf, a, testPassphrase); err != nil {
		t.Fatal(err)
	}
	got, err := Decrypt(&buf, testPassphrase)
	if err != nil || len(got.Habits) != 0 {
		t.Fatalf("got %+v, %v", got, err)
	}
}
