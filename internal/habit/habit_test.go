package habit

import (
	"errors"
	"strings"
	"testing"

	"github.com/rnwolfe/habit/internal/calendar"
)

func TestNew_Defaults(t *testing.T) {
	h, err := New("abc", Input{Name: "  Meditate  ", TargetDays: 30}, d("2025-01-01"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if h.Name != "Meditate" {
		t.Errorf("Name = %q, want trimmed", h.Name)
	}
	if h.TargetDays != 30 || h.Icon != DefaultIcon || h.Color != DefaultColor {
		t.Errorf("defaults not applied: %+v", h)
	}
	if h.CreatedAt != d("2025-01-01") {
		t.Errorf("CreatedAt = %s", h.CreatedAt)
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want string
	}{
		{"empty name", Input{Name: "   "}, "name must not be empty"},
		{"zero target", Input{Name: "Run"}, "at least 1"},
		{"negative target", Input{Name: "Run", TargetDays: -3}, "at least 1"},
		{"target too large", Input{Name: "Run", TargetDays: 5000}, "at most"},
		{"long name", Input{Name: strings.Repeat("x", 101)}, "name is too long"},
		{"long description", Input{Name: "Run", Description: strings.Repeat("y", 501)}, "description is too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("id", tt.in, d("2025-01-01"))
			if !errors.Is(err, ErrInvalidHabit) {
				t.Fatalf("err = %v, want ErrInvalidHabit", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestNew_MissingID(t *testing.T) {
	if _, err := New("", Input{Name: "Run", TargetDays: 7}, d("2025-01-01")); !errors.Is(err, ErrInvalidHabit) {
		t.Fatalf("err = %v", err)
	}
}

func TestNew_MissingCreationDate(t *testing.T) {
	_, err := New("abc", Input{Name: "Run", TargetDays: 7}, calendar.Date{})
	if !errors.Is(err, ErrInvalidHabit) {
		t.Fatalf("err = %v, want ErrInvalidHabit", err)
	}
	if !strings.Contains(err.Error(), "creation date") {
		t.Errorf("err = %q", err)
	}
}

func TestParseIcon(t *testing.T) {
	if got := ParseIcon("Book-Open"); got != IconBookOpen {
		t.Errorf("ParseIcon(Book-Open) = %q", got)
	}
	if got := ParseIcon("unicorn"); got != DefaultIcon {
		t.Errorf("unknown icon should fall back, got %q", got)
	}
	if got := ParseIcon(""); got != DefaultIcon {
		t.Errorf("empty icon should fall back, got %q", got)
	}
	for _, i := range Icons {
		if i.Label() == "" || i.Glyph() == "" {
			t.Errorf("icon %q lacks label or glyph", i)
		}
	}
	if Icon("nope").Label() != IconBrain.Label() {
		t.Error("Label of an unknown icon should use the default")
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]Color{
		"#10b981":  "#10B981",
		"ef4444":   "#EF4444",
		" #3B82F6": "#3B82F6",
		"red":      DefaultColor,
		"#12345":   DefaultColor,
		"#1234567": DefaultColor,
		"":         DefaultColor,
	}
	for in, want := range tests {
		if got := ParseColor(in); got != want {
			t.Errorf("ParseColor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestApply(t *testing.T) {
	h, err := New("id", Input{Name: "Read", TargetDays: 10, Icon: "book-open"}, d("2025-01-01"))
	if err != nil {
		t.Fatal(err)
	}

	name := "Read daily"
	target := 40
	got, err := h.Apply(Patch{Name: &name, TargetDays: &target})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got.Name != name || got.TargetDays != 40 || got.Icon != IconBookOpen {
		t.Errorf("Apply result = %+v", got)
	}
	if got.CreatedAt != h.CreatedAt || got.ID != h.ID {
		t.Error("Apply must not change id or creation date")
	}
	if h.Name != "Read" {
		t.Error("Apply modified its receiver")
	}

	zero := 0
	if _, err := h.Apply(Patch{TargetDays: &zero}); !errors.Is(err, ErrInvalidHabit) {
		t.Errorf("target 0 via patch: err = %v", err)
	}
	blank := " "
	if _, err := h.Apply(Patch{Name: &blank}); !errors.Is(err, ErrInvalidHabit) {
		t.Errorf("blank name via patch: err = %v", err)
	}
}
