// Package habit implements the completion and streak engine: habits, their
// completion ledgers, streak calculation, per-habit read models and cross-habit
// statistics.
//
// Everything except Tracker and Store is pure: functions take the ledger and a
// reference "today" explicitly and never touch a clock, disk or network.
package habit

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rnwolfe/habit/internal/calendar"
)

// ErrInvalidHabit is returned when habit fields fail validation
// (empty name, non-positive target days).
var ErrInvalidHabit = errors.New("invalid habit")

// ErrUnknownHabit is returned when an operation references a habit id that
// does not exist.
var ErrUnknownHabit = errors.New("unknown habit")

// Defaults applied when the caller leaves icon or color empty.
const (
	DefaultIcon  = IconBrain
	DefaultColor = Color("#3B82F6")
)

// Icon is one of a closed set of symbolic habit icons.
type Icon string

const (
	IconDroplets Icon = "droplets"
	IconBrain    Icon = "brain"
	IconBookOpen Icon = "book-open"
	IconDumbbell Icon = "dumbbell"
	IconHeart    Icon = "heart"
	IconCoffee   Icon = "coffee"
	IconUtensils Icon = "utensils"
	IconMoon     Icon = "moon"
	IconGamepad  Icon = "gamepad2"
	IconMusic    Icon = "music"
	IconCamera   Icon = "camera"
	IconPlane    Icon = "plane"
)

// Icons lists every recognized icon in display order.
var Icons = []Icon{
	IconDroplets, IconBrain, IconBookOpen, IconDumbbell, IconHeart, IconCoffee,
	IconUtensils, IconMoon, IconGamepad, IconMusic, IconCamera, IconPlane,
}

var iconLabels = map[Icon]string{
	IconDroplets: "Water",
	IconBrain:    "Meditation",
	IconBookOpen: "Reading",
	IconDumbbell: "Exercise",
	IconHeart:    "Health",
	IconCoffee:   "Morning Routine",
	IconUtensils: "Healthy Eating",
	IconMoon:     "Sleep",
	IconGamepad:  "Hobby",
	IconMusic:    "Practice",
	IconCamera:   "Creativity",
	IconPlane:    "Adventure",
}

var iconGlyphs = map[Icon]string{
	IconDroplets: "💧",
	IconBrain:    "🧠",
	IconBookOpen: "📖",
	IconDumbbell: "🏋",
	IconHeart:    "❤️",
	IconCoffee:   "☕",
	IconUtensils: "🍴",
	IconMoon:     "🌙",
	IconGamepad:  "🎮",
	IconMusic:    "🎵",
	IconCamera:   "📷",
	IconPlane:    "✈️",
}

// ParseIcon returns the icon named s, or DefaultIcon if s is not recognized.
func ParseIcon(s string) Icon {
	i := Icon(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := iconLabels[i]; ok {
		return i
	}
	return DefaultIcon
}

// Label returns the human name of the icon category.
func (i Icon) Label() string {
	if l, ok := iconLabels[i]; ok {
		return l
	}
	return iconLabels[DefaultIcon]
}

// Glyph returns an emoji for terminal display.
func (i Icon) Glyph() string {
	if g, ok := iconGlyphs[i]; ok {
		return g
	}
	return iconGlyphs[DefaultIcon]
}

// Color is a "#RRGGBB" value.
type Color string

var hexColor = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

// ParseColor normalizes s to "#RRGGBB" (upper case). Anything that is not six
// hex digits, with or without a leading '#', falls back to DefaultColor.
func ParseColor(s string) Color {
	s = strings.TrimSpace(s)
	if !hexColor.MatchString(s) {
		return DefaultColor
	}
	return Color("#" + strings.ToUpper(strings.TrimPrefix(s, "#")))
}

// Habit holds the static fields of a tracked habit.
type Habit struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        Icon          `json:"icon"`
	Color       Color         `json:"color"`
	TargetDays  int           `json:"target_days"`
	CreatedAt   calendar.Date `json:"created_at"`
}

// Input carries caller-supplied fields for a new habit.
type Input struct {
	Name        string `validate:"required,max=100"`
	Description string `validate:"max=500"`
	Icon        string
	Color       string
	TargetDays  int `validate:"gte=1,lte=3650"`
}

// Patch carries optional updates. Nil fields are left unchanged.
// CreatedAt is immutable and intentionally absent.
type Patch struct {
	Name        *string
	Description *string
	Icon        *string
	Color       *string
	TargetDays  *int
}

var validate = validator.New()

// New validates in and builds a Habit with the given id and creation date.
// TargetDays must be at least 1; hosts apply their own default beforehand.
func New(id string, in Input, createdAt calendar.Date) (Habit, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateInput(in); err != nil {
		return Habit{}, err
	}
	if id == "" {
		return Habit{}, fmt.Errorf("%w: missing id", ErrInvalidHabit)
	}
	if createdAt.IsZero() {
		return Habit{}, fmt.Errorf("%w: missing creation date", ErrInvalidHabit)
	}
	return Habit{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Icon:        ParseIcon(in.Icon),
		Color:       ParseColor(in.Color),
		TargetDays:  in.TargetDays,
		CreatedAt:   createdAt,
	}, nil
}

// Apply returns h with p applied. h itself is not modified.
func (h Habit) Apply(p Patch) (Habit, error) {
	in := Input{
		Name:        h.Name,
		Description: h.Description,
		Icon:        string(h.Icon),
		Color:       string(h.Color),
		TargetDays:  h.TargetDays,
	}
	if p.Name != nil {
		in.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		in.Description = strings.TrimSpace(*p.Description)
	}
	if p.Icon != nil {
		in.Icon = *p.Icon
	}
	if p.Color != nil {
		in.Color = *p.Color
	}
	if p.TargetDays != nil {
		in.TargetDays = *p.TargetDays
	}
	if err := validateInput(in); err != nil {
		return Habit{}, err
	}

	out := h
	out.Name = in.Name
	out.Description = in.Description
	out.Icon = ParseIcon(in.Icon)
	out.Color = ParseColor(in.Color)
	out.TargetDays = in.TargetDays
	return out, nil
}

func validateInput(in Input) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidHabit, err)
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Name":
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: name must not be empty", ErrInvalidHabit)
		}
		return fmt.Errorf("%w: name is too long (max %s characters)", ErrInvalidHabit, fe.Param())
	case "Description":
		return fmt.Errorf("%w: description is too long (max %s characters)", ErrInvalidHabit, fe.Param())
	case "TargetDays":
		if fe.Tag() == "gte" {
			return fmt.Errorf("%w: target days must be at least 1, got %d", ErrInvalidHabit, in.TargetDays)
		}
		return fmt.Errorf("%w: target days must be at most %s, got %d", ErrInvalidHabit, fe.Param(), in.TargetDays)
	}
	return fmt.Errorf("%w: %s failed %q", ErrInvalidHabit, fe.Field(), fe.Tag())
}
