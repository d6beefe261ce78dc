package tui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rnwolfe/habit/internal/calendar"
	"github.com/rnwolfe/habit/internal/habit"
	"github.com/rnwolfe/habit/internal/ui"
)

// ToggleFunc persists a completion toggle of habit id on day and returns the
// habit's recomputed view.
type ToggleFunc func(id string, day calendar.Date) (habit.View, error)

// toggledMsg carries the result of a ToggleFunc back into the model.
type toggledMsg struct {
	view habit.View
	day  calendar.Date
	err  error
}

// Checklist is the interactive daily check-off screen. Each toggle is
// written through immediately; the list shows the views returned by the
// engine rather than guessing the new state locally.
type Checklist struct {
	views  []habit.View
	shown  []habit.View
	toggle ToggleFunc

	today calendar.Date
	day   calendar.Date

	cursor    int
	filter    string
	filtering bool
	pending   map[string]bool

	status string
	err    error

	// Toggled counts successful toggles for the exit summary.
	Toggled int

	height   int
	quitting bool
}

// NewChecklist creates a Checklist for today.
func NewChecklist(views []habit.View, today calendar.Date, toggle ToggleFunc) *Checklist {
	m := &Checklist{
		views:   slices.Clone(views),
		toggle:  toggle,
		today:   today,
		day:     today,
		pending: make(map[string]bool),
		height:  24,
	}
	m.applyFilter()
	return m
}

// RunChecklist runs the checklist full screen and returns how many toggles
// were saved.
func RunChecklist(views []habit.View, today calendar.Date, toggle ToggleFunc) (int, error) {
	prog := tea.NewProgram(NewChecklist(views, today, toggle), tea.WithAltScreen())
	result, err := prog.Run()
	if err != nil {
		return 0, fmt.Errorf("checklist: %w", err)
	}
	return result.(*Checklist).Toggled, nil
}

// Day returns the day being checked off.
func (m *Checklist) Day() calendar.Date {
	return m.day
}

func (m *Checklist) Init() tea.Cmd {
	return nil
}

func (m *Checklist) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
	case toggledMsg:
		m.applyToggle(msg)
	case tea.KeyMsg:
		if m.filtering {
			return m.filterKey(msg)
		}
		return m.normalKey(msg)
	}
	return m, nil
}

func (m *Checklist) normalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.shown)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g":
		m.cursor = 0
	case "G":
		m.cursor = max(len(m.shown)-1, 0)
	case "h", "left":
		m.day = m.day.AddDays(-1)
	case "l", "right":
		if m.day.Before(m.today) {
			m.day = m.day.AddDays(1)
		}
	case "t":
		m.day = m.today
	case "/":
		m.filtering = true
		m.filter = ""
		m.applyFilter()
	case "x", " ", "enter":
		return m, m.toggleSelected()
	}
	return m, nil
}

func (m *Checklist) filterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filter = ""
	case "enter":
		m.filtering = false
		return m, nil
	case "backspace":
		if r := []rune(m.filter); len(r) > 0 {
			m.filter = string(r[:len(r)-1])
		}
	case " ":
		m.filter += " "
	default:
		if msg.Type == tea.KeyRunes {
			m.filter += string(msg.Runes)
		}
	}
	m.applyFilter()
	return m, nil
}

func (m *Checklist) toggleSelected() tea.Cmd {
	if len(m.shown) == 0 {
		return nil
	}
	id := m.shown[m.cursor].ID
	if m.pending[id] {
		return nil
	}
	m.pending[id] = true
	day, toggle := m.day, m.toggle
	return func() tea.Msg {
		v, err := toggle(id, day)
		if err != nil {
			// Keep the id so the pending flag can be cleared.
			v.ID = id
		}
		return toggledMsg{view: v, day: day, err: err}
	}
}

func (m *Checklist) applyToggle(msg toggledMsg) {
	delete(m.pending, msg.view.ID)
	if msg.err != nil {
		m.err = msg.err
		m.status = ""
		return
	}
	m.err = nil
	m.Toggled++
	for i := range m.views {
		if m.views[i].ID == msg.view.ID {
			m.views[i] = msg.view
		}
	}
	verb := "unchecked"
	if completedOn(msg.view, msg.day) {
		verb = "checked"
	}
	m.status = fmt.Sprintf("%s %s for %s", verb, msg.view.Name, msg.day)
	m.applyFilter()
}

func (m *Checklist) applyFilter() {
	m.shown = Rank(m.filter, m.views, func(v habit.View) string { return v.Name })
	if m.cursor >= len(m.shown) {
		m.cursor = max(len(m.shown)-1, 0)
	}
}

func completedOn(v habit.View, day calendar.Date) bool {
	_, found := slices.BinarySearchFunc(v.CompletedDates, day, calendar.Date.Compare)
	return found
}

func (m *Checklist) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	heading := "Today"
	if m.day != m.today {
		heading = m.day.Time().Format("Mon Jan 2")
	}
	done := 0
	for _, v := range m.views {
		if completedOn(v, m.day) {
			done++
		}
	}
	b.WriteString(ui.Title.Render("  "+ui.IconHabit+"Check-in · "+heading) +
		ui.Muted.Render(fmt.Sprintf("  %d/%d done", done, len(m.views))) + "\n\n")

	if len(m.shown) == 0 {
		msg := "No habits yet. Add one with `habit add`."
		if m.filter != "" {
			msg = "No matches. Press esc to clear the filter."
		}
		b.WriteString("  " + ui.Muted.Render(msg) + "\n")
	}

	vis := max(m.height-9, 3)
	offset := 0
	if m.cursor >= vis {
		offset = m.cursor - vis + 1
	}
	for i := offset; i < min(offset+vis, len(m.shown)); i++ {
		b.WriteString(m.renderRow(m.shown[i], i == m.cursor) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.filtering:
		prompt := lipgloss.NewStyle().Foreground(ui.Blue).Bold(true).Render("/")
		b.WriteString("  " + prompt + " " + m.filter + inputCursor() + "\n")
	case m.err != nil:
		b.WriteString("  " + ui.Error.Render(m.err.Error()) + "\n")
	case m.status != "":
		b.WriteString("  " + ui.Success.Render(m.status) + "\n")
	default:
		b.WriteString("\n")
	}

	help := "  j/k move · x toggle · h/l day · t today · / filter · q quit"
	if m.filtering {
		help = "  enter confirm · esc clear"
	}
	b.WriteString("\n" + ui.Muted.Render(help) + "\n")
	return b.String()
}

func (m *Checklist) renderRow(v habit.View, selected bool) string {
	pointer := "  "
	name := v.Name
	if selected {
		pointer = ui.Accent.Render(ui.IconArrow + " ")
		name = ui.Accent.Render(name)
	}
	box := ui.IconOpen
	if completedOn(v, m.day) {
		box = ui.IconDone
	}
	if m.pending[v.ID] {
		box = "⏳"
	}

	streak := ""
	if v.CurrentStreak > 0 {
		streak = ui.Streak.Render(fmt.Sprintf(" %s %d", ui.IconFire, v.CurrentStreak))
	}
	bar := ui.ProgressBar(v.RatePercent(), 12, lipgloss.Color(string(v.Color)))
	return fmt.Sprintf("  %s%s %s %s%s  %s %s", pointer, box, v.Icon.Glyph(), name, streak,
		bar, ui.Muted.Render(fmt.Sprintf("%d/%d", v.CompletionCount, v.TargetDays)))
}
