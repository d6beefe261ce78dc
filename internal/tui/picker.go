package tui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/rnwolfe/habit/internal/habit"
	"github.com/rnwolfe/habit/internal/ui"
)

// Picker is a fuzzy-search habit selector.
type Picker struct {
	title string

	views    []habit.View
	filtered []habit.View
	query    string
	cursor   int
	offset   int
	chosen   *habit.View
	canceled bool

	height int
}

// NewPicker creates a Picker over views.
func NewPicker(title string, views []habit.View) *Picker {
	p := &Picker{title: title, views: views, height: 24}
	p.applyFilter()
	return p
}

// PickHabit shows a picker and returns the chosen habit, or nil if the user
// canceled.
func PickHabit(title string, views []habit.View) (*habit.View, error) {
	prog := tea.NewProgram(NewPicker(title, views), tea.WithAltScreen())
	m, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	p := m.(*Picker)
	if p.canceled {
		return nil, nil
	}
	return p.chosen, nil
}

// IsTTY returns true when stdin is connected to a terminal.
func IsTTY() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func (p *Picker) Init() tea.Cmd {
	return nil
}

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			p.canceled = true
			return p, tea.Quit
		case "enter":
			if len(p.filtered) > 0 {
				v := p.filtered[p.cursor]
				p.chosen = &v
			}
			return p, tea.Quit
		case "up", "ctrl+p":
			if p.cursor > 0 {
				p.cursor--
				if p.cursor < p.offset {
					p.offset = p.cursor
				}
			}
		case "down", "ctrl+n":
			if p.cursor < len(p.filtered)-1 {
				p.cursor++
				if vis := p.visible(); p.cursor >= p.offset+vis {
					p.offset = p.cursor - vis + 1
				}
			}
		case "backspace":
			if r := []rune(p.query); len(r) > 0 {
				p.query = string(r[:len(r)-1])
				p.applyFilter()
			}
		case " ":
			p.query += " "
			p.applyFilter()
		default:
			if msg.Type == tea.KeyRunes {
				p.query += string(msg.Runes)
				p.applyFilter()
			}
		}
	}
	return p, nil
}

func (p *Picker) View() string {
	var b strings.Builder
	if p.title != "" {
		b.WriteString("  " + ui.Title.Render(p.title) + "\n\n")
	}
	prompt := lipgloss.NewStyle().Foreground(ui.Blue).Bold(true).Render("> ")
	b.WriteString("  " + prompt + p.query + inputCursor() + "\n\n")

	if len(p.filtered) == 0 {
		b.WriteString("  " + ui.Muted.Render("No matching habits") + "\n")
	}
	end := min(p.offset+p.visible(), len(p.filtered))
	for i := p.offset; i < end; i++ {
		v := p.filtered[i]
		pointer := "  "
		name := v.Name
		if i == p.cursor {
			pointer = ui.Accent.Render(ui.IconArrow + " ")
			name = ui.Accent.Render(name)
		}
		detail := ui.Muted.Render(fmt.Sprintf("  %s · %d/%d days", v.ID[:min(8, len(v.ID))], v.CompletionCount, v.TargetDays))
		b.WriteString(fmt.Sprintf("  %s%s %s%s\n", pointer, v.Icon.Glyph(), name, detail))
	}

	b.WriteString("\n" + ui.Muted.Render(fmt.Sprintf("  %d/%d · ↑↓ move · enter select · esc cancel", len(p.filtered), len(p.views))) + "\n")
	return b.String()
}

func (p *Picker) visible() int {
	return max(p.height-6, 3)
}

func (p *Picker) applyFilter() {
	p.filtered = Rank(p.query, p.views, func(v habit.View) string { return v.Name })
	p.cursor = 0
	p.offset = 0
}

func inputCursor() string {
	return lipgloss.NewStyle().Foreground(ui.Blue).Render("▎")
}
