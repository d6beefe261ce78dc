package ui

import "github.com/charmbracelet/lipgloss"

// habit's palette: calm blues for structure, green for done, amber for streaks.
var (
	Blue   = lipgloss.Color("#3B82F6")
	Sky    = lipgloss.Color("#38BDF8")
	Green  = lipgloss.Color("#10B981")
	Amber  = lipgloss.Color("#F59E0B")
	Flame  = lipgloss.Color("#F97316")
	Red    = lipgloss.Color("#EF4444")
	Violet = lipgloss.Color("#8B5CF6")
	Dim    = lipgloss.Color("#6B7280")
	Track  = lipgloss.Color("#374151")
	Bright = lipgloss.Color("#FFFFFF")
	Subtle = lipgloss.Color("#9CA3AF")

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Blue)

	Subtitle = lipgloss.NewStyle().
			Foreground(Sky)

	Success = lipgloss.NewStyle().
		Foreground(Green)

	Error = lipgloss.NewStyle().
		Foreground(Red)

	Warning = lipgloss.NewStyle().
		Foreground(Amber)

	Info = lipgloss.NewStyle().
		Foreground(Sky)

	Muted = lipgloss.NewStyle().
		Foreground(Dim)

	Accent = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)

	Streak = lipgloss.NewStyle().
		Foreground(Flame).
		Bold(true)

	Banner = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Blue).
		Padding(0, 1)

	Tag = lipgloss.NewStyle().
		Foreground(Bright).
		Background(Violet).
		Padding(0, 1).
		Bold(true)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Sky).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Bright)
)

const (
	IconHabit    = "🌱 "
	IconDone     = "✅"
	IconOpen     = "⬜"
	IconFire     = "🔥"
	IconTrophy   = "🏆"
	IconTarget   = "🎯"
	IconCalendar = "📅"
	IconChart    = "📊"
	IconLock     = "🔑"
	IconWarn     = "⚠️ "
	IconError    = "✗ "
	IconOk       = "✓ "
	IconArrow    = "→"
	IconDot      = "·"
)
