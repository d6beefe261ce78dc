package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ConfigureColor selects the color profile for all styled output. Color is
// turned off when noColor is set, when NO_COLOR is present in the
// environment, or when stdout is not a terminal.
func ConfigureColor(noColor bool) {
	if noColor || termenv.EnvNoColor() || !IsStdoutTTY() {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}

// ColorEnabled reports whether styled output currently emits color codes.
func ColorEnabled() bool {
	return lipgloss.ColorProfile() != termenv.Ascii
}
