package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ConfigureColor sets the global color profile. Styled output is forced to
// plain ASCII when enabled is false or NO_COLOR is set.
func ConfigureColor(enabled bool) {
	if !enabled || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}

// TermWidth returns the terminal width, or 80 when stdout is not a terminal.
func TermWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
