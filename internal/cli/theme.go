package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/raphaelgruber/commnet/internal/analysis"
	"github.com/raphaelgruber/commnet/internal/models"
	"golang.org/x/term"
)

// Theme holds the color scheme for terminal output.
type Theme struct {
	Status  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
	Blue    lipgloss.Color
	Red     lipgloss.Color

	// plain disables all styling, for pipes and files.
	plain bool
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
	Blue:    lipgloss.Color("#3B82F6"),
	Red:     lipgloss.Color("#EF4444"),
}

var plainTheme = Theme{plain: true}

// themeFor picks the styled theme for terminals and the plain one otherwise.
func themeFor(f *os.File) Theme {
	if f != nil && term.IsTerminal(int(f.Fd())) {
		return defaultTheme
	}
	return plainTheme
}

// terminalWidth returns the width of f, or fallback when it is not a terminal.
func terminalWidth(f *os.File, fallback int) int {
	if f == nil {
		return fallback
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

func (t Theme) style(c lipgloss.Color) lipgloss.Style {
	if t.plain {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(c)
}

func (t Theme) statusStyle() lipgloss.Style {
	return t.style(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return t.style(t.Success).Bold(!t.plain)
}

func (t Theme) errorStyle() lipgloss.Style {
	return t.style(t.Error).Bold(!t.plain)
}

func (t Theme) hintStyle() lipgloss.Style {
	return t.style(t.Hint).Italic(!t.plain)
}

func (t Theme) headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(!t.plain)
}

// sideStyle colors an event by team.
func (t Theme) sideStyle(side string) lipgloss.Style {
	switch side {
	case models.SideBlue:
		return t.style(t.Blue)
	case models.SideRed:
		return t.style(t.Red)
	}
	return t.style(t.Hint)
}

// densityStyle colors a communication state label.
func (t Theme) densityStyle(state string) lipgloss.Style {
	switch state {
	case analysis.StateHigh:
		return t.style(t.Error).Bold(!t.plain)
	case analysis.StateLow, analysis.StateSilent:
		return t.style(t.Hint)
	}
	return t.style(t.Success)
}
