package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/minerator/viewerator/internal/health"
)

// Base ANSI colors.
const (
	ColorBlack   lipgloss.Color = "0"
	ColorRed     lipgloss.Color = "1"
	ColorGreen   lipgloss.Color = "2"
	ColorYellow  lipgloss.Color = "3"
	ColorBlue    lipgloss.Color = "4"
	ColorMagenta lipgloss.Color = "5"
	ColorCyan    lipgloss.Color = "6"
	ColorWhite   lipgloss.Color = "7"
	ColorMuted   lipgloss.Color = "8"
)

// Semantic colors for CLI output
const (
	ColorSuccess = ColorGreen
	ColorError   = ColorRed
	ColorWarning = ColorYellow
)

// HealthColors returns the foreground and background of a health level.
func HealthColors(l health.Level) (fg, bg lipgloss.Color) {
	switch l {
	case health.Critical:
		return ColorWhite, ColorRed
	case health.SlowDecrease:
		return ColorWhite, ColorMagenta
	case health.Hold:
		return ColorBlack, ColorYellow
	case health.SlowIncrease:
		return ColorBlack, ColorCyan
	default:
		return ColorBlack, ColorGreen
	}
}

// HealthStyle returns the color pair style of a health level.
func HealthStyle(l health.Level) lipgloss.Style {
	fg, bg := HealthColors(l)
	return lipgloss.NewStyle().Foreground(fg).Background(bg)
}

// Styles for plain CLI output.
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	WarnStyle    = lipgloss.NewStyle().Foreground(ColorWarning)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	BoldStyle    = lipgloss.NewStyle().Bold(true)
)
