package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// AppName labels the frame header.
const AppName = "KEY LIGHT CONTROL"

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 60 // Minimum supported terminal width
	MaxContentWidth  = 96 // Maximum content width before capping
)

// Color palette. Warm amber for chrome, green/gray for power state.
var (
	PrimaryColor = lipgloss.Color("#F5A623") // Amber
	OnColor      = lipgloss.Color("#43BF6D") // Green
	OffColor     = lipgloss.Color("#626262") // Gray
	ErrorColor   = lipgloss.Color("#FF5555") // Red
	WarningColor = lipgloss.Color("#FFA500") // Orange
	TextColor    = lipgloss.Color("#FFFFFF") // White
	SubtleColor  = lipgloss.Color("#626262") // Gray
	BorderColor  = lipgloss.Color("#F5A623") // Amber (same as primary)
)

// Common styles
var (
	// Title style for screen headings
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// Subtitle style for secondary lines under a title
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// Label style for status field names
	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// Value style for status field values
	ValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// Power badge styles
	OnBadgeStyle = lipgloss.NewStyle().
			Foreground(OnColor).
			Bold(true)

	OffBadgeStyle = lipgloss.NewStyle().
			Foreground(OffColor).
			Bold(true)

	// Inline error style, rendered inside a screen without a border
	InlineErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	// Warning style for empty scan results
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	// Spinner style
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// Help footer style
	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)
)

// RenderError renders an inline error line with a cross marker.
func RenderError(text string) string {
	return InlineErrorStyle.Render("✗ " + text)
}

// RenderFrame wraps screen content in the shared application frame: a
// header with the app name, the content, and a footer with the
// context-sensitive key legend, inside a single rounded border sized to
// the terminal.
func RenderFrame(content, helpText string, width, height int) string {
	if width <= 0 {
		width = MinTerminalWidth
	}

	header := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(width - 4).
		Padding(0, 1).
		Render(AppName)

	footer := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(width - 4).
		Padding(0, 1).
		Render(HelpStyle.Render(helpText))

	body := lipgloss.NewStyle().
		Width(width - 4).
		Render(content)

	inner := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Width(width - 2).
		AlignVertical(lipgloss.Top)
	if height > 2 {
		frame = frame.Height(height - 2)
	}

	return frame.Render(inner)
}

// GetTerminalWidth returns the current terminal width, clamped to the
// supported range, falling back to the minimum when stdout is not a
// terminal.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}
