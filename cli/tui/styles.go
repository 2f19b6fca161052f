// Package tui provides Bubble Tea TUI components for the cue-session CLI.
//
// TUI rules:
//   - TUI is opt-in only (--tui flag)
//   - TUI is read-only only (inspect, stats commands)
//   - TUI uses same data payloads as non-TUI rendering
//   - No TUI-exclusive data allowed
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	primaryColor   = lipgloss.Color("#2563EB") // Blue
	successColor   = lipgloss.Color("#16A34A") // Green
	warningColor   = lipgloss.Color("#D97706") // Amber
	errorColor     = lipgloss.Color("#DC2626") // Red
	mutedColor     = lipgloss.Color("#64748B") // Slate
	highlightColor = lipgloss.Color("#0891B2") // Cyan
	textColor      = lipgloss.Color("#F8FAFC")
)

// Styles for TUI components.
var (
	// TitleStyle for headers and titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// LabelStyle for field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(18)

	// ValueStyle for field values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(textColor)

	// SuccessStyle for success states.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// WarningStyle for warning states.
	WarningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	// ErrorStyle for error states.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// BoxStyle for bordered containers.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(mutedColor).
			Padding(1, 2)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	// StatBoxStyle for stat display boxes.
	StatBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(highlightColor).
			Padding(0, 2).
			Width(22).
			Align(lipgloss.Center)

	// StatLabelStyle for stat labels.
	StatLabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Align(lipgloss.Center)

	// StatValueStyle for stat values.
	StatValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			Align(lipgloss.Center)

	// SelectedRowStyle for the highlighted entry in list views.
	SelectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(highlightColor)
)

// StateStyle returns a style based on a session or command state string.
func StateStyle(state string) lipgloss.Style {
	switch state {
	case "idle", "done":
		return SuccessStyle
	case "agent-active", "generating", "recording", "running", "pending":
		return WarningStyle
	case "error", "failed":
		return ErrorStyle
	}
	return ValueStyle
}
