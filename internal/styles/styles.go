// Package styles holds the colors and text styles used by CLI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"nathanbeddoewebdev/safecore/internal/coreerr"
)

var (
	White = lipgloss.Color("#E2E2E2")
	Gray  = lipgloss.Color("#888888")
	Muted = lipgloss.Color("#555555")
	Blue  = lipgloss.Color("#5FAFFF")

	Green  = lipgloss.Color("#5FD787")
	Yellow = lipgloss.Color("#FFD787")
	Red    = lipgloss.Color("#FF8787")
)

var (
	// Label is used for field names in detail output.
	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	// Value is used for field values in detail output.
	Value = lipgloss.NewStyle().
		Foreground(White)

	// MutedText is for hints and less important info.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// ErrorText is for error messages.
	ErrorText = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	// SuccessText is for success messages.
	SuccessText = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	// WarningText is for warning messages.
	WarningText = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)
)

// KindStyle returns the style for an error kind: yellow for failures that
// may go away on retry, red for everything else.
func KindStyle(k coreerr.Kind) lipgloss.Style {
	switch k {
	case coreerr.KindRequestTimeout, coreerr.KindTransport, coreerr.KindOperationAborted:
		return WarningText
	default:
		return ErrorText
	}
}

// OutcomeStyle returns the style for an oplog outcome value.
func OutcomeStyle(outcome string) lipgloss.Style {
	switch outcome {
	case "success":
		return lipgloss.NewStyle().Foreground(Green)
	case "error":
		return lipgloss.NewStyle().Foreground(Red)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}
