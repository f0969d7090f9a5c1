// Package style provides shared UI styling primitives including brand colors
// and icons for consistent visual presentation across the CLI.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/grit/internal/core/domain"
)

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
	Circle  = "○"
)

// StatusIcon returns the icon and color used to render a target status.
func StatusIcon(s domain.TargetStatus) (string, lipgloss.Color) {
	switch s {
	case domain.StatusCompleted:
		return Check, Green
	case domain.StatusFailed:
		return Cross, Red
	case domain.StatusSkipped:
		return Tilde, Yellow
	case domain.StatusRunning:
		return Dot, Iris
	default:
		return Circle, Slate
	}
}
