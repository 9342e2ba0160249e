// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quantumsync/attune/internal/models"
	"github.com/quantumsync/attune/internal/tui/styles"
)

// RenderStageBadge renders a catalog stage tinted with its own color.
func RenderStageBadge(styleSet styles.Styles, stage models.Stage, active bool) string {
	tint := lipgloss.NewStyle().Foreground(lipgloss.Color(stage.Color))
	if active {
		tint = tint.Bold(true)
	}
	label := fmt.Sprintf("%s %d Hz", stage.Name, stage.Frequency)
	if active {
		return tint.Render("> " + label)
	}
	return tint.Render("  " + label)
}

// RenderDiagnosticBadge renders a diagnosed stage state with icon and color.
func RenderDiagnosticBadge(styleSet styles.Styles, state models.DiagnosticState) string {
	icon, label, style := diagnosticDescriptor(styleSet, state)
	return style.Render(fmt.Sprintf("%s %s", icon, label))
}

func diagnosticDescriptor(styleSet styles.Styles, state models.DiagnosticState) (string, string, lipgloss.Style) {
	switch state {
	case models.DiagnosticOpen:
		return "OK", "Open", styleSet.Success
	case models.DiagnosticClosed:
		return "X", "Closed", styleSet.Warning
	case models.DiagnosticBlocked:
		return "!!", "Blocked", styleSet.Error
	default:
		return "-", normalizeStateLabel(state), styleSet.Muted
	}
}

func normalizeStateLabel(state models.DiagnosticState) string {
	value := strings.TrimSpace(strings.ReplaceAll(string(state), "_", " "))
	if value == "" {
		return "Unknown"
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
