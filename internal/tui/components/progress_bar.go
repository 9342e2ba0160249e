package components

import (
	"fmt"
	"strings"

	"github.com/quantumsync/attune/internal/tui/styles"
)

const minBarWidth = 10

// RenderProgressBar renders a fixed-width percent bar.
// Percent is clamped to [0, 100]; width below the minimum is raised.
func RenderProgressBar(styleSet styles.Styles, width int, percent float64) string {
	if width < minBarWidth {
		width = minBarWidth
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}

	bar := styleSet.ProgressFilled.Render(strings.Repeat("█", filled)) +
		styleSet.ProgressEmpty.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %3.0f%%", bar, percent)
}
