// Package layout splits the terminal into the logger's panels and clips
// rendered panels to fixed boxes.
package layout

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/user/touch-ref-logger/tui/styles"
)

const (
	// MinWidth is the narrowest terminal the panel layout renders in.
	MinWidth = 80
	// StatsThreshold is the width below which the stats panel is hidden.
	StatsThreshold = 100

	controlsMin, controlsMax = 26, 34
	statsMin, statsMax       = 22, 32
)

// Panels holds the width of each panel. The log panel takes whatever the
// hotkey and stats panels leave over.
type Panels struct {
	Controls int
	Log      int
	Stats    int // 0 when hidden
}

// ShowStats reports whether the stats panel fits.
func (p Panels) ShowStats() bool { return p.Stats > 0 }

// Split divides termWidth between the panels, one column per separator.
func Split(termWidth int) Panels {
	if termWidth < StatsThreshold {
		controls := clamp(termWidth/3, controlsMin, controlsMax)
		return Panels{Controls: controls, Log: max(termWidth-controls-1, 0)}
	}
	controls := clamp(termWidth/4, controlsMin, controlsMax)
	stats := clamp(termWidth/4, statsMin, statsMax)
	return Panels{Controls: controls, Log: max(termWidth-controls-stats-2, 0), Stats: stats}
}

// Join places rendered panels side by side, each clipped to its width and to
// height lines.
func Join(panels []string, widths []int, height int) string {
	sep := lipgloss.NewStyle().Foreground(styles.Purple).Render("│")

	cells := make([][]string, len(panels))
	for i, p := range panels {
		cells[i] = fitLines(strings.Split(p, "\n"), height)
	}

	rows := make([]string, height)
	for r := range rows {
		parts := make([]string, len(cells))
		for i := range cells {
			parts[i] = Fit(cells[i][r], widths[i])
		}
		rows[r] = strings.Join(parts, sep)
	}
	return strings.Join(rows, "\n")
}

// Box clips content to width x height. Hidden lines are counted on the last
// visible row.
func Box(content string, width, height int) string {
	lines := strings.Split(content, "\n")
	if hidden := len(lines) - height; hidden > 0 && height > 0 {
		lines = lines[:height]
		more := lipgloss.NewStyle().Foreground(styles.Purple).Render(fmt.Sprintf("↓ %d more", hidden+1))
		lines[height-1] = more
	}
	lines = fitLines(lines, height)
	for i := range lines {
		lines[i] = Fit(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

// Fit pads or truncates s to exactly width cells, ANSI and wide-rune aware.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w > width {
		s = ansi.Truncate(s, width, "")
		w = lipgloss.Width(s)
	}
	return s + strings.Repeat(" ", width-w)
}

func fitLines(lines []string, height int) []string {
	if len(lines) >= height {
		return lines[:height]
	}
	return append(lines, make([]string, height-len(lines))...)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
