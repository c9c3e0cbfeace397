package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/touch-ref-logger/pkg/timeutil"
	"github.com/user/touch-ref-logger/tui/styles"
)

// TimelineHeight is the number of lines Timeline renders.
const TimelineHeight = 4

var (
	playedStyle = lipgloss.NewStyle().Foreground(styles.BrightPurple)
	aheadStyle  = lipgloss.NewStyle().Foreground(styles.Purple)
	markerStyle = lipgloss.NewStyle().Foreground(styles.Cyan)
	headStyle   = lipgloss.NewStyle().Foreground(styles.Pink).Bold(true)
	clockStyle  = lipgloss.NewStyle().Foreground(styles.LightLavender).Bold(true)
)

// Timeline renders the playback bar with a marker at every logged event
// position. Markers need a known duration; before that only the clock shows.
func Timeline(timePos, duration float64, markers []float64, width int) string {
	if width < 20 {
		return ""
	}

	total := "--:--:--"
	if duration > 0 {
		total = timeutil.FormatTime(duration)
	}
	clock := fmt.Sprintf(" %s / %s", timeutil.FormatTime(timePos), total)

	// border, a space either side of the bar, the clock
	barW := max(width-4-lipgloss.Width(clock), 10)

	head := -1
	marked := make([]bool, barW)
	if duration > 0 {
		head = scale(timePos, duration, barW)
		for _, at := range markers {
			marked[scale(at, duration, barW-1)] = true
		}
	}

	var bar, caret strings.Builder
	for i := 0; i < barW; i++ {
		switch {
		case marked[i]:
			bar.WriteString(markerStyle.Render("◆"))
		case i < head:
			bar.WriteString(playedStyle.Render("━"))
		case i == head:
			bar.WriteString(headStyle.Render("╸"))
		default:
			bar.WriteString(aheadStyle.Render("─"))
		}
		if i == head {
			caret.WriteString(headStyle.Render("▲"))
		} else {
			caret.WriteByte(' ')
		}
	}

	title := "Timeline"
	if n := len(markers); n > 0 {
		title = fmt.Sprintf("Timeline (%d marked)", n)
	}
	return RenderInfoBox(title, []string{
		" " + bar.String() + " " + clockStyle.Render(clock),
		" " + caret.String(),
	}, width)
}

// scale maps seconds onto 0..n, clamped.
func scale(seconds, duration float64, n int) int {
	pos := int(math.Round(float64(n) * seconds / duration))
	return min(max(pos, 0), n)
}
