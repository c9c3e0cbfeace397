package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/touch-ref-logger/tui/styles"
)

// Tally is one labelled count shown in the stats panel.
type Tally struct {
	Name  string
	Count int
}

// StatsSummary is the data behind the live stats panel.
type StatsSummary struct {
	// Logged is the number of entries in the log
	Logged int
	// Rejected counts event presses refused because no referee was selected
	Rejected int
	// Referees holds per-referee totals, highest first
	Referees []Tally
	// Events holds per-event totals, highest first
	Events []Tally
}

// maxBars caps the rows of each bar graph.
const maxBars = 6

// StatsPanel renders the live stats column: a summary, then bar graphs of
// events per referee and per event type.
func StatsPanel(stats StatsSummary, width, height int) string {
	if width < 5 {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)
	headerStyle := lipgloss.NewStyle().
		Foreground(styles.Pink).
		Bold(true)
	infoStyle := lipgloss.NewStyle().Foreground(styles.LightLavender)

	var sections []string
	sections = append(sections, titleStyle.Render("Live Stats"), "")

	sections = append(sections, headerStyle.Render("Summary"))
	sections = append(sections, infoStyle.Render(fmt.Sprintf(" Logged:   %d", stats.Logged)))
	sections = append(sections, infoStyle.Render(fmt.Sprintf(" Rejected: %d", stats.Rejected)))
	sections = append(sections, "")

	sections = append(sections, headerStyle.Render("By Referee"))
	sections = append(sections, barGraph(stats.Referees, width, "No events yet")...)
	sections = append(sections, "")

	sections = append(sections, headerStyle.Render("By Event"))
	sections = append(sections, barGraph(stats.Events, width, "No events yet")...)

	return strings.Join(sections, "\n")
}

func barGraph(tallies []Tally, width int, empty string) []string {
	if len(tallies) == 0 {
		dimStyle := lipgloss.NewStyle().Foreground(styles.Purple).Italic(true)
		return []string{dimStyle.Render(" " + empty)}
	}

	labelStyle := lipgloss.NewStyle().Foreground(styles.Lavender)
	barStyle := lipgloss.NewStyle().Foreground(styles.BrightPurple)
	countStyle := lipgloss.NewStyle().Foreground(styles.Cyan)

	maxCount := 0
	for _, t := range tallies {
		if t.Count > maxCount {
			maxCount = t.Count
		}
	}
	barMaxWidth := width - 16 // label (8) + count (4) + padding (4)
	if barMaxWidth < 5 {
		barMaxWidth = 5
	}

	n := len(tallies)
	if n > maxBars {
		n = maxBars
	}
	lines := make([]string, 0, n)
	for _, t := range tallies[:n] {
		name := t.Name
		if name == "" {
			name = "(none)"
		}
		barLen := 1
		if maxCount > 0 {
			barLen = (t.Count * barMaxWidth) / maxCount
			if barLen < 1 {
				barLen = 1
			}
		}
		lines = append(lines, fmt.Sprintf(" %s %s %s",
			labelStyle.Render(fmt.Sprintf("%-8s", truncateStr(name, 8))),
			barStyle.Render(strings.Repeat("█", barLen)),
			countStyle.Render(fmt.Sprintf("%d", t.Count)),
		))
	}
	return lines
}
