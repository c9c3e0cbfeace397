package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/user/touch-ref-logger/eventlog"
	"github.com/user/touch-ref-logger/tui/styles"
)

// EventTableState holds the state for the event log table.
type EventTableState struct {
	// Entries mirrors the session log in insertion order
	Entries []eventlog.Entry
	// SelectedIndex is the highlighted row
	SelectedIndex int
	// ScrollOffset is the first visible row
	ScrollOffset int
}

// SetEntries replaces the rows. When follow is true the newest row is selected.
func (s *EventTableState) SetEntries(entries []eventlog.Entry, follow bool) {
	s.Entries = entries
	if follow || s.SelectedIndex >= len(entries) {
		s.SelectedIndex = len(entries) - 1
	}
	if s.SelectedIndex < 0 {
		s.SelectedIndex = 0
	}
}

// EventTable renders the log as a table of at most height rows including the header.
func EventTable(state EventTableState, width, height int) string {
	headerStyle := lipgloss.NewStyle().
		Foreground(styles.Lavender).
		Bold(true).
		Underline(true)

	// Column widths (#: 4, Time: 8, Referee: 10, Event: 18, Description: rest)
	const (
		numWidth  = 4
		timeWidth = 8
		refWidth  = 10
	)
	eventWidth := 18
	descWidth := width - numWidth - timeWidth - refWidth - eventWidth - 6
	if descWidth < 4 {
		eventWidth += descWidth - 4
		descWidth = 4
	}
	if eventWidth < 8 {
		eventWidth = 8
	}

	var lines []string
	header := fmt.Sprintf(" %-*s %-*s %-*s %-*s %s",
		numWidth, "#",
		timeWidth, "Time",
		refWidth, "Referee",
		eventWidth, "Event",
		"Description")
	lines = append(lines, headerStyle.Render(header))

	rows := height - 1
	if rows < 1 {
		rows = 1
	}

	if len(state.Entries) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.Purple).
			Italic(true)
		lines = append(lines, emptyStyle.Render(" No events logged yet"))
		return strings.Join(lines, "\n")
	}

	// Keep the selected row visible
	if state.SelectedIndex < state.ScrollOffset {
		state.ScrollOffset = state.SelectedIndex
	} else if state.SelectedIndex >= state.ScrollOffset+rows {
		state.ScrollOffset = state.SelectedIndex - rows + 1
	}
	maxOffset := len(state.Entries) - rows
	if maxOffset < 0 {
		maxOffset = 0
	}
	if state.ScrollOffset > maxOffset {
		state.ScrollOffset = maxOffset
	}
	if state.ScrollOffset < 0 {
		state.ScrollOffset = 0
	}

	for row := 0; row < rows; row++ {
		i := state.ScrollOffset + row
		if i >= len(state.Entries) {
			break
		}
		e := state.Entries[i]
		content := fmt.Sprintf(" %-*s %-*s %-*s %-*s %s",
			numWidth, fmt.Sprintf("%d", i+1),
			timeWidth, e.Timestamp,
			refWidth, truncateStr(e.Referee, refWidth),
			eventWidth, truncateStr(e.Event, eventWidth),
			truncateStr(e.Description, descWidth))

		lineStyle := lipgloss.NewStyle().
			Foreground(styles.LightLavender).
			Width(width)
		if i == state.SelectedIndex {
			lineStyle = lineStyle.
				Background(styles.BrightPurple).
				Bold(true)
		}
		lines = append(lines, lineStyle.Render(ansi.Truncate(content, width, "")))
	}

	return strings.Join(lines, "\n")
}

// truncateStr truncates a string to maxLen cells with an ellipsis.
func truncateStr(s string, maxLen int) string {
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return ansi.Truncate(s, maxLen, "")
	}
	return ansi.Truncate(s, maxLen, "...")
}

// MoveUp moves the selection up in the table.
func (s *EventTableState) MoveUp() {
	if s.SelectedIndex > 0 {
		s.SelectedIndex--
	}
}

// MoveDown moves the selection down in the table.
func (s *EventTableState) MoveDown() {
	if s.SelectedIndex < len(s.Entries)-1 {
		s.SelectedIndex++
	}
}

// Selected returns the highlighted entry and its index.
func (s *EventTableState) Selected() (eventlog.Entry, int, bool) {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Entries) {
		return eventlog.Entry{}, -1, false
	}
	return s.Entries[s.SelectedIndex], s.SelectedIndex, true
}
