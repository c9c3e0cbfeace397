// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/user/touch-ref-logger/pkg/timeutil"
	"github.com/user/touch-ref-logger/tui/styles"
)

// StatusBarState holds the current playback and session state for the status bar.
type StatusBarState struct {
	// Connected is false while no player answers on the IPC socket
	Connected bool
	// Paused indicates if playback is paused
	Paused bool
	// TimePos is the last sampled playback position in seconds
	TimePos float64
	// Duration is the total video duration in seconds, 0 when unknown
	Duration float64
	// StepSize is the current seek step size in seconds
	StepSize float64
	// Title is the video title, empty until the metadata lookup succeeds
	Title string
	// Referee is the active referee label, empty when none is selected
	Referee string
	// Entries is the number of logged events
	Entries int
	// Unsaved is true when the log has entries not yet written to disk
	Unsaved bool
}

// StatusBar renders the status bar component.
// The left side shows playback state and the active referee, the right side
// shows the step size, entry count and an unsaved marker.
func StatusBar(state StatusBarState, width int) string {
	var playIcon string
	switch {
	case !state.Connected:
		playIcon = "○"
	case state.Paused:
		playIcon = "⏸"
	default:
		playIcon = "▶"
	}

	timeStr := timeutil.FormatTime(state.TimePos)
	durationStr := "--:--:--"
	if state.Duration > 0 {
		durationStr = timeutil.FormatTime(state.Duration)
	}

	referee := state.Referee
	if referee == "" {
		referee = "none"
	}

	left := fmt.Sprintf(" %s %s / %s  Ref: %s", playIcon, timeStr, durationStr, referee)
	if state.Title != "" {
		left += "  " + state.Title
	}

	var saveIcon string
	if state.Unsaved {
		saveIcon = " " + styles.Unsaved.Render("●")
	}
	right := fmt.Sprintf("Step: %s  Events: %d%s ", formatStepSize(state.StepSize), state.Entries, saveIcon)

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	content := ansi.Truncate(left+strings.Repeat(" ", padding)+right, width, "")

	statusBarStyle := lipgloss.NewStyle().
		Background(styles.DarkPurple).
		Foreground(styles.LightLavender).
		Bold(true).
		Width(width)

	return statusBarStyle.Render(content)
}

// formatStepSize formats the step size for display.
// Shows decimal for values less than 1, otherwise whole number.
func formatStepSize(stepSize float64) string {
	if stepSize < 1 {
		return fmt.Sprintf("%.1fs", stepSize)
	}
	return fmt.Sprintf("%.0fs", stepSize)
}
