// Package components provides the logger's TUI building blocks.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/touch-ref-logger/tui/styles"
)

// logKeys and commandKeys are only listed in the help overlay.
var (
	logKeys = ControlGroup{Name: "Log", SubGroups: [][]Control{{
		{Name: "Select previous entry", Shortcut: "J / ↑"},
		{Name: "Select next entry", Shortcut: "K / ↓"},
		{Name: "Seek to selected entry", Shortcut: "Enter"},
		{Name: "Describe the next event", Shortcut: "N"},
		{Name: "Export CSV", Shortcut: "X"},
	}}}
	commandKeys = ControlGroup{Name: "Commands", SubGroups: [][]Control{{
		{Name: "Name a referee", Shortcut: ":ref <key> <name>"},
		{Name: "Seek to HH:MM:SS, MM:SS or secs", Shortcut: ":seek <time>"},
		{Name: "Control playback", Shortcut: ":play / :pause"},
		{Name: "Write the CSV", Shortcut: ":export [path]"},
		{Name: "Describe the next event", Shortcut: ":desc <text>"},
		{Name: "Quit", Shortcut: ":q"},
		{Name: "Leave command mode", Shortcut: "Esc"},
	}}}
)

// HelpOverlay renders every keybinding centred in a width x height screen:
// the session's referee and event hotkeys on the left, the fixed keys on the
// right.
func HelpOverlay(referees, events ControlGroup, width, height int) string {
	referees.Name = "Referees (select)"
	events.Name = "Events (log at current time)"

	left := helpColumn(referees, events)
	right := helpColumn(append(KeyControls(), logKeys, commandKeys)...)

	title := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true).Render("Keybindings")
	footer := lipgloss.NewStyle().Foreground(styles.Lavender).Italic(true).Render("Press ? or any key to close")
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)

	panel := lipgloss.NewStyle().
		Background(styles.DarkPurple).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BrightPurple).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", footer))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}

func helpColumn(groups ...ControlGroup) string {
	header := lipgloss.NewStyle().Foreground(styles.Pink).Bold(true)
	key := lipgloss.NewStyle().Foreground(styles.Lavender).Bold(true)
	desc := lipgloss.NewStyle().Foreground(styles.LightLavender)

	keyW := 0
	for _, g := range groups {
		for _, sub := range g.SubGroups {
			for _, c := range sub {
				keyW = max(keyW, lipgloss.Width(c.Shortcut))
			}
		}
	}

	var lines []string
	for i, g := range groups {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, header.Render(g.Name))
		for _, sub := range g.SubGroups {
			for _, c := range sub {
				lines = append(lines, "  "+key.Width(keyW+2).Render(c.Shortcut)+desc.Render(c.Name))
			}
		}
	}
	return strings.Join(lines, "\n")
}
