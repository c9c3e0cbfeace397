package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/touch-ref-logger/pkg/timeutil"
	"github.com/user/touch-ref-logger/tui/components"
	"github.com/user/touch-ref-logger/tui/layout"
	"github.com/user/touch-ref-logger/tui/styles"
)

// renderPanels lays out the hotkey, log and stats panels side by side.
// The stats panel is dropped on narrow terminals.
func (m *Model) renderPanels(height int) string {
	p := layout.Split(m.width)

	panels := []string{m.renderControlsPanel(p.Controls, height), m.renderLogPanel(p.Log, height)}
	widths := []int{p.Controls, p.Log}
	if p.ShowStats() {
		panels = append(panels, m.renderStatsPanel(p.Stats, height))
		widths = append(widths, p.Stats)
	}
	return layout.Join(panels, widths, height)
}

// renderControlsPanel shows session details, referee and event hotkeys.
func (m *Model) renderControlsPanel(width, height int) string {
	infoStyle := lipgloss.NewStyle().Foreground(styles.LightLavender)
	dimStyle := lipgloss.NewStyle().Foreground(styles.Lavender)

	referee := "none"
	if slot, ok := m.session.ActiveReferee(); ok {
		referee = refereeLabel(slot)
	}
	pending := m.session.PendingDescription()
	if pending == "" {
		pending = "-"
	}
	sessionLines := []string{
		infoStyle.Render(" Referee: " + referee),
		infoStyle.Render(" At:      " + timeutil.FormatTime(m.session.Position())),
		dimStyle.Render(" Note:    " + pending),
		dimStyle.Render(" File:    " + filepath.Base(m.cfg.Output)),
	}
	if !m.session.Machine().RequireReferee() {
		sessionLines = append(sessionLines, dimStyle.Render(" Referee optional"))
	}

	var lines []string
	lines = append(lines, components.RenderInfoBox("Session", sessionLines, width))
	lines = append(lines, components.RenderControlBox(m.refereeControls(), width))
	lines = append(lines, components.RenderControlBox(components.EventControls(m.session.Catalog().Events()), width))

	return layout.Box(strings.Join(lines, "\n"), width, height)
}

// renderLogPanel shows the event log table.
func (m *Model) renderLogPanel(width, height int) string {
	innerHeight := max(height-2, 3)

	table := components.EventTable(m.table, width-2, innerHeight)
	title := fmt.Sprintf("Event Log (%d)", len(m.table.Entries))
	if n := m.unsaved(); n > 0 {
		title = fmt.Sprintf("Event Log (%d, %d unsaved)", len(m.table.Entries), n)
	}
	infoBox := components.RenderInfoBox(title, strings.Split(table, "\n"), width)
	return layout.Box(infoBox, width, height)
}

// renderStatsPanel shows live stats and the fixed key controls.
func (m *Model) renderStatsPanel(width, height int) string {
	lines := []string{components.StatsPanel(m.stats, width, height), ""}
	for _, group := range components.KeyControls() {
		lines = append(lines, components.RenderControlBox(group, width))
	}
	return layout.Box(strings.Join(lines, "\n"), width, height)
}

func (m *Model) refereeControls() components.ControlGroup {
	var active rune
	if slot, ok := m.session.ActiveReferee(); ok {
		active = slot.Hotkey
	}
	return components.RefereeControls(m.session.Registry().Slots(), active)
}
