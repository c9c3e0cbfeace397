package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/touch-ref-logger/eventlog"
	"github.com/user/touch-ref-logger/tagging"
)

func assertWidth(t *testing.T, out string, width int) {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, width, lipgloss.Width(line), "line %q", line)
	}
}

func TestTimeline(t *testing.T) {
	out := Timeline(65, 600, []float64{30, 120}, 60)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, TimelineHeight)
	assertWidth(t, out, 60)
	assert.Contains(t, out, "Timeline (2 marked)")
	assert.Contains(t, out, "00:01:05 / 00:10:00")
	assert.Equal(t, 2, strings.Count(out, "◆"))
	assert.Contains(t, lines[2], "▲")

	unknown := Timeline(5, 0, []float64{3}, 60)
	assert.Contains(t, unknown, "--:--:--")
	assert.NotContains(t, unknown, "◆")
	assert.NotContains(t, unknown, "▲")

	assert.Empty(t, Timeline(5, 10, nil, 10))
}

func TestRenderControlBox(t *testing.T) {
	slots := []tagging.RefereeSlot{{Hotkey: 'a', Name: "Sam"}, {Hotkey: 's'}}
	out := RenderControlBox(RefereeControls(slots, 'a'), 30)
	assertWidth(t, out, 30)
	assert.Contains(t, out, "Referees")
	assert.Contains(t, out, "[ A ]")
	assert.Contains(t, out, "(unnamed)")

	// one divider between the two sub-groups
	playback := RenderControlBox(KeyControls()[0], 30)
	assert.Equal(t, 1, strings.Count(playback, "├"))
}

func TestRenderInfoBoxTruncates(t *testing.T) {
	out := RenderInfoBox("Session", []string{strings.Repeat("x", 50)}, 20)
	assertWidth(t, out, 20)
	assert.Len(t, strings.Split(out, "\n"), 3)
}

func TestEventTableSelection(t *testing.T) {
	var s EventTableState
	s.SetEntries([]eventlog.Entry{
		{Timestamp: "00:00:01", Event: "Short 7M", Referee: "Sam"},
		{Timestamp: "00:00:09", Event: "Long 7M"},
	}, true)
	entry, i, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, "Long 7M", entry.Event)

	s.MoveUp()
	_, i, _ = s.Selected()
	assert.Equal(t, 0, i)

	s.SetEntries(nil, false)
	_, _, ok = s.Selected()
	assert.False(t, ok)

	out := EventTable(s, 60, 5)
	assert.Contains(t, out, "Time")
}

func TestStatusBar(t *testing.T) {
	out := StatusBar(StatusBarState{Connected: true, TimePos: 125, StepSize: 5, Referee: "Sam", Entries: 3, Unsaved: true}, 100)
	assert.Equal(t, 100, lipgloss.Width(out))
	assert.Contains(t, out, "Events: 3")
}
