package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/touch-ref-logger/config"
	"github.com/user/touch-ref-logger/db"
	"github.com/user/touch-ref-logger/eventlog"
	"github.com/user/touch-ref-logger/pkg/metrics"
	"github.com/user/touch-ref-logger/tagging"
	"github.com/user/touch-ref-logger/tui/components"
)

func newTestModel(t *testing.T, mutate func(*config.Config)) *Model {
	t.Helper()
	cfg := config.New()
	cfg.Output = filepath.Join(t.TempDir(), eventlog.DefaultFileName)
	if mutate != nil {
		mutate(cfg)
	}
	machine, err := cfg.Machine()
	require.NoError(t, err)
	session := tagging.NewSession(machine, nil)

	database, err := db.Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	m, err := NewModel(context.Background(), Options{
		Session: session,
		Config:  cfg,
		Store:   db.NewStore(database, session.ID()),
		Metrics: metrics.NewManager(),
	})
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func press(m *Model, keys string) tea.Cmd {
	var cmd tea.Cmd
	for _, r := range keys {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		if r == ' ' {
			msg = tea.KeyMsg{Type: tea.KeySpace}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func command(m *Model, text string) tea.Cmd {
	press(m, ":")
	press(m, text)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestHotkeysLogAtSampledPosition(t *testing.T) {
	m := newTestModel(t, nil)

	command(m, "ref a Sam")
	command(m, "seek 2:05")
	press(m, "a1")

	entries := m.session.Log().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, eventlog.Entry{Timestamp: "00:02:05", Event: "Short 7M", Referee: "Sam"}, entries[0])
	assert.Contains(t, m.input.Result, "Logged 00:02:05 Short 7M (Sam)")
	assert.False(t, m.input.IsError)

	// autosave wrote the file and the stats mirror saw the entry
	loaded, _, err := eventlog.LoadFile(m.cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, entries, loaded.Entries())
	assert.Equal(t, 0, m.unsaved())
	assert.Equal(t, []components.Tally{{Name: "Sam", Count: 1}}, m.stats.Referees)
	assert.Equal(t, "Sam", m.statusBar.Referee)
}

func TestEventWithoutRefereeIsRejected(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, "1")

	assert.Equal(t, 0, m.session.Log().Len())
	assert.True(t, m.input.IsError)
	assert.Equal(t, "press A, S or D to select a referee before logging", m.input.Result)
	assert.Equal(t, 1, m.stats.Rejected)
	_, err := os.Stat(m.cfg.Output)
	assert.True(t, os.IsNotExist(err), "nothing to autosave")
}

func TestUnboundKeyCountsAsIgnored(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, "z")
	assert.Equal(t, 0, m.session.Log().Len())

	path := filepath.Join(t.TempDir(), "touchref.prom")
	require.NoError(t, m.metrics.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `touchref_session_inputs_total{outcome="ignored"} 1`)
}

func TestUngatedLogsWithoutReferee(t *testing.T) {
	m := newTestModel(t, func(c *config.Config) { c.RequireReferee = false })

	press(m, "2")

	entries := m.session.Log().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "", entries[0].Referee)
	assert.Equal(t, "Long 7M", entries[0].Event)
}

func TestDescriptionInput(t *testing.T) {
	m := newTestModel(t, func(c *config.Config) { c.DescriptionColumn = true })

	press(m, "n")
	require.Equal(t, components.InputDescription, m.input.Mode)
	press(m, "late call")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "late call", m.session.PendingDescription())

	press(m, "s3")
	entries := m.session.Log().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "late call", entries[0].Description)
	assert.Equal(t, "", m.session.PendingDescription())

	command(m, "desc two  spaces kept")
	assert.Equal(t, "two  spaces kept", m.session.PendingDescription())
}

func TestDescriptionWidensColumns(t *testing.T) {
	m := newTestModel(t, func(c *config.Config) {
		c.DescriptionColumn = false
		c.Autosave = true
	})

	command(m, "ref a Sam")
	press(m, "a1")
	data, err := os.ReadFile(m.cfg.Output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Timestamp,Event,Referee\n"))

	command(m, "desc late call")
	press(m, "a2")
	data, err = os.ReadFile(m.cfg.Output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Timestamp,Event,Referee,Description\n"))
	assert.Contains(t, string(data), "Long 7M,Sam,late call")
}

func TestCommandErrors(t *testing.T) {
	m := newTestModel(t, nil)

	command(m, "bogus")
	assert.True(t, m.input.IsError)
	assert.Equal(t, "unknown command: bogus", m.input.Result)

	command(m, "ref z Kim")
	assert.True(t, m.input.IsError)
	assert.Contains(t, m.input.Result, "unknown hotkey")

	command(m, "seek soon")
	assert.True(t, m.input.IsError)

	command(m, "play")
	assert.Equal(t, "not connected to mpv", m.input.Result)
}

func TestExportCommand(t *testing.T) {
	m := newTestModel(t, func(c *config.Config) { c.Autosave = false })
	press(m, "a1a2")
	require.Equal(t, 2, m.unsaved())

	path := filepath.Join(t.TempDir(), "match.csv")
	command(m, "export "+path)
	assert.False(t, m.input.IsError, m.input.Result)
	assert.Equal(t, 0, m.unsaved())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Timestamp,Event,Referee\n"))

	command(m, "export "+filepath.Join(t.TempDir(), "missing", "dir.csv"))
	assert.True(t, m.input.IsError)
	assert.Equal(t, 2, m.session.Log().Len())
}

func TestQuit(t *testing.T) {
	t.Run("saved log quits at once", func(t *testing.T) {
		m := newTestModel(t, nil)
		press(m, "a1")
		cmd := press(m, "q")
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.True(t, m.quitting)
	})

	t.Run("unsaved log asks first", func(t *testing.T) {
		m := newTestModel(t, func(c *config.Config) { c.Autosave = false })
		press(m, "a1")
		press(m, "q")
		assert.False(t, m.quitting)
		require.NotNil(t, m.confirm)
		assert.NotEmpty(t, m.View())
	})
}

func TestNavigationAndStepSize(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, "a1a2a3")
	assert.Equal(t, 2, m.table.SelectedIndex)

	press(m, "jj")
	entry, i, ok := m.table.Selected()
	require.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Equal(t, "Short 7M", entry.Event)

	m.statusBar.StepSize = defaultStepSize
	press(m, ">>>")
	assert.Equal(t, 30.0, m.statusBar.StepSize)
	press(m, "<")
	assert.Equal(t, 10.0, m.statusBar.StepSize)
}

func TestValidateHotkeys(t *testing.T) {
	cfg := config.New()
	cfg.Events = []config.EventConfig{{Key: "1", Label: "Goal"}, {Key: "x", Label: "Foul"}}
	machine, err := cfg.Machine()
	require.NoError(t, err)
	err = ValidateHotkeys(machine)
	assert.True(t, errors.Is(err, ErrReservedHotkey))
	assert.Contains(t, err.Error(), "export")

	cfg = config.New()
	cfg.Referees = []config.RefereeConfig{{Key: "H"}, {Key: "s"}}
	machine, err = cfg.Machine()
	require.NoError(t, err)
	assert.ErrorIs(t, ValidateHotkeys(machine), ErrReservedHotkey)

	machine, err = config.New().Machine()
	require.NoError(t, err)
	assert.NoError(t, ValidateHotkeys(machine))
}

func TestView(t *testing.T) {
	m := newTestModel(t, nil)
	command(m, "ref a Sam")
	press(m, "a1")

	view := m.View()
	assert.Contains(t, view, "Event Log (1)")
	assert.Contains(t, view, "Short 7M")
	assert.Contains(t, view, "Referees")
	assert.Contains(t, view, "Live Stats")

	press(m, "?")
	assert.Contains(t, m.View(), "Keybindings")
	press(m, "?")
	assert.False(t, m.showHelp)

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, m.View(), "Terminal too narrow")
}
