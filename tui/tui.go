package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/user/touch-ref-logger/config"
	"github.com/user/touch-ref-logger/db"
	"github.com/user/touch-ref-logger/eventlog"
	"github.com/user/touch-ref-logger/mpv"
	"github.com/user/touch-ref-logger/pkg/logger"
	"github.com/user/touch-ref-logger/pkg/metrics"
	"github.com/user/touch-ref-logger/pkg/timeutil"
	"github.com/user/touch-ref-logger/tagging"
	"github.com/user/touch-ref-logger/tui/components"
	"github.com/user/touch-ref-logger/tui/forms"
	"github.com/user/touch-ref-logger/tui/layout"
	"github.com/user/touch-ref-logger/tui/styles"
	"github.com/user/touch-ref-logger/video"
)

const (
	// defaultStepSize is the default seek step size in seconds.
	defaultStepSize = 5.0
	// resultDisplayDuration is how long to show command results.
	resultDisplayDuration = 3 * time.Second
	// osdDuration is how long mpv shows a logged event on screen.
	osdDuration = 1500 * time.Millisecond
)

// stepSizes defines the available step sizes for seek operations.
// Users can cycle through these with < and > keys.
var stepSizes = []float64{0.1, 0.5, 1, 2, 5, 10, 30}

// tickMsg is a message sent on every sample interval to update playback status.
type tickMsg time.Time

// clearResultMsg is sent to clear the command result message.
type clearResultMsg struct{}

// lookupMsg carries the result of the video metadata lookup.
type lookupMsg struct {
	meta video.Metadata
	err  error
}

// Options are the collaborators of a logging session.
type Options struct {
	// Session is required. Its machine must pass ValidateHotkeys.
	Session *tagging.Session
	// Config supplies output, autosave and timing settings. nil means defaults.
	Config *config.Config
	// Client controls the player. nil runs without a player; events log at
	// the last position set with :seek.
	Client *mpv.Client
	// Resolver looks up the title of a URL source. Optional.
	Resolver video.Resolver
	// Store mirrors logged entries for the stats column. Optional.
	Store *db.Store
	// Metrics records session counters. Optional.
	Metrics *metrics.Manager
	// Source is the file or URL being reviewed.
	Source string
}

// Model is the Bubbletea model for the logging session.
// It implements the tea.Model interface with Init, Update, and View methods.
type Model struct {
	ctx      context.Context
	session  *tagging.Session
	seq      tagging.Sequencer
	cfg      *config.Config
	client   *mpv.Client
	resolver video.Resolver
	store    *db.Store
	metrics  *metrics.Manager
	source   string
	log      logger.Logger

	// quitting flag to signal shutdown
	quitting bool
	width    int
	height   int
	showHelp bool
	// loaded is set once the player reported a duration
	loaded bool
	// savedLen is the log length last written to disk
	savedLen int

	statusBar components.StatusBarState
	table     components.EventTableState
	input     components.CommandInputState
	stats     components.StatsSummary

	// confirm is the quit confirmation shown when entries are unsaved
	confirm     *huh.Form
	confirmQuit bool
}

// NewModel creates a model around an existing session and registers the
// stats mirror, metrics and autosave as session observers.
func NewModel(ctx context.Context, opts Options) (*Model, error) {
	if opts.Session == nil {
		return nil, errors.New("tui: session is required")
	}
	if err := ValidateHotkeys(opts.Session.Machine()); err != nil {
		return nil, err
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}

	m := &Model{
		ctx:      ctx,
		session:  opts.Session,
		cfg:      cfg,
		client:   opts.Client,
		resolver: opts.Resolver,
		store:    opts.Store,
		metrics:  opts.Metrics,
		source:   opts.Source,
		log:      logger.Named("tui"),
		savedLen: opts.Session.Log().Len(),
	}
	m.statusBar.StepSize = defaultStepSize

	if m.store != nil {
		m.session.AddObserver(m.store)
	}
	if m.metrics != nil {
		m.session.AddObserver(m.metrics)
		m.metrics.SetLogEntries(m.session.Log().Len())
	}
	if cfg.Autosave {
		m.session.AddObserver(tagging.ObserverFunc(m.autosave))
	}

	if m.client == nil {
		m.input.SetResult("No player: use :seek to set the position", false)
	}
	m.refresh(false)
	return m, nil
}

// Init starts position sampling and, for URL sources, the metadata lookup.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tickCmd()}
	if m.resolver != nil && video.IsURL(m.source) {
		cmds = append(cmds, m.lookupCmd())
	}
	return tea.Batch(cmds...)
}

// tickCmd returns a command that sends a tickMsg after the sample interval.
func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.SampleInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) lookupCmd() tea.Cmd {
	resolver, source, timeout := m.resolver, m.source, m.cfg.LookupTimeout
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		meta, err := resolver.Resolve(ctx, source)
		return lookupMsg{meta: meta, err: err}
	}
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		return m.updateConfirm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.updateStatusFromMpv()
		return m, m.tickCmd()

	case lookupMsg:
		if m.metrics != nil {
			m.metrics.RecordLookup(msg.err)
		}
		if msg.err != nil {
			m.log.Warn(m.ctx, "video lookup failed", logger.String("source", m.source), logger.Error(msg.err))
			return m, m.showResult(fmt.Sprintf("Video lookup failed: %v", msg.err), true)
		}
		m.statusBar.Title = msg.meta.Title
		text := "Loaded: " + msg.meta.Title
		if msg.meta.Author != "" {
			text += " by " + msg.meta.Author
		}
		return m, m.showResult(text, false)

	case clearResultMsg:
		m.input.ClearResult()
		return m, nil

	case tea.KeyMsg:
		// Handle help overlay - any key dismisses it
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		if m.input.Active() {
			return m.handleCommandInput(msg)
		}

		switch msg.String() {
		case "?":
			m.showHelp = true
			return m, nil
		case "q", "Q", "ctrl+c":
			return m.requestQuit()
		case ":":
			m.input.Start(components.InputCommand, "")
			m.input.ClearResult()
			return m, nil
		case "n", "N":
			m.input.Start(components.InputDescription, m.session.PendingDescription())
			m.input.ClearResult()
			return m, nil
		case " ":
			if m.playerReady() {
				_ = m.client.TogglePause()
			}
			return m, nil
		case "h", "H", "left":
			if m.playerReady() {
				_ = m.client.SeekRelative(-m.statusBar.StepSize)
			}
			return m, nil
		case "l", "L", "right":
			if m.playerReady() {
				_ = m.client.SeekRelative(m.statusBar.StepSize)
			}
			return m, nil
		case "<":
			m.decreaseStepSize()
			return m, nil
		case ">":
			m.increaseStepSize()
			return m, nil
		case "j", "J", "up":
			m.table.MoveUp()
			return m, nil
		case "k", "K", "down":
			m.table.MoveDown()
			return m, nil
		case "enter":
			return m.jumpToSelectedEntry()
		case "x", "X":
			text, err := m.export("")
			return m, m.showResult(text, err != nil)
		}

		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
			return m.handleHotkey(msg.Runes[0])
		}
	}

	return m, nil
}

// handleHotkey feeds one key press through the session.
func (m *Model) handleHotkey(key rune) (tea.Model, tea.Cmd) {
	out := m.session.Handle(m.ctx, m.seq.Next(key))

	var text string
	isError := false
	switch out.Kind {
	case tagging.OutcomeIgnored, tagging.OutcomeDuplicate:
		return m, nil
	case tagging.OutcomeRefereeSelected:
		text = "Referee: " + refereeLabel(out.Referee)
		m.refresh(false)
	case tagging.OutcomeRejected:
		m.stats.Rejected++
		text = out.Notice
		isError = true
	case tagging.OutcomeLogged:
		text = fmt.Sprintf("Logged %s %s", out.Entry.Timestamp, out.Entry.Event)
		if out.Entry.Referee != "" {
			text += " (" + out.Entry.Referee + ")"
		}
		m.refresh(true)
		if m.playerReady() {
			_ = m.client.ShowText(text, osdDuration)
		}
	}

	if out.ObserverErr != nil {
		text = fmt.Sprintf("%s, but: %v", text, out.ObserverErr)
		isError = true
	}
	return m, m.showResult(text, isError)
}

// handleCommandInput handles key events while the input line is active.
func (m *Model) handleCommandInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Clear()
		return m, nil
	case tea.KeyCtrlC:
		m.input.Clear()
		return m.requestQuit()
	case tea.KeyEnter:
		mode, text := m.input.Submit()
		if mode == components.InputDescription {
			m.session.SetDescription(strings.TrimSpace(text))
			if strings.TrimSpace(text) == "" {
				return m, m.showResult("Description cleared", false)
			}
			return m, m.showResult("Description will be attached to the next event", false)
		}
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		result, err := m.executeCommand(text)
		if err != nil {
			return m, m.showResult(err.Error(), true)
		}
		if m.quitting || m.confirm != nil {
			return m, m.quitCmd()
		}
		return m, m.showResult(result, false)
	case tea.KeyBackspace:
		m.input.Backspace()
	case tea.KeyDelete:
		m.input.Delete()
	case tea.KeyLeft:
		m.input.MoveCursorLeft()
	case tea.KeyRight:
		m.input.MoveCursorRight()
	case tea.KeySpace:
		m.input.InsertChar(' ')
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.input.InsertChar(r)
		}
	}
	return m, nil
}

// requestQuit quits, or asks first when logged entries are not on disk.
func (m *Model) requestQuit() (tea.Model, tea.Cmd) {
	if unsaved := m.unsaved(); unsaved > 0 {
		m.confirmQuit = false
		m.confirm = forms.NewConfirmQuitForm(unsaved, &m.confirmQuit)
		m.confirm.SubmitCmd = nil
		m.confirm.CancelCmd = nil
		return m, m.confirm.Init()
	}
	m.quitting = true
	return m, tea.Quit
}

// quitCmd returns the command that follows a :q, which may have opened the confirmation.
func (m *Model) quitCmd() tea.Cmd {
	if m.confirm != nil {
		return m.confirm.Init()
	}
	return tea.Quit
}

func (m *Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
	}
	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}
	switch m.confirm.State {
	case huh.StateCompleted:
		m.confirm = nil
		if m.confirmQuit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case huh.StateAborted:
		m.confirm = nil
		return m, nil
	}
	return m, cmd
}

// autosave rewrites the output file after every logged entry.
func (m *Model) autosave(_ context.Context, out tagging.Outcome) error {
	if out.Kind != tagging.OutcomeLogged {
		return nil
	}
	err := m.session.Log().WriteFile(m.cfg.Output, m.columns())
	if m.metrics != nil {
		m.metrics.RecordExport(err)
	}
	if err != nil {
		return fmt.Errorf("autosave: %w", err)
	}
	m.savedLen = m.session.Log().Len()
	return nil
}

// columns adds the Description column whenever an entry has one, so a
// description staged with :desc is never dropped on write.
func (m *Model) columns() eventlog.Columns {
	cols := m.cfg.Columns()
	if m.session.Log().HasDescriptions() {
		cols.Description = true
	}
	return cols
}

// export writes the whole log to path, or to the configured output when empty.
func (m *Model) export(path string) (string, error) {
	if path == "" {
		path = m.cfg.Output
	}
	l := m.session.Log()
	err := l.WriteFile(path, m.columns())
	if m.metrics != nil {
		m.metrics.RecordExport(err)
	}
	if err != nil {
		m.log.Error(m.ctx, "export failed", logger.String("path", path), logger.Error(err))
		return fmt.Sprintf("Export failed: %v", err), err
	}
	m.savedLen = l.Len()
	m.refresh(false)
	return fmt.Sprintf("Exported %d event(s) to %s", l.Len(), path), nil
}

func (m *Model) unsaved() int {
	return m.session.Log().Len() - m.savedLen
}

// jumpToSelectedEntry seeks the player to the highlighted entry.
func (m *Model) jumpToSelectedEntry() (tea.Model, tea.Cmd) {
	entry, _, ok := m.table.Selected()
	if !ok {
		return m, m.showResult("No entry selected", true)
	}
	if !m.playerReady() {
		return m, m.showResult("Not connected to mpv", true)
	}
	at, err := timeutil.ParseTimestamp(entry.Timestamp)
	if err != nil {
		return m, m.showResult(err.Error(), true)
	}
	if err := m.client.Seek(at); err != nil {
		return m, m.showResult(fmt.Sprintf("Seek failed: %v", err), true)
	}
	return m, m.showResult(fmt.Sprintf("Jumped to %s %s", entry.Timestamp, entry.Event), false)
}

// showResult sets the bottom line message and schedules its removal.
func (m *Model) showResult(text string, isError bool) tea.Cmd {
	m.input.SetResult(text, isError)
	return tea.Tick(resultDisplayDuration, func(t time.Time) tea.Msg {
		return clearResultMsg{}
	})
}

// refresh rebuilds the table, stats and status bar from the session.
func (m *Model) refresh(follow bool) {
	l := m.session.Log()
	m.table.SetEntries(l.Entries(), follow)

	m.stats.Logged = l.Len()
	if m.store != nil {
		if refs, err := m.store.RefereeTotals(m.ctx); err == nil {
			m.stats.Referees = tallies(refs)
		} else {
			m.log.Warn(m.ctx, "referee totals", logger.Error(err))
		}
		if events, err := m.store.EventTotals(m.ctx); err == nil {
			m.stats.Events = tallies(events)
		} else {
			m.log.Warn(m.ctx, "event totals", logger.Error(err))
		}
	}

	m.statusBar.Entries = l.Len()
	m.statusBar.Unsaved = m.unsaved() > 0
	m.statusBar.Referee = ""
	if slot, ok := m.session.ActiveReferee(); ok {
		m.statusBar.Referee = refereeLabel(slot)
	}
}

func tallies(totals []db.Total) []components.Tally {
	out := make([]components.Tally, len(totals))
	for i, t := range totals {
		out[i] = components.Tally{Name: t.Name, Count: t.Count}
	}
	return out
}

// refereeLabel is the name of a slot, or its hotkey when unnamed.
func refereeLabel(slot tagging.RefereeSlot) string {
	if slot.Name != "" {
		return slot.Name
	}
	return "[" + strings.ToUpper(string(slot.Hotkey)) + "]"
}

func (m *Model) playerReady() bool {
	return m.client != nil && m.client.IsConnected()
}

// decreaseStepSize moves to the next smaller step size.
func (m *Model) decreaseStepSize() {
	if i := m.findStepSizeIndex(); i > 0 {
		m.statusBar.StepSize = stepSizes[i-1]
	}
}

// increaseStepSize moves to the next larger step size.
func (m *Model) increaseStepSize() {
	if i := m.findStepSizeIndex(); i < len(stepSizes)-1 {
		m.statusBar.StepSize = stepSizes[i+1]
	}
}

// findStepSizeIndex returns the index of the current step size, or the
// closest one when it is not in the list.
func (m *Model) findStepSizeIndex() int {
	best := 0
	for i, s := range stepSizes {
		if abs(s-m.statusBar.StepSize) < abs(stepSizes[best]-m.statusBar.StepSize) {
			best = i
		}
	}
	return best
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// updateStatusFromMpv polls mpv for playback status and samples the position
// into the session. A lost player is reconnected on a later tick.
func (m *Model) updateStatusFromMpv() {
	if m.client == nil {
		m.statusBar.Connected = false
		m.statusBar.TimePos = m.session.Position()
		return
	}
	if !m.client.IsConnected() {
		if err := m.client.Connect(); err != nil {
			m.setConnected(false)
			return
		}
	}
	p, err := m.client.Sample()
	if err != nil {
		// a dropped connection is retried on the next tick
		m.setConnected(m.client.IsConnected())
		return
	}
	m.setConnected(true)

	m.session.SetPosition(p.TimePos)
	m.statusBar.TimePos = m.session.Position()
	m.statusBar.Paused = p.Paused
	if p.Duration > 0 {
		m.statusBar.Duration = p.Duration
		if !m.loaded {
			m.loaded = true
			m.log.Info(m.ctx, "video loaded", logger.String("source", m.source), logger.Float64("duration", p.Duration))
		}
	}
}

func (m *Model) setConnected(connected bool) {
	if m.statusBar.Connected != connected {
		m.log.Info(m.ctx, "player connection changed", logger.Bool("connected", connected))
	}
	m.statusBar.Connected = connected
	if m.metrics != nil {
		m.metrics.SetPlayerConnected(connected)
	}
}

// View renders the current state of the model as a string.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if m.confirm != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.confirm.View())
	}

	if m.showHelp {
		return components.HelpOverlay(m.refereeControls(), components.EventControls(m.session.Catalog().Events()), m.width, m.height)
	}

	if m.width > 0 && m.width < layout.MinWidth {
		warningStyle := lipgloss.NewStyle().
			Foreground(styles.Pink).
			Bold(true)
		hintStyle := lipgloss.NewStyle().
			Foreground(styles.Lavender).
			Italic(true)
		return warningStyle.Render(fmt.Sprintf("Terminal too narrow (%d cols)", m.width)) + "\n" +
			hintStyle.Render(fmt.Sprintf("Minimum width: %d columns", layout.MinWidth)) + "\n" +
			hintStyle.Render("Please resize your terminal.")
	}

	statusBar := components.StatusBar(m.statusBar, m.width)

	// status bar and command line take one line each
	colHeight := max(m.height-components.TimelineHeight-2, 5)

	columns := m.renderPanels(colHeight)
	timeline := components.Timeline(m.statusBar.TimePos, m.statusBar.Duration, m.markers(), m.width)
	commandInput := components.CommandInput(m.input, m.width)

	return statusBar + "\n" + columns + "\n" + timeline + "\n" + commandInput
}

// markers returns the position of every logged entry.
func (m *Model) markers() []float64 {
	out := make([]float64, 0, len(m.table.Entries))
	for _, e := range m.table.Entries {
		if at, err := timeutil.ParseTimestamp(e.Timestamp); err == nil {
			out = append(out, at)
		}
	}
	return out
}

// Run starts the Bubbletea program and blocks until the user quits. The
// metrics textfile, when configured, is written on the way out.
func Run(ctx context.Context, opts Options) error {
	model, err := NewModel(ctx, opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()

	if model.metrics != nil && model.cfg.MetricsFile != "" {
		if err := model.metrics.WriteTextfile(model.cfg.MetricsFile); err != nil {
			model.log.Error(ctx, "write metrics", logger.Error(err))
		}
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return runErr
	}
	return nil
}
