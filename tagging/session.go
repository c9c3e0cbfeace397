package tagging

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/user/touch-ref-logger/eventlog"
	"github.com/user/touch-ref-logger/pkg/logger"
	"github.com/user/touch-ref-logger/pkg/timeutil"
)

// Observer is notified after every handled input. Logged outcomes are
// already in the log when Observe runs.
type Observer interface {
	Observe(ctx context.Context, out Outcome) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, out Outcome) error

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, out Outcome) error {
	return f(ctx, out)
}

// Session is one annotation session: the machine, its state, the log and the
// last sampled playback position.
type Session struct {
	id          string
	machine     *Machine
	state       State
	log         *eventlog.Log
	position    float64
	description string
	observers   []Observer
}

// NewSession starts a session over log. A nil log starts empty.
func NewSession(m *Machine, log *eventlog.Log) *Session {
	if log == nil {
		log = eventlog.New()
	}
	return &Session{
		id:      uuid.NewString(),
		machine: m,
		log:     log,
	}
}

// AddObserver registers o for all subsequent outcomes.
func (s *Session) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// SetPosition overwrites the sampled playback position in seconds.
func (s *Session) SetPosition(seconds float64) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	s.position = seconds
}

// Position returns the last sampled playback position.
func (s *Session) Position() float64 {
	return s.position
}

// SetDescription stages text for the next logged entry. An empty string clears it.
func (s *Session) SetDescription(text string) {
	s.description = text
}

// PendingDescription returns the staged description.
func (s *Session) PendingDescription() string {
	return s.description
}

// SetRefereeName renames a referee slot. Entries already logged keep the old name.
func (s *Session) SetRefereeName(hotkey rune, name string) error {
	return s.machine.registry.SetName(hotkey, name)
}

// Handle runs in through the machine, appends a logged entry stamped with the
// current position, then notifies observers of every outcome, ignored keys
// included. Observer failures are reported in the outcome and never remove
// the entry.
func (s *Session) Handle(ctx context.Context, in Input) Outcome {
	next, out := s.machine.Handle(s.state, in)
	s.state = next
	out.SessionID = s.id
	out.Index = -1

	log := logger.Named("session")
	switch out.Kind {
	case OutcomeLogged:
		out.Entry = eventlog.Entry{
			Timestamp:   timeutil.FormatTime(s.position),
			Event:       out.Event.Label,
			Referee:     out.Referee.Name,
			Description: s.description,
		}.Normalize()
		out.Index = s.log.Append(out.Entry)
		s.description = ""
		log.Debug(ctx, "event logged",
			logger.String("timestamp", out.Entry.Timestamp),
			logger.String("event", out.Entry.Event),
			logger.String("referee", out.Entry.Referee),
			logger.Int("index", out.Index))
	case OutcomeRejected:
		log.Debug(ctx, "event rejected", logger.String("event", out.Event.Label))
	case OutcomeRefereeSelected:
		log.Debug(ctx, "referee selected", logger.String("hotkey", string(out.Referee.Hotkey)), logger.String("name", out.Referee.Name))
	}

	var errs []error
	for _, o := range s.observers {
		if err := o.Observe(ctx, out); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		out.ObserverErr = fmt.Errorf("notify observers: %w", errors.Join(errs...))
		log.Warn(ctx, "observer failed", logger.Error(out.ObserverErr))
	}
	return out
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current selection state.
func (s *Session) State() State { return s.state }

// Log returns the session's event log.
func (s *Session) Log() *eventlog.Log { return s.log }

// Registry returns the referee registry.
func (s *Session) Registry() *Registry { return s.machine.registry }

// Catalog returns the event catalog.
func (s *Session) Catalog() *Catalog { return s.machine.catalog }

// Machine returns the session's machine.
func (s *Session) Machine() *Machine { return s.machine }

// ActiveReferee returns the selected referee slot, if any.
func (s *Session) ActiveReferee() (RefereeSlot, bool) {
	if !s.state.HasReferee() {
		return RefereeSlot{}, false
	}
	k := s.state.ActiveReferee
	return RefereeSlot{Hotkey: k, Name: s.machine.registry.Resolve(k)}, true
}
