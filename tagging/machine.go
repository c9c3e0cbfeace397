package tagging

import (
	"fmt"
	"strings"

	"github.com/user/touch-ref-logger/eventlog"
)

// State is the whole selection state. It is a plain value: Handle takes the
// current state and returns the next one.
type State struct {
	// ActiveReferee is the selected referee hotkey, 0 when none is selected.
	ActiveReferee rune
	// LastToken is the token of the last handled delivery.
	LastToken string
}

// HasReferee reports whether a referee is selected.
func (s State) HasReferee() bool {
	return s.ActiveReferee != 0
}

// OutcomeKind classifies the result of handling one input.
type OutcomeKind int

const (
	OutcomeIgnored OutcomeKind = iota
	OutcomeDuplicate
	OutcomeRefereeSelected
	OutcomeLogged
	OutcomeRejected
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeRefereeSelected:
		return "referee_selected"
	case OutcomeLogged:
		return "logged"
	case OutcomeRejected:
		return "rejected"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome describes what a single input did.
type Outcome struct {
	Kind    OutcomeKind
	Token   string
	Referee RefereeSlot
	Event   EventType
	// Notice is the user-facing message for rejected inputs.
	Notice string

	// Set by Session.
	SessionID string
	Entry     eventlog.Entry
	Index     int
	// ObserverErr joins the errors of observers notified about this outcome.
	ObserverErr error
}

// Option configures a Machine.
type Option func(*Machine)

// WithRequireReferee sets whether events may only be logged with a referee selected.
func WithRequireReferee(require bool) Option {
	return func(m *Machine) {
		m.requireReferee = require
	}
}

// Machine interprets inputs against a registry and catalog.
type Machine struct {
	registry       *Registry
	catalog        *Catalog
	requireReferee bool
	notice         string
}

// NewMachine builds a machine. Referee and event hotkeys must not overlap.
// Referee selection is required before logging unless disabled with
// WithRequireReferee(false).
func NewMachine(reg *Registry, cat *Catalog, opts ...Option) (*Machine, error) {
	if reg == nil || cat == nil {
		return nil, fmt.Errorf("machine needs a registry and a catalog")
	}
	for _, e := range cat.events {
		if reg.IsReferee(e.Hotkey) {
			return nil, fmt.Errorf("hotkey %q is both a referee and event '%s': %w", e.Hotkey, e.Label, ErrDuplicateHotkey)
		}
	}
	m := &Machine{
		registry:       reg,
		catalog:        cat,
		requireReferee: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.notice = rejectionNotice(reg.Keys())
	return m, nil
}

// Registry returns the referee registry the machine resolves names from.
func (m *Machine) Registry() *Registry { return m.registry }

// Catalog returns the event catalog.
func (m *Machine) Catalog() *Catalog { return m.catalog }

// RequireReferee reports whether logging is gated on a selected referee.
func (m *Machine) RequireReferee() bool {
	return m.requireReferee
}

// Handle interprets in against state and returns the next state and the outcome.
// Logged outcomes carry the resolved referee name; appending is left to the caller.
func (m *Machine) Handle(state State, in Input) (State, Outcome) {
	key := normalizeKey(in.Key)
	token := in.Token()
	out := Outcome{Token: token}

	isRef := m.registry.IsReferee(key)
	event, isEvent := m.catalog.Lookup(key)
	if !isRef && !isEvent {
		out.Kind = OutcomeIgnored
		return state, out
	}
	if state.LastToken != "" && token == state.LastToken {
		out.Kind = OutcomeDuplicate
		return state, out
	}

	next := state
	next.LastToken = token

	if isRef {
		next.ActiveReferee = key
		out.Kind = OutcomeRefereeSelected
		out.Referee = RefereeSlot{Hotkey: key, Name: m.registry.Resolve(key)}
		return next, out
	}

	out.Event = event
	if !state.HasReferee() {
		if m.requireReferee {
			// A rejected press leaves the state untouched.
			out.Kind = OutcomeRejected
			out.Notice = m.notice
			return state, out
		}
		out.Kind = OutcomeLogged
		return next, out
	}
	out.Kind = OutcomeLogged
	out.Referee = RefereeSlot{Hotkey: state.ActiveReferee, Name: m.registry.Resolve(state.ActiveReferee)}
	return next, out
}

// rejectionNotice renders e.g. "press A, S or D to select a referee before logging".
func rejectionNotice(keys []rune) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = strings.ToUpper(string(k))
	}
	var list string
	switch len(names) {
	case 0:
		list = "a referee key"
	case 1:
		list = names[0]
	default:
		list = strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
	}
	return fmt.Sprintf("press %s to select a referee before logging", list)
}
