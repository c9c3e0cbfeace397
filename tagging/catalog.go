package tagging

import (
	"fmt"
	"strings"
)

// EventType is one loggable event label and the key that logs it.
type EventType struct {
	Hotkey rune
	Label  string
}

// Catalog is the ordered, immutable list of event types for a session.
type Catalog struct {
	events []EventType
	index  map[rune]int
}

// Catalog presets.
const (
	PresetTouch  = "touch"
	PresetSports = "sports"
)

// touchEvents are the referee-assessment events of a touch football review.
var touchEvents = []string{
	"Short 7M",
	"Long 7M",
	"Incorrect IC",
	"Avoidable Penalty",
	"Penalty Missed",
	"Control Issue",
	"Turnover Missed",
	"Sideline Issue",
	"Dis-interested",
}

// sportsEvents are the generic match events.
var sportsEvents = []string{
	"Goal",
	"Foul",
	"Substitution",
	"Injury",
	"Other",
}

// Preset returns a built-in catalog with labels bound to digits 1..n.
func Preset(name string) (*Catalog, error) {
	var labels []string
	switch strings.ToLower(name) {
	case "", PresetTouch:
		labels = touchEvents
	case PresetSports:
		labels = sportsEvents
	default:
		return nil, fmt.Errorf("unknown catalog preset '%s': must be %s or %s", name, PresetTouch, PresetSports)
	}
	events := make([]EventType, len(labels))
	for i, l := range labels {
		events[i] = EventType{Hotkey: rune('1' + i), Label: l}
	}
	return NewCatalog(events)
}

// NewCatalog validates and freezes the given event types.
func NewCatalog(events []EventType) (*Catalog, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("event catalog is empty")
	}
	c := &Catalog{index: make(map[rune]int, len(events))}
	for _, e := range events {
		e.Hotkey = normalizeKey(e.Hotkey)
		if !isHotkeyRune(e.Hotkey) {
			return nil, fmt.Errorf("event '%s' hotkey %q: %w", e.Label, e.Hotkey, ErrUnknownHotkey)
		}
		if strings.TrimSpace(e.Label) == "" {
			return nil, fmt.Errorf("event hotkey %q has an empty label", e.Hotkey)
		}
		if _, ok := c.index[e.Hotkey]; ok {
			return nil, fmt.Errorf("event hotkey %q: %w", e.Hotkey, ErrDuplicateHotkey)
		}
		c.index[e.Hotkey] = len(c.events)
		c.events = append(c.events, e)
	}
	return c, nil
}

// Lookup returns the event bound to hotkey.
func (c *Catalog) Lookup(hotkey rune) (EventType, bool) {
	i, ok := c.index[normalizeKey(hotkey)]
	if !ok {
		return EventType{}, false
	}
	return c.events[i], true
}

// Find resolves an event by hotkey (single character) or by label, case-insensitively.
func (c *Catalog) Find(keyOrLabel string) (EventType, bool) {
	if r := []rune(keyOrLabel); len(r) == 1 {
		if e, ok := c.Lookup(r[0]); ok {
			return e, true
		}
	}
	for _, e := range c.events {
		if strings.EqualFold(e.Label, keyOrLabel) {
			return e, true
		}
	}
	return EventType{}, false
}

// Events returns a copy of the catalog in order.
func (c *Catalog) Events() []EventType {
	out := make([]EventType, len(c.events))
	copy(out, c.events)
	return out
}
