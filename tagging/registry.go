// Package tagging maps hotkey input to referee selections and logged events.
package tagging

import (
	"errors"
	"fmt"
	"unicode"
)

var (
	// ErrUnknownHotkey is returned when a hotkey is not part of the configured set.
	ErrUnknownHotkey = errors.New("unknown hotkey")
	// ErrDuplicateHotkey is returned when a hotkey is bound more than once.
	ErrDuplicateHotkey = errors.New("duplicate hotkey")
)

// DefaultRefereeKeys are the referee hotkeys used when none are configured.
var DefaultRefereeKeys = []rune{'a', 's', 'd'}

// RefereeSlot binds a referee hotkey to the name shown in the log.
type RefereeSlot struct {
	Hotkey rune
	Name   string
}

// Registry is a fixed set of referee slots. Names may change during a session;
// the set of hotkeys may not.
type Registry struct {
	slots []RefereeSlot
	index map[rune]int
}

// NewRegistry creates a registry with one slot per hotkey, all names empty.
func NewRegistry(keys ...rune) (*Registry, error) {
	if len(keys) == 0 {
		keys = DefaultRefereeKeys
	}
	r := &Registry{index: make(map[rune]int, len(keys))}
	for _, k := range keys {
		k = normalizeKey(k)
		if !isHotkeyRune(k) {
			return nil, fmt.Errorf("referee hotkey %q: %w", k, ErrUnknownHotkey)
		}
		if _, ok := r.index[k]; ok {
			return nil, fmt.Errorf("referee hotkey %q: %w", k, ErrDuplicateHotkey)
		}
		r.index[k] = len(r.slots)
		r.slots = append(r.slots, RefereeSlot{Hotkey: k})
	}
	return r, nil
}

// SetName overwrites the display name for hotkey.
func (r *Registry) SetName(hotkey rune, name string) error {
	i, ok := r.index[normalizeKey(hotkey)]
	if !ok {
		return fmt.Errorf("referee hotkey %q: %w", hotkey, ErrUnknownHotkey)
	}
	r.slots[i].Name = name
	return nil
}

// Resolve returns the display name for hotkey, or "" when unset or unknown.
func (r *Registry) Resolve(hotkey rune) string {
	i, ok := r.index[normalizeKey(hotkey)]
	if !ok {
		return ""
	}
	return r.slots[i].Name
}

// IsReferee reports whether hotkey selects a referee.
func (r *Registry) IsReferee(hotkey rune) bool {
	_, ok := r.index[normalizeKey(hotkey)]
	return ok
}

// Slots returns a copy of the slots in configured order.
func (r *Registry) Slots() []RefereeSlot {
	out := make([]RefereeSlot, len(r.slots))
	copy(out, r.slots)
	return out
}

// Keys returns the referee hotkeys in configured order.
func (r *Registry) Keys() []rune {
	keys := make([]rune, len(r.slots))
	for i, s := range r.slots {
		keys[i] = s.Hotkey
	}
	return keys
}

// Missing returns the hotkeys whose names are still empty.
func (r *Registry) Missing() []rune {
	var keys []rune
	for _, s := range r.slots {
		if s.Name == "" {
			keys = append(keys, s.Hotkey)
		}
	}
	return keys
}

func normalizeKey(k rune) rune {
	return unicode.ToLower(k)
}

// isHotkeyRune limits hotkeys to printable, non-space single characters.
func isHotkeyRune(k rune) bool {
	return k != 0 && unicode.IsPrint(k) && !unicode.IsSpace(k)
}
