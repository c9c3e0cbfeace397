package tui

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/user/touch-ref-logger/tagging"
)

// ErrReservedHotkey is returned when a referee or event hotkey collides with a UI key.
var ErrReservedHotkey = errors.New("hotkey is reserved")

// reservedKeys maps the keys the TUI itself handles to what they do.
var reservedKeys = map[rune]string{
	'q': "quit",
	'?': "help",
	':': "command mode",
	' ': "play/pause",
	'h': "seek back",
	'l': "seek forward",
	'j': "previous entry",
	'k': "next entry",
	'<': "step size down",
	'>': "step size up",
	'x': "export",
	'n': "describe next event",
}

// ValidateHotkeys rejects referee and event hotkeys that the TUI already uses.
func ValidateHotkeys(m *tagging.Machine) error {
	for _, k := range m.Registry().Keys() {
		if action, ok := reservedKeys[unicode.ToLower(k)]; ok {
			return fmt.Errorf("referee hotkey %q is used for %s: %w", k, action, ErrReservedHotkey)
		}
	}
	for _, e := range m.Catalog().Events() {
		if action, ok := reservedKeys[unicode.ToLower(e.Hotkey)]; ok {
			return fmt.Errorf("hotkey %q for '%s' is used for %s: %w", e.Hotkey, e.Label, action, ErrReservedHotkey)
		}
	}
	return nil
}
