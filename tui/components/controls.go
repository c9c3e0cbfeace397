package components

import (
	"strings"

	"github.com/user/touch-ref-logger/tagging"
)

// Control represents a single control with its display info.
type Control struct {
	Name     string
	Shortcut string
	// Active highlights the control, e.g. the selected referee
	Active bool
}

// ControlGroup represents a group of related controls with sub-group support.
// SubGroups allows the renderer to place horizontal dividers between sub-groups.
type ControlGroup struct {
	Name      string
	SubGroups [][]Control
}

// RefereeControls lists the referee hotkeys with the active one highlighted.
// Unnamed slots show a placeholder so the key is still discoverable.
func RefereeControls(slots []tagging.RefereeSlot, active rune) ControlGroup {
	controls := make([]Control, len(slots))
	for i, s := range slots {
		name := s.Name
		if name == "" {
			name = "(unnamed)"
		}
		controls[i] = Control{Name: name, Shortcut: shortcut(s.Hotkey), Active: s.Hotkey == active}
	}
	return ControlGroup{Name: "Referees", SubGroups: [][]Control{controls}}
}

// EventControls lists the event hotkeys in catalog order.
func EventControls(events []tagging.EventType) ControlGroup {
	controls := make([]Control, len(events))
	for i, e := range events {
		controls[i] = Control{Name: e.Label, Shortcut: shortcut(e.Hotkey)}
	}
	return ControlGroup{Name: "Events", SubGroups: [][]Control{controls}}
}

// KeyControls returns the fixed playback and session control groups.
func KeyControls() []ControlGroup {
	return []ControlGroup{
		{
			Name: "Playback",
			SubGroups: [][]Control{
				{
					{Name: "Play", Shortcut: "Space"},
					{Name: "Back", Shortcut: "H / \u2190"},
					{Name: "Fwd", Shortcut: "L / \u2192"},
				},
				{
					{Name: "Step -", Shortcut: "<"},
					{Name: "Step +", Shortcut: ">"},
				},
			},
		},
		{
			Name: "Session",
			SubGroups: [][]Control{
				{
					{Name: "Describe", Shortcut: "N"},
					{Name: "Export", Shortcut: "X"},
					{Name: "Command", Shortcut: ":"},
				},
				{
					{Name: "Help", Shortcut: "?"},
					{Name: "Quit", Shortcut: "Q"},
				},
			},
		},
	}
}

func shortcut(k rune) string {
	return strings.ToUpper(string(k))
}
