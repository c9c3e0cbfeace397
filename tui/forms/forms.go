// Package forms provides huh-based form components for the TUI.
package forms

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/user/touch-ref-logger/tagging"
)

// NewConfirmQuitForm asks whether to quit with entries that were not written to disk.
// The result pointer is bound to the confirm field value.
func NewConfirmQuitForm(unsaved int, quit *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Quit without saving?").
				Description(fmt.Sprintf("%d logged event(s) have not been exported.", unsaved)).
				Affirmative("Yes, quit").
				Negative("No, go back").
				Value(quit),
		),
	).WithTheme(Theme())
}

// RefereeNames holds the names entered for each referee hotkey.
type RefereeNames map[rune]*string

// NewRefereeNamesForm creates a form with one input per referee slot.
// Existing names prefill the inputs; blank input leaves a slot unnamed.
func NewRefereeNamesForm(slots []tagging.RefereeSlot) (*huh.Form, RefereeNames) {
	names := make(RefereeNames, len(slots))
	fields := []huh.Field{
		huh.NewNote().
			Title("Referees").
			Description("Name the referee on each hotkey. Leave blank to skip."),
	}
	for _, s := range slots {
		name := s.Name
		names[s.Hotkey] = &name
		fields = append(fields, huh.NewInput().
			Title(fmt.Sprintf("Referee [%s]", strings.ToUpper(string(s.Hotkey)))).
			Value(&name).
			Validate(func(v string) error {
				if strings.Contains(v, "\n") {
					return fmt.Errorf("name must be a single line")
				}
				return nil
			}))
	}
	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(Theme())
	return form, names
}

// Apply writes the entered names to the registry. Blank names are skipped.
func (n RefereeNames) Apply(reg *tagging.Registry) error {
	for key, name := range n {
		v := strings.TrimSpace(*name)
		if v == "" {
			continue
		}
		if err := reg.SetName(key, v); err != nil {
			return err
		}
	}
	return nil
}
