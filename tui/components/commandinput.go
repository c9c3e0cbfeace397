package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/user/touch-ref-logger/tui/styles"
)

// InputMode selects what the bottom input line is collecting.
type InputMode int

const (
	// InputNone means the line shows the last result, if any.
	InputNone InputMode = iota
	// InputCommand collects a ':' command.
	InputCommand
	// InputDescription collects a description for the next logged event.
	InputDescription
)

// Prompt returns the prompt printed before the input buffer.
func (m InputMode) Prompt() string {
	switch m {
	case InputCommand:
		return ":"
	case InputDescription:
		return "Description: "
	default:
		return ""
	}
}

// CommandInputState holds the state for the command input component.
type CommandInputState struct {
	// Mode is the kind of input being collected
	Mode InputMode
	// Input is the current input buffer
	Input []rune
	// CursorPos is the cursor position within the input, in runes
	CursorPos int
	// Result is the result message to display (success or error)
	Result string
	// IsError indicates if the result is an error message
	IsError bool
}

// Active reports whether the line is collecting input.
func (s *CommandInputState) Active() bool {
	return s.Mode != InputNone
}

// CommandInput renders the command input component.
// When active, it shows the mode prompt with the current input.
// When not active but there's a result, it shows the result message.
func CommandInput(state CommandInputState, width int) string {
	lineStyle := lipgloss.NewStyle().
		Background(styles.DarkPurple).
		Width(width)

	if state.Active() {
		promptStyle := lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)
		inputStyle := lipgloss.NewStyle().
			Foreground(styles.LightLavender)

		input := string(state.Input)
		if state.CursorPos < len(state.Input) {
			input = string(state.Input[:state.CursorPos]) + "_" + string(state.Input[state.CursorPos:])
		} else {
			input += "_"
		}
		return lineStyle.Render(promptStyle.Render(state.Mode.Prompt()) + inputStyle.Render(input))
	}

	if state.Result != "" {
		resultStyle := styles.Result
		if state.IsError {
			resultStyle = styles.ResultError
		}
		return lineStyle.Render(" " + resultStyle.Render(state.Result))
	}

	return lineStyle.Render(" ")
}

// Start activates the line in the given mode with an optional initial buffer.
func (s *CommandInputState) Start(mode InputMode, initial string) {
	s.Mode = mode
	s.Input = []rune(initial)
	s.CursorPos = len(s.Input)
}

// InsertChar inserts a character at the current cursor position.
func (s *CommandInputState) InsertChar(c rune) {
	s.Input = append(s.Input, 0)
	copy(s.Input[s.CursorPos+1:], s.Input[s.CursorPos:])
	s.Input[s.CursorPos] = c
	s.CursorPos++
}

// Backspace deletes the character before the cursor.
func (s *CommandInputState) Backspace() {
	if s.CursorPos == 0 {
		return
	}
	s.Input = append(s.Input[:s.CursorPos-1], s.Input[s.CursorPos:]...)
	s.CursorPos--
}

// Delete deletes the character at the cursor.
func (s *CommandInputState) Delete() {
	if s.CursorPos < len(s.Input) {
		s.Input = append(s.Input[:s.CursorPos], s.Input[s.CursorPos+1:]...)
	}
}

// MoveCursorLeft moves the cursor left.
func (s *CommandInputState) MoveCursorLeft() {
	if s.CursorPos > 0 {
		s.CursorPos--
	}
}

// MoveCursorRight moves the cursor right.
func (s *CommandInputState) MoveCursorRight() {
	if s.CursorPos < len(s.Input) {
		s.CursorPos++
	}
}

// Clear clears the input buffer and leaves input mode.
func (s *CommandInputState) Clear() {
	s.Input = nil
	s.CursorPos = 0
	s.Mode = InputNone
}

// Submit returns the mode and buffer, then clears the input.
func (s *CommandInputState) Submit() (InputMode, string) {
	mode, text := s.Mode, string(s.Input)
	s.Clear()
	return mode, text
}

// SetResult sets the result message.
func (s *CommandInputState) SetResult(msg string, isError bool) {
	s.Result = msg
	s.IsError = isError
}

// ClearResult clears the result message.
func (s *CommandInputState) ClearResult() {
	s.Result = ""
	s.IsError = false
}
