package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/user/touch-ref-logger/pkg/timeutil"
)

// executeCommand runs one ':' command and returns the message to show.
func (m *Model) executeCommand(cmdStr string) (string, error) {
	parts := strings.Fields(cmdStr)
	if len(parts) == 0 {
		return "", nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	// the free-text remainder keeps its inner spacing
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cmdStr), parts[0]))

	switch cmd {
	case "ref", "referee":
		return m.executeRefCommand(args)
	case "seek":
		if len(args) < 1 {
			return "", fmt.Errorf("seek requires a time argument (e.g., seek 1:30 or seek 90)")
		}
		seconds, err := timeutil.ParseTimeToSeconds(args[0])
		if err != nil {
			return "", err
		}
		if seconds < 0 {
			return "", fmt.Errorf("seek time must not be negative")
		}
		if m.playerReady() {
			if err := m.client.Seek(seconds); err != nil {
				return "", err
			}
		}
		// logging right after a seek uses the new position, also without a player
		m.session.SetPosition(seconds)
		m.statusBar.TimePos = m.session.Position()
		return fmt.Sprintf("Seeked to %s", timeutil.FormatTime(seconds)), nil
	case "play":
		if !m.playerReady() {
			return "", fmt.Errorf("not connected to mpv")
		}
		if err := m.client.SetPaused(false); err != nil {
			return "", err
		}
		return "Playing", nil
	case "pause", "p":
		if !m.playerReady() {
			return "", fmt.Errorf("not connected to mpv")
		}
		if err := m.client.SetPaused(true); err != nil {
			return "", err
		}
		return "Paused", nil
	case "export", "w":
		path := ""
		if len(args) > 0 {
			path = rest
		}
		msg, err := m.export(path)
		if err != nil {
			return "", fmt.Errorf("%s", msg)
		}
		return msg, nil
	case "desc", "description":
		m.session.SetDescription(rest)
		if rest == "" {
			return "Description cleared", nil
		}
		return "Description will be attached to the next event", nil
	case "q", "quit":
		m.requestQuit()
		return "", nil
	case "help":
		m.showHelp = true
		return "", nil
	default:
		return "", fmt.Errorf("unknown command: %s", cmd)
	}
}

// executeRefCommand names a referee: ref <key> <name>.
func (m *Model) executeRefCommand(args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("usage: ref <key> <name>")
	}
	key, size := utf8.DecodeRuneInString(args[0])
	if size != len(args[0]) {
		return "", fmt.Errorf("referee key must be a single character, got '%s'", args[0])
	}
	name := strings.Join(args[1:], " ")
	if err := m.session.SetRefereeName(key, name); err != nil {
		return "", err
	}
	m.refresh(false)
	return fmt.Sprintf("Referee [%s] is now %s", strings.ToUpper(args[0]), name), nil
}
