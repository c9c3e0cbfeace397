// Package styles provides Lipgloss styles for the TUI using the Ciapre colour palette.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette - Ciapre (warm, earthy) theme from Gogh
const (
	// DeepPurple is the main background colour
	DeepPurple = lipgloss.Color("#191C27")
	// DarkPurple is the status and command bar background
	DarkPurple = lipgloss.Color("#181818")
	// Purple is the border/dim accent colour
	Purple = lipgloss.Color("#5C4F4B")
	// BrightPurple marks the selected row and the active referee
	BrightPurple = lipgloss.Color("#724D7C")
	// Lavender is a secondary text colour
	Lavender = lipgloss.Color("#AEA47A")
	// LightLavender is the primary text colour
	LightLavender = lipgloss.Color("#F3DBB2")
	// Pink is an accent colour for headers
	Pink = lipgloss.Color("#D33061")
	// Cyan is an accent colour for hotkeys and information
	Cyan = lipgloss.Color("#3097C6")
	// Amber flags entries that are not on disk yet
	Amber = lipgloss.Color("#CC8B3F")
	// Red is used for rejected input and failures
	Red = lipgloss.Color("#AC3835")
	// Green is used for logged events
	Green = lipgloss.Color("#A6A75D")
)

// Result is the bottom-line style for a successful action.
var Result = lipgloss.NewStyle().
	Foreground(Green).
	Bold(true)

// ResultError is the bottom-line style for a rejected or failed action.
var ResultError = lipgloss.NewStyle().
	Foreground(Red).
	Bold(true)

// Unsaved marks the unsaved indicator in the status bar.
var Unsaved = lipgloss.NewStyle().
	Foreground(Amber).
	Bold(true)
