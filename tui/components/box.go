package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/user/touch-ref-logger/tui/styles"
)

var (
	borderStyle   = lipgloss.NewStyle().Foreground(styles.Purple)
	titleStyle    = lipgloss.NewStyle().Foreground(styles.Pink).Bold(true)
	nameStyle     = lipgloss.NewStyle().Foreground(styles.LightLavender)
	shortcutStyle = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	activeStyle   = lipgloss.NewStyle().Background(styles.BrightPurple).Foreground(styles.LightLavender).Bold(true)
)

// corners of a box frame: top-left, top-right, bottom-left, bottom-right.
type corners [4]string

var (
	rounded = corners{"╭", "╮", "╰", "╯"}
	square  = corners{"┌", "┐", "└", "┘"}
)

// frame draws rows inside a width-wide border with the title set into the top
// edge. A nil row draws a divider. Rows wider than the box are truncated.
func frame(title string, rows []*string, width int, c corners) string {
	inner := width - 2
	head := titleStyle.Render(" " + title + " ")
	fill := max(inner-1-lipgloss.Width(head), 0)

	out := make([]string, 0, len(rows)+2)
	out = append(out, borderStyle.Render(c[0]+"─")+head+borderStyle.Render(strings.Repeat("─", fill)+c[1]))
	for _, row := range rows {
		if row == nil {
			out = append(out, borderStyle.Render("├"+strings.Repeat("─", inner)+"┤"))
			continue
		}
		line := ansi.Truncate(*row, inner, "")
		pad := inner - lipgloss.Width(line)
		out = append(out, borderStyle.Render("│")+line+strings.Repeat(" ", pad)+borderStyle.Render("│"))
	}
	out = append(out, borderStyle.Render(c[2]+strings.Repeat("─", inner)+c[3]))
	return strings.Join(out, "\n")
}

// RenderInfoBox renders lines in a rounded box titled title. Lines are
// rendered as given, so callers style them.
func RenderInfoBox(title string, lines []string, width int) string {
	if width < 4 {
		return ""
	}
	rows := make([]*string, len(lines))
	for i := range lines {
		rows[i] = &lines[i]
	}
	return frame(title, rows, width, rounded)
}

// RenderControlBox renders a control group as "Name  [ Key ]" rows, names
// aligned, with a divider between sub-groups. Active controls are highlighted.
func RenderControlBox(group ControlGroup, width int) string {
	if width < 6 {
		return ""
	}

	nameW := 0
	for _, sg := range group.SubGroups {
		for _, c := range sg {
			nameW = max(nameW, lipgloss.Width(c.Name))
		}
	}

	var rows []*string
	for i, sg := range group.SubGroups {
		if i > 0 {
			rows = append(rows, nil)
		}
		for _, c := range sg {
			ns, ss := nameStyle, shortcutStyle
			if c.Active {
				ns, ss = activeStyle, activeStyle
			}
			row := " " + ns.Render(fmt.Sprintf("%-*s", nameW, c.Name)) + "  " + ss.Render("[ "+c.Shortcut+" ]")
			rows = append(rows, &row)
		}
	}
	return frame(group.Name, rows, width, square)
}
