package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpEntry struct {
	keys, desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{"Map", []helpEntry{
		{"←/↓/↑/→, h/j/k/l", "Pan the map"},
		{"+/-", "Zoom in/out"},
		{"c", "Recenter on the selected entity"},
		{"click", "Show the entity under the pointer"},
	}},
	{"Search", []helpEntry{
		{"/", "Open the search"},
		{"type", "Filter players and enemies by name (regular expression)"},
		{"↑/↓, tab", "Move in the results"},
		{"enter, click", "Zoom to the result and show its card"},
		{"esc", "Close the search"},
		{"click outside", "Close the search"},
	}},
	{"Entity card", []helpEntry{
		{"esc, [x]", "Close the card"},
	}},
	{"Other", []helpEntry{
		{"?", "Show this help"},
		{"q, ctrl+c", "Quit"},
	}},
}

// RenderHelpContent renders the full help text shown in the pager
func RenderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	keyWidth := 0
	for _, s := range helpSections {
		for _, e := range s.entries {
			keyWidth = max(keyWidth, lipgloss.Width(e.keys))
		}
	}

	var help strings.Builder
	help.WriteString(titleStyle.Render("soturidash Help"))
	help.WriteString("\n")

	for _, s := range helpSections {
		help.WriteString(sectionStyle.Render(s.title))
		help.WriteString("\n")
		for _, e := range s.entries {
			pad := strings.Repeat(" ", keyWidth-lipgloss.Width(e.keys))
			help.WriteString(fmt.Sprintf("  %s%s  %s\n", keyStyle.Render(e.keys), pad, descStyle.Render(e.desc)))
		}
	}

	help.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).
		Render("  Search examples: ^Ar, wolf$, (?!Aria).*"))
	return help.String()
}
