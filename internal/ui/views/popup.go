package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderModal draws popup with its top-left corner at (x, y). The rows
// between the title line and the footer line are greyed out behind it.
func (pr *PopupRenderer) RenderModal(mainContent, popup string, x, y int) string {
	return Overlay(dimBody(mainContent), popup, max(0, x), max(0, y))
}

// Overlay draws top over base with its top-left corner at cell (x, y).
// Cells of base outside the top block are preserved, styles included.
func Overlay(base, top string, x, y int) string {
	baseLines := strings.Split(base, "\n")
	for i, line := range strings.Split(top, "\n") {
		row := y + i
		if row < 0 {
			continue
		}
		for row >= len(baseLines) {
			baseLines = append(baseLines, "")
		}

		under := baseLines[row]
		underW := ansi.StringWidth(under)
		if underW < x {
			under += strings.Repeat(" ", x-underW)
			underW = x
		}

		left := ansi.Truncate(under, x, "")
		right := ""
		if end := x + ansi.StringWidth(line); underW > end {
			right = ansi.TruncateLeft(under, end, "")
		}
		baseLines[row] = left + line + right
	}
	return strings.Join(baseLines, "\n")
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// desaturateANSI strips ANSI color/style codes and recolors text dim gray
func desaturateANSI(s string) string {
	plain := ansiRE.ReplaceAllString(s, "")
	return lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(plain)
}

// dimBody greys out every line except the first and the last
func dimBody(s string) string {
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines)-1; i++ {
		lines[i] = desaturateANSI(lines[i])
	}
	return strings.Join(lines, "\n")
}

// StripANSI removes color codes, for tests and width checks
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}
