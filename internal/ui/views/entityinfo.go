package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"soturidash/internal/domain"
)

const infoCardWidth = 30

// RenderEntityInfo renders the detail card of a player or an enemy
func RenderEntityInfo(entity domain.Entity, styles *Styles) string {
	var lines []string
	switch e := entity.(type) {
	case domain.Player:
		lines = []string{
			header(e.Name, styles),
			fmt.Sprintf("%s lvl %d", styles.KindTag(domain.KindPlayer), e.Lvl),
			field(styles, "HP", fmt.Sprintf("%d/%d", e.HP, e.MaxHP)),
			field(styles, "XP", fmt.Sprintf("%d", e.XP)),
			field(styles, "ATK", fmt.Sprintf("%d", e.Attack)),
			field(styles, "DEF", fmt.Sprintf("%d", e.Defense)),
			styles.Dim.Render(e.Position.String()),
		}
	case domain.Enemy:
		lines = []string{
			header(e.Name, styles),
			fmt.Sprintf("%s lvl %d", styles.KindTag(domain.KindEnemy), e.Lvl),
			field(styles, "ID", fmt.Sprintf("%d", e.ID)),
			styles.Dim.Render(e.Position.String()),
		}
	default:
		panic(fmt.Sprintf("views: unknown entity type %T", entity))
	}
	return styles.InfoBox.Width(infoCardWidth).Render(strings.Join(lines, "\n"))
}

// InfoCloseOffset returns the position of the card's [x] button relative to
// the card's top-left cell
func InfoCloseOffset(card string) (dx, dy int) {
	// right border and right padding follow the button
	return lipgloss.Width(card) - 5, 1
}

func header(name string, styles *Styles) string {
	closeBtn := styles.CloseButton.Render("[x]")
	room := infoCardWidth - 2 - lipgloss.Width(closeBtn) - 1
	name = ansi.Truncate(name, room, "…")
	title := styles.InfoTitle.Render(name)
	gap := infoCardWidth - 2 - lipgloss.Width(title) - lipgloss.Width(closeBtn)
	return title + strings.Repeat(" ", max(1, gap)) + closeBtn
}

func field(styles *Styles, label, value string) string {
	return styles.InfoLabel.Render(fmt.Sprintf("%-4s", label)) + value
}
