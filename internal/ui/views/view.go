package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"soturidash/internal/domain"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	Viewport      Viewport
	Players       []domain.Player
	Enemies       []domain.Enemy
	Selected      domain.Entity
	Connection    domain.ConnectionState
	ServerVersion string
	StatusMessage string
	StatusIsError bool
	HelpLine      string
	Search        string
	SearchOpen    bool
	SearchX       int
	SearchY       int
	Card          string
	Ready         bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	mapRender   *MapRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(styles *Styles) *Renderer {
	return &Renderer{
		styles:      styles,
		mapRender:   NewMapRenderer(styles),
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles returns the styles used by the renderer
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// MapArea returns the screen rows and size of the map: everything between
// the title line and the footer line
func MapArea(width, height int) (top, w, h int) {
	return 1, width, max(0, height-2)
}

// CardOrigin returns where the entity card is drawn on screen
func CardOrigin(width, height int, card string) (x, y int) {
	return 1, max(1, height-1-lipgloss.Height(card))
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	width, height := state.Width, state.Height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	_, mapW, mapH := MapArea(width, height)
	lines := []string{r.renderTitle(state, width)}
	if mapH > 0 {
		lines = append(lines, r.mapRender.Render(state.Viewport, state.Players, state.Enemies, state.Selected, mapW, mapH))
	}
	lines = append(lines, r.renderFooter(state, width))
	screen := strings.Join(lines, "\n")

	switch {
	case state.Search != "" && state.SearchOpen:
		screen = r.popupRender.RenderModal(screen, state.Search, state.SearchX, state.SearchY)
	case state.Search != "":
		screen = Overlay(screen, state.Search, state.SearchX, state.SearchY)
	}
	if state.Card != "" {
		x, y := CardOrigin(width, height, state.Card)
		screen = Overlay(screen, state.Card, x, y)
	}
	return screen
}

func (r *Renderer) renderTitle(state ViewState, width int) string {
	logo := r.styles.Title.Render("soturidash")

	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(ConnectionColor(state.Connection))).Render("●")
	left := fmt.Sprintf("%s %s %s", logo, dot, r.styles.Dim.Render(state.Connection.String()))
	if state.ServerVersion != "" {
		left += r.styles.Dim.Render(" " + state.ServerVersion)
	}

	right := r.styles.Dim.Render(fmt.Sprintf("%d players · %d enemies · z%d",
		len(state.Players), len(state.Enemies), state.Viewport.Zoom))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (r *Renderer) renderFooter(state ViewState, width int) string {
	var footer string
	switch {
	case state.StatusMessage != "" && state.StatusIsError:
		footer = r.styles.StatusError.Render(state.StatusMessage)
	case state.StatusMessage != "":
		footer = r.styles.Status.Render(state.StatusMessage)
	default:
		footer = state.HelpLine
	}
	if state.Ready {
		// marker for the terminal test harness
		footer += " __READY__"
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(footer)
}
