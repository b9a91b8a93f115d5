package views

import (
	"github.com/charmbracelet/lipgloss"

	"soturidash/internal/domain"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title          lipgloss.Style
	Dim            lipgloss.Style
	Status         lipgloss.Style
	Help           lipgloss.Style
	SearchBar      lipgloss.Style
	SearchBarFocus lipgloss.Style
	SearchModal    lipgloss.Style
	ResultRow      lipgloss.Style
	ResultCursor   lipgloss.Style
	ResultHint     lipgloss.Style
	InfoBox        lipgloss.Style
	InfoTitle      lipgloss.Style
	InfoLabel      lipgloss.Style
	CloseButton    lipgloss.Style
	PlayerTag      lipgloss.Style
	EnemyTag       lipgloss.Style
	PlayerMarker   lipgloss.Style
	EnemyMarker    lipgloss.Style
	SelectedMarker lipgloss.Style
	MapGrid        lipgloss.Style
	MapCenter      lipgloss.Style
	StatusError    lipgloss.Style
	StatusWarning  lipgloss.Style
	StatusSuccess  lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	border := lipgloss.RoundedBorder()
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim:    lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Help:   lipgloss.NewStyle().Faint(true),
		SearchBar: lipgloss.NewStyle().
			Border(border).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		SearchBarFocus: lipgloss.NewStyle().
			Border(border).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1),
		SearchModal: lipgloss.NewStyle().
			Border(border).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1),
		ResultRow:    lipgloss.NewStyle(),
		ResultCursor: lipgloss.NewStyle().Background(lipgloss.Color("238")).Bold(true),
		ResultHint:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		InfoBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		InfoTitle:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		InfoLabel:      lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		CloseButton:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		PlayerTag:      lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		EnemyTag:       lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		PlayerMarker:   lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true),
		EnemyMarker:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		SelectedMarker: lipgloss.NewStyle().Background(lipgloss.Color("226")).Foreground(lipgloss.Color("0")),
		MapGrid:        lipgloss.NewStyle().Foreground(lipgloss.Color("237")),
		MapCenter:      lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
		StatusError:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusSuccess:  lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}

// KindTag renders the discriminant of an entity kind
func (s *Styles) KindTag(kind domain.EntityKind) string {
	switch kind {
	case domain.KindPlayer:
		return s.PlayerTag.Render("Player")
	case domain.KindEnemy:
		return s.EnemyTag.Render("Enemy ")
	default:
		return string(kind)
	}
}

// ConnectionColor returns the color for a connection state
func ConnectionColor(state domain.ConnectionState) string {
	switch state {
	case domain.Connected:
		return "78" // green
	case domain.Connecting:
		return "214" // yellow
	default:
		return "203" // red
	}
}
