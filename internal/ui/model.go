package ui

import (
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"soturidash/internal/config"
	"soturidash/internal/domain"
	"soturidash/internal/logging"
	"soturidash/internal/logic"
	"soturidash/internal/ui/handlers"
	"soturidash/internal/ui/mapsearch"
	"soturidash/internal/ui/pointer"
	"soturidash/internal/ui/services/visibility"
	"soturidash/internal/ui/state"
	"soturidash/internal/ui/views"
)

// E2EEnv makes the footer print a readiness marker for the terminal tests
const E2EEnv = "SOTURIDASH_E2E_TEST"

// how many cells an arrow key moves the map
const (
	panStepX = 8
	panStepY = 4
)

// Model represents the UI state
type Model struct {
	config *config.Config
	state  *state.AppState // centralized state
	store  logic.EntityReader

	// UI-specific state not in AppState
	width       int
	height      int
	keys        keyMap
	searchKeys  searchKeys
	help        help.Model
	inPagerMode bool // tracks if we're currently in pager mode
	e2e         bool

	// Components
	styles       *views.Styles
	renderer     *views.Renderer
	pointer      *pointer.Dispatcher
	search       *mapsearch.Model
	eventHandler *handlers.EventHandler
	log          *logrus.Entry

	// Program reference for terminal management
	program *tea.Program
	helpOps *HelpOps
}

// NewModel creates a new UI model reading entities from store
func NewModel(cfg *config.Config, store logic.EntityReader) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	styles := views.NewStyles()
	appState := state.NewAppState(homeViewport(cfg))

	m := &Model{
		config:       cfg,
		state:        appState,
		store:        store,
		keys:         defaultKeyMap(),
		searchKeys:   defaultSearchKeys(),
		help:         help.New(),
		e2e:          os.Getenv(E2EEnv) == "1",
		styles:       styles,
		renderer:     views.NewRenderer(styles),
		pointer:      pointer.NewDispatcher(),
		eventHandler: handlers.NewEventHandler(appState),
		log:          logging.Component("ui"),
	}

	m.search = mapsearch.New(store, m.state.FlyTo,
		mapsearch.WithWidth(cfg.UI.SearchWidth),
		mapsearch.WithMaxRows(cfg.UI.ResultLimit),
		mapsearch.WithStyles(styles),
	)
	m.search.Mount(m.pointer)
	return m
}

func homeViewport(cfg *config.Config) views.Viewport {
	return views.Viewport{
		Center: domain.Position{Lat: cfg.Map.CenterLat, Lng: cfg.Map.CenterLng},
		Zoom:   cfg.Map.Zoom,
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// Close releases the pointer listeners of the components
func (m *Model) Close() {
	m.search.Unmount()
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// SearchActive reports whether the search overlay is open
func (m *Model) SearchActive() bool {
	return m.state.Search.Active()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.placeSearch()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case visibility.OpenRequestedMsg:
		return m, m.applyVisibility(msg.Source, visibility.RequestOpen, msg)

	case visibility.CloseRequestedMsg:
		return m, m.applyVisibility(msg.Source, visibility.RequestClose, msg)

	case mapsearch.EntitySelectedMsg:
		// the map was already moved by the zoom callback
		m.state.Select(msg.Result.Entity)
		return m, nil

	default:
		if cmd, handled := m.handleNonKeyboardMsg(msg); handled {
			return m, cmd
		}
		// cursor blink and other input internals
		return m, m.search.Update(msg, m.SearchActive())
	}
}

// applyVisibility performs a transition requested by a component. The model
// is the only writer of the state.
func (m *Model) applyVisibility(source string, request visibility.Request, msg tea.Msg) tea.Cmd {
	if source != mapsearch.Source {
		return nil
	}
	next, changed := visibility.Apply(m.state.Search, request)
	m.state.Search = next
	if changed {
		m.log.WithField("state", next).Debug("Search visibility changed")
	}
	return m.search.Update(msg, next.Active())
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if m.SearchActive() {
		return m.search.Update(msg, true)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Search):
		return m.search.OpenCmd()
	case key.Matches(msg, m.keys.CloseCard):
		m.state.ClearSelection()
	case key.Matches(msg, m.keys.ZoomIn):
		m.state.ZoomBy(1)
	case key.Matches(msg, m.keys.ZoomOut):
		m.state.ZoomBy(-1)
	case key.Matches(msg, m.keys.Up):
		m.state.Pan(0, -panStepY)
	case key.Matches(msg, m.keys.Down):
		m.state.Pan(0, panStepY)
	case key.Matches(msg, m.keys.Left):
		m.state.Pan(-panStepX, 0)
	case key.Matches(msg, m.keys.Right):
		m.state.Pan(panStepX, 0)
	case key.Matches(msg, m.keys.Recenter):
		m.state.Recenter()
	case key.Matches(msg, m.keys.Help):
		return m.fetchHelpPager(views.RenderHelpContent())
	}
	return nil
}

// handleMouse offers the event to every pointer listener, then handles the
// parts of the screen no component owns: the card and the map
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	e := pointer.FromMouse(msg)
	cmd := m.pointer.Dispatch(e)

	if m.search.Region(m.SearchActive()).Contains(e.X, e.Y) {
		return cmd
	}

	if e.Action == tea.MouseActionPress {
		switch e.Button {
		case tea.MouseButtonWheelUp:
			m.state.ZoomBy(1)
			return cmd
		case tea.MouseButtonWheelDown:
			m.state.ZoomBy(-1)
			return cmd
		}
	}
	if !e.IsInteraction() {
		return cmd
	}

	if card := m.card(); card != "" {
		x, y := views.CardOrigin(m.width, m.height, card)
		dx, dy := views.InfoCloseOffset(card)
		closeBtn := pointer.Region{X: x + dx, Y: y + dy, Width: 3, Height: 1}
		if closeBtn.Contains(e.X, e.Y) {
			m.state.ClearSelection()
			return cmd
		}
		cardRegion := pointer.Region{X: x, Y: y, Width: lipgloss.Width(card), Height: lipgloss.Height(card)}
		if cardRegion.Contains(e.X, e.Y) {
			return cmd
		}
	}

	top, w, h := views.MapArea(m.width, m.height)
	if entity, ok := views.EntityAt(m.state.Viewport, m.store.Players(), m.store.Enemies(), w, h, e.X, e.Y-top); ok {
		m.state.Select(entity)
	}
	return cmd
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case EventMsg:
		// Process domain events
		return m.eventHandler.HandleEvent(msg.Event), true

	case handlers.EntitiesChangedMsg:
		m.search.Refresh()
		m.refreshSelection()
		return nil, true

	case handlers.ClearStatusMsg:
		m.state.ClearStatus(msg.ID)
		return nil, true

	case ConfigReloadedMsg:
		m.applyConfig(msg.Config)
		return nil, true

	case helpPagerMsg:
		if msg.err != nil {
			// Pager failed: log only; do not surface in status bar
			m.log.WithError(msg.err).Warn("Help pager failed")
		}
		return nil, true

	case pauseRenderingMsg:
		m.inPagerMode = true
		return nil, true

	case resumeRenderingMsg:
		m.inPagerMode = false
		return nil, true
	}
	return nil, false
}

// refreshSelection keeps the card in sync with the store. The card of an
// entity that left the game is closed.
func (m *Model) refreshSelection() {
	switch sel := m.state.Selected.(type) {
	case nil:
	case domain.Player:
		for _, p := range m.store.Players() {
			if p.Name == sel.Name {
				m.state.Select(p)
				return
			}
		}
		m.state.ClearSelection()
	case domain.Enemy:
		for _, e := range m.store.Enemies() {
			if e.ID == sel.ID {
				m.state.Select(e)
				return
			}
		}
		m.state.ClearSelection()
	default:
		panic("ui: unknown entity type")
	}
}

// applyConfig applies a config reloaded from disk. Only the start view
// changes; the operator's current view is kept.
func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m.config = cfg
	m.state.SetHome(homeViewport(cfg))
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	if m.program == nil {
		return nil
	}
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.helpOps.ShowHelpInPager(helpContent)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return helpPagerMsg{err: err}
	}
}

// placeSearch puts the search in the top right corner below the title
func (m *Model) placeSearch() {
	m.search.SetOrigin(max(0, m.width-m.search.Width()-1), 1)
}

func (m *Model) card() string {
	if !m.state.HasSelection() {
		return ""
	}
	return views.RenderEntityInfo(m.state.Selected, m.styles)
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.inPagerMode {
		return ""
	}

	active := m.SearchActive()
	var helpLine string
	if active {
		helpLine = m.help.View(m.searchKeys)
	} else {
		helpLine = m.help.View(m.keys)
	}

	return m.renderer.Render(views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Viewport:      m.state.Viewport,
		Players:       m.store.Players(),
		Enemies:       m.store.Enemies(),
		Selected:      m.state.Selected,
		Connection:    m.state.Connection,
		ServerVersion: m.state.ServerVersion,
		StatusMessage: m.state.StatusMessage,
		StatusIsError: m.state.StatusIsError,
		HelpLine:      helpLine,
		Search:        m.search.View(active),
		SearchOpen:    active,
		SearchX:       max(0, m.width-m.search.Width()-1),
		SearchY:       1,
		Card:          m.card(),
		Ready:         m.e2e,
	})
}
