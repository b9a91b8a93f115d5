// Package mapsearch is the search overlay of the map: a collapsed search bar
// that expands into a modal listing the players and enemies whose name
// matches the typed pattern.
package mapsearch

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"soturidash/internal/domain"
	"soturidash/internal/logic"
	"soturidash/internal/ui/pointer"
	"soturidash/internal/ui/services/events"
	"soturidash/internal/ui/services/search"
	"soturidash/internal/ui/services/visibility"
	"soturidash/internal/ui/views"
)

// Source names this component in visibility requests
const Source = "search"

const (
	defaultWidth   = 36
	defaultMaxRows = 8

	barHeight   = 3 // border, input line, border
	statusLines = 1
	closeLabel  = "[x]"
	placeholder = "Search players & enemies"
	hintText    = "type a name or pattern"
)

// ZoomFunc flies the map to a position
type ZoomFunc func(domain.Position)

// EntitySelectedMsg is sent when the operator picks a result
type EntitySelectedMsg struct {
	Result search.Result
}

// Option configures a Model
type Option func(*Model)

// WithBus publishes search events on bus
func WithBus(bus events.EventBus) Option {
	return func(m *Model) { m.bus = bus }
}

// WithWidth sets the inner width of the bar and the modal
func WithWidth(width int) Option {
	return func(m *Model) {
		if width >= 16 {
			m.width = width
		}
	}
}

// WithMaxRows limits how many results are visible at once
func WithMaxRows(rows int) Option {
	return func(m *Model) {
		if rows > 0 {
			m.maxRows = rows
		}
	}
}

// WithStyles overrides the default styles
func WithStyles(styles *views.Styles) Option {
	return func(m *Model) { m.styles = styles }
}

// Model is the search controller. It never owns the open/closed state: the
// parent passes the current flag into Update, View and Region and applies
// the requests this component emits.
type Model struct {
	service  *search.Service
	bus      events.EventBus
	zoom     ZoomFunc
	styles   *views.Styles
	input    textinput.Model
	detector *visibility.OutsideDetector

	releaseClicks func()

	// status line of the modal, driven by the search events
	status     string
	statusWarn bool

	x, y    int
	width   int
	maxRows int
	cursor  int
	offset  int
	focused bool
	// active is the flag of the last Update or View call, which is what is
	// on screen when the next pointer event arrives
	active bool
}

// New creates a search controller reading entities from store. zoom is
// called with the position of every selected result.
func New(store logic.EntityReader, zoom ZoomFunc, opts ...Option) *Model {
	m := &Model{
		zoom:    zoom,
		width:   defaultWidth,
		maxRows: defaultMaxRows,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.styles == nil {
		m.styles = views.NewStyles()
	}
	if m.zoom == nil {
		m.zoom = func(domain.Position) {}
	}
	if m.bus == nil {
		m.bus = events.NewBus()
	}
	m.status = hintText
	m.subscribe()
	m.service = search.NewService(store, m.bus)

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = m.width - 2 - lipgloss.Width(ti.Prompt) - 1
	m.input = ti

	m.detector = visibility.NewOutsideDetector(Source, func() pointer.Region {
		return m.Region(m.active)
	})
	return m
}

// subscribe keeps the status line in step with the outcome of every pass
func (m *Model) subscribe() {
	m.bus.Subscribe(events.EventName(search.SearchCompletedEvent{}), func(e interface{}) {
		ev := e.(search.SearchCompletedEvent)
		if n := ev.PlayerCount + ev.EnemyCount; n == 1 {
			m.status = "1 result"
		} else {
			m.status = fmt.Sprintf("%d results", n)
		}
		m.statusWarn = false
	})
	m.bus.Subscribe(events.EventName(search.SearchClearedEvent{}), func(interface{}) {
		m.status, m.statusWarn = hintText, false
	})
	m.bus.Subscribe(events.EventName(search.SearchRejectedEvent{}), func(interface{}) {
		m.status, m.statusWarn = "invalid pattern", true
	})
}

// Mount installs the pointer listeners on the dispatcher
func (m *Model) Mount(d *pointer.Dispatcher) {
	m.detector.Install(d)
	if m.releaseClicks == nil {
		m.releaseClicks = d.Listen(m.handlePointer)
	}
}

// Unmount removes every listener installed by Mount
func (m *Model) Unmount() {
	m.detector.Release()
	if m.releaseClicks != nil {
		m.releaseClicks()
		m.releaseClicks = nil
	}
}

// Mounted reports whether the listeners are installed
func (m *Model) Mounted() bool {
	return m.detector.Installed()
}

// SetOrigin moves the top-left corner of the component on screen
func (m *Model) SetOrigin(x, y int) {
	m.x, m.y = x, y
}

// Width returns the rendered width of the component
func (m *Model) Width() int {
	return m.width + 2
}

// OpenCmd asks the parent to open the overlay
func (m *Model) OpenCmd() tea.Cmd {
	return visibility.RequestOpenCmd(Source)
}

// CloseCmd asks the parent to close the overlay
func (m *Model) CloseCmd() tea.Cmd {
	return visibility.RequestCloseCmd(Source, visibility.ReasonExplicit)
}

// Settings returns the current query
func (m *Model) Settings() search.Settings {
	return m.service.Settings()
}

// Results returns the visible results
func (m *Model) Results() []search.Result {
	return m.service.Results()
}

// Cursor returns the index of the highlighted result
func (m *Model) Cursor() int {
	return m.cursor
}

// Refresh re-runs the current query, after the entities changed
func (m *Model) Refresh() {
	_ = m.service.Refresh()
	m.clampCursor()
}

// Update handles a message given the current active flag
func (m *Model) Update(msg tea.Msg, active bool) tea.Cmd {
	m.active = active
	focusCmd := m.syncFocus(active)
	if !active {
		return focusCmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		return tea.Batch(focusCmd, m.handleKey(key))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return tea.Batch(focusCmd, cmd)
}

func (m *Model) syncFocus(active bool) tea.Cmd {
	if active == m.focused {
		return nil
	}
	m.focused = active
	if active {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return m.CloseCmd()
	case "up", "shift+tab", "ctrl+p":
		m.moveCursor(-1)
		return nil
	case "down", "tab", "ctrl+n":
		m.moveCursor(1)
		return nil
	case "enter":
		return m.selectResult(m.cursor)
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.setQuery(value)
	}
	return cmd
}

// setQuery replaces the settings and filters synchronously
func (m *Model) setQuery(value string) {
	// the error only says the results were kept; the status line shows it
	_ = m.service.Update(search.Settings{SearchValue: value})
	m.cursor, m.offset = 0, 0
}

func (m *Model) moveCursor(delta int) {
	n := len(m.service.Results())
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
	m.scrollToCursor()
}

func (m *Model) clampCursor() {
	n := len(m.service.Results())
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	m.scrollToCursor()
}

func (m *Model) scrollToCursor() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.maxRows {
		m.offset = m.cursor - m.maxRows + 1
	}
	n := len(m.service.Results())
	if m.offset > max(0, n-m.maxRows) {
		m.offset = max(0, n-m.maxRows)
	}
}

func (m *Model) selectResult(i int) tea.Cmd {
	results := m.service.Results()
	if i < 0 || i >= len(results) {
		return nil
	}
	m.cursor = i
	m.scrollToCursor()
	r := results[i]
	m.zoom(r.Position)
	return func() tea.Msg {
		return EntitySelectedMsg{Result: r}
	}
}

// handlePointer reacts to clicks on the component itself. Clicks elsewhere
// are the outside detector's business.
func (m *Model) handlePointer(e pointer.Event) tea.Cmd {
	if e.Action != tea.MouseActionPress {
		return nil
	}

	if m.active && m.modalRegion().Contains(e.X, e.Y) {
		switch e.Button {
		case tea.MouseButtonWheelUp:
			m.moveCursor(-1)
			return nil
		case tea.MouseButtonWheelDown:
			m.moveCursor(1)
			return nil
		}
	}

	if !e.IsInteraction() {
		return nil
	}
	if m.barRegion().Contains(e.X, e.Y) {
		return m.OpenCmd()
	}
	if !m.active {
		return nil
	}
	if m.closeRegion().Contains(e.X, e.Y) {
		return m.CloseCmd()
	}
	if i, ok := m.rowAt(e.X, e.Y); ok {
		return m.selectResult(i)
	}
	return nil
}

func (m *Model) barRegion() pointer.Region {
	return pointer.Region{X: m.x, Y: m.y, Width: m.Width(), Height: barHeight}
}

func (m *Model) modalRegion() pointer.Region {
	return pointer.Region{X: m.x, Y: m.y + barHeight, Width: m.Width(), Height: m.modalHeight()}
}

func (m *Model) closeRegion() pointer.Region {
	return pointer.Region{X: m.x + m.Width() - 2 - len(closeLabel), Y: m.y + barHeight + 1, Width: len(closeLabel), Height: 1}
}

func (m *Model) visibleRows() int {
	n := len(m.service.Results())
	if n == 0 && m.service.Settings().SearchValue != "" {
		return 1 // "no matches"
	}
	return min(n, m.maxRows)
}

func (m *Model) modalHeight() int {
	return 2 + statusLines + m.visibleRows()
}

// rowAt maps a screen cell to a result index
func (m *Model) rowAt(x, y int) (int, bool) {
	if x <= m.x || x >= m.x+m.Width()-1 {
		return 0, false
	}
	row := y - (m.y + barHeight + 1 + statusLines)
	results := m.service.Results()
	if row < 0 || row >= min(len(results), m.maxRows) {
		return 0, false
	}
	return m.offset + row, true
}

// Region returns the screen cells covered by the component: the bar, plus
// the modal when active
func (m *Model) Region(active bool) pointer.Region {
	region := m.barRegion()
	if active {
		region = pointer.Union(region, m.modalRegion())
	}
	return region
}

// View renders the bar, and the modal below it when active
func (m *Model) View(active bool) string {
	m.active = active
	if !active {
		return m.renderBar(m.styles.SearchBar, m.collapsedText())
	}
	bar := m.renderBar(m.styles.SearchBarFocus, m.input.View())
	return lipgloss.JoinVertical(lipgloss.Left, bar, m.renderModal())
}

func (m *Model) collapsedText() string {
	if q := m.service.Settings().SearchValue; q != "" {
		return m.styles.Dim.Render(ansi.Truncate("/ "+q, m.width-2, "…"))
	}
	return m.styles.Dim.Render(ansi.Truncate("/ "+placeholder, m.width-2, "…"))
}

func (m *Model) renderBar(style lipgloss.Style, content string) string {
	return style.Width(m.width).Render(content)
}

func (m *Model) renderModal() string {
	inner := m.width - 2
	results := m.service.Results()

	status := m.styles.ResultHint.Render(m.status)
	if m.statusWarn {
		status = m.styles.StatusWarning.Render(m.status)
	}
	closeBtn := m.styles.CloseButton.Render(closeLabel)
	gap := inner - lipgloss.Width(status) - lipgloss.Width(closeBtn)
	lines := []string{status + strings.Repeat(" ", max(1, gap)) + closeBtn}

	if len(results) == 0 && m.service.Settings().SearchValue != "" {
		lines = append(lines, m.styles.Dim.Render("no matches"))
	}
	end := min(len(results), m.offset+m.maxRows)
	for i := m.offset; i < end; i++ {
		r := results[i]
		// rows are exactly one line tall, Region depends on it
		text := m.styles.KindTag(r.Kind) + " " + ansi.Truncate(r.Name, inner-7, "…")
		text = ansi.Truncate(text, inner, "")
		row := lipgloss.NewStyle().Width(inner).Render(text)
		if i == m.cursor {
			row = m.styles.ResultCursor.Render(row)
		}
		lines = append(lines, row)
	}
	return m.styles.SearchModal.Width(m.width).Render(strings.Join(lines, "\n"))
}
