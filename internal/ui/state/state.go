package state

import (
	"soturidash/internal/domain"
	"soturidash/internal/ui/services/visibility"
	"soturidash/internal/ui/views"
)

// AppState contains all the application state
type AppState struct {
	// Map state
	Viewport views.Viewport // what the map shows
	Home     views.Viewport // configured start view

	// Selection state
	Selected domain.Entity // entity whose card is shown, nil for none

	// Search overlay. The application model is the only writer.
	Search visibility.State

	// Server state
	Connection    domain.ConnectionState
	ServerVersion string

	// UI state
	StatusMessage string // status bar message
	StatusIsError bool
	statusID      int // bumped on every new status message
}

// NewAppState creates a new application state starting at home
func NewAppState(home views.Viewport) *AppState {
	home.Zoom = views.ClampZoom(home.Zoom)
	return &AppState{
		Viewport: home,
		Home:     home,
		Search:   visibility.Closed,
	}
}

// Selection operations

// Select shows the card of entity
func (s *AppState) Select(entity domain.Entity) {
	s.Selected = entity
}

// ClearSelection hides the card
func (s *AppState) ClearSelection() {
	s.Selected = nil
}

// HasSelection reports whether a card is shown
func (s *AppState) HasSelection() bool {
	return s.Selected != nil
}

// Map operations

// FlyTo centers the map on p, zooming in to at least FocusZoom
func (s *AppState) FlyTo(p domain.Position) {
	s.Viewport.Center = p
	s.Viewport.Zoom = views.ClampZoom(max(s.Viewport.Zoom, views.FocusZoom))
}

// ZoomBy changes the zoom level by delta within the supported range
func (s *AppState) ZoomBy(delta int) {
	s.Viewport.Zoom = views.ClampZoom(s.Viewport.Zoom + delta)
}

// Pan moves the map by dx columns and dy rows
func (s *AppState) Pan(dx, dy int) {
	s.Viewport = s.Viewport.Pan(dx, dy)
}

// Recenter moves the map to the selected entity, or home without one
func (s *AppState) Recenter() {
	if s.Selected != nil {
		s.Viewport.Center = s.Selected.Location()
		return
	}
	s.Viewport = s.Home
}

// SetHome replaces the configured start view. The current view is kept.
func (s *AppState) SetHome(home views.Viewport) {
	home.Zoom = views.ClampZoom(home.Zoom)
	s.Home = home
}

// Status operations

// SetStatus shows a status message and returns its id, which ClearStatus
// needs to clear it
func (s *AppState) SetStatus(message string, isError bool) int {
	s.statusID++
	s.StatusMessage = message
	s.StatusIsError = isError
	return s.statusID
}

// ClearStatus clears the message with the given id. A newer message is kept.
func (s *AppState) ClearStatus(id int) bool {
	if id != s.statusID {
		return false
	}
	s.StatusMessage = ""
	s.StatusIsError = false
	return true
}
